package render

import (
	"io"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

// text writes escaped character data.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with the value escaped.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// urlAttr writes a sanitized URL attribute.
func (h *htmlWriter) urlAttr(name, u string) {
	h.attr(name, string(templ.URL(u)))
}

func (h *htmlWriter) child(c templ.Component, render func(templ.Component) error) {
	if h.err != nil {
		return
	}
	h.err = render(c)
}

func classIf(ok bool, base, extra string) string {
	if ok {
		return base + " " + extra
	}
	return base
}
