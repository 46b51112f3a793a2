package render

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"eventflow/internal/contact"
	"eventflow/internal/model"
	"eventflow/internal/ui"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf strings.Builder
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func parse(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func byClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool { return hasClass(n, class) }
}

func TestEventsLoadingShowsIndicatorOnly(t *testing.T) {
	cards := []model.Card{{Name: "Show X"}}
	doc := parse(t, renderString(t, Events(true, cards)))

	assert.Len(t, findAll(doc, byClass("loading")), 1)
	assert.Empty(t, findAll(doc, byClass("event-card")))
	assert.Empty(t, findAll(doc, byClass("empty-state")))

	sec := findAll(doc, func(n *html.Node) bool { return attr(n, "id") == "events" })
	require.Len(t, sec, 1)
	assert.Equal(t, "false", attr(sec[0], "data-ready"))
}

func TestEventsEmptyState(t *testing.T) {
	doc := parse(t, renderString(t, Events(false, nil)))

	assert.Len(t, findAll(doc, byClass("empty-state")), 1)
	assert.Empty(t, findAll(doc, byClass("loading")))
	assert.Empty(t, findAll(doc, byClass("event-card")))
}

func TestEventsScenarioTwoCardsInOrder(t *testing.T) {
	agenda := model.Agenda{
		{"Nome do evento": "Show X", "Data do evento": "2025-10-01"},
		{"Nome do evento": "Show Y", "Data do evento": "2025-10-02"},
	}
	doc := parse(t, renderString(t, Events(false, Cards(agenda, Columns{}, placeholder))))

	cards := findAll(doc, byClass("event-card"))
	require.Len(t, cards, 2)
	assert.Equal(t, "Show X", textOf(findAll(cards[0], byClass("event-name"))[0]))
	assert.Equal(t, "Show Y", textOf(findAll(cards[1], byClass("event-name"))[0]))
	assert.Contains(t, textOf(cards[0]), "2025-10-01")

	sec := findAll(doc, func(n *html.Node) bool { return attr(n, "id") == "events" })
	assert.Equal(t, "true", attr(sec[0], "data-ready"))
}

func TestCardMarkup(t *testing.T) {
	c := model.Card{
		Name:    "<b>Show</b>",
		Date:    "2025-10-01",
		Time:    "20h",
		Weekday: "quarta",
		Period:  "Noite",
		Image:   placeholder,
		Link:    "https://sympla.example/show",
	}
	out := renderString(t, Card(c))
	assert.NotContains(t, out, "<b>Show</b>", "names are escaped")

	doc := parse(t, out)
	links := findAll(doc, byClass("event-link"))
	require.Len(t, links, 1)
	assert.Equal(t, "https://sympla.example/show", attr(links[0], "href"))
	assert.Equal(t, "_blank", attr(links[0], "target"))
	assert.Equal(t, "noopener noreferrer", attr(links[0], "rel"))

	imgs := findAll(doc, byClass("event-image"))
	require.Len(t, imgs, 1)
	assert.Equal(t, placeholder, attr(imgs[0], "src"))

	assert.Len(t, findAll(doc, byClass("period")), 1)
}

func TestCardRejectsScriptURL(t *testing.T) {
	doc := parse(t, renderString(t, Card(model.Card{Link: "javascript:alert(1)"})))
	links := findAll(doc, byClass("event-link"))
	require.Len(t, links, 1)
	assert.NotContains(t, attr(links[0], "href"), "javascript")
}

func TestNavMarksActiveSection(t *testing.T) {
	st := ui.Initial().Navigate(ui.SectionAbout).ToggleMenu()
	doc := parse(t, renderString(t, Nav("EventFlow", st)))

	active := findAll(doc, byClass("active"))
	require.Len(t, active, 1)
	assert.Equal(t, "about", attr(active[0], "data-section"))
	assert.Equal(t, "page", attr(active[0], "aria-current"))

	menus := findAll(doc, func(n *html.Node) bool { return attr(n, "id") == "main-menu" })
	require.Len(t, menus, 1)
	assert.True(t, hasClass(menus[0], "open"))

	// nav links close the menu as a side effect
	for _, a := range findAll(doc, byClass("nav-link")) {
		assert.NotContains(t, attr(a, "href"), "menu=1")
	}
}

func TestPageThemeAttribute(t *testing.T) {
	st := ui.Initial().ToggleTheme()
	doc := parse(t, renderString(t, Page(PageData{Site: Site{Title: "EventFlow"}, State: st, Loading: true})))

	htmlEl := findAll(doc, func(n *html.Node) bool { return n.Data == "html" })
	require.Len(t, htmlEl, 1)
	assert.Equal(t, "dark", attr(htmlEl[0], "data-theme"))
	assert.Equal(t, "pt-BR", attr(htmlEl[0], "lang"))

	for _, id := range []string{"home", "events", "about", "contact"} {
		assert.Len(t, findAll(doc, func(n *html.Node) bool { return attr(n, "id") == id }), 1, id)
	}
}

func TestContactErrorsAndAck(t *testing.T) {
	form := ContactForm{
		Input:  contact.Input{Name: "A", Email: "x"},
		Errors: contact.FieldErrors{contact.FieldName: "curto demais"},
	}
	doc := parse(t, renderString(t, Contact(form, "")))

	errs := findAll(doc, byClass("field-error"))
	require.Len(t, errs, 1)
	assert.Equal(t, "curto demais", textOf(errs[0]))
	assert.Equal(t, "contact-name-error", attr(errs[0], "id"))

	inputs := findAll(doc, func(n *html.Node) bool { return attr(n, "id") == "contact-email" })
	require.Len(t, inputs, 1)
	assert.Equal(t, "x", attr(inputs[0], "value"))

	doc = parse(t, renderString(t, Contact(ContactForm{Acknowledged: "ok!"}, "oi@example.com")))
	ack := findAll(doc, byClass("form-ack"))
	require.Len(t, ack, 1)
	assert.Equal(t, "ok!", textOf(ack[0]))
	assert.Empty(t, findAll(doc, byClass("field-error")))
}

func TestCardKeepsNonHTTPImage(t *testing.T) {
	const img = "data:image/png;base64,AAAA"
	doc := parse(t, renderString(t, Card(model.Card{Name: "Show", Image: img, Link: "https://x.example"})))

	imgs := findAll(doc, byClass("event-image"))
	require.Len(t, imgs, 1)
	assert.Equal(t, img, attr(imgs[0], "src"))
}

func TestCardWithoutLinkHasNoAnchor(t *testing.T) {
	doc := parse(t, renderString(t, Card(model.Card{Name: "Show", Image: placeholder})))
	assert.Empty(t, findAll(doc, byClass("event-link")))
	assert.Empty(t, findAll(doc, func(n *html.Node) bool { return n.Data == "a" }))
}

func TestCardHeadingFallsBackToDate(t *testing.T) {
	agenda := model.Agenda{
		{"data": "01/10/2025", "dia da semana": "quarta", "periodo": "Noite", "link": "https://x.example"},
	}
	cards := Cards(agenda, Columns{}, placeholder)
	require.Len(t, cards, 1)
	doc := parse(t, renderString(t, Card(cards[0])))

	names := findAll(doc, byClass("event-name"))
	require.Len(t, names, 1)
	assert.Equal(t, "01/10/2025", textOf(names[0]))
	assert.Equal(t, "01/10/2025", attr(findAll(doc, byClass("event-image"))[0], "alt"))
}
