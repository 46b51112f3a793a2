package render

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"eventflow/internal/contact"
	"eventflow/internal/model"
	"eventflow/internal/ui"
)

// Site is the static copy shown around the agenda.
type Site struct {
	Title        string
	Tagline      string
	ContactEmail string
	Lang         string
}

// ContactForm is the render state of the contact section.
type ContactForm struct {
	Input        contact.Input
	Errors       contact.FieldErrors
	Acknowledged string
}

// PageData is everything Page needs for one response.
type PageData struct {
	Site    Site
	State   ui.State
	Loading bool
	Cards   []model.Card
	Contact ContactForm
}

var sectionLabels = map[ui.Section]string{
	ui.SectionHome:    "Início",
	ui.SectionEvents:  "Eventos",
	ui.SectionAbout:   "Sobre",
	ui.SectionContact: "Contato",
}

// Page renders the full landing page.
func Page(d PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		render := func(c templ.Component) error { return c.Render(ctx, w) }

		lang := d.Site.Lang
		if lang == "" {
			lang = "pt-BR"
		}
		h.raw("<!DOCTYPE html><html")
		h.attr("lang", lang)
		h.attr("data-theme", string(d.State.Theme))
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(d.Site.Title)
		h.raw(`</title><link rel="stylesheet" href="/static/app.css"><script src="/static/app.js" defer></script></head><body>`)

		h.child(Nav(d.Site.Title, d.State), render)

		h.raw(`<main>`)
		h.raw(`<section id="home" class="hero"><h1>`)
		h.text(d.Site.Title)
		h.raw(`</h1><p class="tagline">`)
		h.text(d.Site.Tagline)
		h.raw(`</p><a class="btn btn-primary"`)
		h.attr("href", d.State.Navigate(ui.SectionEvents).Href())
		h.raw(`>Ver agenda</a></section>`)

		h.child(Events(d.Loading, d.Cards), render)

		h.raw(`<section id="about" class="about"><h2>Sobre</h2><p>`)
		h.text(d.Site.Title)
		h.raw(` reúne a agenda de eventos publicada pela equipe em uma planilha compartilhada. Os cartões são atualizados a partir da planilha, sem cadastro.</p></section>`)

		h.child(Contact(d.Contact, d.Site.ContactEmail), render)
		h.raw(`</main><footer class="footer"><p>&copy; `)
		h.text(d.Site.Title)
		h.raw(`</p></footer></body></html>`)
		return h.err
	})
}

// Nav renders the header with section links, theme toggle and menu toggles.
func Nav(title string, st ui.State) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<header class="navbar"><a class="brand"`)
		h.attr("href", st.Navigate(ui.SectionHome).Href())
		h.raw(`>`)
		h.text(title)
		h.raw(`</a>`)

		h.raw(`<a class="menu-toggle" data-toggle="menu"`)
		h.attr("href", st.ToggleMenu().Href())
		h.attr("aria-expanded", strconv.FormatBool(st.MenuOpen))
		h.raw(` aria-controls="main-menu">Menu</a>`)

		h.raw(`<nav id="main-menu"`)
		h.attr("class", classIf(st.MenuOpen, "menu", "open"))
		h.raw(`><ul>`)
		for _, sec := range ui.Sections {
			active := st.Active == sec
			h.raw(`<li><a`)
			h.attr("href", st.Navigate(sec).Href())
			h.attr("class", classIf(active, "nav-link", "active"))
			h.attr("data-section", string(sec))
			if active {
				h.raw(` aria-current="page"`)
			}
			h.raw(`>`)
			h.text(sectionLabels[sec])
			h.raw(`</a></li>`)
		}
		h.raw(`</ul></nav>`)

		h.raw(`<a class="sidebar-toggle" data-toggle="sidebar"`)
		h.attr("href", st.ToggleSidebar().Href())
		h.attr("aria-expanded", strconv.FormatBool(st.SidebarOpen))
		h.raw(`>Filtros</a>`)
		h.raw(`<aside id="sidebar"`)
		h.attr("class", classIf(st.SidebarOpen, "sidebar", "open"))
		h.raw(`><ul>`)
		for _, sec := range ui.Sections {
			h.raw(`<li><a`)
			h.attr("href", st.Navigate(sec).Href())
			h.raw(`>`)
			h.text(sectionLabels[sec])
			h.raw(`</a></li>`)
		}
		h.raw(`</ul></aside>`)

		h.raw(`<form class="theme-toggle" method="post" action="/theme"><input type="hidden" name="return"`)
		h.attr("value", st.Href())
		h.raw(`><button type="submit"`)
		h.attr("data-theme-next", string(st.Theme.Opposite()))
		h.raw(`>`)
		if st.Theme == ui.ThemeDark {
			h.raw(`Modo claro`)
		} else {
			h.raw(`Modo escuro`)
		}
		h.raw(`</button></form></header>`)
		return h.err
	})
}

// Events renders the agenda section. While loading only the indicator is
// shown; afterwards either the empty state or one card per entry, in order.
func Events(loading bool, cards []model.Card) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="events" class="events"`)
		h.attr("data-ready", strconv.FormatBool(!loading))
		h.raw(`><h2>Agenda</h2>`)

		switch {
		case loading:
			h.raw(`<div class="loading" role="status" aria-live="polite"><span class="spinner"></span>Carregando eventos...</div>`)
		case len(cards) == 0:
			h.raw(`<p class="empty-state">Nenhum evento encontrado no momento.</p>`)
		default:
			h.raw(`<div class="cards">`)
			for _, c := range cards {
				h.child(Card(c), func(cc templ.Component) error { return cc.Render(ctx, w) })
			}
			h.raw(`</div>`)
		}
		h.raw(`</section>`)
		return h.err
	})
}

// Card renders one event card. The image value is written as given (data:
// URIs included); only the registration link is URL-sanitized, and it is
// left out when the row has none.
func Card(c model.Card) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		title := c.Title()
		h.raw(`<article class="event-card"><img class="event-image"`)
		h.attr("src", c.Image)
		h.attr("alt", title)
		h.raw(` loading="lazy"><div class="event-body">`)
		if c.Period != "" {
			h.raw(`<span class="badge period">`)
			h.text(c.Period)
			h.raw(`</span>`)
		}
		h.raw(`<h3 class="event-name">`)
		h.text(title)
		h.raw(`</h3><ul class="event-meta">`)
		h.raw(`<li class="event-date"><strong>Data:</strong> `)
		h.text(c.Date)
		h.raw(`</li><li class="event-time"><strong>Horário:</strong> `)
		h.text(c.Time)
		h.raw(`</li><li class="event-weekday"><strong>Dia:</strong> `)
		h.text(c.Weekday)
		h.raw(`</li></ul>`)
		if c.Link != "" {
			h.raw(`<a class="btn event-link" target="_blank" rel="noopener noreferrer"`)
			h.urlAttr("href", c.Link)
			h.raw(`>Inscreva-se</a>`)
		}
		h.raw(`</div></article>`)
		return h.err
	})
}

var fieldLabels = map[contact.Field]string{
	contact.FieldName:    "Nome",
	contact.FieldEmail:   "E-mail",
	contact.FieldSubject: "Assunto",
	contact.FieldMessage: "Mensagem",
}

// Contact renders the contact form with per-field errors and the
// acknowledgment banner after a successful submission.
func Contact(f ContactForm, email string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="contact" class="contact"><h2>Contato</h2>`)
		if email != "" {
			h.raw(`<p>Ou escreva para <a`)
			h.urlAttr("href", "mailto:"+email)
			h.raw(`>`)
			h.text(email)
			h.raw(`</a>.</p>`)
		}
		if f.Acknowledged != "" {
			h.raw(`<div class="form-ack" role="status">`)
			h.text(f.Acknowledged)
			h.raw(`</div>`)
		}
		h.raw(`<form class="contact-form" method="post" action="/contact#contact" novalidate>`)
		for _, field := range contact.Fields {
			name := string(field)
			msg := f.Errors[field]
			h.raw(`<div`)
			h.attr("class", classIf(msg != "", "field", "has-error"))
			h.raw(`><label`)
			h.attr("for", "contact-"+name)
			h.raw(`>`)
			h.text(fieldLabels[field])
			h.raw(`</label>`)
			if field == contact.FieldMessage {
				h.raw(`<textarea rows="5"`)
			} else {
				h.raw(`<input`)
				if field == contact.FieldEmail {
					h.attr("type", "email")
				} else {
					h.attr("type", "text")
				}
				h.attr("value", f.Input.Value(field))
			}
			h.attr("id", "contact-"+name)
			h.attr("name", name)
			h.raw(` required`)
			if msg != "" {
				h.raw(` aria-invalid="true"`)
				h.attr("aria-describedby", "contact-"+name+"-error")
			}
			h.raw(`>`)
			if field == contact.FieldMessage {
				h.text(f.Input.Message)
				h.raw(`</textarea>`)
			}
			if msg != "" {
				h.raw(`<p class="field-error"`)
				h.attr("id", "contact-"+name+"-error")
				h.raw(`>`)
				h.text(msg)
				h.raw(`</p>`)
			}
			h.raw(`</div>`)
		}
		h.raw(`<button type="submit" class="btn btn-primary">Enviar</button></form></section>`)
		return h.err
	})
}
