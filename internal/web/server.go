package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"eventflow/internal/agenda"
	"eventflow/internal/config"
	"eventflow/internal/contact"
	"eventflow/internal/export"
	appLog "eventflow/internal/log"
	"eventflow/internal/model"
	"eventflow/internal/render"
	"eventflow/internal/ui"
)

// embeddedStatic holds the stylesheet, the enhancement script and the
// placeholder image served under /static/.
//
//go:embed all:static
var embeddedStatic embed.FS

// Server renders the landing page and its JSON/ICS views from the agenda
// store. UI state comes from each request; only the theme is persisted.
type Server struct {
	cfg    *config.Config
	store  *agenda.Store
	themes ui.ThemeStore
	hub    *Hub
	mux    *http.ServeMux

	columns   render.Columns
	exportLoc *time.Location
	now       func() time.Time
}

// NewServer constructs a Server and subscribes its live hub to the store.
func NewServer(cfg *config.Config, store *agenda.Store) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		themes:    ui.NewCookieThemeStore(),
		hub:       NewHub(),
		mux:       http.NewServeMux(),
		columns:   columnsFromConfig(cfg.Site.Columns),
		exportLoc: resolveLocationOrLocal(cfg.Export.Timezone),
		now:       time.Now,
	}
	s.hub.SetGreeting(func() []byte { return agendaMessage(s.store.Snapshot()) })
	store.Subscribe(func(snap model.Snapshot) {
		s.hub.Broadcast(agendaMessage(snap))
	})
	s.registerRoutes()
	return s
}

// Handler returns the root handler with request logging and panic recovery.
func (s *Server) Handler() http.Handler {
	return recoverPanics(logRequests(s.mux))
}

// Hub exposes the live-update hub (used for shutdown).
func (s *Server) Hub() *Hub {
	return s.hub
}

// StartServer serves until ctx is cancelled, then shuts down gracefully.
func StartServer(ctx context.Context, cfg *config.Config, s *Server) error {
	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	appLog.Info("HTTP server stopped")
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /events", s.handleEventsFragment)
	s.mux.HandleFunc("GET /api/agenda", s.handleAgenda)
	s.mux.HandleFunc("GET /agenda.ics", s.handleICS)
	s.mux.HandleFunc("GET /api/occurrences", s.handleOccurrences)
	s.mux.HandleFunc("POST /theme", s.handleTheme)
	s.mux.HandleFunc("POST /contact", s.handleContact)
	s.mux.HandleFunc("POST /api/contact", s.handleContactAPI)
	s.mux.HandleFunc("GET /ws", s.hub.ServeWS)
	s.mux.HandleFunc("GET /preview.png", s.handlePreview)
	s.mux.Handle("GET /static/", s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// site is the page chrome. The copy is Portuguese, so lang follows the
// configured locale rather than the visitor's Accept-Language.
func (s *Server) site() render.Site {
	return render.Site{
		Title:        s.cfg.Site.Title,
		Tagline:      s.cfg.Site.Tagline,
		ContactEmail: s.cfg.Site.ContactEmail,
		Lang:         s.cfg.Site.Locale,
	}
}

func (s *Server) pageLang() language.Tag {
	return contact.MatchLanguage("", s.cfg.Site.Locale)
}

func (s *Server) lang(r *http.Request) language.Tag {
	return contact.MatchLanguage(r.Header.Get("Accept-Language"), s.cfg.Site.Locale)
}

func (s *Server) cards(snap model.Snapshot) []model.Card {
	return render.Cards(snap.Agenda, s.columns, s.cfg.Site.PlaceholderImage)
}

func (s *Server) page(st ui.State, form render.ContactForm) templ.Component {
	snap := s.store.Snapshot()
	return render.Page(render.PageData{
		Site:    s.site(),
		State:   st,
		Loading: snap.Loading,
		Cards:   s.cards(snap),
		Contact: form,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	st := ui.FromRequest(r, s.themes)
	s.renderHTML(w, r, http.StatusOK, s.page(st, render.ContactForm{}))
}

func (s *Server) handleEventsFragment(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	s.renderHTML(w, r, http.StatusOK, render.Events(snap.Loading, s.cards(snap)))
}

// agendaResponse is the JSON shape for /api/agenda.
type agendaResponse struct {
	Loading   bool         `json:"loading"`
	UpdatedAt *time.Time   `json:"updated_at,omitempty"`
	Count     int          `json:"count"`
	Agenda    model.Agenda `json:"agenda"`
	Cards     []model.Card `json:"cards"`
}

func (s *Server) handleAgenda(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	resp := agendaResponse{
		Loading: snap.Loading,
		Count:   len(snap.Agenda),
		Agenda:  snap.Agenda,
		Cards:   s.cards(snap),
	}
	if !snap.UpdatedAt.IsZero() {
		resp.UpdatedAt = &snap.UpdatedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	err := export.Write(w, s.cards(snap), s.exportOptions())
	if err != nil {
		appLog.Error("failed to write ICS feed", err)
	}
}

const (
	defaultHorizonDays = 90
	maxHorizonDays     = 366
)

// handleOccurrences lists event instances from now through ?days= days,
// with recurring rows expanded.
func (s *Server) handleOccurrences(w http.ResponseWriter, r *http.Request) {
	days := defaultHorizonDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxHorizonDays {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 366")
			return
		}
		days = n
	}

	snap := s.store.Snapshot()
	from := s.now().In(s.exportLoc)
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, s.exportLoc)
	occ, err := export.Occurrences(s.cards(snap), s.exportOptions(), from, from.AddDate(0, 0, days))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"loading":     snap.Loading,
		"from":        from,
		"days":        days,
		"occurrences": occ,
	})
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	next := ui.State{Theme: s.themes.Load(r)}.ToggleTheme().Theme
	s.themes.Save(w, next)

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]string{"theme": string(next)})
		return
	}
	http.Redirect(w, r, safeReturn(r.FormValue("return")), http.StatusSeeOther)
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	in := contact.Input{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Subject: r.PostForm.Get("subject"),
		Message: r.PostForm.Get("message"),
	}
	// messages sit inside the page, so they follow the page language
	res := contact.Submit(in, s.pageLang())

	st := ui.FromRequest(r, s.themes).Navigate(ui.SectionContact)
	form := render.ContactForm{Input: res.Input, Errors: res.Errors, Acknowledged: res.Message}
	status := http.StatusOK
	if !res.OK {
		status = http.StatusUnprocessableEntity
	}
	s.renderHTML(w, r, status, s.page(st, form))
}

func (s *Server) handleContactAPI(w http.ResponseWriter, r *http.Request) {
	var in contact.Input
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	res := contact.Submit(in, s.lang(r))
	status := http.StatusOK
	if !res.OK {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}

// handlePreview serves the last captured PNG from the capture directory.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.cfg.CaptureDir, "preview.png"))
}

func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static assets not available", http.StatusServiceUnavailable)
		})
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

func (s *Server) renderHTML(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		appLog.Error("render failed", err, "path", r.URL.Path)
	}
}

func (s *Server) exportOptions() export.Options {
	return export.Options{
		Name:        s.cfg.Site.Title,
		Location:    s.exportLoc,
		EventLength: s.cfg.Export.EventLength,
	}
}

func columnsFromConfig(c config.ColumnsConfig) render.Columns {
	return render.Columns{
		Name:    c.Name,
		Date:    c.Date,
		Time:    c.Time,
		Weekday: c.Weekday,
		Period:  c.Period,
		Image:   c.Image,
		Link:    c.Link,

		Recurrence: c.Recurrence,
	}
}

// safeReturn only allows same-site relative paths as redirect targets.
func safeReturn(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
