package ui

import (
	"net/http"
	"net/url"
	"time"
)

// ThemeCookie is the persisted theme key.
const ThemeCookie = "eventflow_theme"

// ThemeStore persists the theme preference across page loads.
type ThemeStore interface {
	Load(r *http.Request) Theme
	Save(w http.ResponseWriter, t Theme)
}

// CookieThemeStore keeps the theme in a long-lived cookie, the server-side
// counterpart of browser local storage.
type CookieThemeStore struct {
	MaxAge time.Duration
	Secure bool
}

func NewCookieThemeStore() *CookieThemeStore {
	return &CookieThemeStore{MaxAge: 365 * 24 * time.Hour}
}

// Load returns the stored theme; absent or unknown values mean light.
func (c *CookieThemeStore) Load(r *http.Request) Theme {
	ck, err := r.Cookie(ThemeCookie)
	if err != nil {
		return ThemeLight
	}
	return ParseTheme(ck.Value)
}

func (c *CookieThemeStore) Save(w http.ResponseWriter, t Theme) {
	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookie,
		Value:    string(ParseTheme(string(t))),
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: false, // the toggle script reads it to avoid a flash on load
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest rebuilds the UI state from the query string and theme store.
// Unknown sections fall back to the initial one.
func FromRequest(r *http.Request, store ThemeStore) State {
	st := Initial()
	q := r.URL.Query()
	if sec, err := ParseSection(q.Get("section")); err == nil {
		st.Active = sec
	}
	st.MenuOpen = q.Get("menu") == "1"
	st.SidebarOpen = q.Get("sidebar") == "1"
	if store != nil {
		st.Theme = store.Load(r)
	}
	return st
}

// Query encodes the transient parts of the state (theme is persisted
// separately).
func (s State) Query() url.Values {
	q := url.Values{}
	if s.Active != "" && s.Active != SectionEvents {
		q.Set("section", string(s.Active))
	}
	if s.MenuOpen {
		q.Set("menu", "1")
	}
	if s.SidebarOpen {
		q.Set("sidebar", "1")
	}
	return q
}

// Href returns the link for state s, anchored at its active section.
func (s State) Href() string {
	h := "/"
	if q := s.Query(); len(q) > 0 {
		h += "?" + q.Encode()
	}
	return h + "#" + string(s.Active)
}
