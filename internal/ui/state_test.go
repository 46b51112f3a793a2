package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSection(t *testing.T) {
	for _, sec := range Sections {
		got, err := ParseSection(string(sec))
		require.NoError(t, err)
		assert.Equal(t, sec, got)
	}
	got, err := ParseSection(" About ")
	require.NoError(t, err)
	assert.Equal(t, SectionAbout, got)

	_, err = ParseSection("pricing")
	assert.Error(t, err)
}

func TestNavigateClosesMenus(t *testing.T) {
	st := Initial().ToggleMenu().ToggleSidebar()
	require.True(t, st.MenuOpen)
	require.True(t, st.SidebarOpen)

	st = st.Navigate(SectionContact)
	assert.Equal(t, SectionContact, st.Active)
	assert.False(t, st.MenuOpen)
	assert.False(t, st.SidebarOpen)
}

func TestMenusAreIndependent(t *testing.T) {
	st := Initial().ToggleMenu()
	assert.True(t, st.MenuOpen)
	assert.False(t, st.SidebarOpen)
	assert.False(t, st.ToggleMenu().MenuOpen)
}

func TestThemeValues(t *testing.T) {
	assert.Equal(t, ThemeDark, ParseTheme("DARK"))
	assert.Equal(t, ThemeLight, ParseTheme(""))
	assert.Equal(t, ThemeLight, ParseTheme("sepia"))
	assert.Equal(t, ThemeLight, Initial().Theme)
}

func TestToggleThemeTwiceIsIdentity(t *testing.T) {
	st := Initial()
	assert.Equal(t, ThemeDark, st.ToggleTheme().Theme)
	assert.Equal(t, st, st.ToggleTheme().ToggleTheme())
}

func TestCookieThemeStoreRoundTrip(t *testing.T) {
	store := NewCookieThemeStore()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, ThemeLight, store.Load(req), "absent cookie means light")

	rec := httptest.NewRecorder()
	store.Save(rec, ThemeDark)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ThemeCookie, cookies[0].Name)
	assert.Equal(t, "dark", cookies[0].Value)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	assert.Equal(t, ThemeDark, store.Load(req))
}

func TestFromRequestAndHref(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?section=about&menu=1", nil)
	req.AddCookie(&http.Cookie{Name: ThemeCookie, Value: "dark"})

	st := FromRequest(req, NewCookieThemeStore())
	assert.Equal(t, State{Active: SectionAbout, Theme: ThemeDark, MenuOpen: true}, st)
	assert.Equal(t, "/?menu=1&section=about#about", st.Href())
	assert.Equal(t, "/?section=contact#contact", st.Navigate(SectionContact).Href())
	assert.Equal(t, "/#events", Initial().Href())

	req = httptest.NewRequest(http.MethodGet, "/?section=nowhere", nil)
	assert.Equal(t, SectionEvents, FromRequest(req, nil).Active)
}
