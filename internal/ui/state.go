// Package ui holds the page-level state machine: active section, theme and
// the two menu flags. Transitions are pure; persistence lives in ThemeStore.
package ui

import (
	"fmt"
	"strings"
)

type Section string

const (
	SectionHome    Section = "home"
	SectionEvents  Section = "events"
	SectionAbout   Section = "about"
	SectionContact Section = "contact"
)

// Sections lists navigation targets in menu order.
var Sections = []Section{SectionHome, SectionEvents, SectionAbout, SectionContact}

// ParseSection accepts only the fixed set of anchors.
func ParseSection(s string) (Section, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", s)
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps anything but "dark" to light, so a Theme is always valid.
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(ThemeDark)) {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// State is the per-session UI state.
type State struct {
	Active      Section
	Theme       Theme
	MenuOpen    bool
	SidebarOpen bool
}

// Initial is the state of a fresh page: events in view, light theme.
func Initial() State {
	return State{Active: SectionEvents, Theme: ThemeLight}
}

// Navigate selects a section and closes any open menu.
func (s State) Navigate(sec Section) State {
	s.Active = sec
	s.MenuOpen = false
	s.SidebarOpen = false
	return s
}

func (s State) ToggleTheme() State {
	s.Theme = s.Theme.Opposite()
	return s
}

func (s State) ToggleMenu() State {
	s.MenuOpen = !s.MenuOpen
	return s
}

func (s State) ToggleSidebar() State {
	s.SidebarOpen = !s.SidebarOpen
	return s
}
