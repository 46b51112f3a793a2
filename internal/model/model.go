package model

import "time"

// EventRecord is one spreadsheet row: column name -> cell value.
// No schema is enforced; a missing column simply reads as "".
type EventRecord map[string]string

// Get returns the value for column or "" if absent.
func (r EventRecord) Get(column string) string {
	if r == nil {
		return ""
	}
	return r[column]
}

// Agenda is the ordered list of rows in source order.
type Agenda []EventRecord

// Clone returns a deep copy so callers can never mutate a published agenda.
func (a Agenda) Clone() Agenda {
	out := make(Agenda, len(a))
	for i, rec := range a {
		cp := make(EventRecord, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}

// Snapshot is a read-only view of the agenda store at a point in time.
type Snapshot struct {
	Agenda    Agenda    `json:"agenda"`
	Loading   bool      `json:"loading"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	// Source is the sheet ID the agenda came from.
	Source string `json:"source,omitempty"`
}

// Card is the display projection of an EventRecord.
type Card struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Weekday string `json:"weekday"`
	Period  string `json:"period"`
	Image   string `json:"image"`
	Link    string `json:"link"`
	// Recurrence is the raw recurrence cell, e.g. "semanal"; usually empty.
	Recurrence string `json:"recurrence,omitempty"`
}

// Title is the card heading: the name, or the date for sheets without a
// name column, then the first other non-empty field.
func (c Card) Title() string {
	for _, v := range []string{c.Name, c.Date, c.Weekday, c.Period, c.Time} {
		if v != "" {
			return v
		}
	}
	return ""
}
