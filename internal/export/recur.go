package export

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	appLog "eventflow/internal/log"
	"eventflow/internal/model"
	"eventflow/internal/render"
)

const maxOccurrencesPerEvent = 500

// Words accepted in the recurrence column besides raw RRULE text. Keys
// are in render.NormalizeKey form.
var recurrenceWords = map[string]string{
	"diario":    "FREQ=DAILY",
	"daily":     "FREQ=DAILY",
	"semanal":   "FREQ=WEEKLY",
	"weekly":    "FREQ=WEEKLY",
	"quinzenal": "FREQ=WEEKLY;INTERVAL=2",
	"biweekly":  "FREQ=WEEKLY;INTERVAL=2",
	"mensal":    "FREQ=MONTHLY",
	"monthly":   "FREQ=MONTHLY",
	"anual":     "FREQ=YEARLY",
	"yearly":    "FREQ=YEARLY",
}

// ParseRecurrence turns a recurrence cell ("semanal", "FREQ=WEEKLY;COUNT=4"
// or "RRULE:FREQ=...") into RRULE value text. An empty or "não"/"no" cell
// is not an error and yields "".
func ParseRecurrence(s string) (string, error) {
	key := render.NormalizeKey(s)
	switch key {
	case "", "nao", "no", "none", "-":
		return "", nil
	}
	if rule, ok := recurrenceWords[key]; ok {
		return rule, nil
	}

	rule := strings.TrimSpace(s)
	if len(rule) > 6 && strings.EqualFold(rule[:6], "RRULE:") {
		rule = rule[6:]
	}
	rule = strings.ToUpper(rule)
	if _, err := rrule.StrToRRule(rule); err != nil {
		return "", fmt.Errorf("recurrence %q: %w", s, err)
	}
	return rule, nil
}

// Occurrence is one concrete instance of a card on the calendar.
type Occurrence struct {
	Name   string    `json:"name"`
	Link   string    `json:"link,omitempty"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	AllDay bool      `json:"all_day"`
}

// Occurrences lists every instance of cards that starts within
// [from, to], expanding recurring cards, ordered by start time. Cards
// without a parseable date are skipped, and a card whose recurrence
// cannot be read counts as a single event.
func Occurrences(cards []model.Card, opts Options, from, to time.Time) ([]Occurrence, error) {
	if to.Before(from) {
		return nil, errors.New("occurrences: range end is before range start")
	}
	loc, length := opts.location(), opts.eventLength()

	out := make([]Occurrence, 0, len(cards))
	for _, c := range cards {
		sp, ok := spanOf(c, loc, length)
		if !ok {
			continue
		}

		rule, err := ParseRecurrence(c.Recurrence)
		if err != nil {
			appLog.Warn("ignoring unrecognized recurrence", err, "event", c.Name)
			rule = ""
		}
		if rule == "" {
			if !sp.Start.Before(from) && !sp.Start.After(to) {
				out = append(out, occurrence(c, sp.Start, sp))
			}
			continue
		}

		r, err := rrule.StrToRRule(rule)
		if err != nil {
			continue
		}
		r.DTStart(sp.Start)

		var set rrule.Set
		set.RRule(r)
		starts := set.Between(from.In(loc), to.In(loc), true)
		if len(starts) > maxOccurrencesPerEvent {
			appLog.Warn("recurrence truncated", nil, "event", c.Name, "cap", maxOccurrencesPerEvent)
			starts = starts[:maxOccurrencesPerEvent]
		}
		for _, st := range starts {
			out = append(out, occurrence(c, st, sp))
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func occurrence(c model.Card, start time.Time, first span) Occurrence {
	end := start.Add(first.End.Sub(first.Start))
	if first.AllDay {
		end = start.AddDate(0, 0, 1)
	}
	return Occurrence{
		Name:   c.Title(),
		Link:   c.Link,
		Start:  start,
		End:    end,
		AllDay: first.AllDay,
	}
}
