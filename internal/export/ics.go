// Package export turns the agenda into an iCalendar feed so visitors can
// subscribe to the events in their own calendar app.
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "eventflow/internal/log"
	"eventflow/internal/model"
)

const (
	productID          = "-//EventFlow//Agenda//PT"
	defaultEventLength = 2 * time.Hour
)

// Options controls the feed.
type Options struct {
	Name        string
	Location    *time.Location
	EventLength time.Duration
	// Now stamps DTSTAMP; tests pin it.
	Now time.Time
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) eventLength() time.Duration {
	if o.EventLength <= 0 {
		return defaultEventLength
	}
	return o.EventLength
}

// span is the first occurrence of a card.
type span struct {
	Start, End time.Time
	AllDay     bool
}

func spanOf(c model.Card, loc *time.Location, length time.Duration) (span, bool) {
	day, err := ParseDate(c.Date, loc)
	if err != nil {
		return span{}, false
	}
	if h, m, ok := ParseClock(c.Time); ok {
		start := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc)
		return span{Start: start, End: start.Add(length)}, true
	}
	return span{Start: day, End: day.AddDate(0, 0, 1), AllDay: true}, true
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"02-01-2006",
}

var timePattern = regexp.MustCompile(`^(\d{1,2})\s*(?:[:hH]\s*(\d{2})?)?$`)

// ParseDate reads the date formats seen in the sheet (ISO and day-first).
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date " + strconv.Quote(s))
}

// ParseClock reads "20:30", "20h30", "20h" or "20" into hours and minutes.
func ParseClock(s string) (int, int, bool) {
	m := timePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	h, _ := strconv.Atoi(m[1])
	min := 0
	if m[2] != "" {
		min, _ = strconv.Atoi(m[2])
	}
	if h > 23 || min > 59 {
		return 0, 0, false
	}
	return h, min, true
}

// Calendar builds an iCalendar from cards. Cards without a parseable date
// are skipped; cards without a parseable time become all-day events.
func Calendar(cards []model.Card, opts Options) *ical.Calendar {
	loc, length := opts.location(), opts.eventLength()
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if opts.Name != "" {
		cal.SetName(opts.Name)
		cal.SetXWRCalName(opts.Name)
	}
	cal.SetXWRTimezone(loc.String())

	skipped := 0
	for i, c := range cards {
		span, ok := spanOf(c, loc, length)
		if !ok {
			skipped++
			continue
		}

		ev := cal.AddEvent(eventUID(i, c))
		ev.SetDtStampTime(now.UTC())
		ev.SetSummary(c.Title())

		if span.AllDay {
			ev.SetAllDayStartAt(span.Start)
			ev.SetAllDayEndAt(span.End)
		} else {
			ev.SetStartAt(span.Start)
			ev.SetEndAt(span.End)
		}

		if c.Recurrence != "" {
			rule, err := ParseRecurrence(c.Recurrence)
			if err != nil {
				appLog.Warn("ignoring unrecognized recurrence", err, "event", c.Name, "value", c.Recurrence)
			} else {
				ev.AddProperty(ical.ComponentPropertyRrule, rule)
			}
		}

		if c.Link != "" {
			ev.SetURL(c.Link)
		}
		var desc []string
		if c.Weekday != "" {
			desc = append(desc, "Dia: "+c.Weekday)
		}
		if c.Period != "" {
			desc = append(desc, "Período: "+c.Period)
		}
		if c.Link != "" {
			desc = append(desc, "Inscrição: "+c.Link)
		}
		if len(desc) > 0 {
			ev.SetDescription(strings.Join(desc, "\n"))
		}
	}

	if skipped > 0 {
		appLog.Debug("ics export skipped cards without a date", "skipped", skipped, "total", len(cards))
	}
	return cal
}

// Write serializes the feed for cards to w.
func Write(w io.Writer, cards []model.Card, opts Options) error {
	_, err := io.WriteString(w, Calendar(cards, opts).Serialize())
	return err
}

// eventUID is stable across refreshes while the row keeps its position
// and content.
func eventUID(i int, c model.Card) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{strconv.Itoa(i), c.Name, c.Date, c.Time, c.Link}, "\x1f")))
	return hex.EncodeToString(sum[:8]) + "@eventflow"
}
