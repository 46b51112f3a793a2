package render

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"eventflow/internal/model"
)

// Columns pins card fields to exact sheet column names. Empty fields use
// the alias lists below.
type Columns struct {
	Name    string
	Date    string
	Time    string
	Weekday string
	Period  string
	Image   string
	Link    string

	Recurrence string
}

// Column headers drifted between sheet revisions ("Periodo" vs "Período",
// "dia da semana" vs "Dia da Semana"), so lookups fall back to a folded
// form of the header. Aliases are stored already normalized.
var (
	nameAliases    = []string{"nome do evento", "nome", "evento", "titulo", "event", "event name", "name", "title"}
	dateAliases    = []string{"data do evento", "data", "date", "event date"}
	timeAliases    = []string{"horario", "hora", "horario do evento", "time"}
	weekdayAliases = []string{"dia da semana", "dia", "weekday", "day of week", "day"}
	periodAliases  = []string{"periodo", "turno", "sessao", "period", "session"}
	imageAliases   = []string{"imagem", "url da imagem", "foto", "image", "image url"}
	linkAliases    = []string{"link", "link de inscricao", "inscricao", "url", "registration", "registration link"}
	recurAliases   = []string{"recorrencia", "repeticao", "repete", "frequencia", "recurrence", "repeat", "rrule"}
)

// NormalizeKey folds case, strips diacritics and collapses separators.
func NormalizeKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = cases.Fold().String(out)
	out = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return r
	}, out)
	return strings.Join(strings.Fields(out), " ")
}

// Cards maps an agenda to display cards, one per record, preserving order.
// An empty image value is replaced by placeholder; any other value is
// passed through unchanged.
func Cards(a model.Agenda, cols Columns, placeholder string) []model.Card {
	cards := make([]model.Card, 0, len(a))
	for _, rec := range a {
		idx := normalizedIndex(rec)
		card := model.Card{
			Name:    lookup(rec, idx, cols.Name, nameAliases),
			Date:    lookup(rec, idx, cols.Date, dateAliases),
			Time:    lookup(rec, idx, cols.Time, timeAliases),
			Weekday: lookup(rec, idx, cols.Weekday, weekdayAliases),
			Period:  lookup(rec, idx, cols.Period, periodAliases),
			Image:   lookup(rec, idx, cols.Image, imageAliases),
			Link:    lookup(rec, idx, cols.Link, linkAliases),

			Recurrence: lookup(rec, idx, cols.Recurrence, recurAliases),
		}
		if card.Image == "" {
			card.Image = placeholder
		}
		cards = append(cards, card)
	}
	return cards
}

// normalizedIndex maps folded header -> value. When two headers fold to
// the same key the lexically smallest original header wins, so the
// result does not depend on map iteration order.
func normalizedIndex(rec model.EventRecord) map[string]string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	idx := make(map[string]string, len(rec))
	for _, k := range keys {
		idx[NormalizeKey(k)] = rec[k]
	}
	return idx
}

func lookup(rec model.EventRecord, idx map[string]string, pinned string, aliases []string) string {
	if pinned != "" {
		if v, ok := rec[pinned]; ok {
			return v
		}
		return idx[NormalizeKey(pinned)]
	}
	for _, a := range aliases {
		if v, ok := rec[a]; ok {
			return v
		}
		if v, ok := idx[a]; ok {
			return v
		}
	}
	return ""
}
