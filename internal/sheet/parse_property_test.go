//go:build property
// +build property

package sheet

import (
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestParseCSVProperties checks row count and order for generated sheets.
func TestParseCSVProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("N data rows yield N records in source order", prop.ForAll(
		func(names []string) bool {
			var b strings.Builder
			b.WriteString("idx,nome\n")
			for i, n := range names {
				b.WriteString(strconv.Itoa(i))
				b.WriteString(",")
				b.WriteString(n)
				b.WriteString("\n")
			}

			agenda, err := ParseCSV([]byte(b.String()))
			if err != nil || len(agenda) != len(names) {
				return false
			}
			for i, rec := range agenda {
				if rec["idx"] != strconv.Itoa(i) || rec["nome"] != names[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.RegexMatch(`^[a-zA-Z][a-zA-Z0-9 ]{0,20}$`)),
	))

	properties.Property("parsing is deterministic", prop.ForAll(
		func(cells []string) bool {
			body := "a\n" + strings.Join(cells, "\n")
			first, err1 := ParseCSV([]byte(body))
			second, err2 := ParseCSV([]byte(body))
			if (err1 == nil) != (err2 == nil) {
				return false
			}
			return len(first) == len(second)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
