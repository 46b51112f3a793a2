package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"eventflow/internal/config"
	"eventflow/internal/render"
	"eventflow/internal/sheet"
)

func newFetchCmd(a *app) *cobra.Command {
	var cards bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the sheet once and print it as JSON",
		Long: `fetch downloads and parses the configured sheet and prints the rows as a
JSON array. With --cards it prints the card projection used by the page.
Unlike the page, a failed fetch is reported as an error.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			agenda, err := sheet.Load(cmd.Context(), sheet.NewFetcher(a.cfg.Sheet.Timeout), a.source())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if cards {
				return enc.Encode(render.Cards(agenda, columns(a.cfg.Site.Columns), a.cfg.Site.PlaceholderImage))
			}
			return enc.Encode(agenda)
		},
	}
	cmd.Flags().BoolVar(&cards, "cards", false, "print card projections instead of raw rows")
	return cmd
}

func columns(c config.ColumnsConfig) render.Columns {
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
