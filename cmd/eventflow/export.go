package main

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"eventflow/internal/export"
	"eventflow/internal/render"
	"eventflow/internal/sheet"
)

func newExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the agenda as an iCalendar feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			agenda, err := sheet.Load(cmd.Context(), sheet.NewFetcher(a.cfg.Sheet.Timeout), a.source())
			if err != nil {
				return err
			}

			loc, err := time.LoadLocation(a.cfg.Export.Timezone)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			cards := render.Cards(agenda, columns(a.cfg.Site.Columns), a.cfg.Site.PlaceholderImage)
			return export.Write(w, cards, export.Options{
				Name:        a.cfg.Site.Title,
				Location:    loc,
				EventLength: a.cfg.Export.EventLength,
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file (- for stdout)")
	return cmd
}
