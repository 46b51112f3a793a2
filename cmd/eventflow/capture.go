package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"eventflow/internal/capture"
	appLog "eventflow/internal/log"
)

func newCaptureCmd(a *app) *cobra.Command {
	var opts capture.Options

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Save a PNG of a running landing page",
		Long: `capture opens the page in headless Chromium, waits until the events
section reports ready and writes a screenshot. It needs a running
"eventflow serve" (or any deployment) to point at.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.URL == "" {
				opts.URL = "http://" + a.cfg.Listen + "/"
			}
			if opts.OutputPath == "" {
				opts.OutputPath = filepath.Join(a.cfg.CaptureDir, "preview.png")
			}
			if err := capture.PagePNG(cmd.Context(), opts); err != nil {
				return err
			}
			appLog.Info("page captured", "url", opts.URL, "path", opts.OutputPath)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.URL, "url", "", "page URL (default: the configured listen address)")
	f.StringVarP(&opts.OutputPath, "output", "o", "", "PNG path (default: <capture_dir>/preview.png)")
	f.IntVar(&opts.Width, "width", capture.DefaultWidth, "viewport width")
	f.IntVar(&opts.Height, "height", capture.DefaultHeight, "viewport height")
	f.BoolVar(&opts.FullPage, "full-page", true, "capture the whole page instead of the viewport")
	f.DurationVar(&opts.Timeout, "timeout", 0, "overall capture timeout (default 30s)")
	return cmd
}
