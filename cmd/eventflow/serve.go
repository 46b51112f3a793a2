package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"eventflow/internal/agenda"
	"eventflow/internal/capture"
	appLog "eventflow/internal/log"
	"eventflow/internal/sheet"
	"eventflow/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var captureOnReady bool

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Serve the landing page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), captureOnReady)
		},
	}
	a.bindString(cmd.Flags(), "listen", "listen", "HTTP listen address (overrides config)")
	a.bindString(cmd.Flags(), "refresh", "sheet.refresh", `cron schedule for re-fetching the sheet, e.g. "*/15 * * * *"`)
	cmd.Flags().BoolVar(&captureOnReady, "capture", false, "capture preview.png once the agenda has loaded")
	return cmd
}

func (a *app) serve(parent context.Context, captureOnReady bool) error {
	cfg := a.cfg
	appLog.Info("eventflow starting", "version", version, "listen", cfg.Listen)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := agenda.NewStore("agenda")
	loader := agenda.NewLoader(sheet.NewFetcher(cfg.Sheet.Timeout), a.source(), store)
	task := loader.Start(ctx)
	defer task.Cancel()

	if cfg.Sheet.Refresh != "" {
		sched, err := agenda.NewScheduler(ctx, cfg.Sheet.Refresh, loader)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		appLog.Info("sheet refresh scheduled", "spec", cfg.Sheet.Refresh)
	}

	if cfg.Sheet.Watch {
		if path, ok := sheet.LocalPath(cfg.Sheet.URL); ok {
			closeWatch, err := agenda.Watch(ctx, path, loader)
			if err != nil {
				appLog.Error("failed to watch sheet file", err, "path", path)
			} else {
				defer closeWatch()
			}
		} else {
			appLog.Warn("sheet.watch ignored: URL is not a local file", nil)
		}
	}

	srv := web.NewServer(cfg, store)

	if captureOnReady {
		go captureWhenReady(ctx, store, "http://"+cfg.Listen+"/", filepath.Join(cfg.CaptureDir, "preview.png"))
	}

	err := web.StartServer(ctx, cfg, srv)
	appLog.Info("eventflow exiting")
	return err
}

func captureWhenReady(ctx context.Context, store *agenda.Store, url, out string) {
	select {
	case <-ctx.Done():
		return
	case <-store.Settled():
	}
	// give the listener a moment if the sheet answered before it bound
	time.Sleep(500 * time.Millisecond)

	err := capture.PagePNG(ctx, capture.Options{URL: url, OutputPath: out, FullPage: true})
	if err != nil {
		appLog.Error("page capture failed", err, "url", url)
		return
	}
	appLog.Info("page captured", "path", out)
}
