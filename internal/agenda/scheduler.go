package agenda

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	appLog "eventflow/internal/log"
)

// Scheduler refreshes the agenda on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler validates spec (standard 5-field cron or @every/@hourly
// descriptors) and registers a refresh job. It does not start the cron.
func NewScheduler(ctx context.Context, spec string, l *Loader) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		appLog.Debug("scheduled sheet refresh", "spec", spec)
		_ = l.Refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
