package agenda

import (
	"context"
	"sync"

	appLog "eventflow/internal/log"
	"eventflow/internal/model"
	"eventflow/internal/sheet"
)

// Loader connects the sheet adapter to the store.
type Loader struct {
	fetcher *sheet.Fetcher
	source  sheet.Source
	store   *Store

	// refreshMu keeps scheduled and file-triggered refreshes from overlapping.
	refreshMu sync.Mutex
}

func NewLoader(fetcher *sheet.Fetcher, source sheet.Source, store *Store) *Loader {
	return &Loader{
		fetcher: fetcher,
		source:  source,
		store:   store,
	}
}

// Store returns the store this loader publishes to.
func (l *Loader) Store() *Store {
	return l.store
}

// Start issues the initial fetch. Any failure settles an empty agenda, so
// the loading flag always ends up false once the task returns. No retry.
func (l *Loader) Start(ctx context.Context) *Task {
	return StartTask(ctx, func(ctx context.Context) (model.Agenda, error) {
		a, err := sheet.Load(ctx, l.fetcher, l.source)
		if err != nil {
			if ctx.Err() != nil {
				appLog.Info("initial sheet load abandoned", "id", l.source.ID)
				return nil, ctx.Err()
			}
			appLog.Error("initial sheet load failed; showing empty agenda", err, "id", l.source.ID)
			l.store.Settle(model.Agenda{})
			return model.Agenda{}, err
		}
		l.store.Settle(a)
		return a, nil
	})
}

// Refresh re-fetches the sheet; on failure the previous agenda stays.
func (l *Loader) Refresh(ctx context.Context) error {
	l.refreshMu.Lock()
	defer l.refreshMu.Unlock()

	a, err := sheet.Load(ctx, l.fetcher, l.source)
	if err != nil {
		appLog.Warn("sheet refresh failed; keeping previous agenda", err, "id", l.source.ID)
		return err
	}
	l.store.Settle(a)
	return nil
}
