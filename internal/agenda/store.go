package agenda

import (
	"sync"
	"time"

	"eventflow/internal/model"
)

// Store owns the current Agenda and the loading flag.
//
// Invariants:
//   - Loading starts true and becomes false exactly once, on the first Settle.
//   - The Agenda is replaced wholesale; readers get independent copies.
type Store struct {
	mu        sync.RWMutex
	agenda    model.Agenda
	loading   bool
	updatedAt time.Time
	source    string

	settleOnce sync.Once
	settled    chan struct{}

	subsMu sync.RWMutex
	subs   []func(model.Snapshot)
}

// NewStore returns an empty store in the loading state.
func NewStore(source string) *Store {
	return &Store{
		agenda:  model.Agenda{},
		loading: true,
		source:  source,
		settled: make(chan struct{}),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Snapshot{
		Agenda:    s.agenda.Clone(),
		Loading:   s.loading,
		UpdatedAt: s.updatedAt,
		Source:    s.source,
	}
}

// Settle publishes a new agenda. The first call also ends the loading state.
func (s *Store) Settle(a model.Agenda) {
	if a == nil {
		a = model.Agenda{}
	}

	s.mu.Lock()
	s.agenda = a.Clone()
	s.loading = false
	s.updatedAt = time.Now()
	s.mu.Unlock()

	s.settleOnce.Do(func() { close(s.settled) })
	s.notify()
}

// Settled is closed once the first load finished, whatever its outcome.
func (s *Store) Settled() <-chan struct{} {
	return s.settled
}

// Subscribe registers fn to be called after every Settle.
func (s *Store) Subscribe(fn func(model.Snapshot)) {
	if fn == nil {
		return
	}
	s.subsMu.Lock()
	s.subs = append(s.subs, fn)
	s.subsMu.Unlock()
}

func (s *Store) notify() {
	s.subsMu.RLock()
	subs := make([]func(model.Snapshot), len(s.subs))
	copy(subs, s.subs)
	s.subsMu.RUnlock()

	if len(subs) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range subs {
		fn(snap)
	}
}
