package agenda

import (
	"context"
	"sync"

	"eventflow/internal/model"
)

// LoadFunc produces an agenda; it must honor ctx cancellation.
type LoadFunc func(ctx context.Context) (model.Agenda, error)

// Task is a cancellable, single-shot load bound to a parent context.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	result model.Agenda
	err    error
}

// StartTask runs fn in its own goroutine.
func StartTask(parent context.Context, fn LoadFunc) *Task {
	ctx, cancel := context.WithCancel(parent)
	t := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		defer cancel()
		a, err := fn(ctx)
		t.mu.Lock()
		t.result, t.err = a, err
		t.mu.Unlock()
	}()
	return t
}

// Done is closed when the load function returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Cancel aborts the in-flight load. Safe to call more than once.
func (t *Task) Cancel() {
	t.cancel()
}

// Wait blocks until the task finishes or ctx ends.
func (t *Task) Wait(ctx context.Context) (model.Agenda, error) {
	select {
	case <-t.done:
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.result, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
