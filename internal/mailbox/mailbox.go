// Package mailbox provides a single-slot, latest-wins message box used to
// hand events between long-running tasks. A producer never blocks: putting
// a value into a full box replaces the old value. Consumers therefore see
// the newest event, not a backlog.
package mailbox

import (
	"context"
	"sync"
)

// Mailbox holds at most one value of type T.
type Mailbox[T any] struct {
	mu     sync.Mutex
	val    T
	full   bool
	notify chan struct{}
}

// New returns an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{notify: make(chan struct{}, 1)}
}

// Put stores v, replacing any value that has not been taken yet.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	m.val = v
	m.full = true
	m.mu.Unlock()
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// TryGet removes and returns the stored value, if any.
func (m *Mailbox[T]) TryGet() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		var zero T
		return zero, false
	}
	m.full = false
	return m.val, true
}

// Wait blocks until a value is available or ctx is done.
func (m *Mailbox[T]) Wait(ctx context.Context) (T, error) {
	for {
		if v, ok := m.TryGet(); ok {
			return v, nil
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-m.notify:
		}
	}
}

// Ready reports that a value may be available. A wakeup can be stale when
// another consumer won the race, so follow every receive with TryGet.
func (m *Mailbox[T]) Ready() <-chan struct{} {
	return m.notify
}

// Clear drops any stored value without waking anyone.
func (m *Mailbox[T]) Clear() {
	m.mu.Lock()
	m.full = false
	m.mu.Unlock()
	select {
	case <-m.notify:
	default:
	}
}
