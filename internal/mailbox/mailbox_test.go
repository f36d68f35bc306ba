package mailbox

import (
	"context"
	"testing"
	"time"
)

func TestTryGetEmpty(t *testing.T) {
	m := New[int]()
	if v, ok := m.TryGet(); ok {
		t.Fatalf("expected empty mailbox, got %d", v)
	}
}

func TestPutThenTryGet(t *testing.T) {
	m := New[int]()
	m.Put(7)
	v, ok := m.TryGet()
	if !ok || v != 7 {
		t.Fatalf("expected 7, got %d (ok=%v)", v, ok)
	}
	if _, ok := m.TryGet(); ok {
		t.Fatal("expected mailbox empty after take")
	}
}

func TestLatestWins(t *testing.T) {
	m := New[string]()
	m.Put("first")
	m.Put("second")
	m.Put("third")
	v, ok := m.TryGet()
	if !ok || v != "third" {
		t.Fatalf("expected newest value %q, got %q (ok=%v)", "third", v, ok)
	}
	if _, ok := m.TryGet(); ok {
		t.Fatal("expected a single slot, got a second value")
	}
}

func TestWaitReturnsPutValue(t *testing.T) {
	m := New[int]()
	got := make(chan int, 1)
	go func() {
		v, err := m.Wait(context.Background())
		if err != nil {
			return
		}
		got <- v
	}()

	time.Sleep(10 * time.Millisecond)
	m.Put(42)

	select {
	case v := <-got:
		if v != 42 {
			t.Fatalf("expected 42, got %d", v)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timed out waiting for value")
	}
}

func TestWaitHonorsContext(t *testing.T) {
	m := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := m.Wait(ctx)
		errCh <- err
	}()

	cancel()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected context error, got nil")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timed out waiting for cancellation")
	}
}

func TestWaitToleratesStaleWakeup(t *testing.T) {
	m := New[int]()
	m.Put(1)
	if _, ok := m.TryGet(); !ok {
		t.Fatal("expected value")
	}

	// The notify token from Put is still pending; Wait must not return
	// until a fresh value arrives.
	got := make(chan int, 1)
	go func() {
		v, err := m.Wait(context.Background())
		if err != nil {
			return
		}
		got <- v
	}()

	select {
	case v := <-got:
		t.Fatalf("expected Wait to keep blocking, got %d", v)
	case <-time.After(50 * time.Millisecond):
	}

	m.Put(2)
	select {
	case v := <-got:
		if v != 2 {
			t.Fatalf("expected 2, got %d", v)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timed out waiting for fresh value")
	}
}

func TestClearDropsPending(t *testing.T) {
	m := New[int]()
	m.Put(9)
	m.Clear()
	if v, ok := m.TryGet(); ok {
		t.Fatalf("expected cleared mailbox, got %d", v)
	}
}
