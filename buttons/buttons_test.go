package buttons

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type nopLogger struct{}

func (nopLogger) WriteLineString(string) {}
func (nopLogger) WriteLineBytes([]byte)  {}

// fakeButton is a hand-driven key. set updates the level and queues the
// edge under one lock, so the classifier never sees them disagree.
type fakeButton struct {
	mu      sync.Mutex
	pressed bool
	ch      chan bool
}

func newFakeButton() *fakeButton {
	return &fakeButton{ch: make(chan bool, 16)}
}

func (b *fakeButton) set(pressed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pressed == pressed {
		return
	}
	b.pressed = pressed
	b.ch <- pressed
}

func (b *fakeButton) Events() <-chan bool { return b.ch }

func (b *fakeButton) Pressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pressed
}

func newTestClassifier(t *testing.T) (*Classifier, *fakeButton, clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	b := newFakeButton()
	c := NewClassifier("k1", b, nopLogger{}, clock)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Run(ctx)
	return c, b, clock
}

// awaitKind polls the press mailbox against a real deadline.
func awaitKind(t *testing.T, c *Classifier, want Kind) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if k, ok := c.Presses().TryGet(); ok {
			if k != want {
				t.Fatalf("classified %v, want %v", k, want)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for a %v press", want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestShortPress(t *testing.T) {
	c, b, clock := newTestClassifier(t)

	b.set(true)
	clock.BlockUntil(1) // long threshold armed
	clock.Advance(100 * time.Millisecond)
	b.set(false)
	clock.BlockUntil(2) // settle delay armed alongside it
	clock.Advance(settleDelay)
	clock.BlockUntil(2) // double window armed
	clock.Advance(doubleWindow)

	awaitKind(t, c, Short)
}

func TestLongPress(t *testing.T) {
	c, b, clock := newTestClassifier(t)

	b.set(true)
	clock.BlockUntil(1)
	clock.Advance(longPressAfter)

	awaitKind(t, c, Long)
	if !b.Pressed() {
		t.Fatal("long press should be reported while the key is still down")
	}
}

func TestDoublePress(t *testing.T) {
	c, b, clock := newTestClassifier(t)

	b.set(true)
	clock.BlockUntil(1)
	clock.Advance(100 * time.Millisecond)
	b.set(false)
	clock.BlockUntil(2)
	clock.Advance(settleDelay)
	clock.BlockUntil(2)
	clock.Advance(150 * time.Millisecond) // inside the double window
	b.set(true)

	awaitKind(t, c, Double)
}

func TestPressInsideSettleDelayIsDouble(t *testing.T) {
	c, b, clock := newTestClassifier(t)

	b.set(true)
	clock.BlockUntil(1)
	b.set(false)
	clock.BlockUntil(2)
	b.set(true) // lands inside the settle delay and stays down
	clock.Advance(settleDelay)

	awaitKind(t, c, Double)
}

func TestTapInsideSettleDelayIsBounce(t *testing.T) {
	c, b, clock := newTestClassifier(t)

	b.set(true)
	clock.BlockUntil(1)
	b.set(false)
	clock.BlockUntil(2)
	b.set(true) // bounce: down and up again before the settle ends
	b.set(false)
	clock.Advance(settleDelay)
	clock.BlockUntil(2)
	clock.Advance(doubleWindow)

	awaitKind(t, c, Short)
}

func TestTapInsideDebounceDoesNotArmDouble(t *testing.T) {
	c, b, clock := newTestClassifier(t)

	// A long press, completed and released.
	b.set(true)
	clock.BlockUntil(1)
	clock.Advance(longPressAfter)
	awaitKind(t, c, Long)
	b.set(false)
	clock.BlockUntil(1) // re-arm debounce running

	// Tap while the debounce runs, then press for real. If the tap
	// leaked through, the real press would classify as Double.
	b.set(true)
	b.set(false)
	clock.Advance(rearmDebounce)

	b.set(true)
	clock.BlockUntil(1)
	clock.Advance(100 * time.Millisecond)
	b.set(false)
	clock.BlockUntil(2)
	clock.Advance(settleDelay)
	clock.BlockUntil(2)
	clock.Advance(doubleWindow)

	awaitKind(t, c, Short)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := newFakeButton()
	c := NewClassifier("k1", b, nopLogger{}, clock)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(stopped)
	}()

	b.set(true)
	clock.BlockUntil(1) // parked mid-classification
	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the classifier to stop")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{Short: "short", Long: "long", Double: "double", Kind(9): "press(?)"}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", uint8(k), got, want)
		}
	}
}
