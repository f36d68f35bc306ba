// Package buttons turns raw key edges into classified presses. Each key
// gets one classifier task; a completed press lands in a latest-wins
// mailbox that the apps poll, so a slow consumer sees the newest press
// rather than a backlog.
package buttons

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"glint/hal"
	"glint/internal/mailbox"
)

// Kind is the shape of a completed press.
type Kind uint8

const (
	// Short is a press held under the long threshold with no second
	// press inside the double window.
	Short Kind = iota

	// Long is a press held to the long threshold, reported while the
	// key is still down.
	Long

	// Double is a second press landing inside the double window,
	// reported at the second falling edge.
	Double
)

func (k Kind) String() string {
	switch k {
	case Short:
		return "short"
	case Long:
		return "long"
	case Double:
		return "double"
	}
	return "press(?)"
}

// Press timing. A press held past longPressAfter is Long. A release
// before that opens, after the settle delay, a doubleWindow wait for the
// second press of a Double; Short is reported only once that window
// closes empty.
const (
	longPressAfter = 500 * time.Millisecond
	settleDelay    = 50 * time.Millisecond
	doubleWindow   = 250 * time.Millisecond
	rearmDebounce  = 200 * time.Millisecond
)

// Classifier watches one key and publishes completed presses. It never
// starts a new press within rearmDebounce of finishing the last.
type Classifier struct {
	name    string
	b       hal.Button
	log     hal.Logger
	clock   clockwork.Clock
	presses *mailbox.Mailbox[Kind]
}

func NewClassifier(name string, b hal.Button, log hal.Logger, clock clockwork.Clock) *Classifier {
	return &Classifier{
		name:    name,
		b:       b,
		log:     log,
		clock:   clock,
		presses: mailbox.New[Kind](),
	}
}

// Presses is the mailbox completed presses land in. Only the newest
// unconsumed press is retained.
func (c *Classifier) Presses() *mailbox.Mailbox[Kind] { return c.presses }

// Run classifies presses until ctx ends.
func (c *Classifier) Run(ctx context.Context) {
	for {
		if !c.waitLevel(ctx, true) {
			return
		}
		k, ok := c.classify(ctx)
		if !ok {
			return
		}
		c.log.WriteLineString(fmt.Sprintf("buttons: %s %s press", c.name, k))
		c.presses.Put(k)

		// Long and Double report with the key still down; sit out the
		// rest of the press.
		if c.b.Pressed() {
			if !c.waitLevel(ctx, false) {
				return
			}
		}
		if !c.sleep(ctx, rearmDebounce) {
			return
		}
		// Edges from key bounce during the debounce are not presses.
		c.drain()
	}
}

// classify runs from the falling edge of a press to its verdict.
func (c *Classifier) classify(ctx context.Context) (Kind, bool) {
	long := c.clock.NewTimer(longPressAfter)
	defer long.Stop()

	released, ok := c.edgeOr(ctx, false, long)
	if !ok {
		return 0, false
	}
	if !released {
		return Long, true
	}

	if !c.sleep(ctx, settleDelay) {
		return 0, false
	}
	// Edges inside the settle delay are contact bounce. What counts is
	// the level now: still down means a second press has begun.
	c.drain()
	if c.b.Pressed() {
		return Double, true
	}

	window := c.clock.NewTimer(doubleWindow)
	defer window.Stop()
	pressed, ok := c.edgeOr(ctx, true, window)
	if !ok {
		return 0, false
	}
	if pressed {
		return Double, true
	}
	return Short, true
}

// edgeOr waits for the key to reach the wanted level before t fires.
// The second result is false only when ctx ended.
func (c *Classifier) edgeOr(ctx context.Context, pressed bool, t clockwork.Timer) (bool, bool) {
	for {
		select {
		case <-ctx.Done():
			return false, false
		case <-t.Chan():
			return false, true
		case p := <-c.b.Events():
			if p == pressed {
				return true, true
			}
		}
	}
}

// waitLevel waits for the key to reach a level, consuming edges on the
// way. It reports false when ctx ended first.
func (c *Classifier) waitLevel(ctx context.Context, pressed bool) bool {
	if c.b.Pressed() == pressed {
		return true
	}
	for {
		select {
		case <-ctx.Done():
			return false
		case p := <-c.b.Events():
			if p == pressed {
				return true
			}
		}
	}
}

func (c *Classifier) sleep(ctx context.Context, d time.Duration) bool {
	t := c.clock.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.Chan():
		return true
	}
}

// drain discards queued edges.
func (c *Classifier) drain() {
	for {
		select {
		case <-c.b.Events():
		default:
			return
		}
	}
}
