package speaker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

// recordBuzzer logs every On and Off as true and false.
type recordBuzzer struct {
	mu     sync.Mutex
	events []bool
}

func (b *recordBuzzer) On() { b.add(true) }

func (b *recordBuzzer) Off() { b.add(false) }

func (b *recordBuzzer) add(on bool) {
	b.mu.Lock()
	b.events = append(b.events, on)
	b.mu.Unlock()
}

func (b *recordBuzzer) snapshot() []bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]bool, len(b.events))
	copy(out, b.events)
	return out
}

func (b *recordBuzzer) pulses() int {
	n := 0
	for _, e := range b.snapshot() {
		if e {
			n++
		}
	}
	return n
}

func newTestPlayer(t *testing.T) (*Player, *recordBuzzer, clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	buzzer := &recordBuzzer{}
	p := NewPlayer(buzzer, clock)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go p.Run(ctx)
	return p, buzzer, clock
}

func awaitPulses(t *testing.T, b *recordBuzzer, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for b.pulses() != want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d pulses, heard %d", want, b.pulses())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestShortBeepPulsesOnce(t *testing.T) {
	p, buzzer, clock := newTestPlayer(t)

	p.Play(ShortBeep())
	clock.BlockUntil(1) // buzzer on, waiting out the pulse
	if ev := buzzer.snapshot(); len(ev) != 1 || !ev[0] {
		t.Fatalf("events during pulse = %v, want a single on", ev)
	}
	clock.Advance(100 * time.Millisecond)
	clock.BlockUntil(1) // rest gap
	clock.Advance(100 * time.Millisecond)

	awaitPulses(t, buzzer, 1)
	if ev := buzzer.snapshot(); ev[len(ev)-1] {
		t.Fatal("buzzer left on after the pattern")
	}
}

func TestRepeatPulsesAlternate(t *testing.T) {
	p, buzzer, clock := newTestPlayer(t)

	p.Play(Repeat(3, 50*time.Millisecond))
	for i := 0; i < 6; i++ {
		clock.BlockUntil(1)
		clock.Advance(50 * time.Millisecond)
	}

	awaitPulses(t, buzzer, 3)
	ev := buzzer.snapshot()
	if len(ev) != 6 {
		t.Fatalf("recorded %d events, want 6", len(ev))
	}
	for i, on := range ev {
		if on != (i%2 == 0) {
			t.Fatalf("event %d = %v, want alternating on and off", i, on)
		}
	}
}

func TestNewestPendingSoundWins(t *testing.T) {
	p, buzzer, clock := newTestPlayer(t)

	p.Play(Beep(time.Second))
	clock.BlockUntil(1) // mid-beep

	// Both land during playback; only the second should survive.
	p.Play(RepeatShort(4))
	p.Play(ShortBeep())

	clock.Advance(time.Second)
	clock.BlockUntil(1)
	clock.Advance(time.Second) // first beep done

	clock.BlockUntil(1) // short beep on
	clock.Advance(100 * time.Millisecond)
	clock.BlockUntil(1)
	clock.Advance(100 * time.Millisecond)

	awaitPulses(t, buzzer, 2)
}

func TestZeroTimesAndZeroDurationAreSilent(t *testing.T) {
	p, buzzer, clock := newTestPlayer(t)

	p.Play(Repeat(0, 50*time.Millisecond))
	p.Play(Beep(0))
	p.Play(ShortBeep())

	clock.BlockUntil(1)
	clock.Advance(100 * time.Millisecond)
	clock.BlockUntil(1)
	clock.Advance(100 * time.Millisecond)

	awaitPulses(t, buzzer, 1)
}

func TestRunSilencesBuzzerOnCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	buzzer := &recordBuzzer{}
	p := NewPlayer(buzzer, clock)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(stopped)
	}()

	p.Play(Beep(time.Hour))
	clock.BlockUntil(1)
	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the player to stop")
	}
	if ev := buzzer.snapshot(); len(ev) == 0 || ev[len(ev)-1] {
		t.Fatalf("events = %v, want the buzzer driven low on shutdown", ev)
	}
}
