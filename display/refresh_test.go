package display

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"glint/hal"
)

type pinEvent struct {
	pin   string
	level bool
}

type pinRecorder struct {
	mu     sync.Mutex
	events []pinEvent
}

func (r *pinRecorder) add(pin string, level bool) {
	r.mu.Lock()
	r.events = append(r.events, pinEvent{pin, level})
	r.mu.Unlock()
}

func (r *pinRecorder) all() []pinEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]pinEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *pinRecorder) only(pin string) []bool {
	var out []bool
	for _, e := range r.all() {
		if e.pin == pin {
			out = append(out, e.level)
		}
	}
	return out
}

type recordingPin struct {
	name string
	rec  *pinRecorder
}

func (p recordingPin) Set(level bool) { p.rec.add(p.name, level) }

func recordedPanel(rec *pinRecorder) hal.PanelPins {
	return hal.PanelPins{
		A0:  recordingPin{"a0", rec},
		A1:  recordingPin{"a1", rec},
		A2:  recordingPin{"a2", rec},
		OE:  recordingPin{"oe", rec},
		SDI: recordingPin{"sdi", rec},
		CLK: recordingPin{"clk", rec},
		LE:  recordingPin{"le", rec},
	}
}

func TestStepDrivesOneRowEndToEnd(t *testing.T) {
	m := NewMatrix()
	m.Clear()
	const word = uint32(0xA0000005) // columns 0, 2, 29, 31
	m.rows[1] = word

	rec := &pinRecorder{}
	on := NewOnTime()
	on.Store(0)
	r := NewRefresh(m, recordedPanel(rec), clockwork.NewRealClock(), on)
	r.step()

	var want []pinEvent
	for col := 0; col < Cols; col++ {
		want = append(want,
			pinEvent{"clk", false},
			pinEvent{"sdi", word&(1<<uint(col)) != 0},
			pinEvent{"clk", true},
		)
	}
	want = append(want,
		pinEvent{"le", true},
		pinEvent{"le", false},
		pinEvent{"a0", true},
		pinEvent{"a1", false},
		pinEvent{"a2", false},
		pinEvent{"oe", false},
		pinEvent{"oe", true},
	)

	got := rec.all()
	if len(got) != len(want) {
		t.Fatalf("recorded %d pin events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestStepWalksAllRowsInOrder(t *testing.T) {
	m := NewMatrix()
	m.Clear()
	for i := 0; i < Rows; i++ {
		m.rows[i] = uint32(i + 1)
	}

	rec := &pinRecorder{}
	on := NewOnTime()
	on.Store(0)
	r := NewRefresh(m, recordedPanel(rec), clockwork.NewRealClock(), on)
	for i := 0; i < Rows; i++ {
		r.step()
	}

	sdi := rec.only("sdi")
	if len(sdi) != Rows*Cols {
		t.Fatalf("recorded %d column bits, want %d", len(sdi), Rows*Cols)
	}
	for pass := 0; pass < Rows; pass++ {
		var word uint32
		for col := 0; col < Cols; col++ {
			if sdi[pass*Cols+col] {
				word |= 1 << uint(col)
			}
		}
		row := (pass + 1) % Rows
		if word != m.rows[row] {
			t.Fatalf("pass %d shifted %#x, want row %d word %#x", pass, word, row, m.rows[row])
		}
	}
}

func TestStepHoldsOutputEnableForOnTime(t *testing.T) {
	m := NewMatrix()
	rec := &pinRecorder{}
	on := NewOnTime()
	on.Store(250 * time.Microsecond)
	clock := clockwork.NewFakeClock()
	r := NewRefresh(m, recordedPanel(rec), clock, on)

	done := make(chan struct{})
	go func() {
		r.step()
		close(done)
	}()

	clock.BlockUntil(1)
	oe := rec.only("oe")
	if len(oe) != 1 || oe[0] {
		t.Fatalf("oe events during pulse = %v, want a single low", oe)
	}
	clock.Advance(250 * time.Microsecond)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the row scan to finish")
	}
	oe = rec.only("oe")
	if len(oe) != 2 || !oe[1] {
		t.Fatalf("oe events = %v, want low then high", oe)
	}
}

func TestRunStopsWhenContextEnds(t *testing.T) {
	m := NewMatrix()
	rec := &pinRecorder{}
	on := NewOnTime()
	on.Store(50 * time.Microsecond)
	r := NewRefresh(m, recordedPanel(rec), clockwork.NewRealClock(), on)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(stopped)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the refresh loop to stop")
	}
	if len(rec.only("oe")) == 0 {
		t.Fatal("expected at least one output-enable pulse before shutdown")
	}
}

func TestOnTimeClampsAndTruncates(t *testing.T) {
	on := NewOnTime()
	if got := on.Load(); got != DefaultOnTime {
		t.Fatalf("initial on-time = %v, want %v", got, DefaultOnTime)
	}
	on.Store(-time.Microsecond)
	if got := on.Load(); got != 0 {
		t.Fatalf("negative on-time = %v, want 0", got)
	}
	on.Store(150 * time.Microsecond)
	if got := on.Load(); got != 150*time.Microsecond {
		t.Fatalf("on-time = %v, want 150µs", got)
	}
	on.Store(999 * time.Nanosecond)
	if got := on.Load(); got != 0 {
		t.Fatalf("sub-microsecond on-time = %v, want truncated to 0", got)
	}
}
