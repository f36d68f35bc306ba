package app

import (
	"context"
	"sync"
	"time"

	"glint/buttons"
	"glint/display"
	"glint/speaker"
)

// Stopwatch counts up to an hour and stops there. Same life cycle as
// the pomodoro face, with the pause compensation running the other
// way: the tick loop is a second ahead of the display, so pausing
// takes one back.
type Stopwatch struct {
	deps Deps
	run  runner

	mu      sync.Mutex
	state   timerState
	minutes int
	seconds int
}

func NewStopwatch(deps Deps) *Stopwatch {
	return &Stopwatch{deps: deps}
}

// Name avoids the obvious word: the panel font stops at U (plus X-Z),
// so STOPWATCH cannot be spelled.
func (w *Stopwatch) Name() string { return "Count Up" }

func (w *Stopwatch) Start(ctx context.Context) {
	w.deps.Engine.ClearAll(true)

	w.mu.Lock()
	st := w.state
	if st == stateFinished {
		w.resetLocked()
	}
	w.mu.Unlock()

	if st == statePaused {
		w.run.start(ctx, w.countUp)
	}
	w.showTime(ctx)
}

func (w *Stopwatch) Stop() {
	w.mu.Lock()
	if w.state == stateRunning {
		w.setStateLocked(statePaused)
	}
	w.mu.Unlock()
	w.run.stop()
}

// ButtonOne starts, pauses or resumes the count, and resets it after
// the top is reached.
func (w *Stopwatch) ButtonOne(ctx context.Context, k buttons.Kind) {
	if k != buttons.Short {
		return
	}
	w.mu.Lock()
	switch w.state {
	case stateIdle:
		w.setStateLocked(stateRunning)
		w.mu.Unlock()
		w.run.start(ctx, w.countUp)
	case stateRunning:
		// Take back the second the tick loop already added.
		if w.seconds == 0 {
			if w.minutes > 0 {
				w.minutes--
				w.seconds = 59
			}
		} else {
			w.seconds--
		}
		w.setStateLocked(statePaused)
		w.mu.Unlock()
		w.showTime(ctx)
	case statePaused:
		w.setStateLocked(stateRunning)
		w.mu.Unlock()
	default:
		w.resetLocked()
		w.mu.Unlock()
		w.showTime(ctx)
	}
}

func (w *Stopwatch) ButtonTwo(ctx context.Context, k buttons.Kind) { w.adjust(ctx, k) }

func (w *Stopwatch) ButtonThree(ctx context.Context, k buttons.Kind) { w.adjust(ctx, k) }

// adjust resets the count on a long press while not running.
func (w *Stopwatch) adjust(ctx context.Context, k buttons.Kind) {
	w.mu.Lock()
	if w.state == stateRunning {
		w.mu.Unlock()
		return
	}
	if k == buttons.Long {
		w.minutes = 0
		w.seconds = 0
	}
	w.mu.Unlock()
	w.showTime(ctx)
}

// countUp shows the elapsed time once a second and advances it. While
// paused it polls until resumed or retired.
func (w *Stopwatch) countUp(ctx context.Context) {
	w.showTime(ctx)
	for {
		switch w.stateNow() {
		case stateRunning:
			w.showTime(ctx)
			if w.step() {
				return
			}
			if !sleepCtx(ctx, w.deps.Clock, time.Second) {
				return
			}
		case statePaused:
			if !sleepCtx(ctx, w.deps.Clock, pausedPoll) {
				return
			}
		default:
			return
		}
	}
}

// step adds one second. It reports whether the count just hit the
// 59:59 ceiling.
func (w *Stopwatch) step() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != stateRunning {
		return false
	}
	if w.seconds == 59 {
		if w.minutes == 59 {
			w.setStateLocked(stateFinished)
			return true
		}
		w.minutes++
		w.seconds = 0
	} else {
		w.seconds++
	}
	return false
}

// setStateLocked flips the state and its side effects: the CountUp
// icon while running, the finish beeps at the ceiling.
func (w *Stopwatch) setStateLocked(st timerState) {
	w.state = st
	if st == stateRunning {
		w.deps.Engine.ShowIcon(display.IconCountUp)
	} else {
		w.deps.Engine.HideIcon(display.IconCountUp)
	}
	if st == stateFinished {
		w.deps.Sound.Play(speaker.RepeatLong(finishBeeps))
	}
}

func (w *Stopwatch) resetLocked() {
	w.minutes = 0
	w.seconds = 0
	w.setStateLocked(stateIdle)
}

func (w *Stopwatch) stateNow() timerState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Stopwatch) showTime(ctx context.Context) {
	w.mu.Lock()
	m, s := w.minutes, w.seconds
	w.mu.Unlock()
	w.deps.Engine.QueueTime(ctx, m, s, display.ColonSolid, 0, true, false)
}
