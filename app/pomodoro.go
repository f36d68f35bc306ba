package app

import (
	"context"
	"sync"
	"time"

	"glint/buttons"
	"glint/display"
	"glint/speaker"
)

// timerState is the life cycle shared by the countdown and count-up
// faces.
type timerState uint8

const (
	stateIdle timerState = iota // adjustable, not ticking
	stateRunning
	statePaused
	stateFinished
)

const (
	pomodoroDefault = 30 // minutes
	timerMaxMinutes = 60

	// pausedPoll is how often a paused ticker looks for a resume.
	pausedPoll = 100 * time.Millisecond

	finishBeeps = 3
)

// Pomodoro counts down from an adjustable number of minutes and beeps
// at zero. The ticker goroutine stays alive across a pause; pausing
// also hands back the second the tick loop had already consumed, so
// the display never jumps on resume.
type Pomodoro struct {
	deps Deps
	run  runner

	mu      sync.Mutex
	state   timerState
	minutes int
	seconds int
}

func NewPomodoro(deps Deps) *Pomodoro {
	return &Pomodoro{deps: deps, minutes: pomodoroDefault}
}

func (p *Pomodoro) Name() string { return "Pomodoro" }

func (p *Pomodoro) Start(ctx context.Context) {
	p.deps.Engine.ClearAll(true)

	p.mu.Lock()
	st := p.state
	if st == stateFinished {
		p.resetLocked()
	}
	p.mu.Unlock()

	if st == statePaused {
		p.run.start(ctx, p.countdown)
	}
	p.showTime(ctx)
}

func (p *Pomodoro) Stop() {
	p.mu.Lock()
	if p.state == stateRunning {
		p.setStateLocked(statePaused)
	}
	p.mu.Unlock()
	p.run.stop()
}

// ButtonOne starts, pauses or resumes the countdown, and resets it
// after a finish.
func (p *Pomodoro) ButtonOne(ctx context.Context, k buttons.Kind) {
	if k != buttons.Short {
		return
	}
	p.mu.Lock()
	switch p.state {
	case stateIdle:
		p.setStateLocked(stateRunning)
		p.mu.Unlock()
		p.run.start(ctx, p.countdown)
	case stateRunning:
		// The tick loop has already taken the second it is sleeping
		// through, so hand it back before pausing.
		if p.seconds == 59 {
			p.minutes++
			p.seconds = 0
		} else {
			p.seconds++
		}
		p.setStateLocked(statePaused)
		p.mu.Unlock()
		p.showTime(ctx)
	case statePaused:
		p.setStateLocked(stateRunning)
		p.mu.Unlock()
	default:
		p.resetLocked()
		p.mu.Unlock()
		p.showTime(ctx)
	}
}

func (p *Pomodoro) ButtonTwo(ctx context.Context, k buttons.Kind) { p.adjust(ctx, k, 1) }

func (p *Pomodoro) ButtonThree(ctx context.Context, k buttons.Kind) { p.adjust(ctx, k, -1) }

// adjust changes the countdown length while it is not running. A long
// press restores the default.
func (p *Pomodoro) adjust(ctx context.Context, k buttons.Kind, delta int) {
	p.mu.Lock()
	if p.state == stateRunning {
		p.mu.Unlock()
		return
	}
	switch k {
	case buttons.Long:
		p.minutes = pomodoroDefault
		p.seconds = 0
	case buttons.Short:
		p.minutes += delta
		if p.minutes > timerMaxMinutes {
			p.minutes = 1
		}
		if p.minutes < 1 {
			p.minutes = timerMaxMinutes
		}
	}
	p.mu.Unlock()
	p.showTime(ctx)
}

// countdown shows the remaining time once a second and consumes it.
// While paused it polls until resumed or retired.
func (p *Pomodoro) countdown(ctx context.Context) {
	p.showTime(ctx)
	for {
		switch p.stateNow() {
		case stateRunning:
			p.showTime(ctx)
			if p.step() {
				return
			}
			if !sleepCtx(ctx, p.deps.Clock, time.Second) {
				return
			}
		case statePaused:
			if !sleepCtx(ctx, p.deps.Clock, pausedPoll) {
				return
			}
		default:
			return
		}
	}
}

// step consumes one second. It reports whether the countdown just
// finished.
func (p *Pomodoro) step() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != stateRunning {
		return false
	}
	if p.seconds == 0 {
		if p.minutes == 0 {
			p.setStateLocked(stateFinished)
			return true
		}
		p.minutes--
		p.seconds = 59
	} else {
		p.seconds--
	}
	return false
}

// setStateLocked flips the state and its side effects: the CountDown
// icon while running, the finish beeps at zero.
func (p *Pomodoro) setStateLocked(st timerState) {
	p.state = st
	if st == stateRunning {
		p.deps.Engine.ShowIcon(display.IconCountDown)
	} else {
		p.deps.Engine.HideIcon(display.IconCountDown)
	}
	if st == stateFinished {
		p.deps.Sound.Play(speaker.RepeatLong(finishBeeps))
	}
}

func (p *Pomodoro) resetLocked() {
	p.minutes = pomodoroDefault
	p.seconds = 0
	p.setStateLocked(stateIdle)
}

func (p *Pomodoro) stateNow() timerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pomodoro) showTime(ctx context.Context) {
	p.mu.Lock()
	m, s := p.minutes, p.seconds
	p.mu.Unlock()
	p.deps.Engine.QueueTime(ctx, m, s, display.ColonSolid, 0, true, false)
}
