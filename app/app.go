// Package app assembles the firmware: the hardware loops, the button
// pipeline and the five faces of the clock, all sharing one panel. A
// single dispatcher goroutine consumes the three press mailboxes and
// routes gestures to whichever app is active; a long press on button
// one opens the picker.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"glint/buttons"
	"glint/config"
	"glint/display"
	"glint/hal"
	"glint/internal/buildinfo"
	"glint/internal/mailbox"
	"glint/speaker"
)

const (
	// bootBannerHold keeps the banner readable before the clock face
	// takes over.
	bootBannerHold = 2 * time.Second

	// rtcRetryDelay paces boot-time reads of a clock chip that has not
	// answered yet.
	rtcRetryDelay = 500 * time.Millisecond
)

// App is one face of the clock. Start may spawn background work and
// Stop halts it before returning. Start, Stop and the button handlers
// all run on the dispatcher goroutine, never concurrently with each
// other.
type App interface {
	Name() string
	Start(ctx context.Context)
	Stop()
	ButtonOne(ctx context.Context, k buttons.Kind)
	ButtonTwo(ctx context.Context, k buttons.Kind)
	ButtonThree(ctx context.Context, k buttons.Kind)
}

// Deps are the shared services handed to every app.
type Deps struct {
	Log    hal.Logger
	Clock  clockwork.Clock
	Engine *display.Engine
	Sound  *speaker.Player
	Store  *config.Store
	RTC    hal.RTC
}

// System is the assembled firmware.
type System struct {
	deps        Deps
	matrix      *display.Matrix
	refresh     *display.Refresh
	backlight   *display.Backlight
	classifiers [3]*buttons.Classifier
	switcher    *Switcher
}

// New wires a board into a runnable system.
func New(b hal.Board) *System {
	return NewWithClock(b, clockwork.NewRealClock())
}

// NewWithClock is New on an injected clock, so tests can drive every
// timer from a fake.
func NewWithClock(b hal.Board, clock clockwork.Clock) *System {
	log := b.Logger()
	m := display.NewMatrix()
	on := display.NewOnTime()

	deps := Deps{
		Log:    log,
		Clock:  clock,
		Engine: display.NewEngine(m, log, clock),
		Sound:  speaker.NewPlayer(b.Buzzer(), clock),
		Store:  config.NewStore(b.Flash(), log),
		RTC:    b.RTC(),
	}

	s := &System{
		deps:    deps,
		matrix:  m,
		refresh: display.NewRefresh(m, b.Panel(), clock, on),
		backlight: display.NewBacklight(b.Light(), on, clock, log, func() bool {
			return deps.Store.Snapshot().AutoLight
		}),
	}

	keys := b.Buttons()
	names := [3]string{"one", "two", "three"}
	for i := range keys {
		s.classifiers[i] = buttons.NewClassifier(names[i], keys[i], log, clock)
	}

	apps := []App{
		NewClock(deps),
		NewPomodoro(deps),
		NewStopwatch(deps),
		NewAlarms(deps),
		NewSettings(deps),
	}
	s.switcher = NewSwitcher(deps, apps, [3]*mailbox.Mailbox[buttons.Kind]{
		s.classifiers[0].Presses(),
		s.classifiers[1].Presses(),
		s.classifiers[2].Presses(),
	})
	return s
}

// Run loads settings, spawns the hardware loops, paints the boot
// banner, waits for the clock chip and then serves apps until ctx
// ends.
func (s *System) Run(ctx context.Context) {
	s.deps.Store.Load()

	go s.guarded("refresh", func() { s.refresh.Run(ctx) })
	go s.guarded("backlight", func() { s.backlight.Run(ctx) })
	go s.guarded("sound", func() { s.deps.Sound.Run(ctx) })
	go s.guarded("engine", func() { s.deps.Engine.Run(ctx) })
	for _, c := range s.classifiers {
		go s.guarded("buttons", func() { c.Run(ctx) })
	}

	s.deps.Log.WriteLineString("glint " + buildinfo.Short())
	s.deps.Engine.ClearAll(false)
	s.deps.Engine.QueueText(ctx, buildinfo.Banner(), bootBannerHold, false, false)

	s.guarded("dispatch", func() {
		s.waitRTC(ctx)
		// The first face clears the panel when it starts, so give the
		// banner its hold before handing the queue over.
		s.deps.Engine.Flush(ctx)
		s.switcher.Run(ctx)
	})
}

// waitRTC blocks until the clock chip answers a read. A bus that is
// still settling at power-on usually comes back within a few retries.
func (s *System) waitRTC(ctx context.Context) {
	for {
		_, err := s.deps.RTC.ReadTime()
		if err == nil {
			return
		}
		s.deps.Log.WriteLineString(fmt.Sprintf("app: rtc not ready: %v", err))
		if !sleepCtx(ctx, s.deps.Clock, rtcRetryDelay) {
			return
		}
	}
}

// Switcher owns the active app and routes classified presses to it.
type Switcher struct {
	deps Deps
	apps []App

	active  int
	picking bool
	pick    int

	b1, b2, b3 *mailbox.Mailbox[buttons.Kind]
}

func NewSwitcher(deps Deps, apps []App, presses [3]*mailbox.Mailbox[buttons.Kind]) *Switcher {
	return &Switcher{
		deps: deps,
		apps: apps,
		b1:   presses[0],
		b2:   presses[1],
		b3:   presses[2],
	}
}

// Run starts the first app and dispatches presses until ctx ends.
func (s *Switcher) Run(ctx context.Context) {
	if len(s.apps) == 0 {
		return
	}
	s.apps[s.active].Start(ctx)
	for {
		select {
		case <-ctx.Done():
			if !s.picking {
				s.apps[s.active].Stop()
			}
			return
		case <-s.b1.Ready():
			if k, ok := s.b1.TryGet(); ok {
				s.buttonOne(ctx, k)
			}
		case <-s.b2.Ready():
			if k, ok := s.b2.TryGet(); ok {
				s.buttonTwo(ctx, k)
			}
		case <-s.b3.Ready():
			if k, ok := s.b3.TryGet(); ok {
				s.buttonThree(ctx, k)
			}
		}
	}
}

func (s *Switcher) buttonOne(ctx context.Context, k buttons.Kind) {
	if s.picking {
		if k == buttons.Long {
			return
		}
		s.picking = false
		s.active = s.pick
		s.deps.Log.WriteLineString("app: " + s.apps[s.active].Name())
		s.apps[s.active].Start(ctx)
		return
	}
	if k == buttons.Long {
		s.openPicker(ctx)
		return
	}
	s.apps[s.active].ButtonOne(ctx, k)
}

func (s *Switcher) buttonTwo(ctx context.Context, k buttons.Kind) {
	if s.picking {
		s.pick = (s.pick + 1) % len(s.apps)
		s.showPick(ctx)
		return
	}
	s.apps[s.active].ButtonTwo(ctx, k)
}

func (s *Switcher) buttonThree(ctx context.Context, k buttons.Kind) {
	if s.picking {
		s.pick = (s.pick + len(s.apps) - 1) % len(s.apps)
		s.showPick(ctx)
		return
	}
	s.apps[s.active].ButtonThree(ctx, k)
}

// openPicker stops the active app and shows its name as the first
// candidate.
func (s *Switcher) openPicker(ctx context.Context) {
	s.picking = true
	s.pick = s.active
	s.apps[s.active].Stop()
	s.showPick(ctx)
}

func (s *Switcher) showPick(ctx context.Context) {
	s.deps.Engine.QueueText(ctx, s.apps[s.pick].Name(), 0, true, false)
}

// sleepCtx waits d on the injected clock. It reports false when ctx
// ended first.
func sleepCtx(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	t := clock.NewTimer(d)
	select {
	case <-ctx.Done():
		t.Stop()
		return false
	case <-t.Chan():
		return true
	}
}

// runner owns an app's background goroutine so Stop can cancel and
// join it. It is confined to the dispatcher goroutine.
type runner struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (r *runner) start(ctx context.Context, fn func(context.Context)) {
	r.stop()
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel, r.done = cancel, done
	go func() {
		defer close(done)
		fn(ctx)
	}()
}

func (r *runner) stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel, r.done = nil, nil
}
