// Package speaker sequences beep patterns on the buzzer. Sounds are
// fire-and-forget: requesting one never blocks, a sound in progress is
// never cut short, and of several requests made during playback only the
// newest survives to play next.
package speaker

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"glint/hal"
	"glint/internal/mailbox"
)

const (
	shortBeep = 100 * time.Millisecond
	longBeep  = 500 * time.Millisecond
)

// Sound is one beep pattern: times pulses, each driving the buzzer for
// the duration and resting for as long again.
type Sound struct {
	times int
	d     time.Duration
}

// ShortBeep is a single short pulse.
func ShortBeep() Sound { return Sound{times: 1, d: shortBeep} }

// LongBeep is a single long pulse.
func LongBeep() Sound { return Sound{times: 1, d: longBeep} }

// Beep is a single pulse of a custom length.
func Beep(d time.Duration) Sound { return Sound{times: 1, d: d} }

// RepeatShort repeats the short pulse.
func RepeatShort(times int) Sound { return Sound{times: times, d: shortBeep} }

// RepeatLong repeats the long pulse.
func RepeatLong(times int) Sound { return Sound{times: times, d: longBeep} }

// Repeat repeats a custom pulse.
func Repeat(times int, d time.Duration) Sound { return Sound{times: times, d: d} }

// Player owns the buzzer. One task drains the sound mailbox and plays
// whatever lands there.
type Player struct {
	buzzer hal.Buzzer
	clock  clockwork.Clock
	sounds *mailbox.Mailbox[Sound]
}

func NewPlayer(buzzer hal.Buzzer, clock clockwork.Clock) *Player {
	return &Player{
		buzzer: buzzer,
		clock:  clock,
		sounds: mailbox.New[Sound](),
	}
}

// Play requests a sound and returns immediately.
func (p *Player) Play(s Sound) {
	p.sounds.Put(s)
}

// Run plays sounds until ctx ends, leaving the buzzer silent.
func (p *Player) Run(ctx context.Context) {
	for {
		s, err := p.sounds.Wait(ctx)
		if err != nil {
			p.buzzer.Off()
			return
		}
		p.play(ctx, s)
	}
}

func (p *Player) play(ctx context.Context, s Sound) {
	d := s.d
	if d <= 0 {
		return
	}
	for i := 0; i < s.times; i++ {
		p.buzzer.On()
		if !p.sleep(ctx, d) {
			p.buzzer.Off()
			return
		}
		p.buzzer.Off()
		if !p.sleep(ctx, d) {
			return
		}
	}
}

func (p *Player) sleep(ctx context.Context, d time.Duration) bool {
	t := p.clock.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.Chan():
		return true
	}
}
