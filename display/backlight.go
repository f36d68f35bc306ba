package display

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"glint/hal"
)

// Level is one of five panel duty levels. Level 0 is the dimmest panel,
// chosen in bright surroundings; level 4 the brightest, for darkness.
type Level uint8

// DefaultLevel is assumed until the first ambient sample lands.
const DefaultLevel Level = 2

// levelOnTimes maps a level to its output-enable pulse width.
var levelOnTimes = [5]time.Duration{
	25 * time.Microsecond,
	50 * time.Microsecond,
	100 * time.Microsecond,
	200 * time.Microsecond,
	400 * time.Microsecond,
}

// levelFloors holds the inclusive lower ambient bound of levels 0..3;
// readings below the last floor fall through to level 4. A reading
// exactly on a floor takes the brighter-ambient bucket.
var levelFloors = [4]uint16{3200, 2400, 1600, 800}

// levelFor buckets an ambient reading.
func levelFor(reading uint16) Level {
	for i, floor := range levelFloors {
		if reading >= floor {
			return Level(i)
		}
	}
	return Level(4)
}

// SampleInterval paces ambient light sampling.
const SampleInterval = time.Second

// Backlight samples ambient light and publishes the matching on-time
// for the refresh loop. While the auto-brightness setting reads false,
// or the sensor fails, the previous level is retained.
type Backlight struct {
	sensor  hal.LightSensor
	on      *OnTime
	clock   clockwork.Clock
	log     hal.Logger
	enabled func() bool
	warned  bool
}

// NewBacklight wires the sampler. enabled is the auto-brightness
// setting accessor; a nil enabled means always on.
func NewBacklight(sensor hal.LightSensor, on *OnTime, clock clockwork.Clock, log hal.Logger, enabled func() bool) *Backlight {
	return &Backlight{sensor: sensor, on: on, clock: clock, log: log, enabled: enabled}
}

// sampleOnce reads the sensor once and publishes the bucketed on-time.
func (b *Backlight) sampleOnce() {
	if b.enabled != nil && !b.enabled() {
		return
	}
	v, err := b.sensor.Read()
	if err != nil {
		if !b.warned {
			b.warned = true
			b.log.WriteLineString("backlight: light sensor read failed, keeping level")
		}
		return
	}
	b.on.Store(levelOnTimes[levelFor(v)])
}

// Run samples once per interval until ctx ends.
func (b *Backlight) Run(ctx context.Context) {
	t := b.clock.NewTicker(SampleInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			b.sampleOnce()
		}
	}
}
