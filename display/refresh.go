package display

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"glint/hal"
)

// DefaultOnTime is the output-enable pulse width used until the
// backlight loop publishes a level. It equals the middle entry of the
// level table in backlight.go.
const DefaultOnTime = 100 * time.Microsecond

// OnTime is the output-enable pulse width shared between the backlight
// sampler, which writes it, and the refresh loop, which reads it every
// row. A single word keeps either side from ever waiting on the other.
type OnTime struct {
	micros atomic.Uint32
}

func NewOnTime() *OnTime {
	o := &OnTime{}
	o.Store(DefaultOnTime)
	return o
}

func (o *OnTime) Store(d time.Duration) {
	if d < 0 {
		d = 0
	}
	o.micros.Store(uint32(d / time.Microsecond))
}

func (o *OnTime) Load() time.Duration {
	return time.Duration(o.micros.Load()) * time.Microsecond
}

// Refresh drives the panel. It scans the matrix one row at a time,
// bit-banging each row word into the column driver chain and strobing
// the row for the current on-time. Eight rows per pass bound the visible
// flicker, so the loop never waits on anything except its own
// output-enable pulse.
type Refresh struct {
	m     *Matrix
	pins  hal.PanelPins
	clock clockwork.Clock
	on    *OnTime
	row   int
}

func NewRefresh(m *Matrix, pins hal.PanelPins, clock clockwork.Clock, on *OnTime) *Refresh {
	return &Refresh{m: m, pins: pins, clock: clock, on: on}
}

// step scans one row: advance the row counter, copy the row word out,
// shift its 32 column bits in lowest column first, latch, address the
// row, and pulse output enable low for the on-time.
func (r *Refresh) step() {
	r.row = (r.row + 1) % Rows
	word := r.m.Row(r.row)

	for col := 0; col < Cols; col++ {
		r.pins.CLK.Set(false)
		r.pins.SDI.Set(word&(1<<uint(col)) != 0)
		r.pins.CLK.Set(true)
	}
	r.pins.LE.Set(true)
	r.pins.LE.Set(false)

	r.pins.A0.Set(r.row&0x1 != 0)
	r.pins.A1.Set(r.row&0x2 != 0)
	r.pins.A2.Set(r.row&0x4 != 0)

	r.pins.OE.Set(false)
	r.clock.Sleep(r.on.Load())
	r.pins.OE.Set(true)
}

// Run scans rows until ctx ends.
func (r *Refresh) Run(ctx context.Context) {
	for ctx.Err() == nil {
		r.step()
	}
}
