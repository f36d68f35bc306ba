//go:build !tinygo && !lgpio && cgo

package hal

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	beepSampleRate = 44100
	beepFreqHz     = 2048
)

// hostBeeper voices the buzzer as a square wave through the desktop
// audio device. The stream runs continuously; the gate decides whether
// it carries tone or silence.
type hostBeeper struct {
	log  *hostLogger
	gate atomic.Bool
	once sync.Once
}

func newHostBuzzer(log *hostLogger) Buzzer {
	return &hostBeeper{log: log}
}

func (b *hostBeeper) On() {
	b.start()
	b.gate.Store(true)
}

func (b *hostBeeper) Off() { b.gate.Store(false) }

// start opens the audio device on the first beep, so a run that never
// beeps never touches it.
func (b *hostBeeper) start() {
	b.once.Do(func() {
		ctx := audio.NewContext(beepSampleRate)
		p, err := ctx.NewPlayer(&squareWave{gate: &b.gate})
		if err != nil {
			b.log.WriteLineString(fmt.Sprintf("audio: %v", err))
			return
		}
		p.SetBufferSize(50 * time.Millisecond)
		p.Play()
	})
}

// squareWave is an endless 16-bit little-endian stereo stream: the
// buzzer tone while the gate is open, silence otherwise.
type squareWave struct {
	gate *atomic.Bool
	pos  int
}

func (w *squareWave) Read(p []byte) (int, error) {
	const (
		period = beepSampleRate / beepFreqHz
		amp    = 8192
	)
	for i := 0; i+3 < len(p); i += 4 {
		var s int16
		if w.gate.Load() {
			if w.pos%period < period/2 {
				s = amp
			} else {
				s = -amp
			}
		}
		w.pos++
		p[i+0] = byte(s)
		p[i+1] = byte(s >> 8)
		p[i+2] = byte(s)
		p[i+3] = byte(s >> 8)
	}
	return len(p), nil
}
