//go:build !tinygo && !lgpio

package hal

import (
	"os"
	"sync"
	"time"
)

// simBoard is the development board: the panel reconstructed from its
// control lines in a window, the number keys as the buttons and a
// flash file beside the binary.
type simBoard struct {
	log     *hostLogger
	panel   *hostPanel
	buttons [3]*simButton
	light   *fakeLight
	buzzer  Buzzer
	rtc     *simRTC
	flash   *hostFlash
}

// New returns the simulated board.
func New() Board {
	return newSimBoard()
}

func newSimBoard() *simBoard {
	log := &hostLogger{w: os.Stdout}
	return &simBoard{
		log:     log,
		panel:   newHostPanel(),
		buttons: [3]*simButton{newSimButton(), newSimButton(), newSimButton()},
		light:   newFakeLight(2048),
		buzzer:  newHostBuzzer(log),
		rtc:     newSimRTC(),
		flash:   newHostFlash(),
	}
}

func (b *simBoard) Logger() Logger { return b.log }

func (b *simBoard) Panel() PanelPins { return b.panel.Pins() }

func (b *simBoard) Buttons() [3]Button {
	return [3]Button{b.buttons[0], b.buttons[1], b.buttons[2]}
}

func (b *simBoard) Light() LightSensor { return b.light }
func (b *simBoard) Buzzer() Buzzer     { return b.buzzer }
func (b *simBoard) RTC() RTC           { return b.rtc }
func (b *simBoard) Flash() Flash       { return b.flash }

// simRTC keeps host time plus whatever offset SetTime established, so
// the settings editor behaves the same as against the clock chip.
type simRTC struct {
	mu     sync.Mutex
	offset time.Duration
}

func newSimRTC() *simRTC { return &simRTC{} }

func (r *simRTC) ReadTime() (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Now().Add(r.offset), nil
}

func (r *simRTC) SetTime(t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offset = time.Until(t)
	return nil
}

func (r *simRTC) Temperature() (int32, error) { return 21_500, nil }

// logBuzzer stands in when no audio backend is built in. The state
// lines keep beep timing visible in the log.
type logBuzzer struct {
	log *hostLogger
}

func (b *logBuzzer) On()  { b.log.WriteLineString("buzzer: on") }
func (b *logBuzzer) Off() { b.log.WriteLineString("buzzer: off") }
