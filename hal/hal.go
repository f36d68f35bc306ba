package hal

import (
	"errors"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// Pin is a single digital output line. Implementations need not be
// goroutine safe; every pin has exactly one owning task.
type Pin interface {
	Set(level bool)
}

// Button delivers edges from one physical key: true when the key goes
// down, false when it comes up. The channel is buffered; a stalled
// consumer loses edges rather than blocking the source, so consumers
// that must know the live state ask Pressed.
type Button interface {
	Events() <-chan bool
	Pressed() bool
}

// LightSensor reads ambient light. Higher readings mean brighter
// surroundings. The scale is platform defined; the bundled thresholds
// assume a 12-bit ADC.
type LightSensor interface {
	Read() (uint16, error)
}

// Buzzer drives the sounder behind the panel.
type Buzzer interface {
	On()
	Off()
}

// RTC is battery-backed wall-clock time. Temperature is the clock chip's
// die temperature in milli-degrees Celsius.
type RTC interface {
	ReadTime() (time.Time, error)
	SetTime(t time.Time) error
	Temperature() (int32, error)
}

// Flash provides raw access to non-volatile memory, addresses and
// erase blocks only.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

// PanelPins are the seven control lines of the LED matrix driver chain:
// cascaded shift registers feed the 32 columns and a 3-to-8 decoder
// selects the lit row.
type PanelPins struct {
	A0  Pin // row address bit 0
	A1  Pin // row address bit 1
	A2  Pin // row address bit 2
	OE  Pin // column driver output enable, active low
	SDI Pin // serial data into the shift chain
	CLK Pin // shift clock, data sampled on the rising edge
	LE  Pin // latch enable, latches on the falling edge
}

// Board is the single contact point between the firmware and the world.
type Board interface {
	Logger() Logger
	Panel() PanelPins
	Buttons() [3]Button
	Light() LightSensor
	Buzzer() Buzzer
	RTC() RTC
	Flash() Flash
}
