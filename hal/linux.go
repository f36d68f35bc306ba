//go:build !tinygo && lgpio

package hal

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Line offsets are BCM numbers on a Raspberry Pi header. On boards
// where the header chip is not gpiochip0 (the Pi 5 moved it and added
// a base of 512), set GLINT_GPIOCHIP and GLINT_GPIO_BASE.
const (
	linuxPinA0  = 5
	linuxPinA1  = 6
	linuxPinA2  = 13
	linuxPinOE  = 19
	linuxPinSDI = 10
	linuxPinCLK = 11
	linuxPinLE  = 26

	linuxPinButton1 = 17
	linuxPinButton2 = 27
	linuxPinButton3 = 22

	linuxPinBuzzer = 12
)

type linuxBoard struct {
	log     *hostLogger
	panel   PanelPins
	buttons [3]Button
	light   *fakeLight
	buzzer  Buzzer
	flash   *hostFlash
}

// New returns a board wired through the kernel GPIO character device.
// A line that cannot be requested logs once and goes dead instead of
// taking the firmware down, so a partially wired bench setup still
// runs.
func New() Board {
	log := &hostLogger{w: os.Stdout}
	chip := os.Getenv("GLINT_GPIOCHIP")
	if chip == "" {
		chip = "gpiochip0"
	}
	base := 0
	if s := os.Getenv("GLINT_GPIO_BASE"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			base = v
		}
	}

	b := &linuxBoard{
		log:   log,
		light: newFakeLight(lightFromEnv()),
		flash: newHostFlash(),
	}
	b.panel = PanelPins{
		A0:  b.out(chip, base+linuxPinA0, 0),
		A1:  b.out(chip, base+linuxPinA1, 0),
		A2:  b.out(chip, base+linuxPinA2, 0),
		OE:  b.out(chip, base+linuxPinOE, 1),
		SDI: b.out(chip, base+linuxPinSDI, 0),
		CLK: b.out(chip, base+linuxPinCLK, 0),
		LE:  b.out(chip, base+linuxPinLE, 0),
	}
	b.buttons = [3]Button{
		b.in(chip, base+linuxPinButton1),
		b.in(chip, base+linuxPinButton2),
		b.in(chip, base+linuxPinButton3),
	}
	b.buzzer = pinBuzzer{pin: b.out(chip, base+linuxPinBuzzer, 0)}
	return b
}

func (b *linuxBoard) out(chip string, offset, initial int) Pin {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(initial), gpiocdev.WithConsumer("glint"))
	if err != nil {
		b.log.WriteLineString(fmt.Sprintf("gpio: output %d: %v", offset, err))
		return nullPin{}
	}
	return cdevPin{line: line}
}

// in requests a pull-up key line. The switch shorts to ground, so the
// falling edge is the press.
func (b *linuxBoard) in(chip string, offset int) Button {
	btn := newSimButton()
	_, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithDebounce(2*time.Millisecond),
		gpiocdev.WithConsumer("glint"),
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			btn.set(evt.Type == gpiocdev.LineEventFallingEdge)
		}))
	if err != nil {
		b.log.WriteLineString(fmt.Sprintf("gpio: button %d: %v", offset, err))
	}
	return btn
}

func (b *linuxBoard) Logger() Logger     { return b.log }
func (b *linuxBoard) Panel() PanelPins   { return b.panel }
func (b *linuxBoard) Buttons() [3]Button { return b.buttons }
func (b *linuxBoard) Light() LightSensor { return b.light }
func (b *linuxBoard) Buzzer() Buzzer     { return b.buzzer }
func (b *linuxBoard) RTC() RTC           { return sysRTC{} }
func (b *linuxBoard) Flash() Flash       { return b.flash }

type cdevPin struct {
	line *gpiocdev.Line
}

func (p cdevPin) Set(level bool) {
	v := 0
	if level {
		v = 1
	}
	_ = p.line.SetValue(v)
}

// lightFromEnv reads GLINT_LIGHT, a fixed 0..4095 ambient level for
// rigs without the photoresistor.
func lightFromEnv() uint16 {
	if s := os.Getenv("GLINT_LIGHT"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 && v <= 4095 {
			return uint16(v)
		}
	}
	return 2048
}

// sysRTC is the operating system clock. It refuses writes; an NTP
// disciplined clock should stay where it is.
type sysRTC struct{}

func (sysRTC) ReadTime() (time.Time, error) { return time.Now(), nil }

func (sysRTC) SetTime(time.Time) error {
	return fmt.Errorf("set system clock: %w", ErrNotImplemented)
}

// Temperature reads the SoC thermal zone, which reports in
// milli-degrees already.
func (sysRTC) Temperature() (int32, error) {
	raw, err := os.ReadFile("/sys/class/thermal/thermal_zone0/temp")
	if err != nil {
		return 0, fmt.Errorf("read thermal zone: %w", err)
	}
	v, err := strconv.Atoi(string(bytes.TrimSpace(raw)))
	if err != nil {
		return 0, fmt.Errorf("parse thermal zone: %w", err)
	}
	return int32(v), nil
}
