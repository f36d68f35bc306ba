//go:build tinygo

package hal

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/ds3231"
)

// Pin map for the RP2040 main board:
//
//	GP0/GP1   UART0 log console, 115200 8N1
//	GP2       key one, pull-up, shorts to ground
//	GP6/GP7   I2C1 to the DS3231
//	GP10      panel CLK
//	GP11      panel SDI
//	GP12      panel LE
//	GP13      panel OE
//	GP14      buzzer transistor
//	GP15      key three
//	GP16      panel A0
//	GP17      key two
//	GP18      panel A1
//	GP22      panel A2
//	GP26      light divider ADC, GP27 its supply rail
type clockBoard struct {
	log     *uartLogger
	panel   PanelPins
	buttons [3]Button
	light   *adcLight
	buzzer  Buzzer
	rtc     *chipRTC
	flash   Flash
}

// New configures the RP2040 and returns the board.
func New() Board {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	i2c := machine.I2C1
	i2c.Configure(machine.I2CConfig{
		SDA:       machine.GP6,
		SCL:       machine.GP7,
		Frequency: 400_000,
	})

	return &clockBoard{
		log: &uartLogger{uart: uart},
		panel: PanelPins{
			A0:  outPin(machine.GP16, false),
			A1:  outPin(machine.GP18, false),
			A2:  outPin(machine.GP22, false),
			OE:  outPin(machine.GP13, true),
			SDI: outPin(machine.GP11, false),
			CLK: outPin(machine.GP10, false),
			LE:  outPin(machine.GP12, false),
		},
		buttons: [3]Button{
			newIRQButton(machine.GP2),
			newIRQButton(machine.GP17),
			newIRQButton(machine.GP15),
		},
		light:  newADCLight(machine.GP26, machine.GP27),
		buzzer: pinBuzzer{pin: outPin(machine.GP14, false)},
		rtc:    newChipRTC(i2c),
		flash:  newBoardFlash(),
	}
}

func (b *clockBoard) Logger() Logger     { return b.log }
func (b *clockBoard) Panel() PanelPins   { return b.panel }
func (b *clockBoard) Buttons() [3]Button { return b.buttons }
func (b *clockBoard) Light() LightSensor { return b.light }
func (b *clockBoard) Buzzer() Buzzer     { return b.buzzer }
func (b *clockBoard) RTC() RTC           { return b.rtc }
func (b *clockBoard) Flash() Flash       { return b.flash }

type machinePin struct {
	pin machine.Pin
}

func (p machinePin) Set(level bool) { p.pin.Set(level) }

func outPin(pin machine.Pin, initial bool) Pin {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Set(initial)
	return machinePin{pin: pin}
}

// irqButton reports a pull-up key. The interrupt fires on both edges
// and forwards the inverted level, so a press reads true. The handler
// does nothing but a non-blocking send, which keeps it safe in
// interrupt context.
type irqButton struct {
	pin    machine.Pin
	events chan bool
}

func newIRQButton(pin machine.Pin) *irqButton {
	b := &irqButton{pin: pin, events: make(chan bool, buttonEventBuffer)}
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	pin.SetInterrupt(machine.PinToggle, func(p machine.Pin) {
		select {
		case b.events <- !p.Get():
		default:
		}
	})
	return b
}

func (b *irqButton) Events() <-chan bool { return b.events }
func (b *irqButton) Pressed() bool       { return !b.pin.Get() }

// adcLight reads the photoresistor divider. The divider hangs off a
// switched rail, brought up once here.
type adcLight struct {
	adc machine.ADC
}

func newADCLight(pin, supply machine.Pin) *adcLight {
	machine.InitADC()
	supply.Configure(machine.PinConfig{Mode: machine.PinOutput})
	supply.High()
	adc := machine.ADC{Pin: pin}
	adc.Configure(machine.ADCConfig{})
	return &adcLight{adc: adc}
}

// Read scales the left-justified 16-bit sample down to the converter's
// native 12 bits.
func (l *adcLight) Read() (uint16, error) {
	return l.adc.Get() >> 4, nil
}

// chipRTC is the DS3231 behind I2C1. A chip that arrives with the
// oscillator stopped, as fresh boards do, is started here; reads keep
// reporting stale time until the clock is set once.
type chipRTC struct {
	dev ds3231.Device
}

func newChipRTC(bus *machine.I2C) *chipRTC {
	dev := ds3231.New(bus)
	dev.Configure()
	if !dev.IsRunning() {
		_ = dev.SetRunning(true)
	}
	return &chipRTC{dev: dev}
}

func (r *chipRTC) ReadTime() (time.Time, error) { return r.dev.ReadTime() }
func (r *chipRTC) SetTime(t time.Time) error    { return r.dev.SetTime(t) }
func (r *chipRTC) Temperature() (int32, error)  { return r.dev.ReadTemperature() }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}
