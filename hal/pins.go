package hal

import "sync"

const buttonEventBuffer = 16

// nullPin discards writes. A line that could not be requested falls
// back to it.
type nullPin struct{}

func (nullPin) Set(bool) {}

// pinBuzzer drives a sounder that is on while its pin is high.
type pinBuzzer struct {
	pin Pin
}

func (b pinBuzzer) On()  { b.pin.Set(true) }
func (b pinBuzzer) Off() { b.pin.Set(false) }

// simButton is a Button fed by level reports, from the host window's
// keyboard poll or a GPIO edge callback.
type simButton struct {
	mu      sync.Mutex
	pressed bool
	events  chan bool
}

func newSimButton() *simButton {
	return &simButton{events: make(chan bool, buttonEventBuffer)}
}

// set records the new level and emits an edge when it changed.
func (b *simButton) set(pressed bool) {
	b.mu.Lock()
	changed := b.pressed != pressed
	b.pressed = pressed
	b.mu.Unlock()
	if !changed {
		return
	}
	select {
	case b.events <- pressed:
	default:
	}
}

func (b *simButton) Events() <-chan bool { return b.events }

func (b *simButton) Pressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pressed
}

// fakeLight is a LightSensor whose reading the host window adjusts with
// the arrow keys.
type fakeLight struct {
	mu    sync.Mutex
	value uint16
}

func newFakeLight(v uint16) *fakeLight { return &fakeLight{value: v} }

func (l *fakeLight) Read() (uint16, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, nil
}

func (l *fakeLight) adjust(delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v := int(l.value) + delta
	if v < 0 {
		v = 0
	}
	if v > 4095 {
		v = 4095
	}
	l.value = uint16(v)
}
