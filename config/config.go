// Package config holds the user preferences and the two alarm slots,
// and persists them in the first erase block of flash as one small
// checksummed record. A record that fails any check is discarded
// wholesale in favour of the defaults; there is no partial recovery.
package config

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"sync"
	"time"

	"glint/hal"
)

// TemperatureUnit selects the reported temperature scale.
type TemperatureUnit uint8

const (
	Celsius TemperatureUnit = iota
	Fahrenheit
)

// Rune is the unit letter shown after the degree sign.
func (u TemperatureUnit) Rune() rune {
	if u == Fahrenheit {
		return 'F'
	}
	return 'C'
}

// FromMilliCelsius converts a milli-degree Celsius reading to whole
// degrees in this unit.
func (u TemperatureUnit) FromMilliCelsius(mc int32) int {
	c := int(mc) / 1000
	if u == Fahrenheit {
		return c*9/5 + 32
	}
	return c
}

// TimeStyle selects 24-hour or 12-hour presentation.
type TimeStyle uint8

const (
	TwentyFourHour TimeStyle = iota
	TwelveHour
)

// ColonStyle selects how the clock separator behaves.
type ColonStyle uint8

const (
	ColonSolid ColonStyle = iota
	ColonBlink
	ColonAlt
)

// Alarm is one alarm slot. Days is a weekday bitmask with Monday in bit
// zero; an empty mask disarms the slot.
type Alarm struct {
	Hour   uint8
	Minute uint8
	Days   uint8
}

// dayBit maps a calendar weekday into the mask.
func dayBit(d time.Weekday) uint8 {
	if d == time.Sunday {
		return 1 << 6
	}
	return 1 << (uint(d) - 1)
}

// EnabledOn reports whether the slot rings on the given weekday.
func (a Alarm) EnabledOn(d time.Weekday) bool {
	return a.Days&dayBit(d) != 0
}

// SetDay arms or disarms one weekday.
func (a *Alarm) SetDay(d time.Weekday, on bool) {
	if on {
		a.Days |= dayBit(d)
	} else {
		a.Days &^= dayBit(d)
	}
}

// Active reports whether the slot rings on any day at all.
func (a Alarm) Active() bool { return a.Days != 0 }

// Settings is the full user-adjustable state.
type Settings struct {
	HourlyRing     bool
	Colon          ColonStyle
	Unit           TemperatureUnit
	AutoScrollTemp bool
	Style          TimeStyle
	AutoLight      bool
	Alarms         [2]Alarm
}

// Defaults is the state of a factory-fresh clock.
func Defaults() Settings {
	return Settings{
		HourlyRing:     false,
		Colon:          ColonBlink,
		Unit:           Celsius,
		AutoScrollTemp: true,
		Style:          TwentyFourHour,
		AutoLight:      true,
	}
}

// ToggleUnit flips between Celsius and Fahrenheit.
func (s *Settings) ToggleUnit() {
	if s.Unit == Celsius {
		s.Unit = Fahrenheit
	} else {
		s.Unit = Celsius
	}
}

// ToggleStyle flips between 24-hour and 12-hour presentation.
func (s *Settings) ToggleStyle() {
	if s.Style == TwentyFourHour {
		s.Style = TwelveHour
	} else {
		s.Style = TwentyFourHour
	}
}

// ToggleAutoLight flips automatic brightness.
func (s *Settings) ToggleAutoLight() {
	s.AutoLight = !s.AutoLight
}

// ClockHour maps a 24-hour value to the hour shown for the style.
func (s Settings) ClockHour(h int) int {
	if s.Style == TwelveHour {
		h %= 12
		if h == 0 {
			h = 12
		}
	}
	return h
}

// Flash record layout, little endian:
//
//	0..3   magic "GLNT"
//	4      record version
//	5      preference flags
//	6..11  alarm slots, hour/minute/days each
//	12..15 CRC-32 (IEEE) of bytes 0..11
const (
	recordSize    = 16
	recordVersion = 1
)

var recordMagic = [4]byte{'G', 'L', 'N', 'T'}

const (
	flagHourlyRing = 1 << 0
	flagAutoScroll = 1 << 1
	flagAutoLight  = 1 << 2
	flagColonShift = 3 // two bits
	flagFahrenheit = 1 << 5
	flagTwelveHour = 1 << 6
)

func (s Settings) encode() []byte {
	b := make([]byte, recordSize)
	copy(b[0:4], recordMagic[:])
	b[4] = recordVersion

	var flags uint8
	if s.HourlyRing {
		flags |= flagHourlyRing
	}
	if s.AutoScrollTemp {
		flags |= flagAutoScroll
	}
	if s.AutoLight {
		flags |= flagAutoLight
	}
	flags |= uint8(s.Colon&0x3) << flagColonShift
	if s.Unit == Fahrenheit {
		flags |= flagFahrenheit
	}
	if s.Style == TwelveHour {
		flags |= flagTwelveHour
	}
	b[5] = flags

	for i, a := range s.Alarms {
		off := 6 + i*3
		b[off] = a.Hour
		b[off+1] = a.Minute
		b[off+2] = a.Days
	}
	binary.LittleEndian.PutUint32(b[12:16], crc32.ChecksumIEEE(b[:12]))
	return b
}

func decode(b []byte) (Settings, error) {
	var s Settings
	if len(b) < recordSize {
		return s, fmt.Errorf("config: record truncated at %d bytes", len(b))
	}
	if !bytes.Equal(b[0:4], recordMagic[:]) {
		return s, fmt.Errorf("config: bad record magic")
	}
	if b[4] != recordVersion {
		return s, fmt.Errorf("config: unsupported record version %d", b[4])
	}
	if binary.LittleEndian.Uint32(b[12:16]) != crc32.ChecksumIEEE(b[:12]) {
		return s, fmt.Errorf("config: record checksum mismatch")
	}

	flags := b[5]
	s.HourlyRing = flags&flagHourlyRing != 0
	s.AutoScrollTemp = flags&flagAutoScroll != 0
	s.AutoLight = flags&flagAutoLight != 0
	s.Colon = ColonStyle(flags >> flagColonShift & 0x3)
	if s.Colon > ColonAlt {
		return s, fmt.Errorf("config: bad colon style %d", s.Colon)
	}
	if flags&flagFahrenheit != 0 {
		s.Unit = Fahrenheit
	}
	if flags&flagTwelveHour != 0 {
		s.Style = TwelveHour
	}

	for i := range s.Alarms {
		off := 6 + i*3
		a := Alarm{Hour: b[off], Minute: b[off+1], Days: b[off+2]}
		if a.Hour > 23 || a.Minute > 59 {
			return s, fmt.Errorf("config: alarm %d out of range", i+1)
		}
		s.Alarms[i] = a
	}
	return s, nil
}

// Store is the live settings plus their flash backing. All access goes
// through the store so concurrent tasks see a consistent snapshot.
type Store struct {
	mu    sync.Mutex
	s     Settings
	flash hal.Flash
	log   hal.Logger
}

func NewStore(flash hal.Flash, log hal.Logger) *Store {
	return &Store{s: Defaults(), flash: flash, log: log}
}

// Load replaces the live settings with the stored record, or with the
// defaults when no usable record exists. It never fails; a clock with
// lost settings still ticks.
func (st *Store) Load() {
	buf := make([]byte, recordSize)
	if _, err := st.flash.ReadAt(buf, 0); err != nil {
		st.log.WriteLineString(fmt.Sprintf("config: settings read failed, using defaults: %v", err))
		return
	}
	s, err := decode(buf)
	if err != nil {
		st.log.WriteLineString(fmt.Sprintf("%v, using defaults", err))
		return
	}
	st.mu.Lock()
	st.s = s
	st.mu.Unlock()
}

// Save writes the live settings back to flash.
func (st *Store) Save() error {
	st.mu.Lock()
	b := st.s.encode()
	st.mu.Unlock()

	if err := st.flash.Erase(0, st.flash.EraseBlockBytes()); err != nil {
		return fmt.Errorf("config: erase settings block: %w", err)
	}
	if _, err := st.flash.WriteAt(b, 0); err != nil {
		return fmt.Errorf("config: write settings: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the live settings.
func (st *Store) Snapshot() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s
}

// Update applies fn to the live settings and persists the result.
func (st *Store) Update(fn func(*Settings)) error {
	st.mu.Lock()
	fn(&st.s)
	st.mu.Unlock()
	return st.Save()
}
