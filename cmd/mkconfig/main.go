//go:build !tinygo

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"glint/config"
	"glint/hal"
)

const (
	defaultImagePath = "glint.flash"
	defaultImageSize = 2 * 1024 * 1024
	eraseSize        = 4096
)

func main() {
	var (
		outPath   = flag.String("out", defaultImagePath, "Flash image path.")
		size      = flag.Uint("size", defaultImageSize, "Image size in bytes when creating.")
		dump      = flag.Bool("dump", false, "Print the record in an existing image and exit.")
		ring      = flag.Bool("ring", false, "Chime on the hour.")
		colon     = flag.String("colon", "blink", "Colon style: solid, blink or alt.")
		unit      = flag.String("unit", "c", "Temperature unit: c or f.")
		scroll    = flag.Bool("scroll", true, "Scroll the temperature after the time.")
		style     = flag.String("style", "24", "Clock style: 12 or 24.")
		autolight = flag.Bool("autolight", true, "Follow the ambient light sensor.")
		alarm1    = flag.String("alarm1", "", "First alarm, HH:MM@MonTue... or HH:MM@Daily.")
		alarm2    = flag.String("alarm2", "", "Second alarm, HH:MM@MonTue... or HH:MM@Daily.")
	)
	flag.Parse()

	if *dump {
		if err := dumpImage(*outPath); err != nil {
			fatalf("error: %v", err)
		}
		return
	}

	s := config.Defaults()
	s.HourlyRing = *ring
	s.AutoScrollTemp = *scroll
	s.AutoLight = *autolight

	var err error
	if s.Colon, err = parseColon(*colon); err != nil {
		fatalf("error: %v", err)
	}
	if s.Unit, err = parseUnit(*unit); err != nil {
		fatalf("error: %v", err)
	}
	if s.Style, err = parseStyle(*style); err != nil {
		fatalf("error: %v", err)
	}
	for i, raw := range []string{*alarm1, *alarm2} {
		if raw == "" {
			continue
		}
		if s.Alarms[i], err = parseAlarm(raw); err != nil {
			fatalf("error: %v", err)
		}
	}

	if err := writeImage(*outPath, uint32(*size), s); err != nil {
		fatalf("error: %v", err)
	}
	printSettings(s)
	fmt.Println("wrote", *outPath)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func writeImage(path string, size uint32, s config.Settings) error {
	ff, err := createFlashFile(path, size)
	if err != nil {
		return err
	}
	defer func() { _ = ff.Close() }()

	st := config.NewStore(ff, stdoutLogger{})
	return st.Update(func(p *config.Settings) { *p = s })
}

func dumpImage(path string) error {
	ff, err := openFlashFile(path)
	if err != nil {
		return err
	}
	defer func() { _ = ff.Close() }()

	st := config.NewStore(ff, stdoutLogger{})
	st.Load()
	printSettings(st.Snapshot())
	return nil
}

func printSettings(s config.Settings) {
	fmt.Println("hourly ring ", onOff(s.HourlyRing))
	fmt.Println("colon       ", colonName(s.Colon))
	fmt.Printf("unit         %c\n", s.Unit.Rune())
	fmt.Println("temp scroll ", onOff(s.AutoScrollTemp))
	fmt.Println("style       ", styleName(s.Style))
	fmt.Println("auto light  ", onOff(s.AutoLight))
	for i, a := range s.Alarms {
		fmt.Printf("alarm %d      %s\n", i+1, alarmString(a))
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func colonName(c config.ColonStyle) string {
	switch c {
	case config.ColonSolid:
		return "solid"
	case config.ColonAlt:
		return "alt"
	default:
		return "blink"
	}
}

func styleName(st config.TimeStyle) string {
	if st == config.TwelveHour {
		return "12 hour"
	}
	return "24 hour"
}

// weekOrder lists days the way the alarm screen does, Monday first.
var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

func alarmString(a config.Alarm) string {
	if !a.Active() {
		return "off"
	}
	all := true
	var days strings.Builder
	for _, d := range weekOrder {
		if a.EnabledOn(d) {
			days.WriteString(d.String()[:3])
		} else {
			all = false
		}
	}
	if all {
		return fmt.Sprintf("%02d:%02d@Daily", a.Hour, a.Minute)
	}
	return fmt.Sprintf("%02d:%02d@%s", a.Hour, a.Minute, days.String())
}

func parseColon(s string) (config.ColonStyle, error) {
	switch strings.ToLower(s) {
	case "solid":
		return config.ColonSolid, nil
	case "blink":
		return config.ColonBlink, nil
	case "alt":
		return config.ColonAlt, nil
	}
	return 0, fmt.Errorf("unknown colon style %q (solid, blink or alt)", s)
}

func parseUnit(s string) (config.TemperatureUnit, error) {
	switch strings.ToLower(s) {
	case "c", "celsius":
		return config.Celsius, nil
	case "f", "fahrenheit":
		return config.Fahrenheit, nil
	}
	return 0, fmt.Errorf("unknown unit %q (c or f)", s)
}

func parseStyle(s string) (config.TimeStyle, error) {
	switch s {
	case "24":
		return config.TwentyFourHour, nil
	case "12":
		return config.TwelveHour, nil
	}
	return 0, fmt.Errorf("unknown style %q (12 or 24)", s)
}

var dayTokens = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// parseAlarm reads "HH:MM@MonTueWed" or "HH:MM@Daily".
func parseAlarm(s string) (config.Alarm, error) {
	var a config.Alarm
	clock, days, ok := strings.Cut(s, "@")
	if !ok {
		return a, fmt.Errorf("alarm %q: want HH:MM@days", s)
	}
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return a, fmt.Errorf("alarm %q: want HH:MM@days", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return a, fmt.Errorf("alarm %q: bad hour %q", s, hh)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return a, fmt.Errorf("alarm %q: bad minute %q", s, mm)
	}
	a.Hour, a.Minute = uint8(h), uint8(m)

	if strings.EqualFold(days, "daily") {
		for _, d := range weekOrder {
			a.SetDay(d, true)
		}
		return a, nil
	}
	for len(days) > 0 {
		if len(days) < 3 {
			return a, fmt.Errorf("alarm %q: bad day list %q", s, days)
		}
		d, ok := dayTokens[strings.ToLower(days[:3])]
		if !ok {
			return a, fmt.Errorf("alarm %q: unknown day %q", s, days[:3])
		}
		a.SetDay(d, true)
		days = days[3:]
	}
	if !a.Active() {
		return a, fmt.Errorf("alarm %q: no days", s)
	}
	return a, nil
}

type stdoutLogger struct{}

func (stdoutLogger) WriteLineString(s string) { fmt.Println(s) }
func (stdoutLogger) WriteLineBytes(b []byte)  { fmt.Printf("%s\n", b) }

// flashFile backs hal.Flash with a plain file so the settings store can
// write the same image the host board later opens.
type flashFile struct {
	f    *os.File
	size uint32

	scratch []byte
}

func createFlashFile(path string, size uint32) (*flashFile, error) {
	if size == 0 || size%eraseSize != 0 {
		return nil, fmt.Errorf("image size %d not a multiple of %d", size, eraseSize)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create image %q: %w", path, err)
	}
	if err := f.Truncate(int64(size)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("size image %q to %d: %w", path, size, err)
	}
	ff := newFlashFile(f, size)
	if err := ff.Erase(0, size); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("blank image %q: %w", path, err)
	}
	return ff, nil
}

func openFlashFile(path string) (*flashFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat image %q: %w", path, err)
	}
	if st.Size() <= 0 || st.Size()%eraseSize != 0 {
		_ = f.Close()
		return nil, fmt.Errorf("image %q size %d not a multiple of %d", path, st.Size(), eraseSize)
	}
	return newFlashFile(f, uint32(st.Size())), nil
}

func newFlashFile(f *os.File, size uint32) *flashFile {
	ff := &flashFile{f: f, size: size, scratch: make([]byte, eraseSize)}
	for i := range ff.scratch {
		ff.scratch[i] = 0xFF
	}
	return ff
}

func (ff *flashFile) Close() error { return ff.f.Close() }

func (ff *flashFile) SizeBytes() uint32       { return ff.size }
func (ff *flashFile) EraseBlockBytes() uint32 { return eraseSize }

func (ff *flashFile) ReadAt(p []byte, off uint32) (int, error) {
	if off >= ff.size {
		return 0, fmt.Errorf("flash read at %d: %w", off, os.ErrInvalid)
	}
	if n := int(ff.size - off); len(p) > n {
		p = p[:n]
	}
	return ff.f.ReadAt(p, int64(off))
}

func (ff *flashFile) WriteAt(p []byte, off uint32) (int, error) {
	if off >= ff.size {
		return 0, fmt.Errorf("flash write at %d: %w", off, os.ErrInvalid)
	}
	if n := int(ff.size - off); len(p) > n {
		p = p[:n]
	}
	prev := make([]byte, len(p))
	if _, err := ff.f.ReadAt(prev, int64(off)); err != nil {
		return 0, fmt.Errorf("flash read before write at %d: %w", off, err)
	}
	for i := range p {
		if prev[i]&p[i] != p[i] {
			return 0, hal.ErrFlashWriteRequiresErase
		}
	}
	return ff.f.WriteAt(p, int64(off))
}

func (ff *flashFile) Erase(off, size uint32) error {
	if size == 0 {
		return nil
	}
	if off%eraseSize != 0 || size%eraseSize != 0 {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}
	if off >= ff.size || off+size > ff.size {
		return fmt.Errorf("flash erase off=%d size=%d: %w", off, size, os.ErrInvalid)
	}
	for size > 0 {
		if _, err := ff.f.WriteAt(ff.scratch, int64(off)); err != nil {
			return fmt.Errorf("flash erase block at %d: %w", off, err)
		}
		off += eraseSize
		size -= eraseSize
	}
	return nil
}
