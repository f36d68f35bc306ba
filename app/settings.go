package app

import (
	"context"
	"fmt"
	"time"

	"glint/buttons"
	"glint/config"
	"glint/display"
)

// setupStage walks the clock fields first, then the preferences.
type setupStage uint8

const (
	setupHour setupStage = iota
	setupMinute
	setupDay
	setupMonth
	setupYear
	setupRing
	setupColon
	setupUnit
	setupScroll
	setupStyle
	setupLight
)

// Settings edits the wall time and the stored preferences in one pass.
// Clock fields blink like the alarm editor; preference stages flash
// the icon that announces them and print the current choice.
type Settings struct {
	deps Deps
	run  runner
	bl   *blinker

	editing bool
	stage   setupStage

	hour   int
	minute int
	day    int
	month  int
	year   int

	prefs config.Settings
}

func NewSettings(deps Deps) *Settings {
	return &Settings{deps: deps, bl: newBlinker(deps)}
}

func (st *Settings) Name() string { return "Settings" }

func (st *Settings) Start(ctx context.Context) {
	st.editing = false
	st.deps.Engine.ClearAll(true)
	st.deps.Engine.QueueText(ctx, "Settings", 0, true, false)
}

func (st *Settings) Stop() { st.run.stop() }

func (st *Settings) ButtonOne(ctx context.Context, k buttons.Kind) {
	if k != buttons.Short {
		return
	}
	if !st.editing {
		st.openEditor(ctx)
		return
	}
	if st.stage == setupLight {
		st.finishEditor(ctx)
		return
	}
	st.stage++
	st.showStage(ctx)
}

func (st *Settings) ButtonTwo(ctx context.Context, k buttons.Kind) {
	if st.editing {
		st.adjust(ctx, 1)
	}
}

func (st *Settings) ButtonThree(ctx context.Context, k buttons.Kind) {
	if st.editing {
		st.adjust(ctx, -1)
	}
}

// openEditor stages a copy of the wall time and the preferences. The
// seconds restart at zero when the time is written back.
func (st *Settings) openEditor(ctx context.Context) {
	now, err := st.deps.RTC.ReadTime()
	if err != nil {
		st.deps.Log.WriteLineString(fmt.Sprintf("settings: rtc read failed: %v", err))
		now = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	st.editing = true
	st.stage = setupHour
	st.hour, st.minute = now.Hour(), now.Minute()
	st.day, st.month, st.year = now.Day(), int(now.Month()), now.Year()
	st.prefs = st.deps.Store.Snapshot()

	st.showStage(ctx)
	st.run.start(ctx, st.bl.run)
}

// finishEditor writes the clock and the preferences back. A day the
// edited month does not have rolls forward, the same way time.Date
// treats February 31st.
func (st *Settings) finishEditor(ctx context.Context) {
	st.run.stop()

	at := time.Date(st.year, time.Month(st.month), st.day, st.hour, st.minute, 0, 0, time.UTC)
	if err := st.deps.RTC.SetTime(at); err != nil {
		st.deps.Log.WriteLineString(fmt.Sprintf("settings: rtc write failed: %v", err))
	}
	if err := st.deps.Store.Update(func(s *config.Settings) {
		s.HourlyRing = st.prefs.HourlyRing
		s.Colon = st.prefs.Colon
		s.Unit = st.prefs.Unit
		s.AutoScrollTemp = st.prefs.AutoScrollTemp
		s.Style = st.prefs.Style
		s.AutoLight = st.prefs.AutoLight
	}); err != nil {
		st.deps.Log.WriteLineString(fmt.Sprintf("settings: save failed: %v", err))
	}

	st.editing = false
	st.deps.Engine.QueueText(ctx, "Done", doneHold, true, false)
	st.deps.Engine.QueueText(ctx, "Settings", 0, false, false)
}

func (st *Settings) adjust(ctx context.Context, delta int) {
	switch st.stage {
	case setupHour:
		st.hour = wrap(st.hour+delta, 0, 23)
	case setupMinute:
		st.minute = wrap(st.minute+delta, 0, 59)
	case setupDay:
		st.day = wrap(st.day+delta, 1, 31)
	case setupMonth:
		st.month = wrap(st.month+delta, 1, 12)
	case setupYear:
		st.year = wrap(st.year+delta, 2000, 2099)
	case setupRing:
		st.prefs.HourlyRing = !st.prefs.HourlyRing
	case setupColon:
		st.prefs.Colon = config.ColonStyle(wrap(int(st.prefs.Colon)+delta, int(config.ColonSolid), int(config.ColonAlt)))
	case setupUnit:
		st.prefs.ToggleUnit()
	case setupScroll:
		st.prefs.AutoScrollTemp = !st.prefs.AutoScrollTemp
	case setupStyle:
		st.prefs.ToggleStyle()
	case setupLight:
		st.prefs.ToggleAutoLight()
	}
	st.showStage(ctx)
}

func (st *Settings) showStage(ctx context.Context) {
	st.repaintIcons()
	e := st.deps.Engine
	switch st.stage {
	case setupHour:
		st.bl.set(blinkTask{kind: blinkHour, left: st.hour, right: st.minute})
	case setupMinute:
		st.bl.set(blinkTask{kind: blinkMinute, left: st.hour, right: st.minute})
	case setupDay:
		st.bl.set(blinkTask{kind: blinkDay, left: st.day, right: st.month})
	case setupMonth:
		st.bl.set(blinkTask{kind: blinkMonth, left: st.day, right: st.month})
	case setupYear:
		st.bl.set(blinkTask{kind: blinkYear, year: st.year})
	case setupRing:
		st.bl.set(blinkTask{kind: blinkIcon, icon: display.IconHourly})
		e.QueueText(ctx, onOff(st.prefs.HourlyRing), 0, true, false)
	case setupColon:
		st.bl.set(blinkTask{kind: blinkNone})
		e.QueueText(ctx, colonLabel(st.prefs.Colon), 0, true, false)
	case setupUnit:
		st.bl.set(blinkTask{kind: blinkIcon, icon: unitIcon(st.prefs.Unit)})
		e.QueueText(ctx, "°"+string(st.prefs.Unit.Rune()), 0, true, false)
	case setupScroll:
		st.bl.set(blinkTask{kind: blinkIcon, icon: display.IconMoveOn})
		e.QueueText(ctx, onOff(st.prefs.AutoScrollTemp), 0, true, false)
	case setupStyle:
		st.bl.set(blinkTask{kind: blinkNone})
		e.QueueText(ctx, styleLabel(st.prefs.Style), 0, true, false)
	case setupLight:
		st.bl.set(blinkTask{kind: blinkIcon, icon: display.IconAutoLight})
		e.QueueText(ctx, onOff(st.prefs.AutoLight), 0, true, false)
	}
}

// repaintIcons restores the steady icon state so a stage change never
// strands the previous stage's icon mid-flash.
func (st *Settings) repaintIcons() {
	e := st.deps.Engine
	setIcon(e, display.IconHourly, st.prefs.HourlyRing)
	setIcon(e, display.IconMoveOn, st.prefs.AutoScrollTemp)
	setIcon(e, display.IconAutoLight, st.prefs.AutoLight)
	setIcon(e, display.IconCelsius, st.prefs.Unit == config.Celsius)
	setIcon(e, display.IconFahrenheit, st.prefs.Unit == config.Fahrenheit)
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

func colonLabel(c config.ColonStyle) string {
	switch c {
	case config.ColonSolid:
		return "Solid"
	case config.ColonAlt:
		return "Alt"
	default:
		return "Blink"
	}
}

func styleLabel(s config.TimeStyle) string {
	if s == config.TwelveHour {
		return "12 HR"
	}
	return "24 HR"
}

func unitIcon(u config.TemperatureUnit) display.Icon {
	if u == config.Fahrenheit {
		return display.IconFahrenheit
	}
	return display.IconCelsius
}
