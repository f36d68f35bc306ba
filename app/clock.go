package app

import (
	"context"
	"fmt"
	"time"

	"glint/buttons"
	"glint/config"
	"glint/display"
	"glint/speaker"
)

const (
	// dateHold keeps the date and year faces readable before the time
	// returns.
	dateHold = 2 * time.Second

	hourlyChimeBeeps = 2
	alarmBeeps       = 3
)

// Clock is the default face: time of day with status icons, the date on
// demand and the once-a-minute temperature scroll.
type Clock struct {
	deps Deps
	run  runner
}

func NewClock(deps Deps) *Clock { return &Clock{deps: deps} }

func (c *Clock) Name() string { return "Clock" }

func (c *Clock) Start(ctx context.Context) { c.run.start(ctx, c.tick) }

func (c *Clock) Stop() { c.run.stop() }

// tick repaints the face once a second and raises the timed sounds.
// last carries the previous tick's reading so hour and minute
// rollovers fire exactly once.
func (c *Clock) tick(ctx context.Context) {
	c.deps.Engine.ClearAll(true)

	var last time.Time
	for {
		now, err := c.deps.RTC.ReadTime()
		if err != nil {
			c.deps.Log.WriteLineString(fmt.Sprintf("clock: rtc read failed: %v", err))
		} else {
			s := c.deps.Store.Snapshot()
			c.syncIcons(s, now)
			c.deps.Engine.QueueTime(ctx, s.ClockHour(now.Hour()), now.Minute(),
				colonPhase(s.Colon, now.Second()), 0, false, false)

			if !last.IsZero() && now.Hour() != last.Hour() && s.HourlyRing {
				c.deps.Sound.Play(speaker.RepeatShort(hourlyChimeBeeps))
			}
			if last.IsZero() || now.Minute() != last.Minute() || now.Hour() != last.Hour() {
				c.fireAlarms(s, now)
			}
			if s.AutoScrollTemp && now.Second() == 30 && last.Second() != 30 {
				c.scrollTemperature(ctx, s, now)
			}
			last = now
		}

		if !sleepCtx(ctx, c.deps.Clock, time.Second) {
			return
		}
	}
}

// syncIcons drives every status icon from the current settings and
// time. Show and hide are idempotent, so the whole set repaints each
// tick.
func (c *Clock) syncIcons(s config.Settings, now time.Time) {
	e := c.deps.Engine
	today := display.IconForWeekday(now.Weekday())
	for d := time.Sunday; d <= time.Saturday; d++ {
		setIcon(e, display.IconForWeekday(d), display.IconForWeekday(d) == today)
	}

	if s.Style == config.TwelveHour {
		setIcon(e, display.IconAM, now.Hour() < 12)
		setIcon(e, display.IconPM, now.Hour() >= 12)
	} else {
		e.HideIcon(display.IconAM)
		e.HideIcon(display.IconPM)
	}

	setIcon(e, display.IconFahrenheit, s.Unit == config.Fahrenheit)
	setIcon(e, display.IconCelsius, s.Unit == config.Celsius)
	setIcon(e, display.IconHourly, s.HourlyRing)
	setIcon(e, display.IconAutoLight, s.AutoLight)
	setIcon(e, display.IconMoveOn, s.AutoScrollTemp)
	setIcon(e, display.IconAlarmOn, s.Alarms[0].Active() || s.Alarms[1].Active())
}

// fireAlarms sounds every slot due in the minute just entered.
func (c *Clock) fireAlarms(s config.Settings, now time.Time) {
	for i := range s.Alarms {
		a := s.Alarms[i]
		if !a.EnabledOn(now.Weekday()) {
			continue
		}
		if int(a.Hour) != now.Hour() || int(a.Minute) != now.Minute() {
			continue
		}
		c.deps.Log.WriteLineString(fmt.Sprintf("clock: alarm %d due", i+1))
		c.deps.Sound.Play(speaker.RepeatLong(alarmBeeps))
	}
}

// scrollTemperature walks time plus temperature through the viewport
// and off again.
func (c *Clock) scrollTemperature(ctx context.Context, s config.Settings, now time.Time) {
	mc, err := c.deps.RTC.Temperature()
	if err != nil {
		c.deps.Log.WriteLineString(fmt.Sprintf("clock: temperature read failed: %v", err))
		return
	}
	c.deps.Engine.QueueTimeTemperature(ctx, s.ClockHour(now.Hour()), now.Minute(),
		colonPhase(s.Colon, now.Second()), s.Unit.FromMilliCelsius(mc), s.Unit.Rune(), false)
}

// ButtonOne shows the date, then the year.
func (c *Clock) ButtonOne(ctx context.Context, k buttons.Kind) {
	if k != buttons.Short {
		return
	}
	now, err := c.deps.RTC.ReadTime()
	if err != nil {
		c.deps.Log.WriteLineString(fmt.Sprintf("clock: rtc read failed: %v", err))
		return
	}
	c.deps.Engine.QueueDate(ctx, now.Day(), int(now.Month()), dateHold, true)
	c.deps.Engine.QueueYear(ctx, now.Year(), dateHold, false)
}

// ButtonTwo shows the temperature right away.
func (c *Clock) ButtonTwo(ctx context.Context, k buttons.Kind) {
	if k != buttons.Short {
		return
	}
	mc, err := c.deps.RTC.Temperature()
	if err != nil {
		c.deps.Log.WriteLineString(fmt.Sprintf("clock: temperature read failed: %v", err))
		return
	}
	s := c.deps.Store.Snapshot()
	c.deps.Engine.QueueTemperature(ctx, s.Unit.FromMilliCelsius(mc), s.Unit.Rune(), true, true)
}

func (c *Clock) ButtonThree(context.Context, buttons.Kind) {}

func setIcon(e *display.Engine, ic display.Icon, on bool) {
	if on {
		e.ShowIcon(ic)
	} else {
		e.HideIcon(ic)
	}
}

// colonPhase picks the separator cell for one second of the face.
func colonPhase(style config.ColonStyle, sec int) display.ColonMode {
	switch style {
	case config.ColonSolid:
		return display.ColonSolid
	case config.ColonAlt:
		if sec%2 == 0 {
			return display.ColonUpper
		}
		return display.ColonLower
	default:
		if sec%2 == 0 {
			return display.ColonSolid
		}
		return display.ColonBlank
	}
}
