package app

import (
	"context"
	"fmt"
	"time"

	"glint/buttons"
	"glint/config"
	"glint/display"
)

const doneHold = 2 * time.Second

// alarmStage is the field the editor currently owns. The weekday
// stages follow the icon row's order.
type alarmStage uint8

const (
	stageHour alarmStage = iota
	stageMinute
	stageMonday
	stageTuesday
	stageWednesday
	stageThursday
	stageFriday
	stageSaturday
	stageSunday
)

func (st alarmStage) weekday() time.Weekday {
	if st == stageSunday {
		return time.Sunday
	}
	return time.Weekday(st - stageMonday + 1)
}

// Alarms edits the two wake-up slots. It opens on a menu naming the
// slots; picking one walks hour, minute and each weekday with the
// edited field blinking, then writes the slot back to flash on the
// final press.
type Alarms struct {
	deps Deps
	run  runner
	bl   *blinker

	menu bool
	slot int

	stage  alarmStage
	hour   int
	minute int
	days   [7]bool // Monday first, as the stages run
}

func NewAlarms(deps Deps) *Alarms {
	return &Alarms{deps: deps, bl: newBlinker(deps)}
}

func (a *Alarms) Name() string { return "Alarms" }

// Start always lands on the menu; a half-finished edit from a previous
// visit is discarded.
func (a *Alarms) Start(ctx context.Context) {
	a.menu = true
	a.deps.Engine.ClearAll(true)
	a.showSlot(ctx)
}

func (a *Alarms) Stop() { a.run.stop() }

func (a *Alarms) ButtonOne(ctx context.Context, k buttons.Kind) {
	if k != buttons.Short {
		return
	}
	if a.menu {
		a.openEditor(ctx)
		return
	}
	if a.stage == stageSunday {
		a.finishEditor(ctx)
		return
	}
	a.stage++
	a.showStage(ctx)
}

func (a *Alarms) ButtonTwo(ctx context.Context, k buttons.Kind) {
	if a.menu {
		a.slot = 1 - a.slot
		a.showSlot(ctx)
		return
	}
	a.adjust(ctx, 1)
}

func (a *Alarms) ButtonThree(ctx context.Context, k buttons.Kind) {
	if a.menu {
		a.slot = 1 - a.slot
		a.showSlot(ctx)
		return
	}
	a.adjust(ctx, -1)
}

func (a *Alarms) showSlot(ctx context.Context) {
	a.deps.Engine.QueueText(ctx, a.slotName(), 0, true, false)
}

// slotName digs into the glyph set: the font has no W, so the slots
// cannot be called One and Two.
func (a *Alarms) slotName() string {
	return fmt.Sprintf("Alarm %d", a.slot+1)
}

// openEditor seeds the stages from the stored slot and starts the
// blinker.
func (a *Alarms) openEditor(ctx context.Context) {
	slot := a.deps.Store.Snapshot().Alarms[a.slot]

	a.menu = false
	a.stage = stageHour
	a.hour = int(slot.Hour)
	a.minute = int(slot.Minute)
	for st := stageMonday; st <= stageSunday; st++ {
		a.days[st-stageMonday] = slot.EnabledOn(st.weekday())
	}

	a.showStage(ctx)
	a.run.start(ctx, a.bl.run)
}

// finishEditor persists the staged slot and returns to the menu.
func (a *Alarms) finishEditor(ctx context.Context) {
	a.run.stop()

	var slot config.Alarm
	slot.Hour = uint8(a.hour)
	slot.Minute = uint8(a.minute)
	for st := stageMonday; st <= stageSunday; st++ {
		slot.SetDay(st.weekday(), a.days[st-stageMonday])
	}
	if err := a.deps.Store.Update(func(s *config.Settings) {
		s.Alarms[a.slot] = slot
	}); err != nil {
		a.deps.Log.WriteLineString(fmt.Sprintf("alarm: save failed: %v", err))
	}

	a.menu = true
	a.showDayIcons()
	a.deps.Engine.QueueText(ctx, "Done", doneHold, true, false)
	a.deps.Engine.QueueText(ctx, a.slotName(), 0, false, false)
}

// adjust edits the active field. Hour and minute wrap; a weekday stage
// toggles regardless of direction.
func (a *Alarms) adjust(ctx context.Context, delta int) {
	switch a.stage {
	case stageHour:
		a.hour = wrap(a.hour+delta, 0, 23)
	case stageMinute:
		a.minute = wrap(a.minute+delta, 0, 59)
	default:
		i := a.stage - stageMonday
		a.days[i] = !a.days[i]
	}
	a.showStage(ctx)
}

// showStage hands the blinker its new field and, on weekday stages,
// paints the mask state around it.
func (a *Alarms) showStage(ctx context.Context) {
	switch a.stage {
	case stageHour:
		a.bl.set(blinkTask{kind: blinkHour, left: a.hour, right: a.minute})
	case stageMinute:
		a.bl.set(blinkTask{kind: blinkMinute, left: a.hour, right: a.minute})
	default:
		a.bl.set(blinkTask{kind: blinkIcon, icon: display.IconForWeekday(a.stage.weekday())})
		a.showDayIcons()
		if a.days[a.stage-stageMonday] {
			a.deps.Engine.QueueText(ctx, "ON", 0, true, false)
		} else {
			a.deps.Engine.QueueText(ctx, "OFF", 0, true, false)
		}
	}
}

func (a *Alarms) showDayIcons() {
	for st := stageMonday; st <= stageSunday; st++ {
		setIcon(a.deps.Engine, display.IconForWeekday(st.weekday()), a.days[st-stageMonday])
	}
}

// wrap steps v into [lo, hi], rolling over at either end.
func wrap(v, lo, hi int) int {
	if v > hi {
		return lo
	}
	if v < lo {
		return hi
	}
	return v
}
