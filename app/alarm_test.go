package app

import (
	"testing"
	"time"

	"glint/buttons"
	"glint/config"
)

func TestWrapRollsOverAtBothEnds(t *testing.T) {
	cases := []struct {
		v, lo, hi, want int
	}{
		{24, 0, 23, 0},
		{-1, 0, 23, 23},
		{60, 0, 59, 0},
		{12, 1, 12, 12},
		{13, 1, 12, 1},
		{0, 1, 31, 31},
		{2100, 2000, 2099, 2000},
	}
	for _, c := range cases {
		if got := wrap(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("wrap(%d, %d, %d) = %d, want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestAlarmsMenuTogglesSlot(t *testing.T) {
	f := newFixture(t)
	a := NewAlarms(f.deps)
	a.Start(f.ctx)

	if !a.menu || a.slot != 0 {
		t.Fatalf("menu = %v slot = %d, want the menu on the first slot", a.menu, a.slot)
	}
	a.ButtonTwo(f.ctx, buttons.Short)
	if a.slot != 1 {
		t.Fatalf("slot = %d, want 1", a.slot)
	}
	a.ButtonThree(f.ctx, buttons.Short)
	if a.slot != 0 {
		t.Fatalf("slot = %d, want back on 0", a.slot)
	}

	// Long and double presses on the select key do not open the editor.
	a.ButtonOne(f.ctx, buttons.Long)
	a.ButtonOne(f.ctx, buttons.Double)
	if !a.menu {
		t.Fatal("a non-short press opened the editor")
	}
}

func TestAlarmsEditorWalkPersistsSlot(t *testing.T) {
	f := newFixture(t)
	f.deps.Store.Update(func(s *config.Settings) {
		s.Alarms[1] = config.Alarm{Hour: 7, Minute: 45}
		s.Alarms[1].SetDay(time.Wednesday, true)
	})

	a := NewAlarms(f.deps)
	a.Start(f.ctx)
	a.ButtonTwo(f.ctx, buttons.Short) // slot 2
	a.ButtonOne(f.ctx, buttons.Short) // open the editor

	if a.menu || a.stage != stageHour {
		t.Fatalf("menu = %v stage = %v, want the editor on the hour", a.menu, a.stage)
	}
	if a.hour != 7 || a.minute != 45 || !a.days[2] {
		t.Fatalf("seeded %d:%02d days %v, want the stored slot", a.hour, a.minute, a.days)
	}

	a.ButtonTwo(f.ctx, buttons.Short)
	a.ButtonTwo(f.ctx, buttons.Short) // hour 9
	a.ButtonOne(f.ctx, buttons.Short) // minute stage

	// Any press kind adjusts inside the editor; the classifier's long
	// and double gestures are not select keys here.
	a.ButtonTwo(f.ctx, buttons.Long) // minute 46

	a.ButtonOne(f.ctx, buttons.Short) // Monday
	a.ButtonTwo(f.ctx, buttons.Short) // Monday on
	a.ButtonOne(f.ctx, buttons.Short) // Tuesday
	a.ButtonOne(f.ctx, buttons.Short) // Wednesday
	a.ButtonThree(f.ctx, buttons.Short) // Wednesday off
	a.ButtonOne(f.ctx, buttons.Short) // Thursday
	a.ButtonOne(f.ctx, buttons.Short) // Friday
	a.ButtonOne(f.ctx, buttons.Short) // Saturday
	a.ButtonTwo(f.ctx, buttons.Short) // Saturday on
	a.ButtonOne(f.ctx, buttons.Short) // Sunday
	a.ButtonTwo(f.ctx, buttons.Short) // Sunday on
	a.ButtonOne(f.ctx, buttons.Short) // done

	if !a.menu {
		t.Fatal("finishing the walk did not return to the menu")
	}
	slot := f.deps.Store.Snapshot().Alarms[1]
	if slot.Hour != 9 || slot.Minute != 46 {
		t.Fatalf("stored %d:%02d, want 9:46", slot.Hour, slot.Minute)
	}
	for _, c := range []struct {
		day  time.Weekday
		want bool
	}{
		{time.Monday, true},
		{time.Tuesday, false},
		{time.Wednesday, false},
		{time.Thursday, false},
		{time.Friday, false},
		{time.Saturday, true},
		{time.Sunday, true},
	} {
		if got := slot.EnabledOn(c.day); got != c.want {
			t.Errorf("EnabledOn(%v) = %v, want %v", c.day, got, c.want)
		}
	}

	// The other slot is untouched.
	if got := f.deps.Store.Snapshot().Alarms[0]; got != (config.Alarm{}) {
		t.Fatalf("slot 1 = %+v, want still empty", got)
	}

	// The day icons stand steady after the walk: Monday, Saturday and
	// Sunday lit.
	if !iconLit(f.m, 0, 3, 2) || !iconLit(f.m, 0, 18, 2) || !iconLit(f.m, 0, 21, 2) {
		t.Fatal("enabled day icons dark after finishing")
	}
	if iconLit(f.m, 0, 9, 2) {
		t.Fatal("Wednesday icon lit after being switched off")
	}
}

func TestAlarmsHourAndMinuteWrap(t *testing.T) {
	f := newFixture(t)
	a := NewAlarms(f.deps)
	a.Start(f.ctx)
	a.ButtonOne(f.ctx, buttons.Short) // editor, hour 0

	a.ButtonThree(f.ctx, buttons.Short)
	if a.hour != 23 {
		t.Fatalf("hour = %d, want wrap to 23", a.hour)
	}
	a.ButtonTwo(f.ctx, buttons.Short)
	if a.hour != 0 {
		t.Fatalf("hour = %d, want wrap to 0", a.hour)
	}

	a.ButtonOne(f.ctx, buttons.Short) // minute
	a.ButtonThree(f.ctx, buttons.Short)
	if a.minute != 59 {
		t.Fatalf("minute = %d, want wrap to 59", a.minute)
	}
}

func TestAlarmsSwitchingAwayDiscardsEdit(t *testing.T) {
	f := newFixture(t)
	a := NewAlarms(f.deps)
	a.Start(f.ctx)
	a.ButtonOne(f.ctx, buttons.Short) // editor
	a.ButtonTwo(f.ctx, buttons.Short) // hour 1
	a.ButtonOne(f.ctx, buttons.Short) // minute stage

	a.Stop()
	a.Start(f.ctx)
	if !a.menu {
		t.Fatal("re-entry did not land on the menu")
	}
	if got := f.deps.Store.Snapshot().Alarms[0]; got != (config.Alarm{}) {
		t.Fatalf("slot = %+v, want the abandoned edit unsaved", got)
	}

	// Re-opening seeds from the store again, not the abandoned edit.
	a.ButtonOne(f.ctx, buttons.Short)
	if a.stage != stageHour || a.hour != 0 {
		t.Fatalf("stage = %v hour = %d, want a fresh editor", a.stage, a.hour)
	}
}
