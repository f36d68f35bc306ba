package app

import (
	"context"
	"time"

	"glint/display"
	"glint/internal/mailbox"
)

const (
	// blinkShow and blinkHide pace an edited field's flash: lit longer
	// than dark so the value stays readable.
	blinkShow = 750 * time.Millisecond
	blinkHide = 350 * time.Millisecond
)

// blinkKind names the panel field a blinker flashes.
type blinkKind uint8

const (
	blinkNone blinkKind = iota
	blinkHour
	blinkMinute
	blinkDay
	blinkMonth
	blinkYear
	blinkIcon
)

// blinkTask is one field to flash. left and right carry the pair
// values (hour and minute, or day and month); year and icon serve
// their own kinds.
type blinkTask struct {
	kind  blinkKind
	left  int
	right int
	year  int
	icon  display.Icon
}

// blinker repaints the active editor field at every phase flip. An
// editor swaps fields by dropping a new task in the mailbox; the
// blinker adopts it at the next flip, so a change lands within one lit
// phase.
type blinker struct {
	deps Deps
	box  *mailbox.Mailbox[blinkTask]
}

func newBlinker(deps Deps) *blinker {
	return &blinker{deps: deps, box: mailbox.New[blinkTask]()}
}

func (bl *blinker) set(t blinkTask) { bl.box.Put(t) }

func (bl *blinker) run(ctx context.Context) {
	task := blinkTask{kind: blinkNone}
	hidden := false
	for {
		if t, ok := bl.box.TryGet(); ok {
			task = t
		}
		delay := blinkShow
		if hidden {
			delay = blinkHide
		}
		bl.show(ctx, task, hidden, delay)
		if !sleepCtx(ctx, bl.deps.Clock, delay) {
			return
		}
		hidden = !hidden
	}
}

// show paints one phase. The dark phase of a pair field redraws only
// the other half, so the edited value vanishes without moving its
// neighbor.
func (bl *blinker) show(ctx context.Context, t blinkTask, hidden bool, hold time.Duration) {
	e := bl.deps.Engine
	switch t.kind {
	case blinkHour:
		if hidden {
			e.QueueTimeRight(ctx, t.right, hold, true)
		} else {
			e.QueueTime(ctx, t.left, t.right, display.ColonSolid, hold, true, false)
		}
	case blinkMinute:
		if hidden {
			e.QueueTimeLeft(ctx, t.left, hold, true)
		} else {
			e.QueueTime(ctx, t.left, t.right, display.ColonSolid, hold, true, false)
		}
	case blinkDay:
		if hidden {
			e.QueueTimeRight(ctx, t.right, hold, true)
		} else {
			e.QueueDate(ctx, t.left, t.right, hold, true)
		}
	case blinkMonth:
		if hidden {
			e.QueueTimeLeft(ctx, t.left, hold, true)
		} else {
			e.QueueDate(ctx, t.left, t.right, hold, true)
		}
	case blinkYear:
		if hidden {
			e.QueueText(ctx, "", hold, true, false)
		} else {
			e.QueueYear(ctx, t.year, hold, true)
		}
	case blinkIcon:
		if hidden {
			e.HideIcon(t.icon)
		} else {
			e.ShowIcon(t.icon)
		}
	}
}
