package display

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"glint/hal"
)

// Queue and timing parameters. The two delays are empirically tuned for
// the physical panel and can be overridden per engine before Run.
const (
	QueueDepth = 16

	// DefaultScrollDelay is the pause between scroll steps.
	DefaultScrollDelay = 150 * time.Millisecond

	// DefaultFirstShiftPause replaces the scroll delay for the first
	// step of a request, so the leading content can be read before it
	// starts moving.
	DefaultFirstShiftPause = 500 * time.Millisecond

	// temperatureHold is how long temperature composites rest before
	// scrolling off.
	temperatureHold = time.Second

	// maxTextLen caps request text; longer input is cut, not refused.
	maxTextLen = 32
)

// ColonMode selects how the separator cell of a time render looks. The
// clock app alternates modes to blink the colon; all four cells share
// one width, so the digits around them never move.
type ColonMode uint8

const (
	ColonSolid ColonMode = iota
	ColonBlank
	ColonUpper
	ColonLower
)

func (c ColonMode) rune() rune {
	switch c {
	case ColonBlank:
		return ' '
	case ColonUpper:
		return '\''
	case ColonLower:
		return ','
	default:
		return ':'
	}
}

// request is one unit of queued work for the consumer. gen records the
// cancellation generation it was enqueued under; a request from an older
// generation is dead on arrival. A request carrying a done channel is a
// barrier: the consumer closes it instead of painting.
type request struct {
	glyphs    []Glyph
	origin    int
	hold      time.Duration
	scrollOff bool
	gen       uint32
	done      chan struct{}
}

// Engine owns the render queue: producers enqueue display requests, a
// single consumer paints them into the matrix and walks their scroll
// trajectories. Icons bypass the queue entirely; they are state, not
// timed content.
type Engine struct {
	m     *Matrix
	log   hal.Logger
	clock clockwork.Clock

	queue  chan request
	cancel chan struct{}
	gen    atomic.Uint32

	// ScrollDelay paces scroll steps; FirstShiftPause replaces it for
	// the first step of each request. Adjust before Run only.
	ScrollDelay     time.Duration
	FirstShiftPause time.Duration
}

func NewEngine(m *Matrix, log hal.Logger, clock clockwork.Clock) *Engine {
	return &Engine{
		m:               m,
		log:             log,
		clock:           clock,
		queue:           make(chan request, QueueDepth),
		cancel:          make(chan struct{}, 1),
		ScrollDelay:     DefaultScrollDelay,
		FirstShiftPause: DefaultFirstShiftPause,
	}
}

// QueueText enqueues text across the default viewport. showNow cancels
// the active render and discards everything queued ahead of this text;
// scrollOff pushes the content off the left edge once its hold expires.
// The caller blocks while the queue is full.
func (e *Engine) QueueText(ctx context.Context, text string, hold time.Duration, showNow, scrollOff bool) {
	e.enqueue(ctx, request{
		glyphs:    e.resolve(text),
		origin:    TextStart,
		hold:      hold,
		scrollOff: scrollOff,
	}, showNow)
}

// QueueTextFrom anchors text to start at startCol instead of the
// viewport origin. Used to redraw one half of a colon pair while the
// other half blinks.
func (e *Engine) QueueTextFrom(ctx context.Context, startCol int, text string, hold time.Duration, showNow bool) {
	if startCol < TextStart {
		startCol = TextStart
	}
	if startCol > ViewportEnd {
		startCol = ViewportEnd
	}
	e.enqueue(ctx, request{glyphs: e.resolve(text), origin: startCol, hold: hold}, showNow)
}

// QueueTextTo right-aligns text so that it ends at endCol.
func (e *Engine) QueueTextTo(ctx context.Context, endCol int, text string, hold time.Duration, showNow bool) {
	if endCol > ViewportEnd {
		endCol = ViewportEnd
	}
	glyphs := e.resolve(text)
	origin := rightAlignedOrigin(stripWidth(glyphs), endCol)
	e.enqueue(ctx, request{glyphs: glyphs, origin: origin, hold: hold}, showNow)
}

// QueueTime renders a zero-padded HH:MM pair. The strip is exactly the
// viewport wide, so it never scrolls in.
func (e *Engine) QueueTime(ctx context.Context, left, right int, colon ColonMode, hold time.Duration, showNow, scrollOff bool) {
	e.QueueText(ctx, formatPair(left, colon.rune(), right), hold, showNow, scrollOff)
}

// Pair composites place their left field in columns 2..10 and their
// right field in columns 15..23, with the separator between. The two
// anchors below let a caller redraw one field where QueueTime put it
// while the other half blinks dark.
const (
	pairLeftEnd    = 10
	pairRightStart = 15
)

// QueueTimeLeft shows only the left field of the standard pair layout,
// leaving the right field dark.
func (e *Engine) QueueTimeLeft(ctx context.Context, left int, hold time.Duration, showNow bool) {
	e.QueueTextTo(ctx, pairLeftEnd, fmt.Sprintf("%02d", left), hold, showNow)
}

// QueueTimeRight shows only the right field of the standard pair
// layout, leaving the left field dark.
func (e *Engine) QueueTimeRight(ctx context.Context, right int, hold time.Duration, showNow bool) {
	e.QueueTextFrom(ctx, pairRightStart, fmt.Sprintf("%02d", right), hold, showNow)
}

// QueueDate renders a zero-padded day/month pair in the order given.
func (e *Engine) QueueDate(ctx context.Context, left, right int, hold time.Duration, showNow bool) {
	e.QueueText(ctx, formatPair(left, '/', right), hold, showNow, false)
}

func (e *Engine) QueueYear(ctx context.Context, year int, hold time.Duration, showNow bool) {
	e.QueueText(ctx, strconv.Itoa(year), hold, showNow, false)
}

// QueueTemperature renders a signed temperature with its degree unit.
func (e *Engine) QueueTemperature(ctx context.Context, degrees int, unit rune, showNow, scrollOff bool) {
	e.QueueText(ctx, formatTemperature(degrees, unit), temperatureHold, showNow, scrollOff)
}

// QueueTimeTemperature renders time and temperature as one strip. The
// strip is wider than the viewport, so it scrolls in and back off.
func (e *Engine) QueueTimeTemperature(ctx context.Context, left, right int, colon ColonMode, degrees int, unit rune, showNow bool) {
	text := formatPair(left, colon.rune(), right) + " " + formatTemperature(degrees, unit)
	e.enqueue(ctx, request{
		glyphs:    e.resolve(text),
		origin:    TextStart,
		hold:      temperatureHold,
		scrollOff: true,
	}, showNow)
}

// ShowIcon lights an icon immediately, outside the queue.
func (e *Engine) ShowIcon(ic Icon) { e.icon(ic, true) }

// HideIcon darkens an icon immediately.
func (e *Engine) HideIcon(ic Icon) { e.icon(ic, false) }

func (e *Engine) icon(ic Icon, on bool) {
	if ic >= iconCount {
		e.log.WriteLineString(fmt.Sprintf("display: no icon %d", uint8(ic)))
		return
	}
	e.m.setIcon(iconCells[ic], on)
}

// ClearAll blanks the whole panel at once; removeQueue also cancels the
// active render and discards the queue.
func (e *Engine) ClearAll(removeQueue bool) {
	if removeQueue {
		e.cancelAndDrain()
	}
	e.m.Clear()
}

// FillAll lights the whole panel at once.
func (e *Engine) FillAll(removeQueue bool) {
	if removeQueue {
		e.cancelAndDrain()
	}
	e.m.Fill()
}

// Flush blocks until every request enqueued before the call has been
// rendered or discarded by a cancel, or until ctx ends.
func (e *Engine) Flush(ctx context.Context) {
	done := make(chan struct{})
	e.enqueue(ctx, request{done: done}, false)
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// resolve maps text to glyphs, folding letters to upper case and
// skipping anything the font lacks.
func (e *Engine) resolve(text string) []Glyph {
	runes := []rune(text)
	if len(runes) > maxTextLen {
		runes = runes[:maxTextLen]
	}
	glyphs := make([]Glyph, 0, len(runes))
	for _, c := range runes {
		g, ok := glyphFor(c)
		if !ok {
			e.log.WriteLineString(fmt.Sprintf("display: no glyph for %q", c))
			continue
		}
		glyphs = append(glyphs, g)
	}
	return glyphs
}

func (e *Engine) enqueue(ctx context.Context, r request, showNow bool) {
	if showNow {
		e.cancelAndDrain()
	}
	r.gen = e.gen.Load()
	select {
	case e.queue <- r:
	case <-ctx.Done():
	}
}

// cancelAndDrain asks the consumer to abandon the active render at its
// next checkpoint, discards every queued request (releasing any barriers
// among them), and blanks the text area. The signal slot is write-wins:
// re-signalling an undelivered cancel is a no-op. Bumping the generation
// first closes the window where the woken consumer dequeues an item this
// drain was about to discard; such an item dies on arrival instead.
func (e *Engine) cancelAndDrain() {
	e.gen.Add(1)
	select {
	case e.cancel <- struct{}{}:
	default:
	}
	for {
		select {
		case r := <-e.queue:
			if r.done != nil {
				close(r.done)
			}
		default:
			e.m.clearText()
			return
		}
	}
}

// Run is the consumer task. It services requests strictly in queue
// order until ctx ends.
func (e *Engine) Run(ctx context.Context) {
	for {
		var r request
		select {
		case <-ctx.Done():
			return
		case r = <-e.queue:
		}
		// A barrier reports back instead of painting; whether the work
		// ahead of it rendered or was discarded, it is behind us now.
		if r.done != nil {
			close(r.done)
			continue
		}
		if r.gen != e.gen.Load() {
			continue
		}
		// A cancel aimed at an earlier render must not abort this one.
		select {
		case <-e.cancel:
		default:
		}
		e.render(ctx, r)
	}
}

// render walks one request: paint, hold, optional scroll-off. It
// returns early when cancelled. Cancellation is observed between glyphs
// and inside timed waits, never mid-glyph.
func (e *Engine) render(ctx context.Context, r request) {
	widths := make([]int, len(r.glyphs))
	for i, g := range r.glyphs {
		widths[i] = g.Width
	}
	p := planLayout(widths, r.origin)

	if p.fits {
		e.m.clearText()
	}
	first := true
	for i, g := range r.glyphs {
		if e.cancelled() {
			return
		}
		e.m.paintGlyph(g, p.places[i].col)
		for s := 0; s < p.places[i].shifts; s++ {
			if !e.pause(ctx, e.stepDelay(first)) {
				return
			}
			first = false
			e.m.shiftTextLeft()
		}
	}

	hold := clampHold(r.hold, e.ScrollDelay, r.scrollOff)
	if hold > 0 && !e.pause(ctx, hold) {
		return
	}

	if r.scrollOff {
		for s := 0; s < p.offSteps; s++ {
			e.m.shiftTextLeft()
			if !e.pause(ctx, e.ScrollDelay) {
				return
			}
		}
	}
}

func (e *Engine) stepDelay(first bool) time.Duration {
	if first {
		return e.FirstShiftPause
	}
	return e.ScrollDelay
}

func (e *Engine) cancelled() bool {
	select {
	case <-e.cancel:
		return true
	default:
		return false
	}
}

// pause waits for d, losing the race to cancellation or shutdown.
func (e *Engine) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return !e.cancelled()
	}
	t := e.clock.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-e.cancel:
		return false
	case <-t.Chan():
		return true
	}
}

// clampHold raises a scroll-off hold to at least one scroll delay; a
// shorter hold makes the first scroll step look like a glitch.
func clampHold(hold, scrollDelay time.Duration, scrollOff bool) time.Duration {
	if scrollOff && hold < scrollDelay {
		return scrollDelay
	}
	return hold
}

func formatPair(left int, sep rune, right int) string {
	return fmt.Sprintf("%02d%c%02d", left, sep, right)
}

func formatTemperature(degrees int, unit rune) string {
	return fmt.Sprintf("%d°%c", degrees, unit)
}
