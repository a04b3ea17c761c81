// Package bubbles implements the bubble-field simulation behind Bubble
// Maker: a collection of rising pastel bubbles, the press-and-hold gesture
// that inflates a new one under the pointer, and the editable property
// surface (bubble count, background colors, author, start/stop).
//
// The package is presentation- and clock-free. Hosts feed it pointer events
// and call AnimationTick and GrowthTick from whatever timers they own, then
// drain Damage for the regions to repaint and Events for notifications.
// All methods must be called from a single goroutine.
package bubbles

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/iburimskiy/bubble-maker/internal/geom"
)

// MinWidth and MinHeight bound the viewport from below. Keeping the viewport
// at least this large keeps the growth cap (min(width, height)/8) above the
// starting radius, so a pending bubble never collapses.
const (
	MinWidth  = 200
	MinHeight = 200
)

// DefaultAuthor is the value the author property resets to.
const DefaultAuthor = "David Boddie"

const (
	startRadius = 4.0 // pending bubble's initial radius
	growthStep  = 4.0 // radius gained per growth tick
	capDivisor  = 8.0 // growth cap = min(width, height) / capDivisor

	// Sampling ranges for gesture and synthesized bubbles: speed lands in
	// [1, 8) units per tick, synthesized radii in [4, 24).
	speedFloor  = 1.0
	speedSpan   = 7.0
	radiusFloor = 4.0
	radiusSpan  = 20.0

	damageMargin = 1.0
)

// Button identifies a pointer button. Only ButtonLeft drives the new-bubble
// gesture.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// EventKind enumerates field notifications.
type EventKind uint8

const (
	// EventBubbleLeft reports one bubble floating off the top edge.
	EventBubbleLeft EventKind = iota
	// EventBubblesRemaining reports the bubble count after it changed.
	EventBubblesRemaining
)

// Event is a single notification drained by the host via Events.
type Event struct {
	Kind  EventKind
	Count int // set for EventBubblesRemaining
}

// Field owns the bubble collection, the new-bubble gesture and the editable
// properties. The zero value is not usable; construct with New.
type Field struct {
	width  int
	height int

	bubbles []*Bubble // paint order: oldest first
	pending *Bubble   // bubble being inflated, nil between gestures

	backgroundA color.NRGBA
	backgroundB color.NRGBA
	author      string

	rng     *rand.Rand
	running bool

	events []Event
	damage []image.Rectangle
}

// New returns a field with the given viewport (clamped to the minimum size),
// randomized background colors and the animation running. A nil rng is
// seeded from the clock; tests inject a fixed-seed source instead.
func New(width, height int, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	f := &Field{
		author:  DefaultAuthor,
		rng:     rng,
		running: true,
	}
	f.width, f.height = clampSize(width, height)
	f.backgroundA = RandomPastel(rng)
	f.backgroundB = Darker(RandomPastel(rng), 150)
	return f
}

// PointerDown begins the new-bubble gesture: a small bubble appears at p
// with a random speed and random pastel colors. Presses with a pending
// bubble already in flight, or with any button but the left one, are
// ignored.
func (f *Field) PointerDown(p geom.Point, button Button) {
	if button != ButtonLeft || f.pending != nil {
		return
	}
	f.pending = NewBubble(p,
		startRadius,
		speedFloor+f.rng.Float64()*speedSpan,
		RandomPastel(f.rng), RandomPastel(f.rng))
}

// PointerMove drags the pending bubble to p, damaging its old and new
// bounds. Moves between gestures do nothing.
func (f *Field) PointerMove(p geom.Point) {
	if f.pending == nil {
		return
	}
	f.addDamage(bubbleDamage(f.pending))
	f.pending.SetPosition(p)
	f.addDamage(bubbleDamage(f.pending))
}

// PointerUp commits the pending bubble into the collection and reports the
// new count. Only the left button completes the gesture.
func (f *Field) PointerUp(_ geom.Point, button Button) {
	if button != ButtonLeft || f.pending == nil {
		return
	}
	f.bubbles = append(f.bubbles, f.pending)
	f.pending = nil
	f.emit(Event{Kind: EventBubblesRemaining, Count: len(f.bubbles)})
}

// Growing reports whether the new-bubble gesture is in progress, i.e.
// whether the host should be driving GrowthTick.
func (f *Field) Growing() bool {
	return f.pending != nil
}

// GrowthTick inflates the pending bubble by one step, clamped to the cap
// derived from the viewport as it is right now: resizing mid-gesture moves
// the cap, and a cap below the current radius shrinks the bubble to it.
// No-op between gestures.
func (f *Field) GrowthTick() {
	if f.pending == nil {
		return
	}
	limit := math.Min(float64(f.width), float64(f.height)) / capDivisor
	f.pending.SetRadius(math.Min(f.pending.Radius()+growthStep, limit))
	f.addDamage(bubbleDamage(f.pending))
}

// AnimationTick moves every bubble up by its own speed and drops the ones
// whose top edge has cleared the viewport, emitting EventBubbleLeft per
// departure and one EventBubblesRemaining after the pass if any departed.
// No-op while stopped.
func (f *Field) AnimationTick() {
	if !f.running {
		return
	}
	kept := f.bubbles[:0]
	departed := false
	for _, b := range f.bubbles {
		b.SetPosition(b.Position().Sub(geom.Pt(0, b.Speed())))

		// The damage region trails below the new bounds by the distance
		// moved, covering the spot the bubble just vacated.
		r := b.Bounds().Outset(damageMargin)
		r.Max.Y += b.Speed()
		f.addDamage(r.Aligned())

		if b.Position().Y+b.Radius() > 0 {
			kept = append(kept, b)
		} else {
			f.emit(Event{Kind: EventBubbleLeft})
			departed = true
		}
	}
	f.bubbles = kept
	if f.pending != nil {
		f.addDamage(bubbleDamage(f.pending))
	}
	if departed {
		f.emit(Event{Kind: EventBubblesRemaining, Count: len(f.bubbles)})
	}
}

// Count returns the number of committed bubbles; a pending bubble does not
// count until released.
func (f *Field) Count() int {
	return len(f.bubbles)
}

// SetCount grows or truncates the collection to n bubbles. Negative counts
// saturate to zero. Growth synthesizes bubbles at random positions inside
// the viewport with random radii, speeds and pastel colors; truncation keeps
// the oldest n in their original order. The new count is always reported and
// the whole viewport repainted.
func (f *Field) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	for len(f.bubbles) < n {
		pos := geom.Pt(f.rng.Float64()*float64(f.width), f.rng.Float64()*float64(f.height))
		f.bubbles = append(f.bubbles, NewBubble(pos,
			radiusFloor+f.rng.Float64()*radiusSpan,
			speedFloor+f.rng.Float64()*speedSpan,
			RandomPastel(f.rng), RandomPastel(f.rng)))
	}
	if n < len(f.bubbles) {
		f.bubbles = f.bubbles[:n]
	}
	f.emit(Event{Kind: EventBubblesRemaining, Count: n})
	f.damageAll()
}

// BackgroundA returns the backdrop gradient's top-left color.
func (f *Field) BackgroundA() color.NRGBA {
	return f.backgroundA
}

// SetBackgroundA replaces the backdrop gradient's top-left color and
// repaints the whole viewport.
func (f *Field) SetBackgroundA(c color.NRGBA) {
	f.backgroundA = c
	f.damageAll()
}

// BackgroundB returns the backdrop gradient's bottom-right color.
func (f *Field) BackgroundB() color.NRGBA {
	return f.backgroundB
}

// SetBackgroundB replaces the backdrop gradient's bottom-right color and
// repaints the whole viewport.
func (f *Field) SetBackgroundB(c color.NRGBA) {
	f.backgroundB = c
	f.damageAll()
}

// Author returns the author credit.
func (f *Field) Author() string {
	return f.author
}

// SetAuthor replaces the author credit. Purely cosmetic: no repaint.
func (f *Field) SetAuthor(author string) {
	f.author = author
}

// ResetAuthor restores the default author credit.
func (f *Field) ResetAuthor() {
	f.author = DefaultAuthor
}

// Start resumes the animation clock. Idempotent.
func (f *Field) Start() {
	f.running = true
}

// Stop halts the animation clock; the growth clock is unaffected, so a held
// gesture keeps inflating. Idempotent.
func (f *Field) Stop() {
	f.running = false
}

// Running reports whether AnimationTick currently advances the field.
func (f *Field) Running() bool {
	return f.running
}

// Resize updates the viewport, which bounds random placement and the growth
// cap; sizes below the minimum clamp up. The whole viewport is repainted.
func (f *Field) Resize(width, height int) {
	f.width, f.height = clampSize(width, height)
	f.damageAll()
}

// Size returns the viewport dimensions.
func (f *Field) Size() (width, height int) {
	return f.width, f.height
}

// Bubbles returns the committed bubbles in paint order, oldest first. The
// slice is a copy; the bubbles are shared.
func (f *Field) Bubbles() []*Bubble {
	return append([]*Bubble(nil), f.bubbles...)
}

// Pending returns the bubble currently being inflated, or nil. It paints
// above every committed bubble.
func (f *Field) Pending() *Bubble {
	return f.pending
}

// Events returns the notifications accumulated since the last call and
// clears the queue.
func (f *Field) Events() []Event {
	evs := f.events
	f.events = nil
	return evs
}

// Damage returns the regions to repaint accumulated since the last call and
// clears the list. Rectangles are clipped to the viewport.
func (f *Field) Damage() []image.Rectangle {
	d := f.damage
	f.damage = nil
	return d
}

func (f *Field) emit(e Event) {
	f.events = append(f.events, e)
}

func (f *Field) addDamage(r image.Rectangle) {
	r = r.Intersect(image.Rect(0, 0, f.width, f.height))
	if r.Empty() {
		return
	}
	f.damage = append(f.damage, r)
}

func (f *Field) damageAll() {
	f.damage = append(f.damage[:0], image.Rect(0, 0, f.width, f.height))
}

func bubbleDamage(b *Bubble) image.Rectangle {
	return b.Bounds().Outset(damageMargin).Aligned()
}

func clampSize(width, height int) (int, int) {
	if width < MinWidth {
		width = MinWidth
	}
	if height < MinHeight {
		height = MinHeight
	}
	return width, height
}
