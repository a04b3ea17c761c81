package bubbles

import (
	"image/color"

	"github.com/iburimskiy/bubble-maker/internal/geom"
)

// Fill offsets of the three gradient stops: a white highlight at the focal
// point, the inner color a quarter of the way out, the outer color at the rim.
const (
	highlightOffset = 0.0
	innerOffset     = 0.25
	outerOffset     = 1.0
)

// A Stop is one color stop of a radial gradient.
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Fill describes a bubble's radial-gradient brush in sprite-local coordinates,
// where the sprite is the 2r x 2r square enclosing the bubble. The gradient
// circle is centered at (r, r) and its focal point sits at (r/2, r/2), which
// is what gives the bubble its off-center glossy highlight.
//
// Fill is a comparable value: renderers key sprite caches on it and rebuild
// whenever the value changes.
type Fill struct {
	Center geom.Point
	Focal  geom.Point
	Radius float64
	Stops  [3]Stop
}

var highlightColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Bubble is a single rising circle. Radius and colors are mutated only
// through setters so the cached fill always matches them; speed is fixed at
// creation.
type Bubble struct {
	position geom.Point
	radius   float64
	speed    float64
	inner    color.NRGBA
	outer    color.NRGBA
	fill     Fill
}

// NewBubble returns a bubble at the given position with its fill computed.
// Non-positive radius or speed saturates to 1 rather than failing.
func NewBubble(position geom.Point, radius, speed float64, inner, outer color.NRGBA) *Bubble {
	if radius <= 0 {
		radius = 1
	}
	if speed <= 0 {
		speed = 1
	}
	b := &Bubble{
		position: position,
		radius:   radius,
		speed:    speed,
		inner:    inner,
		outer:    outer,
	}
	b.updateFill()
	return b
}

// Position returns the bubble's center in scene coordinates.
func (b *Bubble) Position() geom.Point {
	return b.position
}

// SetPosition moves the bubble. The fill is position-independent and is left
// untouched.
func (b *Bubble) SetPosition(p geom.Point) {
	b.position = p
}

// Radius returns the current radius.
func (b *Bubble) Radius() float64 {
	return b.radius
}

// SetRadius resizes the bubble and recomputes the cached fill. Non-positive
// values saturate to 1.
func (b *Bubble) SetRadius(r float64) {
	if r <= 0 {
		r = 1
	}
	b.radius = r
	b.updateFill()
}

// Speed returns the bubble's constant upward velocity in units per tick.
func (b *Bubble) Speed() float64 {
	return b.speed
}

// InnerColor returns the gradient's inner color.
func (b *Bubble) InnerColor() color.NRGBA {
	return b.inner
}

// OuterColor returns the gradient's rim color.
func (b *Bubble) OuterColor() color.NRGBA {
	return b.outer
}

// SetColors replaces both gradient colors and recomputes the cached fill.
func (b *Bubble) SetColors(inner, outer color.NRGBA) {
	b.inner = inner
	b.outer = outer
	b.updateFill()
}

// Fill returns the cached gradient description.
func (b *Bubble) Fill() Fill {
	return b.fill
}

// Bounds returns the axis-aligned square enclosing the bubble.
func (b *Bubble) Bounds() geom.Rect {
	r := b.radius
	return geom.RectFromSize(b.position.Sub(geom.Pt(r, r)), 2*r, 2*r)
}

func (b *Bubble) updateFill() {
	r := b.radius
	b.fill = Fill{
		Center: geom.Pt(r, r),
		Focal:  geom.Pt(r*0.5, r*0.5),
		Radius: r,
		Stops: [3]Stop{
			{Offset: highlightOffset, Color: highlightColor},
			{Offset: innerOffset, Color: b.inner},
			{Offset: outerOffset, Color: b.outer},
		},
	}
}
