// Package render rasterizes bubble scenes onto standard-library images.
// Hosts use it for full repaints, damage replay, sprite caches and
// screenshots; it has no dependency on any particular display stack.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/iburimskiy/bubble-maker/internal/bubbles"
	"github.com/iburimskiy/bubble-maker/internal/geom"
)

// outlineColor is the hairline stroke around every bubble.
var outlineColor = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}

// backgroundRadius is the fixed spread of the backdrop gradient; the
// viewport corners supply its center and focal point.
const backgroundRadius = 500

// Gradient is a radial gradient with a displaced focal point. Color runs
// from the first stop at the focal point to the last stop on the circle
// around Center with the given Radius; points beyond the circle hold the
// last stop's color.
type Gradient struct {
	Center geom.Point
	Focal  geom.Point
	Radius float64
	Stops  []bubbles.Stop
}

// At returns the gradient color at p.
func (g Gradient) At(p geom.Point) color.NRGBA {
	return colorAt(g.Stops, g.pos(p))
}

// pos maps p to a stop offset in [0, 1]: the fraction of the way p lies
// along the ray from the focal point to the circle.
func (g Gradient) pos(p geom.Point) float64 {
	f := g.clampedFocal()
	d := p.Sub(f)
	e := f.Sub(g.Center)
	a := d.X*d.X + d.Y*d.Y
	if a == 0 {
		return 0
	}
	b := 2 * (e.X*d.X + e.Y*d.Y)
	c := e.X*e.X + e.Y*e.Y - g.Radius*g.Radius
	disc := b*b - 4*a*c
	if disc <= 0 {
		return 1
	}
	s := (-b + math.Sqrt(disc)) / (2 * a)
	if s <= 0 {
		return 1
	}
	t := 1 / s
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

const focalInset = 0.999

// clampedFocal pulls a focal point that lies outside the end circle back to
// just inside its edge, keeping the ray parameterization solvable.
func (g Gradient) clampedFocal() geom.Point {
	e := g.Focal.Sub(g.Center)
	dist := math.Hypot(e.X, e.Y)
	limit := g.Radius * focalInset
	if dist <= limit {
		return g.Focal
	}
	return g.Center.Add(e.Mul(limit / dist))
}

func colorAt(stops []bubbles.Stop, t float64) color.NRGBA {
	if len(stops) == 0 {
		return color.NRGBA{}
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			span := stops[i].Offset - stops[i-1].Offset
			if span <= 0 {
				return stops[i].Color
			}
			return lerp(stops[i-1].Color, stops[i].Color, (t-stops[i-1].Offset)/span)
		}
	}
	return stops[len(stops)-1].Color
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + t*(float64(y)-float64(x))))
	}
	return color.NRGBA{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: mix(a.A, b.A),
	}
}

// gradientImage adapts a Gradient to image.Image with infinite bounds, the
// same way image.Uniform works, so it can source draw.DrawMask.
type gradientImage struct {
	g Gradient
}

func (gi gradientImage) ColorModel() color.Model { return color.NRGBAModel }

func (gi gradientImage) Bounds() image.Rectangle {
	return image.Rectangle{Min: image.Point{X: -1e9, Y: -1e9}, Max: image.Point{X: 1e9, Y: 1e9}}
}

func (gi gradientImage) At(x, y int) color.Color {
	return gi.g.At(geom.Pt(float64(x)+0.5, float64(y)+0.5))
}

// circleMask is an alpha mask for a filled disc with a feathered edge.
type circleMask struct {
	center geom.Point
	radius float64
}

func (m *circleMask) ColorModel() color.Model { return color.AlphaModel }

func (m *circleMask) Bounds() image.Rectangle {
	pad := m.radius + 1
	return geom.RectFromSize(m.center.Sub(geom.Pt(pad, pad)), 2*pad, 2*pad).Aligned()
}

func (m *circleMask) At(x, y int) color.Color {
	d := math.Hypot(float64(x)+0.5-m.center.X, float64(y)+0.5-m.center.Y)
	return feather(m.radius - d)
}

// ringMask is an alpha mask for a circle outline of the given stroke width,
// feathered like circleMask.
type ringMask struct {
	center geom.Point
	radius float64
	width  float64
}

func (m *ringMask) ColorModel() color.Model { return color.AlphaModel }

func (m *ringMask) Bounds() image.Rectangle {
	pad := m.radius + m.width/2 + 1
	return geom.RectFromSize(m.center.Sub(geom.Pt(pad, pad)), 2*pad, 2*pad).Aligned()
}

func (m *ringMask) At(x, y int) color.Color {
	d := math.Hypot(float64(x)+0.5-m.center.X, float64(y)+0.5-m.center.Y)
	return feather(m.width/2 - math.Abs(d-m.radius))
}

// feather maps a signed distance (positive inside the shape) to pixel
// coverage over a one-pixel transition.
func feather(d float64) color.Alpha {
	switch {
	case d >= 0.5:
		return color.Alpha{A: 0xff}
	case d <= -0.5:
		return color.Alpha{}
	default:
		return color.Alpha{A: uint8(math.Round((d + 0.5) * 0xff))}
	}
}

// Background paints the backdrop gradient over region: the first color at
// the bottom-right focal point shading to the second along the fixed-radius
// circle around the viewport's top-left corner. Translucent colors flatten
// against white, keeping the canvas opaque so a damage region can be
// overwritten in place.
func Background(dst draw.Image, a, b color.NRGBA, size image.Point, region image.Rectangle) {
	grad := Gradient{
		Center: geom.Pt(0, 0),
		Focal:  geom.Pt(float64(size.X), float64(size.Y)),
		Radius: backgroundRadius,
		Stops: []bubbles.Stop{
			{Offset: 0, Color: a},
			{Offset: 1, Color: b},
		},
	}
	r := region.Intersect(dst.Bounds()).Intersect(image.Rectangle{Max: size})
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := grad.At(geom.Pt(float64(x)+0.5, float64(y)+0.5))
			dst.Set(x, y, flatten(c))
		}
	}
}

// flatten composites c over opaque white.
func flatten(c color.NRGBA) color.NRGBA {
	if c.A == 0xff {
		return c
	}
	t := float64(c.A) / 0xff
	mix := func(v uint8) uint8 {
		return uint8(math.Round(float64(v)*t + 0xff*(1-t)))
	}
	return color.NRGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: 0xff}
}

// Bubble paints b in scene coordinates onto dst, clipped to region.
func Bubble(dst draw.Image, b *bubbles.Bubble, region image.Rectangle) {
	r := b.Bounds().Outset(1).Aligned().Intersect(region).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	origin := b.Position().Sub(geom.Pt(b.Radius(), b.Radius()))
	paintBubble(dst, r, b, origin)
}

// Sprite rasterizes b into a fresh image with the bubble centered, for
// hosts that cache bubbles as textures and composite them per frame. The
// sprite side is 2*(radius+1) rounded up, so the feathered outline fits.
func Sprite(b *bubbles.Bubble) *image.NRGBA {
	side := int(math.Ceil(2 * (b.Radius() + 1)))
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	center := geom.Pt(float64(side)/2, float64(side)/2)
	origin := center.Sub(geom.Pt(b.Radius(), b.Radius()))
	paintBubble(img, img.Bounds(), b, origin)
	return img
}

// paintBubble fills and outlines one bubble whose top-left corner sits at
// origin, touching only pixels inside r.
func paintBubble(dst draw.Image, r image.Rectangle, b *bubbles.Bubble, origin geom.Point) {
	fill := b.Fill()
	grad := Gradient{
		Center: origin.Add(fill.Center),
		Focal:  origin.Add(fill.Focal),
		Radius: fill.Radius,
		Stops:  fill.Stops[:],
	}
	center := origin.Add(geom.Pt(b.Radius(), b.Radius()))
	disc := &circleMask{center: center, radius: b.Radius()}
	draw.DrawMask(dst, r, gradientImage{grad}, r.Min, disc, r.Min, draw.Over)
	ring := &ringMask{center: center, radius: b.Radius(), width: 1}
	draw.DrawMask(dst, r, image.NewUniform(outlineColor), image.Point{}, ring, r.Min, draw.Over)
}

// Scene paints the field onto dst, clipped to region: backdrop first, then
// the committed bubbles oldest first, then the pending bubble on top.
func Scene(dst draw.Image, f *bubbles.Field, region image.Rectangle) {
	w, h := f.Size()
	Background(dst, f.BackgroundA(), f.BackgroundB(), image.Pt(w, h), region)
	for _, b := range f.Bubbles() {
		Bubble(dst, b, region)
	}
	if p := f.Pending(); p != nil {
		Bubble(dst, p, region)
	}
}
