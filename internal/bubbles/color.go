package bubbles

import (
	"image/color"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Pastel sampling ranges: r, g and b land in [205, 255), alpha in [91, 191).
const (
	pastelFloor = 205
	pastelSpan  = 50
	alphaFloor  = 91
	alphaSpan   = 100
)

// RandomPastel samples a pale, semi-transparent color from rng.
func RandomPastel(rng *rand.Rand) color.NRGBA {
	return color.NRGBA{
		R: uint8(pastelFloor + rng.Float64()*pastelSpan),
		G: uint8(pastelFloor + rng.Float64()*pastelSpan),
		B: uint8(pastelFloor + rng.Float64()*pastelSpan),
		A: uint8(alphaFloor + rng.Float64()*alphaSpan),
	}
}

// Darker returns c with its HSV value divided by factor/100, alpha untouched.
// A factor of 150 darkens by a third; factors below 100 are returned as-is
// rather than brightening.
func Darker(c color.NRGBA, factor int) color.NRGBA {
	if factor <= 100 {
		return c
	}
	cf, ok := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	if !ok {
		return c
	}
	h, s, v := cf.Hsv()
	r, g, b := colorful.Hsv(h, s, v*100/float64(factor)).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: c.A}
}
