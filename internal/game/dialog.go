package game

import (
	"errors"
	"image/color"

	"github.com/ncruces/zenity"
)

// pickColor opens the system color dialog seeded with the current color.
// Cancel reports ok=false without recording an error.
func (g *Game) pickColor(title string, current color.NRGBA) (color.NRGBA, bool) {
	picked, err := zenity.SelectColor(
		zenity.Title(title),
		zenity.Color(current),
	)
	if err != nil {
		if !errors.Is(err, zenity.ErrCanceled) {
			g.lastErr = err
		}
		return color.NRGBA{}, false
	}
	return color.NRGBAModel.Convert(picked).(color.NRGBA), true
}
