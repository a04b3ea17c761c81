// Package game hosts a bubble field in an Ebiten window: it owns the
// frame clock, mouse and keyboard handling, the button row, sound cues and
// the texture caches the field is composited from.
package game

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/bubble-maker/internal/bubbles"
	"github.com/iburimskiy/bubble-maker/internal/config"
	"github.com/iburimskiy/bubble-maker/internal/geom"
	"github.com/iburimskiy/bubble-maker/internal/render"
)

// sprite is a cached bubble texture together with the fill it was
// rasterized from, so radius and color changes force a rebuild.
type sprite struct {
	fill bubbles.Fill
	img  *ebiten.Image
}

type button struct {
	rect    image.Rectangle
	label   func() string
	onClick func()
	hovered bool
	pressed bool
}

// Game implements ebiten.Game around a bubbles.Field. One Update is one
// animation tick; every second Update is also a growth tick.
type Game struct {
	field  *bubbles.Field
	sounds *Sounds
	log    *slog.Logger

	snapshotDir string

	width  int
	height int
	// size reported by the window system, applied at the top of Update
	outsideWidth  int
	outsideHeight int

	background *ebiten.Image
	bgA, bgB   color.NRGBA

	sprites map[*bubbles.Bubble]*sprite

	buttons    []*button
	prevKey    map[ebiten.Key]bool
	lastCursor image.Point

	tick      int
	remaining int // last count reported by the field
	lastErr   error
}

// New wires a game around field. The field's viewport is adopted as the
// initial layout size.
func New(field *bubbles.Field, sounds *Sounds, log *slog.Logger, snapshotDir string) *Game {
	g := &Game{
		field:       field,
		sounds:      sounds,
		log:         log,
		snapshotDir: snapshotDir,
		sprites:     map[*bubbles.Bubble]*sprite{},
		prevKey:     map[ebiten.Key]bool{},
	}
	g.width, g.height = field.Size()
	g.outsideWidth, g.outsideHeight = g.width, g.height
	g.remaining = field.Count()

	labels := []struct {
		label   func() string
		onClick func()
	}{
		{
			label: func() string {
				if field.Running() {
					return "Pause"
				}
				return "Run"
			},
			onClick: func() {
				if field.Running() {
					field.Stop()
				} else {
					field.Start()
				}
			},
		},
		{
			label:   func() string { return "More" },
			onClick: func() { field.SetCount(field.Count() + 1) },
		},
		{
			label:   func() string { return "Fewer" },
			onClick: func() { field.SetCount(field.Count() - 1) },
		},
		{
			label:   func() string { return "Color A" },
			onClick: g.pickBackgroundA,
		},
		{
			label:   func() string { return "Color B" },
			onClick: g.pickBackgroundB,
		},
	}
	for i, l := range labels {
		x := config.ButtonX + i*(config.ButtonWidth+config.ButtonGap)
		g.buttons = append(g.buttons, &button{
			rect:    image.Rect(x, config.ButtonY, x+config.ButtonWidth, config.ButtonY+config.ButtonHeight),
			label:   l.label,
			onClick: l.onClick,
		})
	}
	return g
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	if g.outsideWidth != g.width || g.outsideHeight != g.height {
		g.width, g.height = g.outsideWidth, g.outsideHeight
		g.field.Resize(g.width, g.height)
		g.background = nil
	}

	mouseX, mouseY := ebiten.CursorPosition()
	cursor := image.Pt(mouseX, mouseY)
	overButton := false
	for _, b := range g.buttons {
		b.hovered = cursor.In(b.rect)
		if b.hovered {
			overButton = true
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if overButton {
			for _, b := range g.buttons {
				if b.hovered {
					b.pressed = true
				}
			}
		} else {
			g.field.PointerDown(geom.Pt(float64(mouseX), float64(mouseY)), bubbles.ButtonLeft)
		}
	}
	if g.field.Growing() && cursor != g.lastCursor {
		g.field.PointerMove(geom.Pt(float64(mouseX), float64(mouseY)))
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		for _, b := range g.buttons {
			if b.pressed && b.hovered {
				b.onClick()
			}
			b.pressed = false
		}
		if g.field.Growing() {
			g.field.PointerUp(geom.Pt(float64(mouseX), float64(mouseY)), bubbles.ButtonLeft)
			g.sounds.Pop()
		}
	}
	g.lastCursor = cursor

	if justPressed(ebiten.KeySpace) {
		if g.field.Running() {
			g.field.Stop()
		} else {
			g.field.Start()
		}
	}
	if justPressed(ebiten.KeyEqual) || justPressed(ebiten.KeyUp) {
		g.field.SetCount(g.field.Count() + 1)
	}
	if justPressed(ebiten.KeyMinus) || justPressed(ebiten.KeyDown) {
		g.field.SetCount(g.field.Count() - 1)
	}
	if justPressed(ebiten.KeyB) {
		g.pickBackgroundA()
	}
	if justPressed(ebiten.KeyN) {
		g.pickBackgroundB()
	}
	if justPressed(ebiten.KeyS) {
		if err := g.saveSnapshot(); err != nil {
			g.lastErr = err
		}
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	g.tick++
	g.field.AnimationTick()
	if g.tick%config.GrowthTickDivisor == 0 {
		g.field.GrowthTick()
	}

	for _, ev := range g.field.Events() {
		switch ev.Kind {
		case bubbles.EventBubbleLeft:
			g.sounds.Depart()
			g.log.Debug("bubble left the top edge")
		case bubbles.EventBubblesRemaining:
			g.remaining = ev.Count
			g.log.Debug("bubbles remaining", "count", ev.Count)
		}
	}
	// Every frame recomposites from textures, so the damage queue only
	// needs draining to stay bounded.
	g.field.Damage()

	g.sweepSprites()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.backgroundImage(), nil)

	for _, b := range g.field.Bubbles() {
		g.drawBubble(screen, b)
	}
	if p := g.field.Pending(); p != nil {
		g.drawBubble(screen, p)
	}

	for _, b := range g.buttons {
		g.drawButton(screen, b)
	}

	state := "running"
	if !g.field.Running() {
		state = "paused"
	}
	status := fmt.Sprintf("Bubbles: %d (%s) - drag to blow a bubble | Space: pause, +/-: count, S: snapshot, Q: quit",
		g.remaining, state)
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	vector.DrawFilledRect(screen, 0, float32(g.height-40), float32(g.width), 40,
		color.RGBA{R: 20, G: 25, B: 35, A: 200}, false)
	ebitenutil.DebugPrintAt(screen, "by "+g.field.Author(), 12, g.height-36)
	ebitenutil.DebugPrintAt(screen, status, 12, g.height-20)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < bubbles.MinWidth {
		outsideWidth = bubbles.MinWidth
	}
	if outsideHeight < bubbles.MinHeight {
		outsideHeight = bubbles.MinHeight
	}
	g.outsideWidth, g.outsideHeight = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// backgroundImage returns the backdrop texture, re-rendering it when the
// background colors or the viewport changed.
func (g *Game) backgroundImage() *ebiten.Image {
	a, b := g.field.BackgroundA(), g.field.BackgroundB()
	if g.background != nil && a == g.bgA && b == g.bgB {
		return g.background
	}
	w, h := g.field.Size()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	render.Background(img, a, b, image.Pt(w, h), img.Bounds())
	g.background = ebiten.NewImageFromImage(img)
	g.bgA, g.bgB = a, b
	return g.background
}

func (g *Game) drawBubble(screen *ebiten.Image, b *bubbles.Bubble) {
	s, ok := g.sprites[b]
	if !ok || s.fill != b.Fill() {
		s = &sprite{fill: b.Fill(), img: ebiten.NewImageFromImage(render.Sprite(b))}
		g.sprites[b] = s
	}
	side := s.img.Bounds().Dx()
	pos := b.Position()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(pos.X-float64(side)/2, pos.Y-float64(side)/2)
	screen.DrawImage(s.img, op)
}

// sweepSprites drops cache entries for bubbles no longer in the field.
func (g *Game) sweepSprites() {
	if len(g.sprites) == 0 {
		return
	}
	live := make(map[*bubbles.Bubble]bool, g.field.Count()+1)
	for _, b := range g.field.Bubbles() {
		live[b] = true
	}
	if p := g.field.Pending(); p != nil {
		live[p] = true
	}
	for b := range g.sprites {
		if !live[b] {
			delete(g.sprites, b)
		}
	}
}

func (g *Game) drawButton(screen *ebiten.Image, b *button) {
	var bgColor color.Color
	if b.pressed {
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255} // Pressed
	} else if b.hovered {
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255} // Hovered
	} else {
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255} // Normal
	}

	r := b.rect
	vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), bgColor, false)

	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	vector.StrokeRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 2, borderColor, false)

	text := b.label()
	textWidth := len(text) * 8 // Approximate character width
	textX := r.Min.X + (r.Dx()-textWidth)/2
	textY := r.Min.Y + (r.Dy()-8)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

func (g *Game) pickBackgroundA() {
	c, ok := g.pickColor("Background color A", g.field.BackgroundA())
	if ok {
		g.field.SetBackgroundA(c)
	}
}

func (g *Game) pickBackgroundB() {
	c, ok := g.pickColor("Background color B", g.field.BackgroundB())
	if ok {
		g.field.SetBackgroundB(c)
	}
}

// saveSnapshot rasterizes the field into the snapshot directory as a
// timestamped PNG.
func (g *Game) saveSnapshot() error {
	w, h := g.field.Size()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	render.Scene(img, g.field, img.Bounds())

	name := filepath.Join(g.snapshotDir, "bubbles-"+time.Now().Format("20060102-150405")+".png")
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	g.log.Info("saved snapshot", "path", name)
	return nil
}
