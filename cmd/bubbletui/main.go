// Command bubbletui runs the bubble field in a terminal. The field keeps
// its pixel-space viewport; frames are rasterized, downscaled to the
// terminal grid and blitted with half-block characters, two pixel rows per
// cell. Mouse reporting drives the blow-a-bubble gesture.
package main

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/pflag"
	xdraw "golang.org/x/image/draw"

	"github.com/iburimskiy/bubble-maker/internal/bubbles"
	"github.com/iburimskiy/bubble-maker/internal/config"
	"github.com/iburimskiy/bubble-maker/internal/geom"
	"github.com/iburimskiy/bubble-maker/internal/render"
)

// upperHalfBlock renders two stacked pixels per cell: foreground on top,
// background below.
const upperHalfBlock = '▀'

type app struct {
	screen tcell.Screen
	field  *bubbles.Field
	rng    *rand.Rand
	log    *slog.Logger

	canvas *image.NRGBA // field-resolution scene, repainted per damage region
	scaled *image.NRGBA // terminal-resolution downscale target

	// cells available for the scene; the bottom row holds the status line
	termW int
	termH int

	btn1     bool
	lastCell image.Point
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bubbletui:", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("bubbletui", pflag.ContinueOnError)
	width := flags.Int("width", config.WindowWidth, "field width in pixels")
	height := flags.Int("height", config.WindowHeight, "field height in pixels")
	count := flags.Int("count", 0, "bubbles to start with")
	seed := flags.Int64("seed", 0, "random seed, 0 seeds from the clock")
	logPath := flags.String("log-file", "", "append field event logs to this file")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	// The terminal owns stderr, so logs go to a file or nowhere.
	logw := io.Writer(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logw = f
	}
	log := slog.New(slog.NewTextHandler(logw, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))

	field := bubbles.New(*width, *height, rng)
	if *count > 0 {
		field.SetCount(*count)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.Clear()

	a := &app{
		screen: screen,
		field:  field,
		rng:    rng,
		log:    log,
	}
	fw, fh := field.Size()
	a.canvas = image.NewNRGBA(image.Rect(0, 0, fw, fh))
	render.Scene(a.canvas, field, a.canvas.Bounds())
	field.Damage()
	a.handleResize()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	anim := time.NewTicker(time.Second / config.TicksPerSecond)
	defer anim.Stop()
	grow := time.NewTicker(config.GrowthTickDivisor * time.Second / config.TicksPerSecond)
	defer grow.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if a.handleKey(ev) {
					return nil
				}
			case *tcell.EventMouse:
				a.handleMouse(ev)
			case *tcell.EventResize:
				a.handleResize()
			}
		case <-anim.C:
			a.field.AnimationTick()
			a.drainFieldEvents()
			a.draw()
		case <-grow.C:
			a.field.GrowthTick()
		}
	}
}

// handleKey reports true when the app should quit.
func (a *app) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return true
	}
	switch ev.Rune() {
	case 'q', 'Q':
		return true
	case ' ':
		if a.field.Running() {
			a.field.Stop()
		} else {
			a.field.Start()
		}
	case '+', '=':
		a.field.SetCount(a.field.Count() + 1)
	case '-':
		a.field.SetCount(a.field.Count() - 1)
	case 'b':
		a.field.SetBackgroundA(bubbles.RandomPastel(a.rng))
	case 'n':
		a.field.SetBackgroundB(bubbles.Darker(bubbles.RandomPastel(a.rng), 150))
	}
	return false
}

func (a *app) handleMouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	cell := image.Pt(cx, cy)
	pressed := ev.Buttons()&tcell.Button1 != 0
	p := a.fieldPoint(cx, cy)
	switch {
	case pressed && !a.btn1:
		a.field.PointerDown(p, bubbles.ButtonLeft)
	case !pressed && a.btn1:
		a.field.PointerUp(p, bubbles.ButtonLeft)
	case pressed && cell != a.lastCell:
		a.field.PointerMove(p)
	}
	a.btn1 = pressed
	a.lastCell = cell
}

func (a *app) handleResize() {
	w, h := a.screen.Size()
	a.termW, a.termH = w, h-1
	if a.termH < 1 {
		a.termH = 1
	}
	a.scaled = image.NewNRGBA(image.Rect(0, 0, a.termW, 2*a.termH))
	a.screen.Sync()
}

// fieldPoint maps a terminal cell to field coordinates at the cell center.
func (a *app) fieldPoint(cx, cy int) geom.Point {
	w, h := a.field.Size()
	return geom.Pt(
		(float64(cx)+0.5)*float64(w)/float64(a.termW),
		(float64(cy)+0.5)*float64(h)/float64(a.termH),
	)
}

func (a *app) drainFieldEvents() {
	for _, ev := range a.field.Events() {
		switch ev.Kind {
		case bubbles.EventBubbleLeft:
			a.screen.Beep()
			a.log.Debug("bubble left the top edge")
		case bubbles.EventBubblesRemaining:
			a.log.Debug("bubbles remaining", "count", ev.Count)
		}
	}
}

func (a *app) draw() {
	for _, r := range a.field.Damage() {
		render.Scene(a.canvas, a.field, r)
	}
	xdraw.ApproxBiLinear.Scale(a.scaled, a.scaled.Bounds(), a.canvas, a.canvas.Bounds(), xdraw.Src, nil)

	for y := 0; y < a.termH; y++ {
		for x := 0; x < a.termW; x++ {
			up := a.scaled.NRGBAAt(x, 2*y)
			lo := a.scaled.NRGBAAt(x, 2*y+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(up.R), int32(up.G), int32(up.B))).
				Background(tcell.NewRGBColor(int32(lo.R), int32(lo.G), int32(lo.B)))
			a.screen.SetContent(x, y, upperHalfBlock, nil, style)
		}
	}
	a.drawStatus()
	a.screen.Show()
}

func (a *app) drawStatus() {
	w, h := a.screen.Size()
	state := "running"
	if !a.field.Running() {
		state = "paused"
	}
	status := fmt.Sprintf(" %d bubbles (%s) by %s | drag: blow a bubble  space: pause  +/-: count  b/n: colors  q: quit",
		a.field.Count(), state, a.field.Author())
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, h-1, ' ', nil, style)
	}
	drawText(a.screen, 0, h-1, style, status)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		s.SetContent(col, y, r, nil, style)
		col++
	}
}
