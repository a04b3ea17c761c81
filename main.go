package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"github.com/iburimskiy/bubble-maker/internal/bubbles"
	"github.com/iburimskiy/bubble-maker/internal/config"
	"github.com/iburimskiy/bubble-maker/internal/game"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bubble-maker:", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("bubble-maker", pflag.ContinueOnError)
	width := flags.Int("width", config.WindowWidth, "window width in pixels")
	height := flags.Int("height", config.WindowHeight, "window height in pixels")
	count := flags.Int("count", 0, "bubbles to start with")
	seed := flags.Int64("seed", 0, "random seed, 0 seeds from the clock")
	muted := flags.Bool("mute", false, "disable sound cues")
	snapshotDir := flags.String("snapshot-dir", ".", "directory snapshots are saved into")
	debug := flags.Bool("debug", false, "log field events")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *width < bubbles.MinWidth {
		*width = bubbles.MinWidth
	}
	if *height < bubbles.MinHeight {
		*height = bubbles.MinHeight
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewSource(*seed))
	}
	field := bubbles.New(*width, *height, rng)
	if *count > 0 {
		field.SetCount(*count)
	}

	sounds := game.NewSounds(*muted, log)
	g := game.New(field, sounds, log, *snapshotDir)

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("Bubble Maker - drag to blow a bubble, Space: pause, Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(bubbles.MinWidth, bubbles.MinHeight, -1, -1)
	ebiten.SetTPS(config.TicksPerSecond)

	log.Info("starting", "width", *width, "height", *height, "bubbles", field.Count())
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
