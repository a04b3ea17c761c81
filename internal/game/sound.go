package game

import (
	"log/slog"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/iburimskiy/bubble-maker/internal/config"
)

// Sounds plays short sine cues for field events. A failed speaker init
// (headless box, no audio device) leaves it muted instead of failing the
// app.
type Sounds struct {
	sr      beep.SampleRate
	enabled bool
}

func NewSounds(muted bool, log *slog.Logger) *Sounds {
	s := &Sounds{sr: beep.SampleRate(config.SampleRate)}
	if muted {
		return s
	}
	if err := speaker.Init(s.sr, s.sr.N(time.Second/10)); err != nil {
		log.Warn("audio unavailable, running muted", "err", err)
		return s
	}
	s.enabled = true
	return s
}

// Pop marks a bubble committed by the gesture.
func (s *Sounds) Pop() {
	s.play(config.PopFrequency)
}

// Depart marks a bubble floating off the top edge.
func (s *Sounds) Depart() {
	s.play(config.DepartFrequency)
}

func (s *Sounds) play(freq float64) {
	if !s.enabled {
		return
	}
	sine, err := generators.SineTone(s.sr, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(s.sr.N(config.CueDurationMillis*time.Millisecond), sine))
}
