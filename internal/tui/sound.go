package tui

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Cue is a sound the board can emit.
type Cue int

const (
	CueHit Cue = iota
	CueMiss
	CueWin
	CueLoss
)

// Player plays cues. Implementations must not block the input loop.
type Player interface {
	Play(Cue)
}

// Silent drops every cue.
type Silent struct{}

func (Silent) Play(Cue) {}

const sampleRate = beep.SampleRate(44100)

type tone struct {
	freq float64
	dur  time.Duration
}

var cueTones = map[Cue][]tone{
	CueHit:  {{880, 60 * time.Millisecond}},
	CueMiss: {{220, 120 * time.Millisecond}},
	CueWin:  {{660, 90 * time.Millisecond}, {880, 90 * time.Millisecond}, {1320, 160 * time.Millisecond}},
	CueLoss: {{330, 150 * time.Millisecond}, {247, 150 * time.Millisecond}, {165, 300 * time.Millisecond}},
}

// Speaker plays cues as sine tones on the default audio device.
type Speaker struct{}

// NewSpeaker initializes the audio device. Callers fall back to Silent on error.
func NewSpeaker() (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Speaker{}, nil
}

// Play queues the tones for c; speaker.Play returns immediately.
func (s *Speaker) Play(c Cue) {
	var parts []beep.Streamer
	for _, t := range cueTones[c] {
		sine, err := generators.SineTone(sampleRate, t.freq)
		if err != nil {
			continue
		}
		parts = append(parts, beep.Take(sampleRate.N(t.dur), sine))
	}
	if len(parts) == 0 {
		return
	}
	speaker.Play(beep.Seq(parts...))
}

// Close releases the audio device.
func (s *Speaker) Close() { speaker.Close() }
