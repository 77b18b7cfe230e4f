package fight

import (
	"log/slog"

	"github.com/milk9111/rayfighter/ai"
	"github.com/milk9111/rayfighter/combat"
	"github.com/milk9111/rayfighter/input"
	"github.com/milk9111/rayfighter/prefabs"
	"github.com/milk9111/rayfighter/progression"
)

// Audio plays symbolic sound and music keys. Failures stay inside the
// implementation.
type Audio interface {
	Play(key string)
	PlayMusic(key string)
}

type NopAudio struct{}

func (NopAudio) Play(string)      {}
func (NopAudio) PlayMusic(string) {}

// Effects receives shake, flash and particle triggers.
type Effects interface {
	Effect(e combat.Effect)
}

type Options struct {
	Bundle     *prefabs.Bundle
	P1, P2     string
	Difficulty string
	// Daily enables a daily challenge ruleset when set.
	Daily *prefabs.DailySpec

	// Progression receives match rewards. A nil value uses an in-memory
	// record built from Bundle.
	Progression *progression.Progression
	// Input is the human side's action queue. A nil value creates one.
	Input *input.Queue
	// Autopilot drives the human side with its own AI, for demos and
	// headless simulation. Queued input is still honored.
	Autopilot bool

	Audio   Audio
	Effects Effects
	// Rand seeds the AI. A nil value uses a time-seeded source.
	Rand   ai.Rand
	Logger *slog.Logger
}

// sink fans combat sounds and effects out to the collaborators.
type sink struct {
	audio   Audio
	effects Effects
}

func (s sink) Play(key string) {
	if key == "" {
		return
	}
	s.audio.Play(key)
}

func (s sink) Effect(e combat.Effect) {
	s.effects.Effect(e)
}
