// Package ai drives the computer-controlled fighter.
package ai

import (
	"github.com/milk9111/rayfighter/fighter"
	"github.com/milk9111/rayfighter/input"
	"github.com/milk9111/rayfighter/prefabs"
)

// Rand is the random source the policy draws from.
type Rand interface {
	Float64() float64
}

// Step is one planned action. After delays it by that many seconds.
type Step struct {
	Action input.Action
	After  float64
}

// Context carries caller-owned facts the policy cannot derive.
type Context struct {
	CanSpecial bool
}

const (
	closeRange = 80
	midRange   = 170
	chaseRange = 90
	jitter     = 0.03
)

type pendingStep struct {
	due    float64
	action input.Action
}

type AI struct {
	preset prefabs.DifficultySpec
	rng    Rand

	t        float64
	cooldown float64
	pending  []pendingStep
}

func New(preset prefabs.DifficultySpec, rng Rand) *AI {
	return &AI{preset: preset, rng: rng}
}

func (a *AI) Preset() prefabs.DifficultySpec {
	if a == nil {
		return prefabs.DifficultySpec{}
	}
	return a.preset
}

// Cooldown is the time left before the next decision.
func (a *AI) Cooldown() float64 {
	if a == nil {
		return 0
	}
	return a.cooldown
}

// Reset drops pending follow-ups and the cooldown, used between rounds.
func (a *AI) Reset() {
	if a == nil {
		return
	}
	a.cooldown = 0
	a.pending = nil
}

// Update returns the actions self takes this tick. Delayed follow-ups from an
// earlier decision are released once due, even while the cooldown runs.
func (a *AI) Update(dt float64, self, opp *fighter.Fighter, ctx Context) []input.Action {
	if a == nil || a.rng == nil {
		return nil
	}
	a.t += dt
	out := a.releaseDue()

	if a.cooldown > 0 {
		a.cooldown -= dt
		return out
	}
	if !self.CanAct() {
		return out
	}

	steps := a.Decide(self, opp, ctx)
	a.cooldown = a.preset.ReactionMs/1000 + a.rng.Float64()*2*jitter - jitter

	for _, s := range steps {
		if s.After > 0 {
			a.pending = append(a.pending, pendingStep{due: a.t + s.After, action: s.Action})
			continue
		}
		out = append(out, s.Action)
	}
	return out
}

func (a *AI) releaseDue() []input.Action {
	if len(a.pending) == 0 {
		return nil
	}
	var out []input.Action
	keep := a.pending[:0]
	for _, p := range a.pending {
		if a.t >= p.due {
			out = append(out, p.action)
			continue
		}
		keep = append(keep, p)
	}
	a.pending = keep
	return out
}

// Decide evaluates the policy once. It draws from the random source in a
// fixed order so scripted sources reproduce decisions exactly.
func (a *AI) Decide(self, opp *fighter.Fighter, ctx Context) []Step {
	blockRate := opp.ActionRate(input.DownHold)
	attackRate := opp.ActionRate(input.Light, input.Heavy)
	dodgeRate := opp.ActionRate(input.DashLeft, input.DashRight)

	dist := self.Distance(opp)
	near := dist < closeRange
	mid := dist >= closeRange && dist < midRange

	roll := a.rng.Float64()

	if near && blockRate > 0.5 && roll < 0.35 {
		return []Step{{Action: input.Grab}}
	}

	if attackRate > 0.55 && roll < 0.25 {
		steps := []Step{{Action: input.DownHold}}
		if a.rng.Float64() < 0.55 {
			steps = append(steps, Step{Action: input.Heavy, After: 0.18})
		} else {
			steps = append(steps, Step{Action: input.Light, After: 0.12})
		}
		return steps
	}

	if dodgeRate > 0.45 && roll < 0.22 {
		var steps []Step
		if dist > chaseRange {
			steps = append(steps, Step{Action: toward(self, opp)})
		}
		return append(steps, Step{Action: input.Heavy, After: 0.22})
	}

	if !opp.OnGround && a.rng.Float64() < 0.35 {
		return []Step{{Action: input.Heavy}}
	}

	if ctx.CanSpecial && a.rng.Float64() < a.preset.SpecialChance {
		return []Step{{Action: input.Special}}
	}

	switch {
	case dist >= midRange:
		return []Step{{Action: toward(self, opp)}}
	case mid:
		if a.rng.Float64() < a.preset.Aggression {
			return []Step{{Action: input.Heavy}}
		}
		return []Step{{Action: input.Light}}
	default:
		r := a.rng.Float64()
		switch {
		case r < 0.15:
			return []Step{{Action: input.Crouch}}
		case r < 0.35:
			return []Step{{Action: input.Light}}
		case r < 0.55:
			return []Step{{Action: input.Low}}
		case r < 0.70:
			return []Step{{Action: input.Heavy}}
		}
		return []Step{{Action: input.Grab}}
	}
}

func toward(self, opp *fighter.Fighter) input.Action {
	if self.Pos.X < opp.Pos.X {
		return input.DashRight
	}
	return input.DashLeft
}
