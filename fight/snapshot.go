package fight

import (
	"image/color"

	"github.com/milk9111/rayfighter/fighter"
)

type FighterView struct {
	ID        string
	Name      string
	X, Y      float64
	Facing    int
	State     fighter.State
	Attack    fighter.Phase
	HPPct     float64
	Momentum  int
	Charging  bool
	ChargePct float64
	Blocking  fighter.BlockMode
	Crouching bool
	Invisible bool
	LastStand bool
	Shielded  bool
	Core      color.Color
	Glow      color.Color
}

type ProjectileView struct {
	X, Y   float64
	Radius float64
	Owner  string
	Color  color.Color
}

// Snapshot is everything a renderer needs for one frame.
type Snapshot struct {
	P1, P2      FighterView
	Projectiles []ProjectileView
	Rounds      Rounds
	Timer       float64
	Score       int
	Streak      int
	Mult        float64
	Phase       Phase
	Banner      string
	Slowmo      bool
}

func viewOf(x *fighter.Fighter) FighterView {
	v := FighterView{
		ID:        x.ID,
		Name:      x.Name,
		X:         x.X(),
		Y:         x.Y(),
		Facing:    x.Facing,
		State:     x.State,
		Attack:    x.Window().Phase,
		HPPct:     x.HPPct(),
		Momentum:  x.Momentum,
		Charging:  x.Charging,
		ChargePct: x.ChargePct,
		Blocking:  x.Blocking,
		Crouching: x.Crouching,
		Invisible: x.Invisible(),
		LastStand: x.LastStand,
		Shielded:  x.Shielded(),
		Core:      color.White,
		Glow:      color.White,
	}
	if x.Def != nil {
		if c := x.Def.Colors.Core; c != nil && c.Color != nil {
			v.Core = c.Color
		}
		if c := x.Def.Colors.Glow; c != nil && c.Color != nil {
			v.Glow = c.Color
		}
	}
	return v
}

func (f *Fight) Snapshot() Snapshot {
	s := Snapshot{
		P1:     viewOf(f.P1),
		P2:     viewOf(f.P2),
		Rounds: f.Rounds,
		Timer:  f.Timer,
		Score:  f.scoring.Score,
		Streak: f.scoring.Streak,
		Mult:   f.scoring.Mult,
		Phase:  f.Phase(),
		Slowmo: f.resolver.SlowmoT > 0,
	}
	switch s.Phase {
	case PhaseIntro:
		s.Banner = "FIGHT!"
	case PhaseBetween:
		s.Banner = "ROUND END"
	case PhaseEnded:
		s.Banner = "MATCH OVER"
	}
	for _, pr := range f.resolver.Projectiles() {
		pv := ProjectileView{X: pr.Pos.X, Y: pr.Pos.Y, Radius: 8, Color: color.White}
		if pr.Owner != nil {
			owner := viewOf(pr.Owner)
			pv.Owner = owner.ID
			pv.Color = owner.Glow
		}
		s.Projectiles = append(s.Projectiles, pv)
	}
	return s
}
