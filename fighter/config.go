package fighter

import "github.com/milk9111/rayfighter/prefabs"

// Arena bounds fighters and projectiles.
type Arena struct {
	LeftWall  float64
	RightWall float64
	FloorY    float64
}

func ArenaFromSpec(s prefabs.ArenaSpec) Arena {
	return Arena{LeftWall: s.LeftWall, RightWall: s.RightWall, FloorY: s.FloorY}
}

// ClampX keeps x between the walls.
func (a Arena) ClampX(x float64) float64 {
	if x < a.LeftWall {
		return a.LeftWall
	}
	if x > a.RightWall {
		return a.RightWall
	}
	return x
}

// AtWall reports whether x is pinned against the wall in direction dir.
func (a Arena) AtWall(x float64, dir int) bool {
	if dir < 0 {
		return x <= a.LeftWall+1
	}
	if dir > 0 {
		return x >= a.RightWall-1
	}
	return false
}

// Config holds the per-fighter physics and defense constants.
type Config struct {
	Gravity           float64
	JumpVelocity      float64
	DashFriction      float64
	DashSnap          float64
	DashFrames        float64
	HitstunFrames     int
	CrouchSeconds     float64
	ChargeFullSeconds float64
	ChipRatio         float64
	ArmorRatio        float64
	HistorySize       int
	LastStandPct      float64
	GrabRange         float64
	TickRate          float64
}

func DefaultConfig() Config {
	return Config{
		Gravity:           1500,
		JumpVelocity:      -520,
		DashFriction:      0.70,
		DashSnap:          15,
		DashFrames:        4,
		HitstunFrames:     9,
		CrouchSeconds:     0.25,
		ChargeFullSeconds: 1.0,
		ChipRatio:         0.2,
		ArmorRatio:        0.5,
		HistorySize:       20,
		LastStandPct:      0.2,
		GrabRange:         40,
		TickRate:          30,
	}
}

// ConfigFromTuning reads the fighter constants out of tuning.yaml. Zero
// values fall back to the defaults.
func ConfigFromTuning(t *prefabs.TuningSpec) Config {
	c := DefaultConfig()
	if t == nil {
		return c
	}
	setF := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	setF(&c.Gravity, t.Physics.Gravity)
	setF(&c.JumpVelocity, t.Physics.JumpVelocity)
	setF(&c.DashFriction, t.Physics.DashFriction)
	setF(&c.DashSnap, t.Physics.DashSnap)
	setF(&c.DashFrames, t.Physics.DashFrames)
	setF(&c.CrouchSeconds, t.Fighter.CrouchSeconds)
	setF(&c.ChargeFullSeconds, t.Fighter.ChargeFullSeconds)
	setF(&c.ChipRatio, t.Fighter.ChipRatio)
	setF(&c.ArmorRatio, t.Fighter.ArmorRatio)
	setF(&c.LastStandPct, t.Fighter.LastStandPct)
	setF(&c.GrabRange, t.Fighter.GrabRange)
	setF(&c.TickRate, float64(t.TickRate))
	if t.Fighter.HitstunFrames > 0 {
		c.HitstunFrames = t.Fighter.HitstunFrames
	}
	if t.Fighter.HistorySize > 0 {
		c.HistorySize = t.Fighter.HistorySize
	}
	return c
}
