package fighter

import "github.com/milk9111/rayfighter/prefabs"

type AttackKind string

const (
	AttackLight AttackKind = "light"
	AttackHeavy AttackKind = "heavy"
	AttackLow   AttackKind = "low"
	AttackAir   AttackKind = "air"
	AttackGrab  AttackKind = "grab"
)

// Attack is the active move descriptor. Elapsed frames live in Timers.AttackF.
type Attack struct {
	Kind     AttackKind
	Startup  int
	Active   int
	Recovery int
	Damage   int
	Type     prefabs.HitType
	Range    float64

	PushPx           float64
	PullPx           float64
	TeleportPreHitPx float64
	ThrowPx          float64
	AntiAir          bool
	ToCorner         bool

	HasHit bool
}

func (a *Attack) TotalFrames() int {
	if a == nil {
		return 0
	}
	return a.Startup + a.Active + a.Recovery
}

// Variant adjusts a freshly built attack before it starts.
type Variant func(*Attack)

// WithStartupReduction shortens startup by n frames, never below 1.
func WithStartupReduction(n int) Variant {
	return func(a *Attack) {
		a.Startup -= n
		if a.Startup < 1 {
			a.Startup = 1
		}
	}
}

// WithHeavyOverride replaces heavy damage and lengthens heavy recovery.
func WithHeavyOverride(damage, recoveryAdd int) Variant {
	return func(a *Attack) {
		if a.Kind != AttackHeavy {
			return
		}
		if damage > 0 {
			a.Damage = damage
		}
		a.Recovery += recoveryAdd
	}
}

func applyMove(a *Attack, m *prefabs.MoveSpec) {
	if m.Startup > 0 {
		a.Startup = m.Startup
	}
	if m.Active > 0 {
		a.Active = m.Active
	}
	if m.Recovery > 0 {
		a.Recovery = m.Recovery
	}
	if m.Damage > 0 {
		a.Damage = m.Damage
	}
	if m.Type != "" {
		a.Type = m.Type
	}
	if m.Range > 0 {
		a.Range = m.Range
	}
	if m.PushPx != 0 {
		a.PushPx = m.PushPx
	}
	if m.PullPx != 0 {
		a.PullPx = m.PullPx
	}
	if m.TeleportPreHitPx != 0 {
		a.TeleportPreHitPx = m.TeleportPreHitPx
	}
	if m.ThrowPx != 0 {
		a.ThrowPx = m.ThrowPx
	}
	a.AntiAir = a.AntiAir || m.AntiAir
	a.ToCorner = a.ToCorner || m.ToCorner
}

type Phase int

const (
	PhaseNone Phase = iota
	PhaseStartup
	PhaseActive
	PhaseRecovery
)

func (p Phase) String() string {
	switch p {
	case PhaseStartup:
		return "startup"
	case PhaseActive:
		return "active"
	case PhaseRecovery:
		return "recovery"
	}
	return "none"
}

// Window is the attack phase derived from the frame counter.
type Window struct {
	Phase  Phase
	Attack *Attack
}

func (w Window) Active() bool   { return w.Phase == PhaseActive }
func (w Window) Startup() bool  { return w.Phase == PhaseStartup }
func (w Window) Recovery() bool { return w.Phase == PhaseRecovery }

func windowAt(a *Attack, frame int) Window {
	if a == nil {
		return Window{}
	}
	activeStart := a.Startup
	activeEnd := a.Startup + a.Active
	switch {
	case frame < activeStart:
		return Window{Phase: PhaseStartup, Attack: a}
	case frame < activeEnd:
		return Window{Phase: PhaseActive, Attack: a}
	default:
		return Window{Phase: PhaseRecovery, Attack: a}
	}
}
