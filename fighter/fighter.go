package fighter

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rayfighter/input"
	"github.com/milk9111/rayfighter/prefabs"
)

type State string

const (
	StateIdle          State = "idle"
	StateDash          State = "dash"
	StateJump          State = "jump"
	StateCrouch        State = "crouch"
	StateBlock         State = "block"
	StateLight         State = "light"
	StateHeavy         State = "heavy"
	StateGrab          State = "grab"
	StateHit           State = "hit"
	StateSpecialCharge State = "special_charge"
	StateKO            State = "ko"
	StateVictory       State = "victory"
)

// Side is the spawn slot, -1 left and +1 right.
type Side int

const (
	SideLeft  Side = -1
	SideRight Side = 1
)

type BlockMode string

const (
	BlockNone   BlockMode = "none"
	BlockStand  BlockMode = "stand"
	BlockCrouch BlockMode = "crouch"
)

// Stats are per-fighter counters for one match.
type Stats struct {
	AntiAirHeavies int
	WhiffPunishes  int
	GrabDamage     int
	LightDamage    int
	HeavyDamage    int
	Specials       int
	Sigs           int
	Blocks         int
	PerfectDodges  int
}

type Fighter struct {
	Def  *prefabs.FighterSpec
	ID   string
	Name string
	Side Side

	Facing   int
	Pos      cp.Vector
	Vel      cp.Vector
	OnGround bool

	HP       int
	MaxHP    int
	Momentum int

	State  State
	StateT float64
	Timers Timers

	Blocking  BlockMode
	Crouching bool

	DashArmorHits int
	ShieldHits    int
	ShieldReflect bool

	Attack    *Attack
	Charging  bool
	ChargePct float64
	LastStand bool

	Stats Stats

	cfg     Config
	history []input.Action
}

// New builds a fighter standing at x on the arena floor.
func New(def *prefabs.FighterSpec, side Side, x float64, arena Arena, cfg Config) *Fighter {
	f := &Fighter{
		Def:  def,
		Side: side,
		cfg:  cfg,
	}
	if def != nil {
		f.ID = def.ID
		f.Name = def.Name
		f.MaxHP = def.Health
	}
	if f.MaxHP <= 0 {
		f.MaxHP = 1
	}
	f.HP = f.MaxHP
	f.Reset(x, arena.FloorY)
	return f
}

// Reset repositions the fighter for a new round without touching hp,
// momentum or stats.
func (f *Fighter) Reset(x, floorY float64) {
	if f == nil {
		return
	}
	f.Pos = cp.Vector{X: x, Y: floorY}
	f.Vel = cp.Vector{}
	f.OnGround = true
	f.Facing = 1
	if f.Side == SideRight {
		f.Facing = -1
	}
	f.State = StateIdle
	f.StateT = 0
	f.Timers = Timers{}
	f.Blocking = BlockNone
	f.Crouching = false
	f.DashArmorHits = 0
	f.ShieldHits = 0
	f.ShieldReflect = false
	f.Attack = nil
	f.Charging = false
	f.ChargePct = 0
}

// SetMaxHP rescales health and refills it.
func (f *Fighter) SetMaxHP(hp int) {
	if f == nil || hp <= 0 {
		return
	}
	f.MaxHP = hp
	f.HP = hp
}

func (f *Fighter) Config() Config {
	if f == nil {
		return DefaultConfig()
	}
	return f.cfg
}

func (f *Fighter) HPPct() float64 {
	if f == nil || f.MaxHP <= 0 {
		return 0
	}
	return math.Max(0, float64(f.HP)/float64(f.MaxHP))
}

func (f *Fighter) X() float64 { return f.Pos.X }
func (f *Fighter) Y() float64 { return f.Pos.Y }

// Distance is the horizontal gap between two fighters.
func (f *Fighter) Distance(o *Fighter) float64 {
	if f == nil || o == nil {
		return math.Inf(1)
	}
	return math.Abs(f.Pos.X - o.Pos.X)
}

func (f *Fighter) SetFacingTo(o *Fighter) {
	if f == nil || o == nil {
		return
	}
	if o.Pos.X >= f.Pos.X {
		f.Facing = 1
	} else {
		f.Facing = -1
	}
}

func (f *Fighter) IsKO() bool {
	return f != nil && f.State == StateKO
}

func (f *Fighter) IsVulnerable() bool {
	return f != nil && f.Timers.HitstunF <= 0 && f.State != StateKO
}

func (f *Fighter) CanAct() bool {
	if f == nil {
		return false
	}
	return f.Timers.HitstunF <= 0 && f.Attack == nil && !f.Charging &&
		f.State != StateKO && f.State != StateVictory
}

func (f *Fighter) Invisible() bool {
	return f != nil && f.Timers.InvisT > 0
}

func (f *Fighter) setState(s State) {
	f.State = s
	f.StateT = 0
}

// StartDash pushes the fighter in dir with an impulse that decays by friction.
func (f *Fighter) StartDash(dir int, iframes int) {
	if f == nil || dir == 0 || !f.CanAct() {
		return
	}
	f.setState(StateDash)
	f.Vel.X = float64(dir) * f.dashPx() * f.cfg.TickRate / f.cfg.DashFrames
	f.Timers.DashIframesF = iframes
	f.DashArmorHits = 0
	if f.Def != nil && f.Def.ArmorDash != nil {
		f.DashArmorHits = f.Def.ArmorDash.Hits
	}
}

func (f *Fighter) dashPx() float64 {
	if f.Def == nil {
		return 0
	}
	return f.Def.DashPx
}

func (f *Fighter) StartJump() {
	if f == nil || !f.OnGround || !f.CanAct() {
		return
	}
	f.setState(StateJump)
	f.OnGround = false
	f.Vel.Y = f.cfg.JumpVelocity
}

func (f *Fighter) StartCrouch() {
	if f == nil || f.State == StateKO || f.State == StateVictory {
		return
	}
	f.Crouching = true
	f.Timers.CrouchT = f.cfg.CrouchSeconds
	f.setState(StateCrouch)
}

func (f *Fighter) StartBlock(mode BlockMode) {
	if f == nil || f.State == StateKO || f.State == StateVictory {
		return
	}
	f.Blocking = mode
	f.State = StateBlock
}

func (f *Fighter) StopBlock() {
	if f == nil {
		return
	}
	f.Blocking = BlockNone
	if f.State == StateBlock {
		f.State = StateIdle
	}
}

func (f *Fighter) StartCharge() {
	if f == nil || f.Charging || f.Attack != nil || f.Timers.HitstunF > 0 ||
		f.State == StateKO || f.State == StateVictory {
		return
	}
	f.Charging = true
	f.Timers.ChargeT = 0
	f.ChargePct = 0
	f.setState(StateSpecialCharge)
}

// ReleaseCharge ends a charge and returns how long it was held in seconds.
// Releasing without a charge returns 0.
func (f *Fighter) ReleaseCharge() float64 {
	if f == nil || !f.Charging {
		return 0
	}
	held := f.Timers.ChargeT
	f.Charging = false
	f.Timers.ChargeT = 0
	f.ChargePct = 0
	if f.State == StateSpecialCharge {
		f.State = StateIdle
	}
	return held
}

// StartAttack begins kind from the fighter's move table. It reports false
// when the fighter is busy or has no such move.
func (f *Fighter) StartAttack(kind AttackKind, variants ...Variant) bool {
	if f == nil || f.Def == nil {
		return false
	}
	if f.Attack != nil || f.Timers.HitstunF > 0 || f.State == StateKO || f.State == StateVictory {
		return false
	}
	m := f.Def.Moves.Get(string(kind))
	if m == nil {
		return false
	}

	a := &Attack{Kind: kind, Range: f.defaultRange(kind)}
	applyMove(a, m)
	for _, v := range variants {
		if v != nil {
			v(a)
		}
	}
	a.HasHit = false

	f.Attack = a
	f.Timers.AttackF = 0
	switch kind {
	case AttackGrab:
		f.setState(StateGrab)
	case AttackHeavy:
		f.setState(StateHeavy)
	default:
		f.setState(StateLight)
	}
	return true
}

func (f *Fighter) defaultRange(kind AttackKind) float64 {
	switch kind {
	case AttackGrab:
		return f.cfg.GrabRange
	case AttackHeavy:
		return f.Def.Range.Heavy
	case AttackLight:
		return f.Def.Range.Light
	}
	return f.Def.Range.Low
}

// Window reports the current attack phase.
func (f *Fighter) Window() Window {
	if f == nil {
		return Window{}
	}
	return windowAt(f.Attack, f.Timers.AttackF)
}

// StartShield arms a timed shield that absorbs hits.
func (f *Fighter) StartShield(seconds float64, hits int, reflect bool) {
	if f == nil {
		return
	}
	f.Timers.ShieldT = seconds
	f.ShieldHits = hits
	f.ShieldReflect = reflect
}

// Shielded reports whether a shield with charges is up.
func (f *Fighter) Shielded() bool {
	return f != nil && f.Timers.ShieldT > 0 && f.ShieldHits > 0
}

// AddHitstun extends the current stun, used by stumbles and stunning projectiles.
func (f *Fighter) AddHitstun(frames int) {
	if f == nil || frames <= 0 || f.State == StateKO {
		return
	}
	f.Timers.HitstunF += frames
}

// Stumble guarantees at least frames of stun without stacking.
func (f *Fighter) Stumble(frames int) {
	if f == nil || f.State == StateKO {
		return
	}
	if f.Timers.HitstunF < frames {
		f.Timers.HitstunF = frames
	}
}

func (f *Fighter) SetInvisible(seconds float64) {
	if f == nil || seconds <= 0 {
		return
	}
	f.Timers.InvisT = seconds
}

// Win moves the fighter into the victory pose.
func (f *Fighter) Win() {
	if f == nil || f.State == StateKO {
		return
	}
	f.Attack = nil
	f.Charging = false
	f.Blocking = BlockNone
	f.setState(StateVictory)
}

// Update advances timers, physics and the ko transition by one tick.
func (f *Fighter) Update(dt float64, arena Arena) {
	if f == nil {
		return
	}
	pct := f.HPPct()
	f.LastStand = pct > 0 && pct < f.cfg.LastStandPct

	timers, ex := f.Timers.Advance(dt, f.Charging, f.Attack != nil)
	f.Timers = timers

	if f.State == StateHit && f.Timers.HitstunF == 0 {
		f.State = StateIdle
	}
	if ex.Crouch {
		f.Crouching = false
		if f.State == StateCrouch {
			f.State = StateIdle
		}
	}
	if ex.Shield {
		f.ShieldHits = 0
		f.ShieldReflect = false
	}

	if f.Charging {
		f.ChargePct = math.Min(1, f.Timers.ChargeT/f.cfg.ChargeFullSeconds)
	}

	if f.Attack != nil && f.Timers.AttackF >= f.Attack.TotalFrames() {
		f.Attack = nil
		f.State = StateIdle
	}

	if !f.OnGround {
		f.Vel.Y += f.cfg.Gravity * dt
		f.Pos.Y += f.Vel.Y * dt
		if f.Pos.Y >= arena.FloorY {
			f.Pos.Y = arena.FloorY
			f.Vel.Y = 0
			f.OnGround = true
			if f.State == StateJump {
				f.State = StateIdle
			}
		}
	}

	f.Pos.X += f.Vel.X * dt
	f.Vel.X *= f.cfg.DashFriction
	if math.Abs(f.Vel.X) < f.cfg.DashSnap {
		f.Vel.X = 0
	}
	if f.State == StateDash && f.Vel.X == 0 {
		f.State = StateIdle
	}

	f.Pos.X = cp.Clamp(f.Pos.X, arena.LeftWall, arena.RightWall)
	f.StateT += dt

	if f.HP <= 0 && f.State != StateKO {
		f.State = StateKO
		f.Vel = cp.Vector{}
		f.Attack = nil
		f.Charging = false
	}
}
