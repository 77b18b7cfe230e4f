// Package fight runs one 1v1 match: phases, input routing, momentum, grab
// breaks and round adjudication on top of the fighter, combat, ai and
// scoring packages.
package fight

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/milk9111/rayfighter/ai"
	"github.com/milk9111/rayfighter/combat"
	"github.com/milk9111/rayfighter/common"
	"github.com/milk9111/rayfighter/fighter"
	"github.com/milk9111/rayfighter/input"
	"github.com/milk9111/rayfighter/prefabs"
	"github.com/milk9111/rayfighter/progression"
	"github.com/milk9111/rayfighter/scoring"
)

type Rounds struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
}

// MatchTotals are the human side's counters for one match.
type MatchTotals struct {
	Lights         int
	Heavies        int
	Grabs          int
	Specials       int
	Sigs           int
	Blocks         int
	PerfectDodges  int
	TimeoutWins    int
	WhiffPunishes  int
	AntiAirHeavies int
}

type lastMove struct {
	wasJumpToLow   bool
	lastWasJumpAtk bool
}

// grabWindow holds a landed grab until its break window runs out.
type grabWindow struct {
	by     *fighter.Fighter
	frames int
	hold   combat.GrabHold
}

type blockAdvantage struct {
	owner  *fighter.Fighter
	frames int
}

type Fight struct {
	ID string

	P1, P2 *fighter.Fighter
	Rounds Rounds
	Timer  float64

	tuning     *prefabs.TuningSpec
	preset     prefabs.DifficultySpec
	difficulty string
	daily      *prefabs.DailySpec
	mods       prefabs.DailyModSpec
	arena      fighter.Arena

	resolver  *combat.Resolver
	scoring   *scoring.Scoring
	ai        *ai.AI
	autopilot *ai.AI
	queue     *input.Queue
	prog      *progression.Progression

	audio   Audio
	effects Effects
	log     *slog.Logger

	phase      *fsm.FSM
	phaseT     float64
	t          float64
	roundStart float64
	music      string

	events    []progression.Event
	totals    MatchTotals
	lastMove  lastMove
	grabs     map[*fighter.Fighter]*grabWindow
	blockAdv  blockAdvantage
	frameActs []input.Action
	cameback  bool

	outcome *Outcome
}

// New builds a match between P1 (the human side) and P2 (the AI).
func New(ctx context.Context, opts Options) (*Fight, error) {
	b := opts.Bundle
	if b == nil {
		var err error
		if b, err = prefabs.LoadBundle(); err != nil {
			return nil, err
		}
	}

	f := &Fight{
		ID:         uuid.NewString(),
		tuning:     b.Tuning,
		difficulty: opts.Difficulty,
		daily:      opts.Daily,
		queue:      opts.Input,
		prog:       opts.Progression,
		audio:      opts.Audio,
		effects:    opts.Effects,
		log:        opts.Logger,
		grabs:      map[*fighter.Fighter]*grabWindow{},
	}
	if f.difficulty == "" {
		f.difficulty = b.Difficulties.Default
	}
	f.preset = b.Difficulties.Preset(f.difficulty)
	if opts.Daily != nil {
		f.mods = opts.Daily.Mod
	}
	if f.queue == nil {
		f.queue = input.NewQueue()
	}
	if f.audio == nil {
		f.audio = NopAudio{}
	}
	if f.effects == nil {
		f.effects = combat.NopSink{}
	}
	if f.log == nil {
		f.log = slog.New(slog.DiscardHandler)
	}
	f.log = f.log.With(slog.String("match", f.ID))

	p1Def, ok := b.Roster.Fighter(opts.P1)
	if !ok {
		return nil, fmt.Errorf("fight: unknown fighter %q", opts.P1)
	}
	p2Def, ok := b.Roster.Fighter(opts.P2)
	if !ok {
		return nil, fmt.Errorf("fight: unknown fighter %q", opts.P2)
	}
	if f.mods.Mirror {
		p2Def = p1Def
	}

	if f.prog == nil {
		checker, err := progression.NewChecker(b.Achievements)
		if err != nil {
			return nil, err
		}
		f.prog = progression.New(ctx, progression.Options{
			Spec:    b.Progression,
			Roster:  b.Roster.IDs(),
			Checker: checker,
			Dailies: b.Daily,
			Logger:  f.log,
		})
	}

	f.arena = fighter.ArenaFromSpec(b.Tuning.Arena)
	cfg := fighter.ConfigFromTuning(b.Tuning)
	f.P1 = fighter.New(p1Def, fighter.SideLeft, b.Tuning.Spawn.LeftX, f.arena, cfg)
	f.P2 = fighter.New(p2Def, fighter.SideRight, b.Tuning.Spawn.RightX, f.arena, cfg)
	if f.mods.HPMul > 0 {
		f.P1.SetMaxHP(common.RoundInt(float64(f.P1.MaxHP) * f.mods.HPMul))
		f.P2.SetMaxHP(common.RoundInt(float64(f.P2.MaxHP) * f.mods.HPMul))
	}

	f.scoring = scoring.New()
	f.resolver = combat.NewResolver(combat.Options{
		Arena:      f.arena,
		Projectile: b.Tuning.Projectile,
		Specials:   b.Specials,
		Signatures: b.Signatures,
		Mods:       f.mods,
		Scorer:     f.scoring,
		Sink:       sink{audio: f.audio, effects: f.effects},
		Logger:     f.log,
	})

	rng := opts.Rand
	if rng == nil {
		rng = ai.NewRand(uint64(time.Now().UnixNano()))
	}
	f.ai = ai.New(f.preset, rng)
	if opts.Autopilot {
		f.autopilot = ai.New(f.preset, rng)
	}

	f.phase = newPhaseMachine(f.log)
	f.start()
	return f, nil
}

func (f *Fight) start() {
	f.Timer = f.tuning.Round.Seconds
	f.phaseT = f.tuning.Round.IntroSeconds
	f.roundStart = f.t
	if f.P1.Def != nil {
		f.playMusic(f.P1.Def.Music)
	}
	f.audio.Play("sfx_round")
	f.voice(func(v prefabs.VoiceSpec) string { return v.Start })
	f.log.Info("match start",
		slog.String("p1", f.P1.ID),
		slog.String("p2", f.P2.ID),
		slog.String("difficulty", f.difficulty),
	)
}

func (f *Fight) playMusic(key string) {
	if key == "" || key == f.music {
		return
	}
	f.music = key
	f.audio.PlayMusic(key)
}

func (f *Fight) voice(pick func(prefabs.VoiceSpec) string) {
	if f.P1.Def == nil {
		return
	}
	if key := pick(f.P1.Def.Voice); key != "" {
		f.audio.Play(key)
	}
}

// Input is the human side's action queue.
func (f *Fight) Input() *input.Queue {
	return f.queue
}

func (f *Fight) Scoring() *scoring.Scoring {
	return f.scoring
}

func (f *Fight) Resolver() *combat.Resolver {
	return f.resolver
}

func (f *Fight) Totals() MatchTotals {
	return f.totals
}

// Elapsed is the match clock in seconds.
func (f *Fight) Elapsed() float64 {
	return f.t
}

// Outcome is set once the match has ended.
func (f *Fight) Outcome() *Outcome {
	return f.outcome
}

// Update advances the match by one tick. It returns the outcome on the tick
// the match ends and on every call after that.
func (f *Fight) Update(ctx context.Context, dt float64) *Outcome {
	if f.outcome != nil {
		return f.outcome
	}
	f.t += dt

	if f.P1.LastStand || f.P2.LastStand {
		f.playMusic("music_laststand")
	}
	if f.P1.LastStand {
		f.cameback = true
	}
	f.quake(dt)

	switch f.Phase() {
	case PhaseIntro:
		f.phaseT -= dt
		if f.phaseT <= 0 {
			f.transition(ctx, evStart, 0)
		}
	case PhaseBetween:
		f.phaseT -= dt
		if f.phaseT <= 0 {
			need := max(1, f.tuning.Round.WinsNeeded)
			if f.Rounds.P1 >= need || f.Rounds.P2 >= need {
				return f.endMatch(ctx)
			}
			f.resetRound(ctx)
		}
	}

	if f.Phase() == PhasePlay {
		f.Timer -= dt
		if f.Timer <= 0 {
			f.Timer = 0
			f.roundByTimeout(ctx)
		}
	}

	f.frameActs = f.queue.Drain()
	f.applyPlayerInputs(f.frameActs)

	if f.Phase() == PhasePlay {
		if f.autopilot != nil {
			acts := f.autopilot.Update(dt, f.P1, f.P2, ai.Context{CanSpecial: f.canSpecial(f.P1)})
			f.frameActs = append(f.frameActs, acts...)
			f.applyAIInputs(f.P1, f.P2, acts, true)
		}
		acts := f.ai.Update(dt, f.P2, f.P1, ai.Context{CanSpecial: f.canSpecial(f.P2)})
		f.applyAIInputs(f.P2, f.P1, acts, false)
	}

	f.resolveGrabBreaks()
	if f.blockAdv.frames > 0 {
		f.blockAdv.frames--
	}

	physDt := dt
	if f.mods.SpeedMul > 0 {
		physDt *= f.mods.SpeedMul
	}

	f.P1.SetFacingTo(f.P2)
	f.P2.SetFacingTo(f.P1)
	f.P1.Update(physDt, f.arena)
	f.P2.Update(physDt, f.arena)

	r1 := f.resolver.ResolveMelee(f.P1, f.P2, combat.MeleeOptions{IsPlayer: true, MixUp: f.lastMove.wasJumpToLow})
	r2 := f.resolver.ResolveMelee(f.P2, f.P1, combat.MeleeOptions{})
	f.onMelee(r1, f.P1, f.P2)
	f.onMelee(r2, f.P2, f.P1)

	for _, ev := range f.resolver.Update(physDt, f.P1, f.P2) {
		f.onProjectile(ev)
	}

	if f.Phase() == PhasePlay && (f.P1.IsKO() || f.P2.IsKO()) {
		f.ko(ctx)
	}
	return nil
}

// quake stumbles both fighters once every period when the daily calls for it.
func (f *Fight) quake(dt float64) {
	if !f.mods.Quake {
		return
	}
	period := f.tuning.Quake.PeriodSeconds
	if period <= 0 || f.t < period {
		return
	}
	if math.Mod(f.t, period) < dt {
		f.effects.Effect(combat.Effect{Kind: combat.EffectShake, Magnitude: 10, Seconds: 0.25})
		f.P1.Stumble(f.tuning.Quake.StumbleFrames)
		f.P2.Stumble(f.tuning.Quake.StumbleFrames)
	}
}

func (f *Fight) canSpecial(x *fighter.Fighter) bool {
	return float64(x.Momentum) >= f.tuning.Momentum.SpecialCost
}

func (f *Fight) held(x *fighter.Fighter) bool {
	return f.grabs[x] != nil
}

func (f *Fight) applyPlayerInputs(acts []input.Action) {
	p1 := f.P1
	playing := f.Phase() == PhasePlay
	for _, a := range acts {
		p1.PushAction(a)
		if f.held(p1) {
			continue
		}

		switch a {
		case input.DownHold:
			if p1.Crouching {
				p1.StartBlock(fighter.BlockCrouch)
			} else {
				p1.StartBlock(fighter.BlockStand)
			}
			continue
		case input.DownRelease:
			p1.StopBlock()
			continue
		}
		if !playing {
			continue
		}

		switch a {
		case input.DashLeft:
			f.dash(p1, -1)
		case input.DashRight:
			f.dash(p1, 1)
		case input.Jump:
			p1.StartJump()
		case input.Crouch:
			p1.StartCrouch()
		case input.Light:
			switch {
			case !p1.OnGround:
				f.startAttack(p1, fighter.AttackAir)
				f.lastMove.lastWasJumpAtk = true
			case p1.Crouching:
				f.startAttack(p1, fighter.AttackLow)
				f.lastMove.wasJumpToLow = f.lastMove.lastWasJumpAtk
				f.lastMove.lastWasJumpAtk = false
			default:
				f.startAttack(p1, fighter.AttackLight)
				f.lastMove.lastWasJumpAtk = false
			}
		case input.Heavy:
			f.startAttack(p1, fighter.AttackHeavy)
			f.lastMove.lastWasJumpAtk = false
		case input.Grab:
			f.startAttack(p1, fighter.AttackGrab)
			f.lastMove.lastWasJumpAtk = false
		case input.SpecialChargeStart:
			p1.StartCharge()
			f.audio.Play("sfx_charge")
		case input.SpecialRelease:
			if held := p1.ReleaseCharge(); held >= f.tuning.Special.MinHold {
				f.trySpecialOrSig(p1, f.P2, true, held)
			}
		}
	}
}

// applyAIInputs routes AI tokens. The AI never charges; a special token is an
// instant charge and release.
func (f *Fight) applyAIInputs(self, opp *fighter.Fighter, acts []input.Action, isPlayer bool) {
	for _, a := range acts {
		self.PushAction(a)
		if f.held(self) {
			continue
		}
		if a == input.DownHold {
			self.StartBlock(fighter.BlockStand)
			continue
		}
		if a.IsOffense() && self.Blocking != fighter.BlockNone {
			self.StopBlock()
		}

		switch a {
		case input.DashLeft:
			f.dash(self, -1)
		case input.DashRight:
			f.dash(self, 1)
		case input.Jump:
			self.StartJump()
		case input.Crouch:
			self.StartCrouch()
		case input.Light:
			switch {
			case !self.OnGround:
				f.startAttack(self, fighter.AttackAir)
			case self.Crouching:
				f.startAttack(self, fighter.AttackLow)
			default:
				f.startAttack(self, fighter.AttackLight)
			}
		case input.Low:
			f.startAttack(self, fighter.AttackLow)
		case input.Heavy:
			f.startAttack(self, fighter.AttackHeavy)
		case input.Grab:
			f.startAttack(self, fighter.AttackGrab)
		case input.Special:
			f.trySpecialOrSig(self, opp, isPlayer, f.tuning.Special.AIHold)
		}
	}
}

func (f *Fight) startAttack(x *fighter.Fighter, kind fighter.AttackKind) bool {
	var variants []fighter.Variant
	if kind == fighter.AttackHeavy && f.mods.HeavyDamage > 0 {
		variants = append(variants, fighter.WithHeavyOverride(f.mods.HeavyDamage, f.mods.HeavyRecoveryAdd))
	}
	adv := f.blockAdv.owner == x && f.blockAdv.frames > 0
	if adv {
		variants = append(variants, fighter.WithStartupReduction(f.tuning.Block.HeavyAdvantageFrames))
	}
	if !x.StartAttack(kind, variants...) {
		return false
	}
	if adv {
		f.blockAdv = blockAdvantage{}
	}
	return true
}

// dash is a no-op toward an adjacent wall.
func (f *Fight) dash(x *fighter.Fighter, dir int) {
	if f.arena.AtWall(x.X(), dir) {
		return
	}
	iframes := f.tuning.Dash.Iframes
	if x.LastStand {
		iframes += f.tuning.Dash.LastStandBonus
	}
	x.StartDash(dir, iframes)
	f.audio.Play("sfx_dodge")
}

func (f *Fight) trySpecialOrSig(x, opp *fighter.Fighter, isPlayer bool, held float64) {
	m := f.tuning.Momentum
	if float64(x.Momentum) >= m.Max && held >= f.tuning.Special.SignatureHold {
		f.drainMomentum(x, m.Max)
		x.Stats.Sigs++
		out := f.resolver.Signature(x, opp)
		f.bookChip(x, out.Hit)
		f.bookDefense(opp, out.Hit)
		if isPlayer {
			f.totals.Sigs++
			if out.Landed {
				f.scoring.OnHit(scoring.Hit{
					Kind:   scoring.KindSignature,
					Points: scoring.BasePoints(scoring.KindSignature),
					Damage: out.Hit.Damage,
				})
				f.events = append(f.events, progression.Event{"type": "signature_landed", "name": out.Name})
			}
		}
		return
	}

	if float64(x.Momentum) < m.SpecialCost {
		return
	}
	f.drainMomentum(x, m.SpecialCost)
	x.Stats.Specials++
	out := f.resolver.FireSpecial(x, opp, f.prog.MasteryRank(x.ID))
	if out.Strike != nil {
		f.onStrike(x, opp, *out.Strike)
		if isPlayer && out.Strike.Connected() {
			f.scoring.OnDealt(out.Strike.Damage)
		}
	}
	if isPlayer {
		f.totals.Specials++
		f.events = append(f.events, progression.Event{"type": "momentum", "value": x.Momentum})
		f.voice(func(v prefabs.VoiceSpec) string { return v.Special })
	}
}
