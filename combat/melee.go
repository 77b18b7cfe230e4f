package combat

import (
	"log/slog"

	"github.com/milk9111/rayfighter/fighter"
	"github.com/milk9111/rayfighter/scoring"
)

type MeleeKind int

const (
	MeleeNone MeleeKind = iota
	MeleeHit
	MeleeBlocked
	MeleeDodged
	MeleeGrabbed
)

func (k MeleeKind) String() string {
	switch k {
	case MeleeHit:
		return "hit"
	case MeleeBlocked:
		return "blocked"
	case MeleeDodged:
		return "dodged"
	case MeleeGrabbed:
		return "grabbed"
	}
	return "none"
}

type MeleeOptions struct {
	IsPlayer bool
	MixUp    bool
}

// GrabHold is a landed grab waiting out its break window.
type GrabHold struct {
	Damage   int
	ThrowPx  float64
	ToCorner bool
}

type MeleeResult struct {
	Kind        MeleeKind
	Attack      fighter.AttackKind
	Hit         fighter.HitResult
	WhiffPunish bool
	AntiAir     bool
	HeavyBlock  bool
	Perfect     bool
	Streak      int
	ScoreDelta  int
	Grab        *GrabHold
	Distance    float64
}

// ResolveMelee checks attacker's active window against defender. Each attack
// instance connects at most once.
func (r *Resolver) ResolveMelee(attacker, defender *fighter.Fighter, opts MeleeOptions) MeleeResult {
	if r == nil || attacker == nil || defender == nil {
		return MeleeResult{}
	}
	w := attacker.Window()
	if !w.Active() || w.Attack.HasHit {
		return MeleeResult{}
	}
	a := w.Attack

	if a.TeleportPreHitPx != 0 {
		attacker.Pos.X = r.arena.ClampX(attacker.Pos.X + float64(attacker.Facing)*a.TeleportPreHitPx)
	}

	dist := attacker.Distance(defender)
	if dist > a.Range {
		return MeleeResult{}
	}

	if a.Kind == fighter.AttackGrab {
		if !defender.IsVulnerable() {
			return MeleeResult{}
		}
		a.HasHit = true
		return MeleeResult{
			Kind:     MeleeGrabbed,
			Attack:   a.Kind,
			Grab:     &GrabHold{Damage: a.Damage, ThrowPx: a.ThrowPx, ToCorner: a.ToCorner},
			Distance: dist,
		}
	}

	a.HasHit = true
	antiAir := a.Kind == fighter.AttackHeavy && a.AntiAir && !defender.OnGround
	whiff := defender.Window().Recovery()

	dmg := r.scale(float64(a.Damage))
	res := defender.TakeHit(fighter.HitRequest{Damage: dmg, Type: a.Type, From: attacker})
	out := MeleeResult{Attack: a.Kind, Hit: res, Distance: dist}

	switch res.Kind {
	case fighter.HitLanded, fighter.HitArmored:
		out.Kind = MeleeHit
		out.WhiffPunish = whiff
		out.AntiAir = antiAir
		r.onMeleeConnect(attacker, defender, a)
		if opts.IsPlayer && r.scorer != nil {
			info := r.scorer.OnHit(scoring.Hit{
				Kind:        scoring.Kind(a.Kind),
				Points:      scoring.BasePoints(scoring.Kind(a.Kind)),
				Damage:      res.Damage,
				WhiffPunish: whiff,
				AntiAir:     antiAir,
				MixUp:       opts.MixUp,
			})
			out.Streak = info.Streak
			out.ScoreDelta = info.Delta
		}
	case fighter.HitBlocked:
		out.Kind = MeleeBlocked
		out.HeavyBlock = a.Kind == fighter.AttackHeavy
		r.sink.Play("sfx_block")
	case fighter.HitDodged:
		out.Kind = MeleeDodged
		out.Perfect = res.Perfect
		if res.Perfect {
			r.sink.Play("sfx_perfectdodge")
		} else {
			r.sink.Play("sfx_dodge")
		}
	}

	r.log.Debug("melee",
		slog.Group("combat",
			slog.String("attacker", attacker.ID),
			slog.String("defender", defender.ID),
			slog.String("result", out.Kind.String()),
			slog.String("attack", string(out.Attack)),
			slog.Float64("distance", out.Distance),
		),
	)
	return out
}

func (r *Resolver) onMeleeConnect(attacker, defender *fighter.Fighter, a *fighter.Attack) {
	heavy := a.Kind == fighter.AttackHeavy
	n := 8
	if heavy {
		n = 14
		r.sink.Play("sfx_heavy")
		r.sink.Effect(Effect{Kind: EffectShake, Magnitude: 8, Seconds: 0.20})
	} else {
		r.sink.Play("sfx_light")
	}
	r.burst(attacker, defender.Pos.X, defender.Pos.Y-60, n)

	if a.PushPx != 0 {
		defender.Pos.X = r.arena.ClampX(defender.Pos.X + float64(attacker.Facing)*a.PushPx)
	}
	if a.PullPx != 0 {
		defender.Pos.X = r.arena.ClampX(defender.Pos.X - float64(attacker.Facing)*a.PullPx)
	}
}
