package fight

import (
	"log/slog"

	"github.com/milk9111/rayfighter/combat"
	"github.com/milk9111/rayfighter/common"
	"github.com/milk9111/rayfighter/fighter"
	"github.com/milk9111/rayfighter/input"
	"github.com/milk9111/rayfighter/prefabs"
	"github.com/milk9111/rayfighter/progression"
	"github.com/milk9111/rayfighter/scoring"
)

// gainMomentum applies the last-stand and daily multipliers, then clamps.
func (f *Fight) gainMomentum(x *fighter.Fighter, amt float64) {
	m := f.tuning.Momentum
	mul := 1.0
	if x.LastStand && m.LastStandMul > 0 {
		mul = m.LastStandMul
	}
	if f.mods.MomentumMul > 0 {
		mul *= f.mods.MomentumMul
	}
	x.Momentum = common.ClampInt(x.Momentum+common.RoundInt(amt*mul), 0, int(m.Max))
	if x == f.P1 && x.Momentum >= int(m.Max) {
		f.events = append(f.events, progression.Event{"type": "momentum", "value": x.Momentum})
	}
}

func (f *Fight) drainMomentum(x *fighter.Fighter, amt float64) {
	x.Momentum = common.ClampInt(x.Momentum-common.RoundInt(amt), 0, int(f.tuning.Momentum.Max))
}

func (f *Fight) onMelee(res combat.MeleeResult, attacker, defender *fighter.Fighter) {
	isPlayer := attacker == f.P1
	m := f.tuning.Momentum

	switch res.Kind {
	case combat.MeleeHit:
		f.gainMomentum(attacker, m.Hit)
		if res.WhiffPunish {
			attacker.Stats.WhiffPunishes++
			f.gainMomentum(attacker, m.WhiffPunish)
		}
		if res.AntiAir {
			attacker.Stats.AntiAirHeavies++
		}
		switch res.Attack {
		case fighter.AttackHeavy:
			attacker.Stats.HeavyDamage += res.Hit.Damage
		default:
			attacker.Stats.LightDamage += res.Hit.Damage
		}
		f.drainMomentum(defender, m.HitTaken)

		if isPlayer {
			f.events = append(f.events, progression.Event{"type": "streak", "value": res.Streak})
			switch res.Attack {
			case fighter.AttackHeavy:
				f.totals.Heavies++
			case fighter.AttackLight, fighter.AttackLow, fighter.AttackAir:
				f.totals.Lights++
			}
			if res.WhiffPunish {
				f.totals.WhiffPunishes++
			}
			if res.AntiAir {
				f.totals.AntiAirHeavies++
			}
		} else {
			f.scoring.OnGotHit(res.Hit.Damage)
		}

	case combat.MeleeBlocked:
		f.drainMomentum(defender, m.BlockDefender)
		f.drainMomentum(attacker, m.BlockAttacker)
		f.bookChip(attacker, res.Hit)
		if defender == f.P1 {
			f.totals.Blocks++
			f.scoring.OnChip(res.Hit.Damage)
		}
		if res.HeavyBlock {
			f.blockAdv = blockAdvantage{owner: defender, frames: f.tuning.Block.HeavyAdvantageFrames}
			if defender == f.P1 {
				f.events = append(f.events, progression.Event{"type": "block_counter"})
			}
		}

	case combat.MeleeDodged:
		if res.Perfect {
			f.gainMomentum(defender, m.PerfectDodge)
			if defender == f.P1 {
				f.totals.PerfectDodges++
			}
		}

	case combat.MeleeGrabbed:
		f.grabs[defender] = &grabWindow{
			by:     attacker,
			frames: max(1, f.tuning.Grab.BreakFrames),
			hold:   *res.Grab,
		}
	}
}

// onProjectile follows the melee momentum rules for projectile contact.
func (f *Fight) onProjectile(ev combat.ProjectileEvent) {
	if ev.Reflected {
		return
	}
	f.onStrike(ev.Owner, ev.Target, ev.Hit)
}

// onStrike books momentum and damage for a non-melee hit: projectiles,
// throws and teleport strikes. Player scoring for those happens where they
// are fired.
func (f *Fight) onStrike(attacker, defender *fighter.Fighter, res fighter.HitResult) {
	if attacker == nil || defender == nil {
		return
	}
	m := f.tuning.Momentum
	switch res.Kind {
	case fighter.HitLanded, fighter.HitArmored:
		f.gainMomentum(attacker, m.Hit)
		f.drainMomentum(defender, m.HitTaken)
	case fighter.HitBlocked:
		f.drainMomentum(defender, m.BlockDefender)
		f.drainMomentum(attacker, m.BlockAttacker)
	case fighter.HitDodged:
		if res.Perfect {
			f.gainMomentum(defender, m.PerfectDodge)
		}
	}
	f.bookChip(attacker, res)
	f.bookDefense(defender, res)
}

// bookChip credits the human side with chip it lands on a block.
func (f *Fight) bookChip(attacker *fighter.Fighter, res fighter.HitResult) {
	if attacker == f.P1 && res.Kind == fighter.HitBlocked {
		f.scoring.OnDealt(res.Damage)
	}
}

// bookDefense records what the human side took.
func (f *Fight) bookDefense(defender *fighter.Fighter, res fighter.HitResult) {
	if defender != f.P1 {
		return
	}
	switch res.Kind {
	case fighter.HitLanded, fighter.HitArmored:
		f.scoring.OnGotHit(res.Damage)
	case fighter.HitBlocked:
		f.totals.Blocks++
		f.scoring.OnChip(res.Damage)
	case fighter.HitDodged:
		if res.Perfect {
			f.totals.PerfectDodges++
		}
	}
}

// resolveGrabBreaks counts down held grabs. The human side escapes by
// pressing light during the window; the AI never breaks.
func (f *Fight) resolveGrabBreaks() {
	for _, target := range []*fighter.Fighter{f.P1, f.P2} {
		g := f.grabs[target]
		if g == nil {
			continue
		}
		if target == f.P1 && f.pressed(input.Light) {
			delete(f.grabs, target)
			f.audio.Play("sfx_block")
			f.log.Debug("grab break", slog.String("fighter", target.ID))
			continue
		}
		g.frames--
		if g.frames > 0 {
			continue
		}
		delete(f.grabs, target)
		f.throw(g, target)
	}
}

func (f *Fight) throw(g *grabWindow, target *fighter.Fighter) {
	dmg := common.RoundInt(float64(g.hold.Damage) * f.resolver.DamageMul())
	res := target.TakeHit(fighter.HitRequest{Damage: dmg, Type: prefabs.HitMid, From: g.by, Unblockable: true})

	dir := float64(g.by.Facing)
	if g.hold.ToCorner {
		if dir < 0 {
			target.Pos.X = f.arena.LeftWall
		} else {
			target.Pos.X = f.arena.RightWall
		}
	} else {
		target.Pos.X = f.arena.ClampX(target.Pos.X + dir*g.hold.ThrowPx)
	}
	f.audio.Play("sfx_grab")
	f.effects.Effect(combat.Effect{Kind: combat.EffectBurst, Owner: g.by.ID, X: target.Pos.X, Y: target.Pos.Y - 70, Count: 10})

	if !res.Connected() {
		return
	}
	g.by.Stats.GrabDamage += res.Damage
	f.onStrike(g.by, target, res)
	if g.by == f.P1 {
		f.totals.Grabs++
		info := f.scoring.OnHit(scoring.Hit{
			Kind:   scoring.KindGrab,
			Points: scoring.BasePoints(scoring.KindGrab),
			Damage: res.Damage,
		})
		f.events = append(f.events, progression.Event{"type": "streak", "value": info.Streak})
	}
}

func (f *Fight) pressed(a input.Action) bool {
	for _, x := range f.frameActs {
		if x == a {
			return true
		}
	}
	return false
}
