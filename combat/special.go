package combat

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/rayfighter/common"
	"github.com/milk9111/rayfighter/fighter"
	"github.com/milk9111/rayfighter/prefabs"
)

const (
	SpecialProjectile = "projectile"
	SpecialTeleport   = "teleport"
	SpecialShield     = "shield"
	SpecialNone       = "none"
)

type SpecialOutcome struct {
	Kind    string
	Spawned int
	Reflect bool
	Strike  *fighter.HitResult
}

// FireSpecial runs the special registered for f's archetype at rank. An
// archetype without an entry does nothing.
func (r *Resolver) FireSpecial(f, opp *fighter.Fighter, rank prefabs.Rank) SpecialOutcome {
	if r == nil || f == nil || opp == nil {
		return SpecialOutcome{Kind: SpecialNone}
	}
	spec, ok := r.specials.Lookup(f.ID, rank)
	if !ok {
		return SpecialOutcome{Kind: SpecialNone}
	}

	var out SpecialOutcome
	switch spec.Kind {
	case SpecialProjectile:
		out = r.fireProjectiles(f, spec)
	case SpecialTeleport:
		out = r.teleport(f, opp, spec.Teleport)
	case SpecialShield:
		out = r.shield(f, spec.Shield)
	default:
		return SpecialOutcome{Kind: SpecialNone}
	}
	if spec.Sfx != "" {
		r.sink.Play(spec.Sfx)
	}
	return out
}

func (r *Resolver) fireProjectiles(f *fighter.Fighter, spec prefabs.SpecialSpec) SpecialOutcome {
	facing := float64(f.Facing)
	base := spec.BaseDamage * r.DamageMul()
	for _, ps := range spec.Projectiles {
		scale := ps.DamageScale
		if scale == 0 {
			scale = 1
		}
		radius := ps.Radius
		if radius == 0 {
			radius = 10
		}
		r.spawn(&Projectile{
			Pos:        cp.Vector{X: f.Pos.X + facing*r.tuning.SpawnOffset, Y: f.Pos.Y + ps.OffsetY},
			Vel:        cp.Vector{X: facing * ps.Speed},
			Radius:     radius,
			Damage:     common.RoundInt(base * scale),
			Owner:      f,
			Type:       ps.Type,
			High:       ps.High,
			Sfx:        spec.Sfx,
			StunFrames: ps.StunFrames,
			Bounces:    ps.Bounces,
		})
	}
	return SpecialOutcome{Kind: SpecialProjectile, Spawned: len(spec.Projectiles)}
}

func (r *Resolver) teleport(f, opp *fighter.Fighter, t *prefabs.TeleportSpec) SpecialOutcome {
	if t == nil {
		return SpecialOutcome{Kind: SpecialNone}
	}
	f.Pos.X = r.arena.ClampX(opp.Pos.X - float64(opp.Facing)*t.BehindPx)
	f.Facing = -f.Facing
	f.SetInvisible(t.InvisSeconds)

	out := SpecialOutcome{Kind: SpecialTeleport}
	if t.StrikeDamage > 0 {
		typ := t.StrikeType
		if typ == "" {
			typ = prefabs.HitMid
		}
		res := opp.TakeHit(fighter.HitRequest{Damage: r.scale(t.StrikeDamage), Type: typ, From: f})
		out.Strike = &res
	}
	return out
}

func (r *Resolver) shield(f *fighter.Fighter, s *prefabs.ShieldSpec) SpecialOutcome {
	if s == nil {
		return SpecialOutcome{Kind: SpecialNone}
	}
	f.StartShield(s.Seconds, s.Hits, s.Reflect)
	return SpecialOutcome{Kind: SpecialShield, Reflect: s.Reflect}
}
