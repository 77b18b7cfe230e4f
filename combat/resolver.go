// Package combat resolves melee contact, live projectiles and special moves
// between two fighters.
package combat

import (
	"log/slog"

	"github.com/milk9111/rayfighter/common"
	"github.com/milk9111/rayfighter/fighter"
	"github.com/milk9111/rayfighter/prefabs"
)

type Options struct {
	Arena      fighter.Arena
	Projectile prefabs.ProjectileTuning
	Specials   prefabs.SpecialTable
	Signatures *prefabs.SignatureTable
	Mods       prefabs.DailyModSpec
	Scorer     Scorer
	Sink       Sink
	Logger     *slog.Logger
}

type Resolver struct {
	arena      fighter.Arena
	tuning     prefabs.ProjectileTuning
	specials   prefabs.SpecialTable
	signatures *prefabs.SignatureTable
	mods       prefabs.DailyModSpec
	scorer     Scorer
	sink       Sink
	log        *slog.Logger

	projectiles []*Projectile
	SlowmoT     float64
}

func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		arena:      opts.Arena,
		tuning:     opts.Projectile,
		specials:   opts.Specials,
		signatures: opts.Signatures,
		mods:       opts.Mods,
		scorer:     opts.Scorer,
		sink:       opts.Sink,
		log:        opts.Logger,
	}
	if r.tuning.HitRadius <= 0 {
		r.tuning.HitRadius = 28
	}
	if r.tuning.BoundsMargin <= 0 {
		r.tuning.BoundsMargin = 40
	}
	if r.tuning.SpawnOffset <= 0 {
		r.tuning.SpawnOffset = 40
	}
	if r.sink == nil {
		r.sink = NopSink{}
	}
	if r.log == nil {
		r.log = slog.New(slog.DiscardHandler)
	}
	return r
}

func (r *Resolver) Arena() fighter.Arena {
	return r.arena
}

// DamageMul is the daily damage multiplier, 1 when unset.
func (r *Resolver) DamageMul() float64 {
	if r == nil || r.mods.DamageMul == 0 {
		return 1
	}
	return r.mods.DamageMul
}

func (r *Resolver) scale(dmg float64) int {
	return common.RoundInt(dmg * r.DamageMul())
}

// Projectiles returns the live projectiles.
func (r *Resolver) Projectiles() []*Projectile {
	if r == nil {
		return nil
	}
	return r.projectiles
}

// Clear drops every projectile, used between rounds.
func (r *Resolver) Clear() {
	if r == nil {
		return
	}
	r.projectiles = nil
	r.SlowmoT = 0
}

func (r *Resolver) burst(owner *fighter.Fighter, x, y float64, n int) {
	id := ""
	if owner != nil {
		id = owner.ID
	}
	r.sink.Effect(Effect{Kind: EffectBurst, Owner: id, X: x, Y: y, Count: n})
}
