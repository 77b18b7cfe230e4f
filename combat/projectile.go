package combat

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rayfighter/fighter"
	"github.com/milk9111/rayfighter/prefabs"
	"github.com/milk9111/rayfighter/scoring"
)

type Projectile struct {
	Pos        cp.Vector
	Vel        cp.Vector
	Radius     float64
	Damage     int
	Owner      *fighter.Fighter
	Type       prefabs.HitType
	High       bool
	Sfx        string
	StunFrames int
	Bounces    int
	Dead       bool
}

// ProjectileEvent reports one projectile reaching its target.
type ProjectileEvent struct {
	Owner     *fighter.Fighter
	Target    *fighter.Fighter
	Hit       fighter.HitResult
	Reflected bool
}

func (r *Resolver) spawn(p *Projectile) {
	r.projectiles = append(r.projectiles, p)
}

// Update moves projectiles, resolves contact against the opposing fighter and
// prunes dead ones. p1 is the human side for scoring.
func (r *Resolver) Update(dt float64, p1, p2 *fighter.Fighter) []ProjectileEvent {
	if r == nil {
		return nil
	}
	var events []ProjectileEvent
	for _, pr := range r.projectiles {
		if pr.Dead {
			continue
		}
		pr.Pos = pr.Pos.Add(pr.Vel.Mult(dt))
		r.bounce(pr)

		target := p1
		if pr.Owner == p1 {
			target = p2
		}
		if ev, ok := r.contact(pr, target, p1); ok {
			events = append(events, ev)
		}

		if pr.Pos.X < r.arena.LeftWall-r.tuning.BoundsMargin || pr.Pos.X > r.arena.RightWall+r.tuning.BoundsMargin {
			pr.Dead = true
		}
	}

	live := r.projectiles[:0]
	for _, pr := range r.projectiles {
		if !pr.Dead {
			live = append(live, pr)
		}
	}
	for i := len(live); i < len(r.projectiles); i++ {
		r.projectiles[i] = nil
	}
	r.projectiles = live

	if r.SlowmoT > 0 {
		r.SlowmoT = math.Max(0, r.SlowmoT-dt)
	}
	return events
}

func (r *Resolver) bounce(pr *Projectile) {
	if pr.Bounces <= 0 {
		return
	}
	if (pr.Pos.X <= r.arena.LeftWall && pr.Vel.X < 0) || (pr.Pos.X >= r.arena.RightWall && pr.Vel.X > 0) {
		pr.Vel.X = -pr.Vel.X
		pr.Pos.X = r.arena.ClampX(pr.Pos.X)
		pr.Bounces--
	}
}

func (r *Resolver) contact(pr *Projectile, target, p1 *fighter.Fighter) (ProjectileEvent, bool) {
	if target == nil || target.IsKO() {
		return ProjectileEvent{}, false
	}
	if math.Abs(pr.Pos.X-target.Pos.X) >= r.tuning.HitRadius {
		return ProjectileEvent{}, false
	}
	if pr.High && (target.Crouching || !target.OnGround) {
		return ProjectileEvent{}, false
	}

	if target.ShieldReflect && target.Shielded() {
		pr.Vel.X = -pr.Vel.X
		from := pr.Owner
		pr.Owner = target
		r.sink.Play("sfx_block")
		return ProjectileEvent{Owner: from, Target: target, Reflected: true}, true
	}

	res := target.TakeHit(fighter.HitRequest{Damage: pr.Damage, Type: pr.Type, From: pr.Owner})
	pr.Dead = true
	ev := ProjectileEvent{Owner: pr.Owner, Target: target, Hit: res}

	switch res.Kind {
	case fighter.HitLanded, fighter.HitArmored:
		r.burst(pr.Owner, target.Pos.X, target.Pos.Y-60, 10)
		r.sink.Play(pr.Sfx)
		if res.Kind == fighter.HitLanded {
			target.AddHitstun(pr.StunFrames)
		}
		if pr.Owner == p1 && r.scorer != nil {
			r.scorer.OnHit(scoring.Hit{Kind: scoring.KindSpecial, Points: scoring.BasePoints(scoring.KindSpecial), Damage: res.Damage})
		}
	case fighter.HitBlocked:
		r.sink.Play("sfx_block")
	}
	return ev, true
}
