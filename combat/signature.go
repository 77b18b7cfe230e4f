package combat

import (
	"github.com/milk9111/rayfighter/fighter"
	"github.com/milk9111/rayfighter/prefabs"
)

type SignatureOutcome struct {
	Name    string
	Landed  bool
	Avoided bool
	Hit     fighter.HitResult
}

// Signature fires f's signature move at opp. The flash, shake and sound
// always play, whether or not it lands.
func (r *Resolver) Signature(f, opp *fighter.Fighter) SignatureOutcome {
	if r == nil || f == nil || opp == nil {
		return SignatureOutcome{}
	}
	spec := r.signatures.Lookup(f.ID)

	r.sink.Play("sfx_signature")
	r.sink.Effect(Effect{Kind: EffectFlash, Owner: f.ID, Seconds: spec.FlashSeconds})
	r.sink.Effect(Effect{Kind: EffectShake, Magnitude: spec.ShakeMag, Seconds: spec.ShakeSeconds})

	typ := spec.Type
	if typ == "" {
		typ = prefabs.HitMid
	}
	out := SignatureOutcome{Name: spec.Name}

	if spec.AvoidByJump && !opp.OnGround {
		out.Avoided = true
		return out
	}

	req := fighter.HitRequest{Damage: r.scale(spec.Damage), Type: typ, From: f, Unblockable: spec.Unblockable}
	if spec.Unblockable {
		opp.Blocking = fighter.BlockNone
	}
	out.Hit = opp.TakeHit(req)
	out.Landed = out.Hit.Connected()
	return out
}
