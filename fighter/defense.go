package fighter

import (
	"github.com/milk9111/rayfighter/common"
	"github.com/milk9111/rayfighter/prefabs"
)

// HitRequest is one incoming strike.
type HitRequest struct {
	Damage      int
	Type        prefabs.HitType
	From        *Fighter
	Unblockable bool
}

type HitKind int

const (
	HitNone HitKind = iota
	HitDodged
	HitArmored
	HitBlocked
	HitLanded
)

func (k HitKind) String() string {
	switch k {
	case HitDodged:
		return "dodged"
	case HitArmored:
		return "armored"
	case HitBlocked:
		return "blocked"
	case HitLanded:
		return "hit"
	}
	return "none"
}

// HitResult is the outcome of TakeHit. Damage is what was subtracted from hp.
type HitResult struct {
	Kind    HitKind
	Damage  int
	Perfect bool
}

// Connected reports whether damage went through, armored or not.
func (r HitResult) Connected() bool {
	return r.Kind == HitLanded || r.Kind == HitArmored
}

// Blocks reports whether a stance covers the hit type.
func (m BlockMode) Blocks(t prefabs.HitType) bool {
	switch m {
	case BlockStand:
		return t == prefabs.HitMid || t == prefabs.HitHigh || t == prefabs.HitOverhead
	case BlockCrouch:
		return t == prefabs.HitLow
	}
	return false
}

// TakeHit resolves defenses in order: ko, dash i-frames, armor, block, then a
// full hit.
func (f *Fighter) TakeHit(req HitRequest) HitResult {
	if f == nil || f.State == StateKO {
		return HitResult{}
	}
	dmg := req.Damage
	if dmg < 0 {
		dmg = 0
	}

	if f.Timers.DashIframesF > 0 {
		f.Stats.PerfectDodges++
		return HitResult{Kind: HitDodged, Perfect: true}
	}

	if f.State == StateDash && f.DashArmorHits > 0 {
		f.DashArmorHits--
		return f.armor(dmg)
	}
	if f.Shielded() {
		f.ShieldHits--
		return f.armor(dmg)
	}

	if !req.Unblockable && f.Blocking.Blocks(req.Type) {
		f.Stats.Blocks++
		chip := common.CeilInt(float64(dmg) * f.cfg.ChipRatio)
		chip = common.ClampInt(chip, 0, max(0, f.HP-1))
		f.HP -= chip
		return HitResult{Kind: HitBlocked, Damage: chip}
	}

	applied := min(dmg, f.HP)
	f.HP = max(0, f.HP-dmg)
	f.Timers.HitstunF = f.cfg.HitstunFrames
	f.setState(StateHit)
	f.Attack = nil
	f.Charging = false
	f.Timers.ChargeT = 0
	f.ChargePct = 0
	return HitResult{Kind: HitLanded, Damage: applied}
}

// armor halves damage (rounded up) and never kills.
func (f *Fighter) armor(dmg int) HitResult {
	applied := common.CeilInt(float64(dmg) * f.cfg.ArmorRatio)
	before := f.HP
	f.HP = max(1, f.HP-applied)
	return HitResult{Kind: HitArmored, Damage: before - f.HP}
}
