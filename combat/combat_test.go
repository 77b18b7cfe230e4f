package combat

import (
	"testing"

	"github.com/milk9111/rayfighter/fighter"
	"github.com/milk9111/rayfighter/prefabs"
	"github.com/milk9111/rayfighter/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 1.0 / 30

type harness struct {
	bundle   *prefabs.Bundle
	resolver *Resolver
	scoring  *scoring.Scoring
	sink     *Recorder
	arena    fighter.Arena
}

func newHarness(t *testing.T, mods prefabs.DailyModSpec) *harness {
	t.Helper()
	b := prefabs.MustLoadBundle()
	h := &harness{
		bundle:  b,
		scoring: scoring.New(),
		sink:    &Recorder{},
		arena:   fighter.ArenaFromSpec(b.Tuning.Arena),
	}
	h.resolver = NewResolver(Options{
		Arena:      h.arena,
		Projectile: b.Tuning.Projectile,
		Specials:   b.Specials,
		Signatures: b.Signatures,
		Mods:       mods,
		Scorer:     h.scoring,
		Sink:       h.sink,
	})
	return h
}

func (h *harness) fighter(t *testing.T, id string, side fighter.Side, x float64) *fighter.Fighter {
	t.Helper()
	def, ok := h.bundle.Roster.Fighter(id)
	require.True(t, ok, "fighter %s", id)
	return fighter.New(def, side, x, h.arena, fighter.ConfigFromTuning(h.bundle.Tuning))
}

// stepToActive advances f until its attack window opens.
func stepToActive(t *testing.T, f *fighter.Fighter, arena fighter.Arena) {
	t.Helper()
	for i := 0; i < 60 && !f.Window().Active(); i++ {
		f.Update(tick, arena)
	}
	require.True(t, f.Window().Active())
}

func TestResolveMeleeHeavyScenario(t *testing.T) {
	h := newHarness(t, prefabs.DailyModSpec{})
	a := h.fighter(t, "blaze", fighter.SideLeft, 300)
	b := h.fighter(t, "blaze", fighter.SideRight, 360)
	require.Equal(t, 100, b.HP)

	require.True(t, a.StartAttack(fighter.AttackHeavy))
	stepToActive(t, a, h.arena)

	res := h.resolver.ResolveMelee(a, b, MeleeOptions{IsPlayer: true})
	require.Equal(t, MeleeHit, res.Kind)
	assert.Equal(t, 80, b.HP)
	assert.Equal(t, 9, b.Timers.HitstunF)
	assert.Equal(t, 1, h.scoring.Streak)
	assert.Equal(t, 500, h.scoring.Score)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 500, res.ScoreDelta)
	assert.Equal(t, 390.0, b.Pos.X, "heavy push")
	assert.Contains(t, h.sink.Sounds, "sfx_heavy")

	again := h.resolver.ResolveMelee(a, b, MeleeOptions{IsPlayer: true})
	assert.Equal(t, MeleeNone, again.Kind, "one hit per attack")
}

func TestResolveMeleeOnlyInActiveWindow(t *testing.T) {
	h := newHarness(t, prefabs.DailyModSpec{})
	a := h.fighter(t, "blaze", fighter.SideLeft, 300)
	b := h.fighter(t, "granite", fighter.SideRight, 330)

	require.True(t, a.StartAttack(fighter.AttackLight))
	assert.Equal(t, MeleeNone, h.resolver.ResolveMelee(a, b, MeleeOptions{}).Kind)
	assert.Equal(t, b.MaxHP, b.HP)
}

func TestResolveMeleeOutOfRangeWhiffs(t *testing.T) {
	h := newHarness(t, prefabs.DailyModSpec{})
	a := h.fighter(t, "blaze", fighter.SideLeft, 100)
	b := h.fighter(t, "granite", fighter.SideRight, 400)

	require.True(t, a.StartAttack(fighter.AttackLight))
	stepToActive(t, a, h.arena)
	res := h.resolver.ResolveMelee(a, b, MeleeOptions{IsPlayer: true})

	assert.Equal(t, MeleeNone, res.Kind)
	assert.False(t, a.Attack.HasHit)
	assert.Zero(t, h.scoring.Score)
}

func TestResolveMeleeBlockedHeavy(t *testing.T) {
	h := newHarness(t, prefabs.DailyModSpec{})
	a := h.fighter(t, "blaze", fighter.SideLeft, 300)
	b := h.fighter(t, "blaze", fighter.SideRight, 360)
	b.StartBlock(fighter.BlockStand)

	require.True(t, a.StartAttack(fighter.AttackHeavy))
	stepToActive(t, a, h.arena)
	res := h.resolver.ResolveMelee(a, b, MeleeOptions{IsPlayer: true})

	assert.Equal(t, MeleeBlocked, res.Kind)
	assert.True(t, res.HeavyBlock)
	assert.Equal(t, 4, res.Hit.Damage)
	assert.Equal(t, 96, b.HP)
	assert.Equal(t, 1, b.Stats.Blocks)
	assert.Zero(t, h.scoring.Streak)
}

func TestResolveMeleeLowBeatsStandBlock(t *testing.T) {
	h := newHarness(t, prefabs.DailyModSpec{})
	a := h.fighter(t, "blaze", fighter.SideLeft, 300)
	b := h.fighter(t, "blaze", fighter.SideRight, 360)
	b.StartBlock(fighter.BlockStand)

	require.True(t, a.StartAttack(fighter.AttackLow))
	stepToActive(t, a, h.arena)
	res := h.resolver.ResolveMelee(a, b, MeleeOptions{})

	assert.Equal(t, MeleeHit, res.Kind)
	assert.Equal(t, 95, b.HP)
}

func TestResolveMeleeDodged(t *testing.T) {
	h := newHarness(t, prefabs.DailyModSpec{})
	a := h.fighter(t, "blaze", fighter.SideLeft, 300)
	b := h.fighter(t, "blaze", fighter.SideRight, 350)

	require.True(t, a.StartAttack(fighter.AttackLight))
	stepToActive(t, a, h.arena)
	b.StartDash(1, 4)

	res := h.resolver.ResolveMelee(a, b, MeleeOptions{})
	assert.Equal(t, MeleeDodged, res.Kind)
	assert.True(t, res.Perfect)
	assert.Equal(t, 100, b.HP)
	assert.Contains(t, h.sink.Sounds, "sfx_perfectdodge")
}

func TestResolveMeleeGrab(t *testing.T) {
	h := newHarness(t, prefabs.DailyModSpec{})
	a := h.fighter(t, "blaze", fighter.SideLeft, 300)
	b := h.fighter(t, "granite", fighter.SideRight, 330)
	b.StartBlock(fighter.BlockStand)

	require.True(t, a.StartAttack(fighter.AttackGrab))
	stepToActive(t, a, h.arena)
	res := h.resolver.ResolveMelee(a, b, MeleeOptions{IsPlayer: true})

	require.Equal(t, MeleeGrabbed, res.Kind)
	require.NotNil(t, res.Grab)
	assert.Equal(t, 12, res.Grab.Damage)
	assert.Equal(t, 90.0, res.Grab.ThrowPx)
	assert.Equal(t, b.MaxHP, b.HP, "grab damage waits for the break window")
	assert.True(t, a.Attack.HasHit)
}

func TestGrabNeverLandsOnStunnedOrKO(t *testing.T) {
	h := newHarness(t, prefabs.DailyModSpec{})

	stunned := h.fighter(t, "granite", fighter.SideRight, 330)
	stunned.TakeHit(fighter.HitRequest{Damage: 1, Type: prefabs.HitMid})
	require.Positive(t, stunned.Timers.HitstunF)

	ko := h.fighter(t, "granite", fighter.SideRight, 330)
	ko.TakeHit(fighter.HitRequest{Damage: 1000, Type: prefabs.HitMid})
	ko.Update(tick, h.arena)
	require.True(t, ko.IsKO())

	for _, d := range []*fighter.Fighter{stunned, ko} {
		a := h.fighter(t, "blaze", fighter.SideLeft, 300)
		require.True(t, a.StartAttack(fighter.AttackGrab))
		stepToActive(t, a, h.arena)
		res := h.resolver.ResolveMelee(a, d, MeleeOptions{})
		assert.Equal(t, MeleeNone, res.Kind)
		assert.False(t, a.Attack.HasHit)
	}
}

func TestWhiffPunishAndAntiAir(t *testing.T) {
	h := newHarness(t, prefabs.DailyModSpec{})
	a := h.fighter(t, "blaze", fighter.SideLeft, 300)
	b := h.fighter(t, "volt", fighter.SideRight, 360)

	require.True(t, b.StartAttack(fighter.AttackHeavy))
	for !b.Window().Recovery() {
		b.Update(tick, h.arena)
	}
	b.OnGround = false

	require.True(t, a.StartAttack(fighter.AttackHeavy))
	stepToActive(t, a, h.arena)
	res := h.resolver.ResolveMelee(a, b, MeleeOptions{IsPlayer: true})

	require.Equal(t, MeleeHit, res.Kind)
	assert.True(t, res.WhiffPunish)
	assert.True(t, res.AntiAir)
	assert.Equal(t, 250+250+350, res.ScoreDelta)
}

func TestTeleportPreHit(t *testing.T) {
	h := newHarness(t, prefabs.DailyModSpec{})
	a := h.fighter(t, "shade", fighter.SideLeft, 250)
	b := h.fighter(t, "blaze", fighter.SideRight, 350)

	require.True(t, a.StartAttack(fighter.AttackHeavy))
	stepToActive(t, a, h.arena)
	res := h.resolver.ResolveMelee(a, b, MeleeOptions{})

	assert.Equal(t, 280.0, a.Pos.X)
	assert.Equal(t, MeleeHit, res.Kind)
}

func TestDamageMultiplier(t *testing.T) {
	h := newHarness(t, prefabs.DailyModSpec{DamageMul: 2})
	a := h.fighter(t, "blaze", fighter.SideLeft, 300)
	b := h.fighter(t, "blaze", fighter.SideRight, 360)

	require.True(t, a.StartAttack(fighter.AttackLight))
	stepToActive(t, a, h.arena)
	h.resolver.ResolveMelee(a, b, MeleeOptions{})
	assert.Equal(t, 88, b.HP)
}
