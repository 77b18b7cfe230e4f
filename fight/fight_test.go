package fight

import (
	"context"
	"testing"

	"github.com/milk9111/rayfighter/ai"
	"github.com/milk9111/rayfighter/combat"
	"github.com/milk9111/rayfighter/fighter"
	"github.com/milk9111/rayfighter/input"
	"github.com/milk9111/rayfighter/prefabs"
	"github.com/milk9111/rayfighter/progression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 1.0 / 30

type recordAudio struct {
	sounds []string
	music  []string
}

func (r *recordAudio) Play(key string)      { r.sounds = append(r.sounds, key) }
func (r *recordAudio) PlayMusic(key string) { r.music = append(r.music, key) }

type harness struct {
	f     *Fight
	audio *recordAudio
	fx    *combat.Recorder
}

// newHarness builds a match whose AI never acts, so tests drive both sides.
func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{audio: &recordAudio{}, fx: &combat.Recorder{}}
	if opts.Bundle == nil {
		opts.Bundle = prefabs.MustLoadBundle()
	}
	if opts.P1 == "" {
		opts.P1 = "blaze"
	}
	if opts.P2 == "" {
		opts.P2 = "blaze"
	}
	opts.Audio = h.audio
	opts.Effects = h.fx
	f, err := New(context.Background(), opts)
	require.NoError(t, err)
	f.ai = ai.New(f.preset, nil)
	h.f = f
	return h
}

func (h *harness) tick(n int) *Outcome {
	var out *Outcome
	for i := 0; i < n; i++ {
		out = h.f.Update(context.Background(), tick)
	}
	return out
}

// until ticks until cond holds or the budget runs out.
func (h *harness) until(t *testing.T, budget int, cond func() bool) {
	t.Helper()
	for i := 0; i < budget; i++ {
		if cond() {
			return
		}
		h.f.Update(context.Background(), tick)
	}
	require.True(t, cond(), "condition not reached in %d ticks", budget)
}

func (h *harness) toPlay(t *testing.T) {
	t.Helper()
	h.until(t, 60, func() bool { return h.f.Phase() == PhasePlay })
}

func TestNewRejectsUnknownFighter(t *testing.T) {
	_, err := New(context.Background(), Options{Bundle: prefabs.MustLoadBundle(), P1: "blaze", P2: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown fighter "nope"`)
}

func TestMatchStartsInIntro(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f
	assert.Equal(t, PhaseIntro, f.Phase())
	assert.Equal(t, 45.0, f.Timer)
	assert.Equal(t, 160.0, f.P1.X())
	assert.Equal(t, 440.0, f.P2.X())
	assert.Contains(t, h.audio.sounds, "sfx_round")
	assert.Contains(t, h.audio.sounds, "vo_blaze_start")
	assert.Equal(t, []string{"music_blaze"}, h.audio.music)
	assert.NotEmpty(t, f.ID)
}

func TestIntroIgnoresAttacksButAllowsBlock(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f
	f.Input().Push(input.Light)
	f.Input().Push(input.DownHold)
	h.tick(1)
	assert.Nil(t, f.P1.Attack)
	assert.Equal(t, fighter.BlockStand, f.P1.Blocking)
	assert.Equal(t, "FIGHT!", f.Snapshot().Banner)

	h.toPlay(t)
	assert.Equal(t, "", f.Snapshot().Banner)
	assert.Less(t, f.Timer, 45.0)
}

func TestHeavyHitBooksMomentumAndScore(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f
	h.toPlay(t)
	f.P2.Pos.X = f.P1.X() + 70

	f.Input().Push(input.Heavy)
	h.until(t, 20, func() bool { return f.P2.HP < f.P2.MaxHP })

	assert.Equal(t, 80, f.P2.HP)
	assert.Equal(t, 8, f.P1.Momentum)
	assert.Equal(t, 0, f.P2.Momentum)
	assert.Equal(t, 1, f.Scoring().Streak)
	assert.Equal(t, 500, f.Scoring().Score)
	assert.Equal(t, 1, f.Totals().Heavies)
	assert.Equal(t, 20, f.P1.Stats.HeavyDamage)
	assert.Contains(t, h.audio.sounds, "sfx_heavy")
}

func TestMomentumIsClamped(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f

	f.gainMomentum(f.P1, 1e6)
	assert.Equal(t, 100, f.P1.Momentum)
	f.drainMomentum(f.P1, 1e6)
	assert.Equal(t, 0, f.P1.Momentum)

	f.P1.LastStand = true
	f.gainMomentum(f.P1, 8)
	assert.Equal(t, 12, f.P1.Momentum)
}

func TestDailyMomentumMultiplier(t *testing.T) {
	h := newHarness(t, Options{Daily: &prefabs.DailySpec{ID: "rush", Mod: prefabs.DailyModSpec{MomentumMul: 3}}})
	h.f.gainMomentum(h.f.P2, 8)
	assert.Equal(t, 24, h.f.P2.Momentum)
	h.f.gainMomentum(h.f.P2, 100)
	assert.Equal(t, 100, h.f.P2.Momentum)
}

func TestDashIntoWallIsNoop(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f
	h.toPlay(t)
	f.P1.Pos.X = f.arena.LeftWall

	f.Input().Push(input.DashLeft)
	h.tick(1)
	assert.NotEqual(t, fighter.StateDash, f.P1.State)
	assert.NotContains(t, h.audio.sounds, "sfx_dodge")

	f.Input().Push(input.DashRight)
	h.tick(1)
	assert.Equal(t, fighter.StateDash, f.P1.State)
	assert.Contains(t, h.audio.sounds, "sfx_dodge")
	assert.Greater(t, f.P1.Timers.DashIframesF, 0)
}

func TestSpecialNeedsMomentum(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f

	f.P1.Momentum = 20
	f.trySpecialOrSig(f.P1, f.P2, true, 0.5)
	assert.Equal(t, 20, f.P1.Momentum)
	assert.Empty(t, f.Resolver().Projectiles())

	f.P1.Momentum = 40
	f.trySpecialOrSig(f.P1, f.P2, true, 0.5)
	assert.Equal(t, 10, f.P1.Momentum)
	assert.Equal(t, 1, f.P1.Stats.Specials)
	assert.Equal(t, 1, f.Totals().Specials)
	assert.Len(t, f.Resolver().Projectiles(), 1)
	assert.Contains(t, h.audio.sounds, "vo_blaze_special")
}

func TestSignatureSpendsFullMomentum(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f

	// Full momentum but a short hold fires a plain special.
	f.P1.Momentum = 100
	f.trySpecialOrSig(f.P1, f.P2, true, 0.5)
	assert.Equal(t, 70, f.P1.Momentum)
	assert.Equal(t, 0, f.P1.Stats.Sigs)

	f.P1.Momentum = 100
	f.trySpecialOrSig(f.P1, f.P2, true, 1.0)
	assert.Equal(t, 0, f.P1.Momentum)
	assert.Equal(t, 1, f.P1.Stats.Sigs)
	assert.Equal(t, 75, f.P2.HP)
	assert.Equal(t, 2000, f.Scoring().Score)
	assert.Contains(t, h.audio.sounds, "sfx_signature")
}

func TestGrabBreakWithLight(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f
	f.grabs[f.P1] = &grabWindow{by: f.P2, frames: 8, hold: combat.GrabHold{Damage: 12, ThrowPx: 90}}

	f.Input().Push(input.Light)
	h.tick(1)
	assert.Nil(t, f.grabs[f.P1])
	assert.Equal(t, f.P1.MaxHP, f.P1.HP)
	assert.Equal(t, 160.0, f.P1.X())
	assert.Contains(t, h.audio.sounds, "sfx_block")
}

func TestGrabAppliesAfterWindow(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f
	f.grabs[f.P1] = &grabWindow{by: f.P2, frames: 8, hold: combat.GrabHold{Damage: 12, ThrowPx: 90}}

	h.tick(7)
	assert.Equal(t, 100, f.P1.HP)
	require.NotNil(t, f.grabs[f.P1])

	h.tick(1)
	assert.Nil(t, f.grabs[f.P1])
	assert.Equal(t, 88, f.P1.HP)
	assert.Equal(t, 70.0, f.P1.X())
	assert.Equal(t, 12, f.Scoring().MatchDamageTaken)
	assert.Equal(t, 8, f.P2.Momentum)
	assert.Contains(t, h.audio.sounds, "sfx_grab")
}

func TestHeldFighterIgnoresInput(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f
	h.toPlay(t)
	f.grabs[f.P1] = &grabWindow{by: f.P2, frames: 8, hold: combat.GrabHold{Damage: 12}}

	f.Input().Push(input.Heavy)
	h.tick(1)
	assert.Nil(t, f.P1.Attack)
}

func TestAIGrabHasNoBreak(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f
	f.grabs[f.P2] = &grabWindow{by: f.P1, frames: 8, hold: combat.GrabHold{Damage: 12, ThrowPx: 90}}

	f.Input().Push(input.Light)
	h.tick(8)
	assert.Equal(t, 88, f.P2.HP)
	assert.Equal(t, 1, f.Totals().Grabs)
	assert.Equal(t, 300, f.Scoring().Score)
}

func TestTimeoutByHP(t *testing.T) {
	tests := []struct {
		name    string
		p1HP    int
		p2HP    int
		wantP1  int
		wantP2  int
		timeout int
	}{
		{name: "hp lead", p1HP: 60, p2HP: 40, wantP1: 1, timeout: 1},
		{name: "hp behind", p1HP: 40, p2HP: 60, wantP2: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Options{})
			f := h.f
			h.toPlay(t)
			f.P1.HP, f.P2.HP = tt.p1HP, tt.p2HP
			f.Timer = tick / 2

			h.tick(1)
			assert.Equal(t, PhaseBetween, f.Phase())
			assert.Equal(t, 0.0, f.Timer)
			assert.Equal(t, Rounds{P1: tt.wantP1, P2: tt.wantP2}, f.Rounds)
			assert.Equal(t, tt.timeout, f.Totals().TimeoutWins)
		})
	}
}

// aiHeavy has the idle AI side throw a heavy at the player from close range.
func aiHeavy(t *testing.T, h *harness) {
	t.Helper()
	f := h.f
	f.P2.Pos.X = f.P1.X() + 70
	require.True(t, f.startAttack(f.P2, fighter.AttackHeavy))
	hp := f.P1.HP
	h.until(t, 30, func() bool { return f.P1.HP < hp })
}

func TestTimeoutTieAfterTradedBlocks(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f
	h.toPlay(t)

	// player heavy into a standing block
	f.P2.Pos.X = f.P1.X() + 70
	f.P2.StartBlock(fighter.BlockStand)
	f.Input().Push(input.Heavy)
	h.until(t, 20, func() bool { return f.P2.HP < f.P2.MaxHP })
	f.P2.StopBlock()
	h.until(t, 30, func() bool { return f.P1.Attack == nil })

	// and the same heavy back into the player's block
	f.Input().Push(input.DownHold)
	h.tick(1)
	aiHeavy(t, h)

	require.Equal(t, 96, f.P1.HP)
	require.Equal(t, 96, f.P2.HP)
	assert.Equal(t, 4, f.Scoring().Round.DamageDealt)
	assert.Equal(t, 4, f.Scoring().Round.DamageTaken)

	f.Timer = tick / 2
	h.tick(1)
	assert.Equal(t, PhaseBetween, f.Phase())
	assert.Equal(t, Rounds{P1: 1}, f.Rounds)
}

func TestTimeoutTieTookMore(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f
	h.toPlay(t)

	f.P2.HP = 80
	aiHeavy(t, h)
	require.Equal(t, 80, f.P1.HP)
	assert.Equal(t, 0, f.Scoring().Round.DamageDealt)
	assert.Equal(t, 20, f.Scoring().Round.DamageTaken)

	f.Timer = tick / 2
	h.until(t, 30, func() bool { return f.Phase() == PhaseBetween })
	assert.Equal(t, Rounds{P2: 1}, f.Rounds)
}

func TestTeleportStrikeCountsAsDealt(t *testing.T) {
	b := prefabs.MustLoadBundle()
	store := progression.NewMemoryStore()
	save := &progression.Save{Fighters: map[string]*progression.FighterRecord{"shade": {XP: 3000}}}
	require.NoError(t, store.Save(context.Background(), b.Progression.StorageKey, save))
	prog := progression.New(context.Background(), progression.Options{Spec: b.Progression, Roster: b.Roster.IDs(), Store: store})
	require.Equal(t, prefabs.RankGold, prog.MasteryRank("shade"))

	h := newHarness(t, Options{Bundle: b, P1: "shade", Progression: prog})
	f := h.f
	h.toPlay(t)

	f.P1.Momentum = 40
	f.trySpecialOrSig(f.P1, f.P2, true, 0.5)
	lost := f.P2.MaxHP - f.P2.HP
	require.Positive(t, lost)
	assert.Equal(t, 5, lost)
	assert.Equal(t, lost, f.Scoring().Round.DamageDealt)
}

func knockOut(t *testing.T, h *harness, target *fighter.Fighter) {
	t.Helper()
	h.toPlay(t)
	target.TakeHit(fighter.HitRequest{Damage: 999, Type: prefabs.HitMid})
	h.until(t, 3, func() bool { return h.f.Phase() == PhaseBetween })
}

func TestKOAwardsRoundAndResets(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f

	knockOut(t, h, f.P2)
	assert.Equal(t, Rounds{P1: 1}, f.Rounds)
	assert.Equal(t, fighter.StateVictory, f.P1.State)
	assert.Equal(t, fighter.StateKO, f.P2.State)
	// round win, perfect and fast
	assert.Equal(t, 3500, f.Scoring().Score)
	assert.Contains(t, h.audio.sounds, "sfx_ko")
	assert.Equal(t, "ROUND END", f.Snapshot().Banner)
	assert.True(t, f.Snapshot().Slowmo)

	h.until(t, 70, func() bool { return f.Phase() == PhaseIntro })
	assert.Equal(t, f.P2.MaxHP, f.P2.HP)
	assert.Equal(t, fighter.StateIdle, f.P2.State)
	assert.Equal(t, 45.0, f.Timer)
	assert.Equal(t, 440.0, f.P2.X())
}

func TestDoubleKOAwardsNobody(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f
	h.toPlay(t)
	f.P1.TakeHit(fighter.HitRequest{Damage: 999, Type: prefabs.HitMid})
	f.P2.TakeHit(fighter.HitRequest{Damage: 999, Type: prefabs.HitMid})
	h.until(t, 3, func() bool { return f.Phase() == PhaseBetween })
	assert.Equal(t, Rounds{}, f.Rounds)
}

func TestFlawlessWinOnHard(t *testing.T) {
	h := newHarness(t, Options{Difficulty: "hard"})
	f := h.f

	knockOut(t, h, f.P2)
	h.until(t, 70, func() bool { return f.Phase() == PhaseIntro })
	knockOut(t, h, f.P2)
	assert.Equal(t, Rounds{P1: 2}, f.Rounds)

	var out *Outcome
	h.until(t, 70, func() bool {
		out = f.Outcome()
		return out != nil
	})
	assert.Equal(t, PhaseEnded, f.Phase())
	assert.True(t, out.Win)
	assert.True(t, out.Flawless)
	assert.False(t, out.Comeback)
	assert.Equal(t, 500, out.XP)
	// two perfect fast rounds plus the flawless bonus
	assert.Equal(t, 12000, out.Score)
	assert.Equal(t, "blaze", out.FighterID)
	assert.Equal(t, "hard", out.Difficulty)
	assert.Equal(t, f.ID, out.MatchID)
	assert.Equal(t, 12000, out.OverallBest)
	assert.Equal(t, 1, out.PlayerLevel)
	assert.Contains(t, out.Achievements, "first_win")
	assert.Contains(t, out.Achievements, "flawless")
	assert.Contains(t, h.audio.sounds, "vo_blaze_win")

	// Ended matches keep returning the same record.
	assert.Same(t, out, h.tick(5))
}

func TestLossXP(t *testing.T) {
	h := newHarness(t, Options{Difficulty: "nightmare"})
	f := h.f
	knockOut(t, h, f.P1)
	h.until(t, 70, func() bool { return f.Phase() == PhaseIntro })
	knockOut(t, h, f.P1)

	var out *Outcome
	h.until(t, 70, func() bool {
		out = f.Outcome()
		return out != nil
	})
	assert.False(t, out.Win)
	assert.Equal(t, 150, out.XP)
	assert.Contains(t, h.audio.sounds, "vo_blaze_lose")
}

func TestDailyModifiers(t *testing.T) {
	glass := &prefabs.DailySpec{ID: "glass", Mod: prefabs.DailyModSpec{DamageMul: 2, HPMul: 0.5}}
	h := newHarness(t, Options{P1: "granite", P2: "shade", Daily: glass})
	assert.Equal(t, 60, h.f.P1.MaxHP)
	assert.Equal(t, 45, h.f.P2.MaxHP)
	assert.Equal(t, 2.0, h.f.Resolver().DamageMul())

	mirror := &prefabs.DailySpec{ID: "mirror", Mod: prefabs.DailyModSpec{Mirror: true}}
	h = newHarness(t, Options{P1: "volt", P2: "shade", Daily: mirror})
	assert.Equal(t, "volt", h.f.P2.ID)

	iron := &prefabs.DailySpec{ID: "iron", Mod: prefabs.DailyModSpec{HeavyDamage: 30, HeavyRecoveryAdd: 4}}
	h = newHarness(t, Options{Daily: iron})
	require.True(t, h.f.startAttack(h.f.P1, fighter.AttackHeavy))
	assert.Equal(t, 30, h.f.P1.Attack.Damage)
	assert.Equal(t, 18, h.f.P1.Attack.Recovery)
}

func TestQuakeStumbles(t *testing.T) {
	quake := &prefabs.DailySpec{ID: "quake", Mod: prefabs.DailyModSpec{Quake: true}}
	h := newHarness(t, Options{Daily: quake})
	f := h.f

	f.t = 0.01
	f.quake(tick)
	assert.Zero(t, f.P1.Timers.HitstunF)

	f.t = 3.5
	f.quake(tick)
	assert.Zero(t, f.P1.Timers.HitstunF)

	f.t = 7.01
	f.quake(tick)
	assert.Equal(t, 4, f.P1.Timers.HitstunF)
	assert.Equal(t, 4, f.P2.Timers.HitstunF)
	require.Len(t, h.fx.Effects, 1)
	assert.Equal(t, combat.EffectShake, h.fx.Effects[0].Kind)
}

func TestBlockAdvantageShortensNextAttack(t *testing.T) {
	h := newHarness(t, Options{})
	f := h.f
	f.onMelee(combat.MeleeResult{Kind: combat.MeleeBlocked, HeavyBlock: true}, f.P2, f.P1)
	require.True(t, f.startAttack(f.P1, fighter.AttackHeavy))
	assert.Equal(t, 4, f.P1.Attack.Startup)
	assert.Zero(t, f.blockAdv.frames)
}

func TestAutopilotMatchFinishes(t *testing.T) {
	b := prefabs.MustLoadBundle()
	f, err := New(context.Background(), Options{
		Bundle:     b,
		P1:         "granite",
		P2:         "volt",
		Difficulty: "hard",
		Autopilot:  true,
		Rand:       ai.NewRand(7),
	})
	require.NoError(t, err)

	var out *Outcome
	for i := 0; i < 30*60*10 && out == nil; i++ {
		out = f.Update(context.Background(), tick)
	}
	require.NotNil(t, out)
	assert.True(t, out.Rounds.P1 >= 2 || out.Rounds.P2 >= 2)
	assert.Equal(t, out.Win, out.Rounds.P1 > out.Rounds.P2)
	assert.Positive(t, out.XP)
}
