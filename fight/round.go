package fight

import (
	"context"
	"log/slog"
	"sort"

	"github.com/milk9111/rayfighter/combat"
	"github.com/milk9111/rayfighter/common"
	"github.com/milk9111/rayfighter/prefabs"
	"github.com/milk9111/rayfighter/progression"
	"github.com/milk9111/rayfighter/scoring"
)

// Outcome is the record handed back to the UI layer when a match ends.
type Outcome struct {
	MatchID         string          `json:"match_id"`
	Win             bool            `json:"win"`
	Rounds          Rounds          `json:"rounds"`
	Score           int             `json:"score"`
	XP              int             `json:"xp"`
	FighterID       string          `json:"fighter_id"`
	OpponentID      string          `json:"opponent_id"`
	OverallBest     int             `json:"overall_best"`
	FighterBest     int             `json:"fighter_best"`
	PlayerLevel     int             `json:"player_level"`
	Unlocks         map[string]bool `json:"unlocks"`
	Daily           DailyState      `json:"daily"`
	Achievements    []string        `json:"achievements"`
	NewAchievements []string        `json:"new_achievements"`
	Difficulty      string          `json:"difficulty"`
	Flawless        bool            `json:"flawless"`
	Comeback        bool            `json:"comeback"`
	Seconds         float64         `json:"seconds"`
}

type DailyState struct {
	ID        string `json:"id,omitempty"`
	Date      string `json:"date"`
	Best      int    `json:"best"`
	Completed bool   `json:"completed"`
}

// ko closes the round after a knockout. A double knockout awards nobody.
func (f *Fight) ko(ctx context.Context) {
	f.transition(ctx, evFinish, f.tuning.Round.BetweenSeconds)
	f.audio.Play("sfx_ko")
	f.effects.Effect(combat.Effect{Kind: combat.EffectShake, Magnitude: 14, Seconds: 0.45})
	f.resolver.SlowmoT = 0.5

	p1Dead := f.P1.HP <= 0
	p2Dead := f.P2.HP <= 0
	switch {
	case p2Dead && !p1Dead:
		f.Rounds.P1++
		f.P1.Win()
		f.scoring.OnRoundWin(scoring.RoundWin{
			Perfect: f.scoring.Round.DamageTaken == 0,
			Fast:    f.t-f.roundStart < f.tuning.Round.FastWinSeconds,
		})
	case p1Dead && !p2Dead:
		f.Rounds.P2++
		f.P2.Win()
	}

	by := "ai"
	if p2Dead {
		by = "player"
	}
	cornered := f.arena.AtWall(f.P2.X(), -1) || f.arena.AtWall(f.P2.X(), 1)
	f.events = append(f.events, progression.Event{"type": "ko", "by": by, "cornered": cornered})
	f.log.Info("round ko",
		slog.String("by", by),
		slog.Int("p1_rounds", f.Rounds.P1),
		slog.Int("p2_rounds", f.Rounds.P2),
	)
}

// roundByTimeout gives the round to the side with more hp. Equal hp goes to
// the human side when it dealt at least as much damage as it took.
func (f *Fight) roundByTimeout(ctx context.Context) {
	f.transition(ctx, evFinish, f.tuning.Round.BetweenSeconds)

	switch {
	case f.P1.HP > f.P2.HP:
		f.Rounds.P1++
		f.P1.Win()
		f.scoring.OnRoundWin(scoring.RoundWin{
			ByTimeout: true,
			Perfect:   f.scoring.Round.DamageTaken == 0,
			Fast:      f.t-f.roundStart < f.tuning.Round.FastWinSeconds,
		})
		f.totals.TimeoutWins++
	case f.P2.HP > f.P1.HP:
		f.Rounds.P2++
		f.P2.Win()
	case f.scoring.Round.DamageDealt >= f.scoring.Round.DamageTaken:
		f.Rounds.P1++
	default:
		f.Rounds.P2++
	}
	f.log.Info("round timeout",
		slog.Int("p1_hp", f.P1.HP),
		slog.Int("p2_hp", f.P2.HP),
		slog.Int("p1_rounds", f.Rounds.P1),
		slog.Int("p2_rounds", f.Rounds.P2),
	)
}

// resetRound puts both fighters back on their marks with full hp. Momentum
// and stats carry over.
func (f *Fight) resetRound(ctx context.Context) {
	floor := f.arena.FloorY
	f.P1.Reset(f.tuning.Spawn.LeftX, floor)
	f.P2.Reset(f.tuning.Spawn.RightX, floor)
	f.P1.HP = f.P1.MaxHP
	f.P2.HP = f.P2.MaxHP
	f.Timer = f.tuning.Round.Seconds
	f.transition(ctx, evNext, f.tuning.Round.IntroSeconds)
	f.audio.Play("sfx_round")
	f.voice(func(v prefabs.VoiceSpec) string { return v.Start })
	f.roundStart = f.t
	f.lastMove = lastMove{}
	clear(f.grabs)
	f.blockAdv = blockAdvantage{}
	f.scoring.ResetRound()
	f.resolver.Clear()
	f.ai.Reset()
	f.autopilot.Reset()
}

func (f *Fight) xpFor(win, flawless bool) int {
	x := f.tuning.XP
	base := x.Loss
	if win {
		base = x.Win
	}
	mul := f.preset.XPMul
	if mul <= 0 {
		mul = 1.5
	}
	xp := common.RoundInt(base * mul)
	if flawless {
		xp += x.FlawlessBonus
	}
	return xp
}

func (f *Fight) endMatch(ctx context.Context) *Outcome {
	win := f.Rounds.P1 > f.Rounds.P2
	flawless := win && f.scoring.MatchDamageTaken == 0
	comeback := win && f.cameback
	xp := f.xpFor(win, flawless)
	if win {
		f.scoring.OnMatchWin(scoring.MatchWin{Flawless: flawless, Comeback: comeback})
	}

	var unlocked []string
	unlocked = append(unlocked, f.prog.AddTotals(ctx, progression.Totals{
		Lights:        f.totals.Lights,
		Heavies:       f.totals.Heavies,
		Grabs:         f.totals.Grabs,
		Specials:      f.totals.Specials,
		Sigs:          f.totals.Sigs,
		Blocks:        f.totals.Blocks,
		PerfectDodges: f.totals.PerfectDodges,
		TimeoutWins:   f.totals.TimeoutWins,
	})...)

	events := append([]progression.Event(nil), f.events...)
	events = append(events,
		progression.Event{"type": "match_stat", "whiff_punishes": f.totals.WhiffPunishes},
		progression.Event{"type": "round_stat", "anti_air_heavies": f.totals.AntiAirHeavies},
		progression.Event{
			"type":       "match_end",
			"win":        win,
			"flawless":   flawless,
			"cameback":   comeback,
			"difficulty": f.difficulty,
			"win_hp_pct": common.RoundInt(f.P1.HPPct() * 100),
		},
	)
	reward := f.prog.AwardMatch(ctx, progression.Award{
		FighterID:  f.P1.ID,
		Win:        win,
		Difficulty: f.difficulty,
		XP:         xp,
		Score:      f.scoring.Score,
		Events:     events,
	})
	unlocked = append(unlocked, reward.Achievements...)
	if f.daily != nil {
		unlocked = append(unlocked, f.prog.SetDailyCompleted(ctx)...)
	}

	if win {
		f.voice(func(v prefabs.VoiceSpec) string { return v.Win })
		f.audio.Play("music_victory")
	} else {
		f.voice(func(v prefabs.VoiceSpec) string { return v.Lose })
		f.audio.Play("music_defeat")
	}
	f.transition(ctx, evEnd, 0)

	save := f.prog.Save()
	daily := DailyState{Date: save.Daily.Date, Best: save.Daily.Best, Completed: save.Daily.Completed}
	if f.daily != nil {
		daily.ID = f.daily.ID
	}
	all := save.AchievementIDs()
	sort.Strings(all)

	f.outcome = &Outcome{
		MatchID:         f.ID,
		Win:             win,
		Rounds:          f.Rounds,
		Score:           f.scoring.Score,
		XP:              xp,
		FighterID:       f.P1.ID,
		OpponentID:      f.P2.ID,
		OverallBest:     reward.OverallBest,
		FighterBest:     reward.FighterBest,
		PlayerLevel:     reward.PlayerLevel,
		Unlocks:         reward.Unlocks,
		Daily:           daily,
		Achievements:    all,
		NewAchievements: unlocked,
		Difficulty:      f.difficulty,
		Flawless:        flawless,
		Comeback:        comeback,
		Seconds:         f.t,
	}
	f.log.Info("match end",
		slog.Bool("win", win),
		slog.Int("score", f.outcome.Score),
		slog.Int("xp", xp),
		slog.Int("p1_rounds", f.Rounds.P1),
		slog.Int("p2_rounds", f.Rounds.P2),
	)
	return f.outcome
}
