package progression

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/milk9111/rayfighter/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newClock() *clock {
	return &clock{t: time.Date(2026, 10, 17, 12, 0, 0, 0, time.Local)}
}

type failingStore struct{ saves int }

func (f *failingStore) Load(context.Context, string) (*Save, error) {
	return nil, errors.New("disk on fire")
}

func (f *failingStore) Save(context.Context, string, *Save) error {
	f.saves++
	return errors.New("disk on fire")
}

func newProgression(t *testing.T, store Store, c *clock) *Progression {
	t.Helper()
	b := prefabs.MustLoadBundle()
	checker, err := NewChecker(b.Achievements)
	require.NoError(t, err)
	return New(context.Background(), Options{
		Spec:    b.Progression,
		Roster:  b.Roster.IDs(),
		Checker: checker,
		Dailies: b.Daily,
		Store:   store,
		Now:     c.Now,
	})
}

func eventTypes(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type())
	}
	return out
}

func TestFreshSaveCoversRoster(t *testing.T) {
	p := newProgression(t, nil, newClock())
	s := p.Save()
	for _, id := range []string{"blaze", "granite", "shade", "volt"} {
		require.Contains(t, s.Fighters, id)
		assert.Equal(t, 0, s.Fighters[id].XP)
		assert.False(t, s.WonWith[id])
	}
	assert.Equal(t, 1, p.PlayerLevel())
	assert.Equal(t, "2026-10-17", s.Daily.Date)
}

func TestPlayerLevelAndUnlocks(t *testing.T) {
	p := newProgression(t, nil, newClock())
	ctx := context.Background()

	p.AwardMatch(ctx, Award{FighterID: "blaze", XP: 20000})
	assert.Equal(t, 11, p.PlayerLevel())
	assert.True(t, p.Unlocked("volt"))
	assert.False(t, p.Unlocked("hard"))
	assert.True(t, p.Unlocked("blaze"))

	p.AwardMatch(ctx, Award{FighterID: "granite", XP: 200000})
	assert.Equal(t, 50, p.PlayerLevel())
	unlocks := p.Unlocks()
	assert.True(t, unlocks["hard"])
	assert.True(t, unlocks["nightmare"])
}

func TestRankFor(t *testing.T) {
	masteries := prefabs.MustLoadBundle().Progression.Masteries
	tests := []struct {
		xp   int
		want prefabs.Rank
	}{
		{0, prefabs.RankBronze},
		{999, prefabs.RankBronze},
		{1000, prefabs.RankSilver},
		{2999, prefabs.RankSilver},
		{3000, prefabs.RankGold},
		{6000, prefabs.RankDiamond},
		{10000, prefabs.RankMaster},
		{99999, prefabs.RankMaster},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RankFor(masteries, tt.xp), "xp %d", tt.xp)
	}
}

func TestAwardMatchBookkeeping(t *testing.T) {
	c := newClock()
	p := newProgression(t, nil, c)
	ctx := context.Background()

	won := []Event{{"type": "match_end", "win": true}}
	r := p.AwardMatch(ctx, Award{FighterID: "blaze", Win: true, XP: 1200, Score: 4000, Events: won})
	assert.Equal(t, 4000, r.FighterBest)
	assert.Equal(t, 4000, r.OverallBest)
	assert.Equal(t, prefabs.RankSilver, r.Rank)
	assert.Contains(t, eventTypes(r.Events), "first_win_day")
	assert.Contains(t, eventTypes(r.Events), "mastery")
	assert.Contains(t, eventTypes(r.Events), "player_level")
	assert.Contains(t, r.Achievements, "first_win")

	s := p.Save()
	assert.True(t, s.WonWith["blaze"])
	assert.Equal(t, 4000, s.Daily.Best)
	assert.Equal(t, "2026-10-17", s.FirstWinDate)

	// Second win the same day: no first-win event, no repeat achievement,
	// lower score keeps the best.
	r = p.AwardMatch(ctx, Award{FighterID: "blaze", Win: true, XP: 100, Score: 1000, Events: won})
	assert.NotContains(t, eventTypes(r.Events), "first_win_day")
	assert.NotContains(t, eventTypes(r.Events), "mastery")
	assert.NotContains(t, r.Achievements, "first_win")
	assert.Equal(t, 4000, r.FighterBest)

	// Next day resets the daily record.
	c.t = c.t.Add(24 * time.Hour)
	r = p.AwardMatch(ctx, Award{FighterID: "blaze", Win: true, XP: 100, Score: 500})
	assert.Contains(t, eventTypes(r.Events), "first_win_day")
	s = p.Save()
	assert.Equal(t, "2026-10-18", s.Daily.Date)
	assert.Equal(t, 500, s.Daily.Best)
}

func TestMatchEventsUnlockAchievements(t *testing.T) {
	p := newProgression(t, nil, newClock())
	r := p.AwardMatch(context.Background(), Award{
		FighterID:  "shade",
		Win:        true,
		Difficulty: "nightmare",
		XP:         600,
		Events: []Event{
			{"type": "match_end", "win": true, "flawless": true, "cameback": false, "difficulty": "nightmare"},
			{"type": "streak", "value": 7},
			{"type": "match_stat", "whiff_punishes": 2},
		},
	})
	assert.ElementsMatch(t, []string{"first_win", "flawless", "nightmare_win", "streak_7"}, r.Achievements)
	for _, id := range r.Achievements {
		assert.Equal(t, newClock().t.UnixMilli(), p.Save().Achievements[id].UnlockedAt)
	}
}

func TestSaveOnlyAchievement(t *testing.T) {
	p := newProgression(t, nil, newClock())
	r := p.AwardMatch(context.Background(), Award{FighterID: "volt", Score: 50000})
	assert.Contains(t, r.Achievements, "score_50k")
}

func TestWonWithEveryFighter(t *testing.T) {
	p := newProgression(t, nil, newClock())
	ctx := context.Background()
	var last Reward
	for _, id := range []string{"blaze", "granite", "shade", "volt"} {
		last = p.AwardMatch(ctx, Award{FighterID: id, Win: true, XP: 1000})
	}
	kinds := []string{}
	for _, e := range last.Events {
		if e.Type() == "meta" {
			kinds = append(kinds, e["kind"].(string))
		}
	}
	assert.ElementsMatch(t, []string{"silver_all", "won_all_fighters"}, kinds)
	assert.Contains(t, last.Achievements, "all_fighters")
}

func TestAddTotalsUsesLifetimeCounts(t *testing.T) {
	p := newProgression(t, nil, newClock())
	ctx := context.Background()

	assert.Empty(t, p.AddTotals(ctx, Totals{Grabs: 49}))
	assert.Equal(t, []string{"grappler"}, p.AddTotals(ctx, Totals{Grabs: 1}))
	assert.Empty(t, p.AddTotals(ctx, Totals{Grabs: 10}))
	assert.Equal(t, 60, p.Save().Totals.Grabs)
}

func TestSetDailyCompletedOncePerDay(t *testing.T) {
	c := newClock()
	p := newProgression(t, nil, c)
	ctx := context.Background()

	assert.Equal(t, []string{"daily"}, p.SetDailyCompleted(ctx))
	assert.Empty(t, p.SetDailyCompleted(ctx))
	assert.True(t, p.Save().Daily.Completed)

	c.t = c.t.Add(24 * time.Hour)
	assert.Empty(t, p.SetDailyCompleted(ctx))
	assert.Equal(t, "2026-10-18", p.Save().Daily.Date)
}

func TestDailyChallengeIsDeterministic(t *testing.T) {
	assert.Equal(t, uint32(1162559497), DailySeed("2026-10-17"))
	assert.Equal(t, uint32(1162559498), DailySeed("2026-10-18"))

	c := newClock()
	p := newProgression(t, nil, c)
	d, ok := p.DailyChallenge()
	require.True(t, ok)
	assert.Equal(t, "rush", d.ID)

	c.t = c.t.Add(24 * time.Hour)
	d, ok = p.DailyChallenge()
	require.True(t, ok)
	assert.Equal(t, "quake", d.ID)

	_, ok = DailyFor(nil, "2026-10-17")
	assert.False(t, ok)
}

func TestPersistsAcrossInstances(t *testing.T) {
	store := NewMemoryStore()
	p := newProgression(t, store, newClock())
	p.AwardMatch(context.Background(), Award{
		FighterID: "granite", Win: true, XP: 3500, Score: 9000,
		Events: []Event{{"type": "match_end", "win": true}},
	})

	q := newProgression(t, store, newClock())
	s := q.Save()
	assert.Equal(t, 3500, s.Fighters["granite"].XP)
	assert.Equal(t, 9000, s.OverallBest)
	assert.Equal(t, prefabs.RankGold, q.MasteryRank("granite"))
	assert.Contains(t, s.Achievements, "first_win")
}

func TestFailingStoreDegrades(t *testing.T) {
	store := &failingStore{}
	p := newProgression(t, store, newClock())
	r := p.AwardMatch(context.Background(), Award{
		FighterID: "blaze", Win: true, XP: 200,
		Events: []Event{{"type": "match_end", "win": true}},
	})
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, 200, p.Save().Fighters["blaze"].XP)
	assert.Contains(t, r.Achievements, "first_win")
}

func TestCheckerRejectsBadScript(t *testing.T) {
	_, err := NewChecker([]prefabs.AchievementSpec{{ID: "broken", Check: "event.type =="}})
	require.Error(t, err)

	_, err = NewChecker([]prefabs.AchievementSpec{{ID: "empty"}})
	require.Error(t, err)
}

func TestMemoryStoreIsolatesCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := store.Load(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	s := NewSave([]string{"blaze"}, "2026-10-17")
	require.NoError(t, store.Save(ctx, "k", s))
	s.Fighters["blaze"].XP = 999

	got, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Fighters["blaze"].XP)
}
