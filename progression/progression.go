package progression

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/milk9111/rayfighter/common"
	"github.com/milk9111/rayfighter/prefabs"
)

const DefaultStorageKey = "raybans_fighter_save_v1"

const dateLayout = "2006-01-02"

type Options struct {
	Spec    *prefabs.ProgressionSpec
	Roster  []string
	Checker *Checker
	Dailies []prefabs.DailySpec
	Store   Store
	Now     func() time.Time
	Logger  *slog.Logger
}

// Progression owns the save record and applies match rewards to it.
type Progression struct {
	spec    prefabs.ProgressionSpec
	roster  []string
	checker *Checker
	dailies []prefabs.DailySpec
	store   Store
	now     func() time.Time
	logger  *slog.Logger

	save *Save
}

// New loads the record from the store. A missing or unreadable record
// degrades to a fresh one.
func New(ctx context.Context, opts Options) *Progression {
	p := &Progression{
		roster:  append([]string(nil), opts.Roster...),
		checker: opts.Checker,
		dailies: opts.Dailies,
		store:   opts.Store,
		now:     opts.Now,
		logger:  opts.Logger,
	}
	if opts.Spec != nil {
		p.spec = *opts.Spec
	}
	if p.spec.StorageKey == "" {
		p.spec.StorageKey = DefaultStorageKey
	}
	if p.spec.XPPerLevel <= 0 {
		p.spec.XPPerLevel = 2000
	}
	if p.spec.MaxLevel <= 0 {
		p.spec.MaxLevel = 50
	}
	if p.store == nil {
		p.store = NewMemoryStore()
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}

	save, err := p.store.Load(ctx, p.spec.StorageKey)
	switch {
	case err == nil && save != nil:
		save.normalize(p.roster)
		p.save = save
	case err != nil && !errors.Is(err, ErrNotFound):
		p.logger.Warn("load save failed, starting fresh", slog.Any("error", err))
		fallthrough
	default:
		p.save = NewSave(p.roster, p.today())
	}
	return p
}

func (p *Progression) today() string {
	return p.now().Format(dateLayout)
}

// Save returns a copy of the current record.
func (p *Progression) Save() *Save {
	return p.save.Clone()
}

func (p *Progression) TotalXP() int {
	total := 0
	for _, rec := range p.save.Fighters {
		if rec != nil {
			total += rec.XP
		}
	}
	return total
}

// PlayerLevel is 1 + totalXP/xpPerLevel, capped at the max level.
func (p *Progression) PlayerLevel() int {
	return common.ClampInt(1+p.TotalXP()/p.spec.XPPerLevel, 1, p.spec.MaxLevel)
}

// Unlocks lists every feature whose level requirement is met.
func (p *Progression) Unlocks() map[string]bool {
	level := p.PlayerLevel()
	out := make(map[string]bool, len(p.spec.Unlocks))
	for feature, need := range p.spec.Unlocks {
		out[feature] = level >= need
	}
	return out
}

// Unlocked reports whether feature is available. Features without a level
// requirement are always available.
func (p *Progression) Unlocked(feature string) bool {
	need, ok := p.spec.Unlocks[feature]
	return !ok || p.PlayerLevel() >= need
}

// MasteryRank returns the fighter's current rank.
func (p *Progression) MasteryRank(fighterID string) prefabs.Rank {
	xp := 0
	if rec := p.save.Fighters[fighterID]; rec != nil {
		xp = rec.XP
	}
	return RankFor(p.spec.Masteries, xp)
}

// RankFor picks the highest threshold at or below xp.
func RankFor(masteries []prefabs.MasterySpec, xp int) prefabs.Rank {
	rank := prefabs.RankBronze
	best := -1
	for _, m := range masteries {
		if xp >= m.XP && m.XP > best {
			rank, best = m.Rank, m.XP
		}
	}
	return rank
}

// Award describes a finished match from the human side.
type Award struct {
	FighterID  string
	Win        bool
	Difficulty string
	XP         int
	Score      int
	// Events are match events (match_end, match_stat, round_stat, streak)
	// to check achievements against together with the derived ones.
	Events []Event
}

// Reward is what a match award changed.
type Reward struct {
	FighterBest  int
	OverallBest  int
	PlayerLevel  int
	Rank         prefabs.Rank
	Unlocks      map[string]bool
	Achievements []string
	Events       []Event
}

// AwardMatch applies xp and bests, daily and first-win bookkeeping, emits
// mastery, meta and level events, unlocks achievements and persists.
func (p *Progression) AwardMatch(ctx context.Context, a Award) Reward {
	s := p.save
	s.normalize(p.roster)
	today := p.today()

	rec := s.Fighters[a.FighterID]
	if rec == nil {
		rec = &FighterRecord{}
		s.Fighters[a.FighterID] = rec
	}
	prevRank := RankFor(p.spec.Masteries, rec.XP)
	prevLevel := p.PlayerLevel()

	rec.XP += max(0, a.XP)
	rec.Best = max(rec.Best, a.Score)
	s.OverallBest = max(s.OverallBest, a.Score)

	if s.Daily.Date != today {
		s.Daily = DailyRecord{Date: today}
	}
	s.Daily.Best = max(s.Daily.Best, a.Score)

	events := append([]Event(nil), a.Events...)
	if a.Win && s.FirstWinDate != today {
		s.FirstWinDate = today
		events = append(events, Event{"type": "first_win_day", "date": today})
	}
	if a.Win {
		s.WonWith[a.FighterID] = true
	}

	rank := RankFor(p.spec.Masteries, rec.XP)
	if rank != prevRank {
		events = append(events, Event{"type": "mastery", "fighter": a.FighterID, "rank": string(rank)})
	}

	silverAll, wonAll := len(p.roster) > 0, len(p.roster) > 0
	for _, id := range p.roster {
		r := s.Fighters[id]
		if r == nil || !RankFor(p.spec.Masteries, r.XP).AtLeast(prefabs.RankSilver) {
			silverAll = false
		}
		if !s.WonWith[id] {
			wonAll = false
		}
	}
	if silverAll {
		events = append(events, Event{"type": "meta", "kind": "silver_all"})
	}
	if wonAll {
		events = append(events, Event{"type": "meta", "kind": "won_all_fighters"})
	}

	level := p.PlayerLevel()
	events = append(events, Event{"type": "player_level", "level": level})
	if level != prevLevel {
		p.logger.Info("player level up", slog.Int("level", level))
	}

	unlocked := p.checkAchievements(events)
	p.persist(ctx)

	return Reward{
		FighterBest:  rec.Best,
		OverallBest:  s.OverallBest,
		PlayerLevel:  level,
		Rank:         rank,
		Unlocks:      p.Unlocks(),
		Achievements: unlocked,
		Events:       events,
	}
}

// AddTotals folds match counters into the lifetime totals and emits a totals
// event carrying the new lifetime values.
func (p *Progression) AddTotals(ctx context.Context, delta Totals) []string {
	p.save.Totals.Add(delta)
	ev := Event(p.save.Totals.view())
	ev["type"] = "totals"
	unlocked := p.checkAchievements([]Event{ev})
	p.persist(ctx)
	return unlocked
}

// SetDailyCompleted marks today's challenge done. Only the first completion
// of a day emits daily_complete.
func (p *Progression) SetDailyCompleted(ctx context.Context) []string {
	today := p.today()
	if p.save.Daily.Date != today {
		p.save.Daily = DailyRecord{Date: today}
	}
	if p.save.Daily.Completed {
		return nil
	}
	p.save.Daily.Completed = true
	unlocked := p.checkAchievements([]Event{{"type": "daily_complete", "date": today}})
	p.persist(ctx)
	return unlocked
}

// DailyChallenge returns today's challenge.
func (p *Progression) DailyChallenge() (prefabs.DailySpec, bool) {
	return DailyFor(p.dailies, p.today())
}

// DailySeed folds the date string into a 32-bit seed.
func DailySeed(date string) uint32 {
	var seed uint32
	for i := 0; i < len(date); i++ {
		seed = seed*31 + uint32(date[i])
	}
	return seed
}

// DailyFor picks the challenge for date ("YYYY-MM-DD").
func DailyFor(list []prefabs.DailySpec, date string) (prefabs.DailySpec, bool) {
	if len(list) == 0 {
		return prefabs.DailySpec{}, false
	}
	return list[DailySeed(date)%uint32(len(list))], true
}

func (p *Progression) view() map[string]interface{} {
	s := p.save
	fighters := make(map[string]interface{}, len(s.Fighters))
	for id, rec := range s.Fighters {
		if rec == nil {
			continue
		}
		fighters[id] = map[string]interface{}{
			"xp":   rec.XP,
			"best": rec.Best,
			"rank": string(RankFor(p.spec.Masteries, rec.XP)),
		}
	}
	wonWith := make(map[string]interface{}, len(s.WonWith))
	for id, v := range s.WonWith {
		wonWith[id] = v
	}
	return map[string]interface{}{
		"overall_best": s.OverallBest,
		"level":        p.PlayerLevel(),
		"total_xp":     p.TotalXP(),
		"fighters":     fighters,
		"won_with":     wonWith,
		"totals":       s.Totals.view(),
		"achievements": len(s.Achievements),
		"daily_best":   s.Daily.Best,
	}
}

func (p *Progression) checkAchievements(events []Event) []string {
	ids := p.checker.Check(p.view(), events, p.save.Achievements)
	stamp := p.now().UnixMilli()
	for _, id := range ids {
		p.save.Achievements[id] = Achievement{UnlockedAt: stamp}
		p.logger.Info("achievement unlocked", slog.String("id", id))
	}
	return ids
}

func (p *Progression) persist(ctx context.Context) {
	if err := p.store.Save(ctx, p.spec.StorageKey, p.save); err != nil {
		p.logger.Warn("persist save failed", slog.Any("error", err))
	}
}
