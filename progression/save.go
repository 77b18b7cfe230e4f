package progression

// FighterRecord is per-fighter progress.
type FighterRecord struct {
	XP   int `msgpack:"xp" json:"xp"`
	Best int `msgpack:"best" json:"best"`
}

// Totals are lifetime counters across matches.
type Totals struct {
	Lights        int `msgpack:"lights" json:"lights"`
	Heavies       int `msgpack:"heavies" json:"heavies"`
	Grabs         int `msgpack:"grabs" json:"grabs"`
	Specials      int `msgpack:"specials" json:"specials"`
	Sigs          int `msgpack:"sigs" json:"sigs"`
	Blocks        int `msgpack:"blocks" json:"blocks"`
	PerfectDodges int `msgpack:"perfect_dodges" json:"perfect_dodges"`
	TimeoutWins   int `msgpack:"timeout_wins" json:"timeout_wins"`
}

func (t *Totals) Add(d Totals) {
	t.Lights += d.Lights
	t.Heavies += d.Heavies
	t.Grabs += d.Grabs
	t.Specials += d.Specials
	t.Sigs += d.Sigs
	t.Blocks += d.Blocks
	t.PerfectDodges += d.PerfectDodges
	t.TimeoutWins += d.TimeoutWins
}

func (t Totals) view() map[string]any {
	return map[string]any{
		"lights":         t.Lights,
		"heavies":        t.Heavies,
		"grabs":          t.Grabs,
		"specials":       t.Specials,
		"sigs":           t.Sigs,
		"blocks":         t.Blocks,
		"perfect_dodges": t.PerfectDodges,
		"timeout_wins":   t.TimeoutWins,
	}
}

type Achievement struct {
	UnlockedAt int64 `msgpack:"unlocked_at" json:"unlocked_at"`
}

// DailyRecord tracks the current day's challenge.
type DailyRecord struct {
	Date      string `msgpack:"date" json:"date"`
	Best      int    `msgpack:"best" json:"best"`
	Completed bool   `msgpack:"completed" json:"completed"`
}

// Save is the persisted progression record.
type Save struct {
	Fighters     map[string]*FighterRecord `msgpack:"fighters" json:"fighters"`
	OverallBest  int                       `msgpack:"overall_best" json:"overall_best"`
	Totals       Totals                    `msgpack:"totals" json:"totals"`
	WonWith      map[string]bool           `msgpack:"won_with" json:"won_with"`
	Achievements map[string]Achievement    `msgpack:"achievements" json:"achievements"`
	Daily        DailyRecord               `msgpack:"daily" json:"daily"`
	FirstWinDate string                    `msgpack:"first_win_date" json:"first_win_date"`
}

// NewSave returns an empty record covering every fighter in roster.
func NewSave(roster []string, today string) *Save {
	s := &Save{Daily: DailyRecord{Date: today}}
	s.normalize(roster)
	return s
}

// normalize fills nil maps and missing fighters, e.g. after loading an older
// record or adding a fighter to the roster.
func (s *Save) normalize(roster []string) {
	if s.Fighters == nil {
		s.Fighters = map[string]*FighterRecord{}
	}
	if s.WonWith == nil {
		s.WonWith = map[string]bool{}
	}
	if s.Achievements == nil {
		s.Achievements = map[string]Achievement{}
	}
	for _, id := range roster {
		if s.Fighters[id] == nil {
			s.Fighters[id] = &FighterRecord{}
		}
		if _, ok := s.WonWith[id]; !ok {
			s.WonWith[id] = false
		}
	}
}

// Clone returns a deep copy.
func (s *Save) Clone() *Save {
	if s == nil {
		return nil
	}
	out := *s
	out.Fighters = make(map[string]*FighterRecord, len(s.Fighters))
	for k, v := range s.Fighters {
		if v == nil {
			continue
		}
		rec := *v
		out.Fighters[k] = &rec
	}
	out.WonWith = make(map[string]bool, len(s.WonWith))
	for k, v := range s.WonWith {
		out.WonWith[k] = v
	}
	out.Achievements = make(map[string]Achievement, len(s.Achievements))
	for k, v := range s.Achievements {
		out.Achievements[k] = v
	}
	return &out
}

// AchievementIDs lists unlocked achievements.
func (s *Save) AchievementIDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Achievements))
	for id := range s.Achievements {
		out = append(out, id)
	}
	return out
}
