// Package scoring implements the streak and multiplier point economy for the
// human side of a match.
package scoring

import "github.com/milk9111/rayfighter/common"

type Kind string

const (
	KindLight     Kind = "light"
	KindHeavy     Kind = "heavy"
	KindLow       Kind = "low"
	KindAir       Kind = "air"
	KindGrab      Kind = "grab"
	KindSpecial   Kind = "special"
	KindSignature Kind = "signature"
)

const (
	whiffPunishBonus = 350
	mixUpBonus       = 200

	roundWinBonus = 1000
	timeoutBonus  = 500
	perfectBonus  = 2000
	fastWinBonus  = 500

	flawlessBonus = 5000
	comebackBonus = 1500
)

var basePoints = map[Kind]int{
	KindHeavy:     250,
	KindSpecial:   400,
	KindSignature: 1000,
}

var categoryBonus = map[Kind]int{
	KindLight:     100,
	KindHeavy:     250,
	KindGrab:      200,
	KindSpecial:   400,
	KindSignature: 1000,
}

// BasePoints is the unscaled value of landing kind.
func BasePoints(k Kind) int {
	if p, ok := basePoints[k]; ok {
		return p
	}
	return 100
}

// Multiplier maps a streak to its tier.
func Multiplier(streak int) float64 {
	switch {
	case streak >= 7:
		return 3
	case streak >= 5:
		return 2
	case streak >= 3:
		return 1.5
	}
	return 1
}

type Hit struct {
	Kind        Kind
	Points      int
	Damage      int
	WhiffPunish bool
	AntiAir     bool
	MixUp       bool
}

type HitInfo struct {
	Streak int
	Mult   float64
	Score  int
	Delta  int
}

// Round holds accumulators that reset every round.
type Round struct {
	DamageDealt    int
	DamageTaken    int
	WhiffPunishes  int
	AntiAirHeavies int
	GrabDamage     int
	LightDamage    int
	HeavyDamage    int
	Specials       int
	Signatures     int
}

type RoundWin struct {
	ByTimeout bool
	Perfect   bool
	Fast      bool
}

type MatchWin struct {
	Flawless bool
	Comeback bool
}

type Scoring struct {
	Score  int
	Streak int
	Mult   float64
	Round  Round

	MatchDamageTaken int
	TimeoutWin       bool
}

func New() *Scoring {
	return &Scoring{Mult: 1}
}

func (s *Scoring) scaled(points int) int {
	return common.RoundInt(float64(points) * s.Mult)
}

// OnHit credits a landed hit and returns the new streak state.
func (s *Scoring) OnHit(h Hit) HitInfo {
	if s == nil {
		return HitInfo{Mult: 1}
	}
	before := s.Score
	s.Streak++
	s.Mult = Multiplier(s.Streak)

	points := h.Points
	if points == 0 {
		points = BasePoints(h.Kind)
	}
	s.Score += s.scaled(points)
	s.Round.DamageDealt += h.Damage

	if h.WhiffPunish {
		s.Round.WhiffPunishes++
		s.Score += s.scaled(whiffPunishBonus)
	}
	if h.AntiAir {
		s.Round.AntiAirHeavies++
	}
	if h.MixUp {
		s.Score += s.scaled(mixUpBonus)
	}

	s.Score += s.scaled(categoryBonus[h.Kind])
	switch h.Kind {
	case KindLight:
		s.Round.LightDamage += h.Damage
	case KindHeavy:
		s.Round.HeavyDamage += h.Damage
	case KindGrab:
		s.Round.GrabDamage += h.Damage
	case KindSpecial:
		s.Round.Specials++
	case KindSignature:
		s.Round.Signatures++
	}

	return HitInfo{Streak: s.Streak, Mult: s.Mult, Score: s.Score, Delta: s.Score - before}
}

// OnGotHit breaks the streak and records damage taken.
func (s *Scoring) OnGotHit(dmg int) {
	if s == nil {
		return
	}
	s.Round.DamageTaken += dmg
	s.MatchDamageTaken += dmg
	s.Streak = 0
	s.Mult = 1
}

// OnChip records block damage without breaking the streak.
func (s *Scoring) OnChip(dmg int) {
	if s == nil || dmg <= 0 {
		return
	}
	s.Round.DamageTaken += dmg
	s.MatchDamageTaken += dmg
}

// OnDealt records damage dealt without a scored hit, such as chip on a
// block. The streak is untouched.
func (s *Scoring) OnDealt(dmg int) {
	if s == nil || dmg <= 0 {
		return
	}
	s.Round.DamageDealt += dmg
}

// OnRoundWin adds the round bonuses and returns the amount added.
func (s *Scoring) OnRoundWin(w RoundWin) int {
	if s == nil {
		return 0
	}
	add := roundWinBonus
	if w.ByTimeout {
		add += timeoutBonus
		s.TimeoutWin = true
	}
	if w.Perfect {
		add += perfectBonus
	}
	if w.Fast {
		add += fastWinBonus
	}
	s.Score += add
	return add
}

func (s *Scoring) OnMatchWin(w MatchWin) int {
	if s == nil {
		return 0
	}
	add := 0
	if w.Flawless {
		add += flawlessBonus
	}
	if w.Comeback {
		add += comebackBonus
	}
	s.Score += add
	return add
}

// ResetRound clears the per-round accumulators. Score, streak and match
// damage carry over.
func (s *Scoring) ResetRound() {
	if s == nil {
		return
	}
	s.Round = Round{}
}
