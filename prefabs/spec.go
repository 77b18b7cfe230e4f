package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// HitType is the height class of an attack, matched against block stance.
type HitType string

const (
	HitHigh     HitType = "high"
	HitMid      HitType = "mid"
	HitLow      HitType = "low"
	HitOverhead HitType = "overhead"
)

// Rank is a mastery tier.
type Rank string

const (
	RankBronze  Rank = "bronze"
	RankSilver  Rank = "silver"
	RankGold    Rank = "gold"
	RankDiamond Rank = "diamond"
	RankMaster  Rank = "master"
)

// RankOrder lists ranks from lowest to highest.
var RankOrder = []Rank{RankBronze, RankSilver, RankGold, RankDiamond, RankMaster}

// Index returns the position of r in RankOrder, or 0 for unknown ranks.
func (r Rank) Index() int {
	for i, v := range RankOrder {
		if v == r {
			return i
		}
	}
	return 0
}

// AtLeast reports whether r is the same tier as other or higher.
func (r Rank) AtLeast(other Rank) bool {
	return r.Index() >= other.Index()
}

type RosterSpec struct {
	Fighters []FighterSpec `yaml:"fighters"`
}

// Fighter returns the definition with the given id.
func (r *RosterSpec) Fighter(id string) (*FighterSpec, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.Fighters {
		if r.Fighters[i].ID == id {
			return &r.Fighters[i], true
		}
	}
	return nil, false
}

// IDs returns fighter ids in roster order.
func (r *RosterSpec) IDs() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Fighters))
	for _, f := range r.Fighters {
		out = append(out, f.ID)
	}
	return out
}

func LoadRosterSpec() (*RosterSpec, error) {
	spec, err := LoadSpec[RosterSpec]("roster.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type FighterSpec struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Health    int            `yaml:"health"`
	DashPx    float64        `yaml:"dash_px"`
	Range     RangeSpec      `yaml:"range"`
	Moves     MovesSpec      `yaml:"moves"`
	ArmorDash *ArmorDashSpec `yaml:"armor_dash"`
	Colors    ColorsSpec     `yaml:"colors"`
	Voice     VoiceSpec      `yaml:"voice"`
	Music     string         `yaml:"music"`
}

type RangeSpec struct {
	Light float64 `yaml:"light"`
	Heavy float64 `yaml:"heavy"`
	Low   float64 `yaml:"low"`
}

type MovesSpec struct {
	Light *MoveSpec `yaml:"light"`
	Heavy *MoveSpec `yaml:"heavy"`
	Low   *MoveSpec `yaml:"low"`
	Air   *MoveSpec `yaml:"air"`
	Grab  *MoveSpec `yaml:"grab"`
}

// Get returns the move for an attack kind name, nil when the fighter lacks it.
func (m MovesSpec) Get(kind string) *MoveSpec {
	switch kind {
	case "light":
		return m.Light
	case "heavy":
		return m.Heavy
	case "low":
		return m.Low
	case "air":
		return m.Air
	case "grab":
		return m.Grab
	}
	return nil
}

type MoveSpec struct {
	Startup          int     `yaml:"startup"`
	Active           int     `yaml:"active"`
	Recovery         int     `yaml:"recovery"`
	Damage           int     `yaml:"dmg"`
	Type             HitType `yaml:"type"`
	Range            float64 `yaml:"range"`
	PushPx           float64 `yaml:"push_px"`
	PullPx           float64 `yaml:"pull_px"`
	TeleportPreHitPx float64 `yaml:"teleport_pre_hit_px"`
	ThrowPx          float64 `yaml:"throw_px"`
	AntiAir          bool    `yaml:"anti_air"`
	ToCorner         bool    `yaml:"to_corner"`
}

type ArmorDashSpec struct {
	Hits int `yaml:"hits"`
}

type ColorsSpec struct {
	Core *YAMLColor `yaml:"core"`
	Glow *YAMLColor `yaml:"glow"`
}

type VoiceSpec struct {
	Start   string `yaml:"start"`
	Special string `yaml:"special"`
	Win     string `yaml:"win"`
	Lose    string `yaml:"lose"`
}

type TuningSpec struct {
	TickRate   int              `yaml:"tick_rate"`
	Arena      ArenaSpec        `yaml:"arena"`
	Spawn      SpawnSpec        `yaml:"spawn"`
	Physics    PhysicsSpec      `yaml:"physics"`
	Fighter    FighterTuning    `yaml:"fighter"`
	Round      RoundSpec        `yaml:"round"`
	Dash       DashSpec         `yaml:"dash"`
	Momentum   MomentumSpec     `yaml:"momentum"`
	Special    SpecialGateSpec  `yaml:"special"`
	Grab       GrabSpec         `yaml:"grab"`
	Block      BlockSpec        `yaml:"block"`
	Projectile ProjectileTuning `yaml:"projectile"`
	Quake      QuakeSpec        `yaml:"quake"`
	XP         XPSpec           `yaml:"xp"`
}

type ArenaSpec struct {
	LeftWall  float64 `yaml:"left_wall"`
	RightWall float64 `yaml:"right_wall"`
	FloorY    float64 `yaml:"floor_y"`
}

type SpawnSpec struct {
	LeftX  float64 `yaml:"left_x"`
	RightX float64 `yaml:"right_x"`
}

type PhysicsSpec struct {
	Gravity      float64 `yaml:"gravity"`
	JumpVelocity float64 `yaml:"jump_velocity"`
	DashFriction float64 `yaml:"dash_friction"`
	DashSnap     float64 `yaml:"dash_snap"`
	DashFrames   float64 `yaml:"dash_frames"`
}

type FighterTuning struct {
	HitstunFrames     int     `yaml:"hitstun_frames"`
	CrouchSeconds     float64 `yaml:"crouch_seconds"`
	ChargeFullSeconds float64 `yaml:"charge_full_seconds"`
	ChipRatio         float64 `yaml:"chip_ratio"`
	ArmorRatio        float64 `yaml:"armor_ratio"`
	HistorySize       int     `yaml:"history_size"`
	LastStandPct      float64 `yaml:"last_stand_pct"`
	GrabRange         float64 `yaml:"grab_range"`
}

type RoundSpec struct {
	Seconds        float64 `yaml:"seconds"`
	IntroSeconds   float64 `yaml:"intro_seconds"`
	BetweenSeconds float64 `yaml:"between_seconds"`
	WinsNeeded     int     `yaml:"wins_needed"`
	FastWinSeconds float64 `yaml:"fast_win_seconds"`
}

type DashSpec struct {
	Iframes        int `yaml:"iframes"`
	LastStandBonus int `yaml:"last_stand_bonus"`
}

type MomentumSpec struct {
	Max           float64 `yaml:"max"`
	Hit           float64 `yaml:"hit"`
	WhiffPunish   float64 `yaml:"whiff_punish"`
	HitTaken      float64 `yaml:"hit_taken"`
	BlockDefender float64 `yaml:"block_defender"`
	BlockAttacker float64 `yaml:"block_attacker"`
	PerfectDodge  float64 `yaml:"perfect_dodge"`
	SpecialCost   float64 `yaml:"special_cost"`
	LastStandMul  float64 `yaml:"last_stand_mul"`
}

type SpecialGateSpec struct {
	MinHold       float64 `yaml:"min_hold"`
	SignatureHold float64 `yaml:"signature_hold"`
	AIHold        float64 `yaml:"ai_hold"`
}

type GrabSpec struct {
	BreakFrames int `yaml:"break_frames"`
}

type BlockSpec struct {
	HeavyAdvantageFrames int `yaml:"heavy_advantage_frames"`
}

type ProjectileTuning struct {
	HitRadius    float64 `yaml:"hit_radius"`
	BoundsMargin float64 `yaml:"bounds_margin"`
	SpawnOffset  float64 `yaml:"spawn_offset"`
}

type QuakeSpec struct {
	PeriodSeconds float64 `yaml:"period_seconds"`
	StumbleFrames int     `yaml:"stumble_frames"`
}

type XPSpec struct {
	Win           float64 `yaml:"win"`
	Loss          float64 `yaml:"loss"`
	FlawlessBonus int     `yaml:"flawless_bonus"`
}

func LoadTuningSpec() (*TuningSpec, error) {
	spec, err := LoadSpec[TuningSpec]("tuning.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type DifficultySpec struct {
	Name          string  `yaml:"name"`
	ReactionMs    float64 `yaml:"reaction_ms"`
	SpecialChance float64 `yaml:"special_chance"`
	Aggression    float64 `yaml:"aggression"`
	XPMul         float64 `yaml:"xp_mul"`
}

type DifficultiesSpec struct {
	Default string           `yaml:"default"`
	Presets []DifficultySpec `yaml:"presets"`
}

// Preset returns the named preset, falling back to the default preset.
func (d *DifficultiesSpec) Preset(name string) DifficultySpec {
	if d == nil {
		return DifficultySpec{}
	}
	var fallback DifficultySpec
	for _, p := range d.Presets {
		if p.Name == name {
			return p
		}
		if p.Name == d.Default {
			fallback = p
		}
	}
	return fallback
}

func LoadDifficultiesSpec() (*DifficultiesSpec, error) {
	spec, err := LoadSpec[DifficultiesSpec]("difficulty.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type ProjectileSpec struct {
	OffsetY     float64 `yaml:"offset_y"`
	Speed       float64 `yaml:"speed"`
	DamageScale float64 `yaml:"damage_scale"`
	Type        HitType `yaml:"type"`
	High        bool    `yaml:"high"`
	Radius      float64 `yaml:"radius"`
	Bounces     int     `yaml:"bounces"`
	StunFrames  int     `yaml:"stun_f"`
}

type TeleportSpec struct {
	BehindPx     float64 `yaml:"behind_px"`
	InvisSeconds float64 `yaml:"invis_seconds"`
	StrikeDamage float64 `yaml:"strike_damage"`
	StrikeType   HitType `yaml:"strike_type"`
}

type ShieldSpec struct {
	Seconds float64 `yaml:"seconds"`
	Hits    int     `yaml:"hits"`
	Reflect bool    `yaml:"reflect"`
}

// SpecialSpec is the declarative effect of one archetype's special at one rank.
type SpecialSpec struct {
	Kind        string           `yaml:"kind"`
	Sfx         string           `yaml:"sfx"`
	BaseDamage  float64          `yaml:"base_damage"`
	Projectiles []ProjectileSpec `yaml:"projectiles"`
	Teleport    *TeleportSpec    `yaml:"teleport"`
	Shield      *ShieldSpec      `yaml:"shield"`
}

// SpecialTable maps archetype -> rank -> effect.
type SpecialTable map[string]map[Rank]SpecialSpec

// Lookup returns the effect for the archetype at rank. Ranks missing from the
// table inherit the closest lower rank that is present.
func (t SpecialTable) Lookup(archetype string, rank Rank) (SpecialSpec, bool) {
	byRank, ok := t[archetype]
	if !ok || len(byRank) == 0 {
		return SpecialSpec{}, false
	}
	for i := rank.Index(); i >= 0; i-- {
		if spec, ok := byRank[RankOrder[i]]; ok {
			return spec, true
		}
	}
	return SpecialSpec{}, false
}

func LoadSpecialTable() (SpecialTable, error) {
	spec, err := LoadSpec[struct {
		Specials SpecialTable `yaml:"specials"`
	}]("specials.yaml")
	if err != nil {
		return nil, err
	}
	return spec.Specials, nil
}

type SignatureSpec struct {
	Name         string  `yaml:"name"`
	Damage       float64 `yaml:"damage"`
	Type         HitType `yaml:"type"`
	AvoidByJump  bool    `yaml:"avoid_by_jump"`
	Unblockable  bool    `yaml:"unblockable"`
	FlashSeconds float64 `yaml:"flash_seconds"`
	ShakeMag     float64 `yaml:"shake_mag"`
	ShakeSeconds float64 `yaml:"shake_seconds"`
}

type SignatureTable struct {
	Default  SignatureSpec            `yaml:"default"`
	Fighters map[string]SignatureSpec `yaml:"fighters"`
}

// Lookup returns the archetype's signature or the default one.
func (t *SignatureTable) Lookup(archetype string) SignatureSpec {
	if t == nil {
		return SignatureSpec{}
	}
	if s, ok := t.Fighters[archetype]; ok {
		return s
	}
	return t.Default
}

func LoadSignatureTable() (*SignatureTable, error) {
	spec, err := LoadSpec[SignatureTable]("signatures.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type MasterySpec struct {
	Rank Rank `yaml:"rank"`
	XP   int  `yaml:"xp"`
}

type ProgressionSpec struct {
	StorageKey string         `yaml:"storage_key"`
	XPPerLevel int            `yaml:"xp_per_level"`
	MaxLevel   int            `yaml:"max_level"`
	Masteries  []MasterySpec  `yaml:"masteries"`
	Unlocks    map[string]int `yaml:"unlocks"`
}

func LoadProgressionSpec() (*ProgressionSpec, error) {
	spec, err := LoadSpec[ProgressionSpec]("progression.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type DailyModSpec struct {
	DamageMul        float64 `yaml:"dmg_mul"`
	HPMul            float64 `yaml:"hp_mul"`
	MomentumMul      float64 `yaml:"momentum_mul"`
	Quake            bool    `yaml:"quake"`
	Mirror           bool    `yaml:"mirror"`
	SpeedMul         float64 `yaml:"speed_mul"`
	HeavyDamage      int     `yaml:"heavy_dmg"`
	HeavyRecoveryAdd int     `yaml:"heavy_recovery_add"`
}

type DailySpec struct {
	ID   string       `yaml:"id"`
	Name string       `yaml:"name"`
	Desc string       `yaml:"desc"`
	Mod  DailyModSpec `yaml:"mod"`
}

func LoadDailySpecs() ([]DailySpec, error) {
	spec, err := LoadSpec[struct {
		Daily []DailySpec `yaml:"daily"`
	}]("daily.yaml")
	if err != nil {
		return nil, err
	}
	return spec.Daily, nil
}

// AchievementSpec declares an achievement; Check is a tengo expression
// evaluated against `save` and `event`.
type AchievementSpec struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Desc  string `yaml:"desc"`
	Check string `yaml:"check"`
}

func LoadAchievementSpecs() ([]AchievementSpec, error) {
	spec, err := LoadSpec[struct {
		Achievements []AchievementSpec `yaml:"achievements"`
	}]("achievements.yaml")
	if err != nil {
		return nil, err
	}
	return spec.Achievements, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// RGBA returns the color or opaque white when unset.
func (c *YAMLColor) RGBA() (r, g, b, a uint32) {
	if c == nil || c.Color == nil {
		return color.White.RGBA()
	}
	return c.Color.RGBA()
}
