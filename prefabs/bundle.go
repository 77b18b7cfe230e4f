package prefabs

// Bundle groups every spec a match needs.
type Bundle struct {
	Roster       *RosterSpec
	Tuning       *TuningSpec
	Difficulties *DifficultiesSpec
	Specials     SpecialTable
	Signatures   *SignatureTable
	Progression  *ProgressionSpec
	Daily        []DailySpec
	Achievements []AchievementSpec
}

// LoadBundle loads all specs, preferring on-disk overrides.
func LoadBundle() (*Bundle, error) {
	roster, err := LoadRosterSpec()
	if err != nil {
		return nil, err
	}
	tuning, err := LoadTuningSpec()
	if err != nil {
		return nil, err
	}
	difficulties, err := LoadDifficultiesSpec()
	if err != nil {
		return nil, err
	}
	specials, err := LoadSpecialTable()
	if err != nil {
		return nil, err
	}
	signatures, err := LoadSignatureTable()
	if err != nil {
		return nil, err
	}
	progression, err := LoadProgressionSpec()
	if err != nil {
		return nil, err
	}
	daily, err := LoadDailySpecs()
	if err != nil {
		return nil, err
	}
	achievements, err := LoadAchievementSpecs()
	if err != nil {
		return nil, err
	}
	return &Bundle{
		Roster:       roster,
		Tuning:       tuning,
		Difficulties: difficulties,
		Specials:     specials,
		Signatures:   signatures,
		Progression:  progression,
		Daily:        daily,
		Achievements: achievements,
	}, nil
}

// MustLoadBundle loads the embedded specs and panics on error. Intended for
// tests and tools where the embedded data is known good.
func MustLoadBundle() *Bundle {
	b, err := LoadBundle()
	if err != nil {
		panic("prefabs: " + err.Error())
	}
	return b
}
