package prefabs

import "strings"

// ToneSpec describes a synthesized cue. EndFreq slides the pitch linearly
// over the cue when set.
type ToneSpec struct {
	Wave    string  `yaml:"wave"`
	Freq    float64 `yaml:"freq"`
	EndFreq float64 `yaml:"end_freq"`
	Seconds float64 `yaml:"seconds"`
	Volume  float64 `yaml:"volume"`
}

// TrackSpec is a looped phrase. A zero note is a rest.
type TrackSpec struct {
	Wave   string    `yaml:"wave"`
	Step   float64   `yaml:"step"`
	Volume float64   `yaml:"volume"`
	Notes  []float64 `yaml:"notes"`
}

type SoundsSpec struct {
	Default ToneSpec             `yaml:"default"`
	Tones   map[string]ToneSpec  `yaml:"tones"`
	Music   map[string]TrackSpec `yaml:"music"`
}

// Tone resolves key, then its prefix before the first underscore, then the
// default cue.
func (s *SoundsSpec) Tone(key string) ToneSpec {
	if t, ok := s.Tones[key]; ok {
		return t
	}
	if prefix, _, ok := strings.Cut(key, "_"); ok {
		if t, ok := s.Tones[prefix]; ok {
			return t
		}
	}
	return s.Default
}

func (s *SoundsSpec) Track(key string) (TrackSpec, bool) {
	t, ok := s.Music[key]
	return t, ok && len(t.Notes) > 0 && t.Step > 0
}

func LoadSoundsSpec() (*SoundsSpec, error) {
	spec, err := LoadSpec[SoundsSpec]("sounds.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
