package combat

import "github.com/milk9111/rayfighter/scoring"

type EffectKind string

const (
	EffectShake EffectKind = "shake"
	EffectFlash EffectKind = "flash"
	EffectBurst EffectKind = "burst"
)

// Effect is a fire-and-forget presentation trigger. Owner names the fighter
// whose colors apply.
type Effect struct {
	Kind      EffectKind
	Owner     string
	X, Y      float64
	Magnitude float64
	Seconds   float64
	Count     int
}

// Sink receives sounds and effects. Implementations must not fail the caller.
type Sink interface {
	Play(key string)
	Effect(e Effect)
}

type NopSink struct{}

func (NopSink) Play(string)   {}
func (NopSink) Effect(Effect) {}

// Recorder collects everything sent to it. Handy for replays and tests.
type Recorder struct {
	Sounds  []string
	Effects []Effect
}

func (r *Recorder) Play(key string) {
	if r == nil {
		return
	}
	r.Sounds = append(r.Sounds, key)
}

func (r *Recorder) Effect(e Effect) {
	if r == nil {
		return
	}
	r.Effects = append(r.Effects, e)
}

// Scorer credits hits landed by the human side.
type Scorer interface {
	OnHit(h scoring.Hit) scoring.HitInfo
}
