package sound

import (
	"encoding/binary"
	"math"

	"github.com/gopxl/beep"
	"github.com/milk9111/rayfighter/prefabs"
)

// Bank maps cue and music keys to streams at one sample rate.
type Bank struct {
	spec *prefabs.SoundsSpec
	rate beep.SampleRate
}

func NewBank(spec *prefabs.SoundsSpec, rate beep.SampleRate) *Bank {
	if spec == nil {
		spec = &prefabs.SoundsSpec{}
	}
	return &Bank{spec: spec, rate: rate}
}

func (b *Bank) Rate() beep.SampleRate {
	return b.rate
}

func (b *Bank) Cue(key string) beep.Streamer {
	return Tone(b.spec.Tone(key), b.rate)
}

// Music returns an endless loop for key.
func (b *Bank) Music(key string) (beep.Streamer, bool) {
	spec, ok := b.spec.Track(key)
	if !ok {
		return nil, false
	}
	return Loop(spec, b.rate), true
}

// MusicPhrase returns a single pass of key, for players that loop on their
// own.
func (b *Bank) MusicPhrase(key string) (beep.Streamer, int, bool) {
	spec, ok := b.spec.Track(key)
	if !ok {
		return nil, 0, false
	}
	return Phrase(spec, b.rate), PhraseSamples(spec, b.rate), true
}

// PCM16 drains s into interleaved little-endian signed 16-bit stereo, stopping
// after limit frames.
func PCM16(s beep.Streamer, limit int) []byte {
	var out []byte
	buf := make([][2]float64, 512)
	frames := 0
	for frames < limit {
		want := min(len(buf), limit-frames)
		n, ok := s.Stream(buf[:want])
		for _, smp := range buf[:n] {
			out = binary.LittleEndian.AppendUint16(out, uint16(toInt16(smp[0])))
			out = binary.LittleEndian.AppendUint16(out, uint16(toInt16(smp[1])))
		}
		frames += n
		if !ok || n == 0 {
			break
		}
	}
	return out
}

func toInt16(v float64) int16 {
	v = max(-1, min(1, v))
	return int16(math.Round(v * math.MaxInt16))
}
