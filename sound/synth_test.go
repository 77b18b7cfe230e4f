package sound

import (
	"testing"

	"github.com/gopxl/beep"
	"github.com/milk9111/rayfighter/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rate = beep.SampleRate(8000)

func drain(s beep.Streamer, limit int) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 100)
	for len(out) < limit {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			break
		}
	}
	return out
}

func TestToneLength(t *testing.T) {
	got := drain(Tone(prefabs.ToneSpec{Wave: "square", Freq: 440, Seconds: 0.25, Volume: 1}, rate), 10000)
	assert.Len(t, got, 2000)

	got = drain(Tone(prefabs.ToneSpec{Freq: 440, Volume: 1}, rate), 10000)
	assert.Len(t, got, 640, "zero duration falls back to a short blip")
}

func TestToneStaysInRange(t *testing.T) {
	for _, wave := range []string{"sine", "square", "saw", "triangle", "noise"} {
		got := drain(Tone(prefabs.ToneSpec{Wave: wave, Freq: 300, EndFreq: 900, Seconds: 0.1, Volume: 1}, rate), 10000)
		require.NotEmpty(t, got, wave)
		for _, s := range got {
			assert.LessOrEqual(t, s[0], 1.0, wave)
			assert.GreaterOrEqual(t, s[0], -1.0, wave)
			assert.Equal(t, s[0], s[1], wave)
		}
	}
}

func TestEnvelopeStartsAndEndsQuiet(t *testing.T) {
	got := drain(Tone(prefabs.ToneSpec{Wave: "square", Freq: 200, Seconds: 0.2, Volume: 1}, rate), 10000)
	require.Len(t, got, 1600)
	assert.Zero(t, got[0][0])
	assert.InDelta(t, 0, got[len(got)-1][0], 0.05)
}

func TestSilentTone(t *testing.T) {
	got := PCM16(Tone(prefabs.ToneSpec{Wave: "square", Freq: 200, Seconds: 0.05}, rate), 10000)
	require.Len(t, got, 400*4)
	for _, b := range got {
		require.Zero(t, b)
	}
}

func TestPhraseAndLoop(t *testing.T) {
	spec := prefabs.TrackSpec{Wave: "sine", Step: 0.1, Volume: 1, Notes: []float64{220, 0, 330}}
	assert.Equal(t, 2400, PhraseSamples(spec, rate))
	assert.Len(t, drain(Phrase(spec, rate), 100000), 2400)

	looped := drain(Loop(spec, rate), 5000)
	assert.GreaterOrEqual(t, len(looped), 5000)
	for _, s := range looped[800:1600] {
		assert.Zero(t, s[0], "rest")
	}
}

func TestPCM16Limit(t *testing.T) {
	spec := prefabs.TrackSpec{Wave: "square", Step: 0.1, Volume: 1, Notes: []float64{220}}
	got := PCM16(Loop(spec, rate), 300)
	assert.Len(t, got, 300*4)
}

func TestBank(t *testing.T) {
	spec, err := prefabs.LoadSoundsSpec()
	require.NoError(t, err)
	b := NewBank(spec, rate)

	assert.NotEmpty(t, drain(b.Cue("sfx_ko"), 100000))
	assert.NotEmpty(t, drain(b.Cue("vo_blaze_start"), 100000))

	_, ok := b.Music("music_blaze")
	assert.True(t, ok)
	_, ok = b.Music("music_missing")
	assert.False(t, ok)

	_, n, ok := b.MusicPhrase("music_victory")
	require.True(t, ok)
	assert.Equal(t, 8*rate.N(200_000_000), n)
}
