// Package sound synthesizes the game's cues and music loops as beep streams.
package sound

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/milk9111/rayfighter/prefabs"
)

const (
	attack  = 5 * time.Millisecond
	release = 40 * time.Millisecond
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveTriangle
	WaveNoise
)

func ParseWave(name string) WaveType {
	switch name {
	case "square":
		return WaveSquare
	case "saw":
		return WaveSaw
	case "triangle":
		return WaveTriangle
	case "noise":
		return WaveNoise
	}
	return WaveSine
}

func sample(w WaveType, phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSaw:
		return 2 * (phase - 0.5)
	case WaveTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	case WaveNoise:
		return rand.Float64()*2 - 1
	}
	return math.Sin(2 * math.Pi * phase)
}

// oscillator sweeps linearly from freq to end over its duration.
type oscillator struct {
	freq, end float64
	phase     float64
	duration  int
	position  int
	wave      WaveType
	rate      beep.SampleRate
}

func newOscillator(freq, end float64, duration time.Duration, wave WaveType, rate beep.SampleRate) *oscillator {
	if end <= 0 {
		end = freq
	}
	return &oscillator{
		freq:     freq,
		end:      end,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}
		val := sample(o.wave, o.phase)
		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq + (o.end-o.freq)*float64(o.position)/float64(o.duration)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a finite stream.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, duration time.Duration, rate beep.SampleRate) *envelope {
	e := &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
	if e.attack+e.release > e.total {
		e.attack = e.total / 4
		e.release = e.total / 2
	}
	return e
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if left := e.total - e.position; left < e.release && e.release > 0 {
			vol = max(float64(left)/float64(e.release), 0)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// math.Log2(0) is -Inf, so zero volume is flagged silent instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Tone renders a single cue.
func Tone(spec prefabs.ToneSpec, rate beep.SampleRate) beep.Streamer {
	d := seconds(spec.Seconds)
	if d <= 0 {
		d = 80 * time.Millisecond
	}
	osc := newOscillator(spec.Freq, spec.EndFreq, d, ParseWave(spec.Wave), rate)
	return newVolume(newEnvelope(osc, d, rate), spec.Volume)
}

// track plays a phrase note by note, forever when loop is set.
type track struct {
	notes    []float64
	step     int
	wave     WaveType
	rate     beep.SampleRate
	loop     bool
	position int
	phase    float64
}

func (t *track) Stream(samples [][2]float64) (n int, ok bool) {
	length := t.step * len(t.notes)
	for i := range samples {
		if t.position >= length {
			if !t.loop {
				return i, i > 0
			}
			t.position = 0
		}
		idx := t.position / t.step
		into := t.position % t.step
		freq := t.notes[idx]
		val := 0.0
		if freq > 0 {
			// each note decays across its step
			val = sample(t.wave, t.phase) * (1 - float64(into)/float64(t.step))
			t.phase += freq / float64(t.rate)
			t.phase -= math.Floor(t.phase)
		}
		samples[i][0] = val
		samples[i][1] = val
		t.position++
	}
	return len(samples), true
}

func (t *track) Err() error { return nil }

func newTrack(spec prefabs.TrackSpec, rate beep.SampleRate, loop bool) beep.Streamer {
	step := max(rate.N(seconds(spec.Step)), 1)
	tr := &track{
		notes: spec.Notes,
		step:  step,
		wave:  ParseWave(spec.Wave),
		rate:  rate,
		loop:  loop,
	}
	return newVolume(tr, spec.Volume)
}

// Loop plays a phrase without end.
func Loop(spec prefabs.TrackSpec, rate beep.SampleRate) beep.Streamer {
	return newTrack(spec, rate, true)
}

// Phrase plays a phrase once.
func Phrase(spec prefabs.TrackSpec, rate beep.SampleRate) beep.Streamer {
	return newTrack(spec, rate, false)
}

// PhraseSamples is the length of one pass through spec.
func PhraseSamples(spec prefabs.TrackSpec, rate beep.SampleRate) int {
	return max(rate.N(seconds(spec.Step)), 1) * len(spec.Notes)
}
