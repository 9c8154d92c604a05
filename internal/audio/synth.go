package audio

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/gopxl/beep"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// ParseWaveType maps a config name ("sine", "square", "saw", "noise") to a WaveType.
func ParseWaveType(name string) (WaveType, error) {
	switch strings.ToLower(name) {
	case "", "sine":
		return WaveSine, nil
	case "square":
		return WaveSquare, nil
	case "saw", "sawtooth":
		return WaveSaw, nil
	case "noise":
		return WaveNoise, nil
	}
	return WaveSine, fmt.Errorf("%w: wave %q", ErrUnsupportedFormat, name)
}

// SynthSpec describes a procedurally generated clip. Times are in seconds.
type SynthSpec struct {
	Wave     WaveType
	Freq     float64 // Hz; an optional linear sweep ends at FreqEnd
	FreqEnd  float64
	Duration float64
	Attack   float64
	Release  float64
	Gain     float64 // 0..1
	Seed     int64   // noise seed
}

// oscillator generates raw audio waves
type oscillator struct {
	spec     SynthSpec
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
	rng      *rand.Rand
}

func newOscillator(spec SynthSpec, rate beep.SampleRate) *oscillator {
	return &oscillator{
		spec:     spec,
		duration: int(spec.Duration * float64(rate)),
		rate:     rate,
		rng:      rand.New(rand.NewSource(spec.Seed)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.spec.Wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}
		val *= o.envelope() * o.spec.Gain

		samples[i][0] = val
		samples[i][1] = val

		freq := o.spec.Freq
		if o.spec.FreqEnd > 0 && o.duration > 0 {
			t := float64(o.position) / float64(o.duration)
			freq += (o.spec.FreqEnd - o.spec.Freq) * t
		}
		o.phase += freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope is a linear attack/release ramp.
func (o *oscillator) envelope() float64 {
	t := float64(o.position) / float64(o.rate)
	env := 1.0
	if o.spec.Attack > 0 && t < o.spec.Attack {
		env = t / o.spec.Attack
	}
	if left := o.spec.Duration - t; o.spec.Release > 0 && left < o.spec.Release {
		env = math.Min(env, left/o.spec.Release)
	}
	if env < 0 {
		return 0
	}
	return env
}

// Synthesize renders spec into a clip at sampleRate.
//
// Parameters:
//   - id: Clip ID stored on the result
//   - spec: Oscillator recipe
//   - sampleRate: Output sample rate in Hz
//
// Returns:
//   - *Clip: Rendered clip (empty for non-positive durations)
func Synthesize(id string, spec SynthSpec, sampleRate int) *Clip {
	if spec.Gain == 0 {
		spec.Gain = 1
	}
	osc := newOscillator(spec, beep.SampleRate(sampleRate))
	pcm := make([]byte, 0, osc.duration*BytesPerFrame)

	buf := make([][2]float64, 512)
	frame := make([]byte, BytesPerFrame)
	for {
		n, ok := osc.Stream(buf)
		for i := 0; i < n; i++ {
			putSample(frame, 0, 0, clampInt16(buf[i][0]*math.MaxInt16))
			putSample(frame, 0, 1, clampInt16(buf[i][1]*math.MaxInt16))
			pcm = append(pcm, frame...)
		}
		if !ok || n < len(buf) {
			break
		}
	}
	return NewClip(id, pcm, sampleRate)
}
