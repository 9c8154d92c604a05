// Package audio holds the low-level audio layer: decoded clips, decoders,
// procedural clip synthesis and the Voice/Backend contracts with their
// headless, Ebitengine and beep implementations.
//
// All PCM handled by this package is 16-bit signed little-endian stereo,
// the format Ebitengine's audio.Context consumes.
package audio

import (
	"encoding/binary"
	"errors"
	"math"
	"time"
)

const (
	// Channels is the number of interleaved channels in clip PCM.
	Channels = 2
	// BytesPerSample is the size of one 16-bit sample.
	BytesPerSample = 2
	// BytesPerFrame is the size of one stereo frame.
	BytesPerFrame = Channels * BytesPerSample
)

// Sentinel errors
var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrBackendClosed     = errors.New("audio backend closed")
)

// Clip is a fully decoded sound, ready to be handed to a Voice.
type Clip struct {
	ID         string // Resource ID, e.g. "zombie_attack_1"
	PCM        []byte // 16-bit LE stereo frames
	SampleRate int    // Frames per second
}

// NewClip wraps already decoded PCM. Trailing bytes that do not form a full
// frame are dropped.
func NewClip(id string, pcm []byte, sampleRate int) *Clip {
	n := len(pcm) - len(pcm)%BytesPerFrame
	return &Clip{ID: id, PCM: pcm[:n], SampleRate: sampleRate}
}

// Frames returns the number of stereo frames in the clip.
func (c *Clip) Frames() int {
	if c == nil {
		return 0
	}
	return len(c.PCM) / BytesPerFrame
}

// Seconds returns the clip length at pitch 1.0.
func (c *Clip) Seconds() float64 {
	if c == nil || c.SampleRate <= 0 {
		return 0
	}
	return float64(c.Frames()) / float64(c.SampleRate)
}

// Duration returns the clip length at pitch 1.0.
func (c *Clip) Duration() time.Duration {
	return time.Duration(c.Seconds() * float64(time.Second))
}

// Resample converts stereo PCM from one sample rate to another using linear
// interpolation.
func Resample(pcm []byte, from, to int) []byte {
	if from <= 0 || to <= 0 {
		return nil
	}
	return resampleFrames(pcm, float64(from)/float64(to))
}

// ShiftPitch returns PCM that plays pitch times faster (and higher) at the
// same sample rate. pitch <= 0 is treated as 1.
func ShiftPitch(pcm []byte, pitch float64) []byte {
	if pitch <= 0 {
		pitch = 1
	}
	return resampleFrames(pcm, pitch)
}

// resampleFrames walks the source with the given step (source frames per
// output frame) and linearly interpolates between neighbours.
func resampleFrames(pcm []byte, step float64) []byte {
	frames := len(pcm) / BytesPerFrame
	if frames == 0 {
		return nil
	}
	if step == 1 {
		out := make([]byte, frames*BytesPerFrame)
		copy(out, pcm)
		return out
	}

	outFrames := int(math.Floor(float64(frames) / step))
	if outFrames < 1 {
		outFrames = 1
	}
	out := make([]byte, outFrames*BytesPerFrame)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= frames {
			idx = frames - 1
		}
		next := idx + 1
		if next >= frames {
			next = frames - 1
		}
		frac := pos - float64(idx)
		for ch := 0; ch < Channels; ch++ {
			a := float64(sampleAt(pcm, idx, ch))
			b := float64(sampleAt(pcm, next, ch))
			putSample(out, i, ch, clampInt16(a+(b-a)*frac))
		}
	}
	return out
}

// MonoToStereo duplicates every 16-bit mono sample into both channels.
func MonoToStereo(mono []byte) []byte {
	samples := len(mono) / BytesPerSample
	out := make([]byte, samples*BytesPerFrame)
	for i := 0; i < samples; i++ {
		lo, hi := mono[i*2], mono[i*2+1]
		out[i*4], out[i*4+1] = lo, hi
		out[i*4+2], out[i*4+3] = lo, hi
	}
	return out
}

// PanGains converts a gain and a pan in [-1, 1] into left/right multipliers.
// Center pan keeps both channels at full gain.
func PanGains(gain, pan float64) (left, right float64) {
	if pan < -1 {
		pan = -1
	} else if pan > 1 {
		pan = 1
	}
	left, right = gain, gain
	if pan > 0 {
		left *= 1 - pan
	} else if pan < 0 {
		right *= 1 + pan
	}
	return left, right
}

func sampleAt(pcm []byte, frame, ch int) int16 {
	off := frame*BytesPerFrame + ch*BytesPerSample
	return int16(binary.LittleEndian.Uint16(pcm[off:]))
}

func putSample(pcm []byte, frame, ch int, v int16) {
	off := frame*BytesPerFrame + ch*BytesPerSample
	binary.LittleEndian.PutUint16(pcm[off:], uint16(v))
}

func clampInt16(v float64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
