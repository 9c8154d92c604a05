package audio

import (
	"time"
)

// HeadlessBackend is a silent backend whose clock only moves when Advance
// is called. It is used by tests, the simulation CLI and as the fallback
// when no audio device is available.
type HeadlessBackend struct {
	sampleRate int
	voices     []*HeadlessVoice
	closed     bool
}

// NewHeadlessBackend creates a headless backend.
//
// Parameters:
//   - sampleRate: Nominal sample rate reported to clip decoders
//
// Returns:
//   - *HeadlessBackend: Backend with no voices
func NewHeadlessBackend(sampleRate int) *HeadlessBackend {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	return &HeadlessBackend{sampleRate: sampleRate}
}

// Name implements Backend.
func (b *HeadlessBackend) Name() string { return "headless" }

// SampleRate implements Backend.
func (b *HeadlessBackend) SampleRate() int { return b.sampleRate }

// NewVoice implements Backend.
func (b *HeadlessBackend) NewVoice() Voice {
	v := &HeadlessVoice{gain: 1}
	if !b.closed {
		b.voices = append(b.voices, v)
	}
	return v
}

// Voices returns every voice created so far, in creation order.
func (b *HeadlessBackend) Voices() []*HeadlessVoice {
	return b.voices
}

// Advance moves playback of every voice forward by dt seconds.
func (b *HeadlessBackend) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	for _, v := range b.voices {
		v.advance(dt)
	}
}

// Close implements Backend.
func (b *HeadlessBackend) Close() error {
	if b.closed {
		return ErrBackendClosed
	}
	for _, v := range b.voices {
		v.Stop()
	}
	b.voices = nil
	b.closed = true
	return nil
}

// HeadlessVoice records what would be heard.
type HeadlessVoice struct {
	clip    *Clip
	pitch   float64
	elapsed float64 // output seconds since Play
	playing bool
	paused  bool
	loop    bool
	gain    float64
	pan     float64
	shots   []float64 // remaining output seconds per one-shot

	plays    int
	oneShots int
}

func (v *HeadlessVoice) advance(dt float64) {
	if v.paused {
		return
	}
	if v.playing {
		v.elapsed += dt
		length := v.clip.Seconds() / v.pitch
		if v.elapsed >= length {
			if v.loop && length > 0 {
				for v.elapsed >= length {
					v.elapsed -= length
				}
			} else {
				v.playing = false
				v.elapsed = 0
			}
		}
	}

	alive := v.shots[:0]
	for _, remaining := range v.shots {
		if remaining-dt > 0 {
			alive = append(alive, remaining-dt)
		}
	}
	v.shots = alive
}

// Play implements Voice.
func (v *HeadlessVoice) Play(clip *Clip, pitch float64) {
	if clip == nil {
		v.Stop()
		return
	}
	if pitch <= 0 {
		pitch = 1
	}
	v.clip = clip
	v.pitch = pitch
	v.elapsed = 0
	v.playing = clip.Frames() > 0
	v.paused = false
	v.plays++
}

// PlayOneShot implements Voice.
func (v *HeadlessVoice) PlayOneShot(clip *Clip, pitch float64) {
	if clip == nil {
		return
	}
	if pitch <= 0 {
		pitch = 1
	}
	if length := clip.Seconds() / pitch; length > 0 {
		v.shots = append(v.shots, length)
	}
	v.oneShots++
}

// Stop implements Voice.
func (v *HeadlessVoice) Stop() {
	v.playing = false
	v.paused = false
	v.elapsed = 0
	v.shots = nil
}

// Pause implements Voice.
func (v *HeadlessVoice) Pause() {
	if v.playing || len(v.shots) > 0 {
		v.paused = true
	}
}

// Resume implements Voice.
func (v *HeadlessVoice) Resume() {
	v.paused = false
}

// IsPlaying implements Voice.
func (v *HeadlessVoice) IsPlaying() bool {
	return !v.paused && (v.playing || len(v.shots) > 0)
}

// IsPaused reports whether the voice holds paused playback.
func (v *HeadlessVoice) IsPaused() bool {
	return v.paused
}

// Position implements Voice.
func (v *HeadlessVoice) Position() time.Duration {
	if !v.playing {
		return 0
	}
	return clipTime(v.clip, time.Duration(v.elapsed*float64(time.Second)), v.pitch, v.loop)
}

// SetLoop implements Voice.
func (v *HeadlessVoice) SetLoop(loop bool) { v.loop = loop }

// SetGain implements Voice.
func (v *HeadlessVoice) SetGain(gain float64) { v.gain = gain }

// SetPan implements Voice.
func (v *HeadlessVoice) SetPan(pan float64) { v.pan = pan }

// Close implements Voice.
func (v *HeadlessVoice) Close() error {
	v.Stop()
	return nil
}

// Clip returns the last clip given to Play.
func (v *HeadlessVoice) Clip() *Clip { return v.clip }

// Pitch returns the pitch of the last Play call.
func (v *HeadlessVoice) Pitch() float64 { return v.pitch }

// Gain returns the current gain.
func (v *HeadlessVoice) Gain() float64 { return v.gain }

// Pan returns the current pan.
func (v *HeadlessVoice) Pan() float64 { return v.pan }

// Loop reports whether the voice loops its main clip.
func (v *HeadlessVoice) Loop() bool { return v.loop }

// PlayCount returns how many times Play was called.
func (v *HeadlessVoice) PlayCount() int { return v.plays }

// OneShotCount returns how many one-shots were started.
func (v *HeadlessVoice) OneShotCount() int { return v.oneShots }
