package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// BeepBackend plays voices through the beep speaker. Every voice chain is
// added to one shared mixer; the speaker lock guards all chain state the
// audio goroutine reads.
type BeepBackend struct {
	sampleRate beep.SampleRate
	mixer      *beep.Mixer
	closed     bool
}

// NewBeepBackend initializes the speaker and starts the shared mixer.
//
// Parameters:
//   - sampleRate: Output sample rate in Hz
//   - buffer: Speaker buffer length (latency)
//
// Returns:
//   - *BeepBackend: Running backend
//   - error: Error if the speaker could not be initialized
func NewBeepBackend(sampleRate int, buffer time.Duration) (*BeepBackend, error) {
	if buffer <= 0 {
		buffer = time.Second / 10
	}
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(buffer)); err != nil {
		return nil, fmt.Errorf("failed to init speaker: %w", err)
	}

	b := &BeepBackend{sampleRate: sr, mixer: &beep.Mixer{}}
	speaker.Play(b.mixer)
	return b, nil
}

// Name implements Backend.
func (b *BeepBackend) Name() string { return "beep" }

// SampleRate implements Backend.
func (b *BeepBackend) SampleRate() int { return int(b.sampleRate) }

// NewVoice implements Backend.
func (b *BeepBackend) NewVoice() Voice {
	return &beepVoice{backend: b, gain: 1}
}

// Close implements Backend.
func (b *BeepBackend) Close() error {
	if b.closed {
		return ErrBackendClosed
	}
	b.closed = true
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	return nil
}

// beepChain is one playing clip: source -> pitch resampler -> pan -> volume -> ctrl.
type beepChain struct {
	src    *pcmSource
	pan    *effects.Pan
	volume *effects.Volume
	ctrl   *beep.Ctrl
}

type beepVoice struct {
	backend *BeepBackend
	clip    *Clip
	pitch   float64
	loop    bool
	gain    float64
	pan     float64
	paused  bool

	main  *beepChain
	shots []*beepChain
}

func (v *beepVoice) newChain(clip *Clip, pitch float64, loop bool) *beepChain {
	src := &pcmSource{data: clip.PCM, loop: loop}
	var s beep.Streamer = src
	ratio := pitch
	if clip.SampleRate > 0 && clip.SampleRate != int(v.backend.sampleRate) {
		ratio *= float64(clip.SampleRate) / float64(v.backend.sampleRate)
	}
	if ratio != 1 {
		s = beep.ResampleRatio(4, ratio, s)
	}
	c := &beepChain{src: src}
	c.pan = &effects.Pan{Streamer: s, Pan: v.pan}
	c.volume = volumeFor(c.pan, v.gain)
	c.ctrl = &beep.Ctrl{Streamer: c.volume, Paused: v.paused}
	return c
}

// volumeFor maps a linear gain onto beep's logarithmic volume.
func volumeFor(s beep.Streamer, gain float64) *effects.Volume {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain), Silent: false}
}

func (c *beepChain) live() bool {
	return c.ctrl.Streamer != nil && !c.src.done
}

func (c *beepChain) kill() {
	c.ctrl.Streamer = nil
}

// Play implements Voice.
func (v *beepVoice) Play(clip *Clip, pitch float64) {
	if clip == nil {
		v.Stop()
		return
	}
	if pitch <= 0 {
		pitch = 1
	}
	speaker.Lock()
	if v.main != nil {
		v.main.kill()
	}
	v.clip = clip
	v.pitch = pitch
	v.paused = false
	v.main = v.newChain(clip, pitch, v.loop)
	v.backend.mixer.Add(v.main.ctrl)
	speaker.Unlock()
}

// PlayOneShot implements Voice.
func (v *beepVoice) PlayOneShot(clip *Clip, pitch float64) {
	if clip == nil {
		return
	}
	if pitch <= 0 {
		pitch = 1
	}
	speaker.Lock()
	alive := v.shots[:0]
	for _, s := range v.shots {
		if s.live() {
			alive = append(alive, s)
		}
	}
	shot := v.newChain(clip, pitch, false)
	v.shots = append(alive, shot)
	v.backend.mixer.Add(shot.ctrl)
	speaker.Unlock()
}

// Stop implements Voice.
func (v *beepVoice) Stop() {
	speaker.Lock()
	if v.main != nil {
		v.main.kill()
		v.main = nil
	}
	for _, s := range v.shots {
		s.kill()
	}
	v.shots = nil
	v.paused = false
	speaker.Unlock()
}

func (v *beepVoice) setPaused(paused bool) {
	speaker.Lock()
	v.paused = paused
	if v.main != nil {
		v.main.ctrl.Paused = paused
	}
	for _, s := range v.shots {
		s.ctrl.Paused = paused
	}
	speaker.Unlock()
}

// Pause implements Voice.
func (v *beepVoice) Pause() {
	if v.IsPlaying() {
		v.setPaused(true)
	}
}

// Resume implements Voice.
func (v *beepVoice) Resume() {
	if v.paused {
		v.setPaused(false)
	}
}

// IsPlaying implements Voice.
func (v *beepVoice) IsPlaying() bool {
	speaker.Lock()
	defer speaker.Unlock()
	if v.paused {
		return false
	}
	if v.main != nil && v.main.live() {
		return true
	}
	for _, s := range v.shots {
		if s.live() {
			return true
		}
	}
	return false
}

// Position implements Voice.
func (v *beepVoice) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	if v.main == nil || !v.main.live() {
		return 0
	}
	frames := v.main.src.pos / BytesPerFrame
	rate := v.clip.SampleRate
	if rate <= 0 {
		rate = int(v.backend.sampleRate)
	}
	return time.Duration(float64(frames) / float64(rate) * float64(time.Second))
}

// SetLoop implements Voice.
func (v *beepVoice) SetLoop(loop bool) {
	speaker.Lock()
	v.loop = loop
	if v.main != nil {
		v.main.src.loop = loop
	}
	speaker.Unlock()
}

// SetGain implements Voice.
func (v *beepVoice) SetGain(gain float64) {
	speaker.Lock()
	v.gain = gain
	apply := func(c *beepChain) {
		nv := volumeFor(c.pan, gain)
		c.volume.Volume = nv.Volume
		c.volume.Silent = nv.Silent
	}
	if v.main != nil {
		apply(v.main)
	}
	for _, s := range v.shots {
		apply(s)
	}
	speaker.Unlock()
}

// SetPan implements Voice.
func (v *beepVoice) SetPan(pan float64) {
	speaker.Lock()
	v.pan = pan
	if v.main != nil {
		v.main.pan.Pan = pan
	}
	for _, s := range v.shots {
		s.pan.Pan = pan
	}
	speaker.Unlock()
}

// Close implements Voice.
func (v *beepVoice) Close() error {
	v.Stop()
	return nil
}

// pcmSource streams clip PCM as beep samples in [-1, 1].
type pcmSource struct {
	data []byte
	pos  int
	loop bool
	done bool
}

func (s *pcmSource) Stream(samples [][2]float64) (int, bool) {
	if s.done {
		return 0, false
	}
	n := 0
	for n < len(samples) {
		if s.pos+BytesPerFrame > len(s.data) {
			if s.loop && len(s.data) >= BytesPerFrame {
				s.pos = 0
			} else {
				break
			}
		}
		frame := s.pos / BytesPerFrame
		samples[n][0] = float64(sampleAt(s.data, frame, 0)) / 32768
		samples[n][1] = float64(sampleAt(s.data, frame, 1)) / 32768
		s.pos += BytesPerFrame
		n++
	}
	if n == 0 {
		s.done = true
		return 0, false
	}
	return n, true
}

func (s *pcmSource) Err() error { return nil }
