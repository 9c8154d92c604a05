package audio

import (
	"io"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// EbitenBackend plays voices through an Ebitengine audio context.
// Only one audio.Context may exist per process, so the caller owns it.
type EbitenBackend struct {
	ctx *ebaudio.Context

	mu     sync.Mutex
	voices []*ebitenVoice
	closed bool
}

// NewEbitenBackend wraps an existing audio context.
//
// Parameters:
//   - ctx: Process-wide Ebitengine audio context
//
// Returns:
//   - *EbitenBackend: Backend sharing that context
func NewEbitenBackend(ctx *ebaudio.Context) *EbitenBackend {
	return &EbitenBackend{ctx: ctx}
}

// Name implements Backend.
func (b *EbitenBackend) Name() string { return "ebiten" }

// SampleRate implements Backend.
func (b *EbitenBackend) SampleRate() int { return b.ctx.SampleRate() }

// NewVoice implements Backend.
func (b *EbitenBackend) NewVoice() Voice {
	v := &ebitenVoice{backend: b, pitch: 1}
	v.gain.Store(math.Float64bits(1))
	b.mu.Lock()
	if !b.closed {
		b.voices = append(b.voices, v)
	}
	b.mu.Unlock()
	return v
}

// Close implements Backend. The audio context itself stays alive.
func (b *EbitenBackend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBackendClosed
	}
	voices := b.voices
	b.voices = nil
	b.closed = true
	b.mu.Unlock()

	for _, v := range voices {
		_ = v.Close()
	}
	return nil
}

// ebitenVoice owns one player for the main clip plus one per live one-shot.
// Gain, pan and loop are read by the audio goroutine through pcmStream.
type ebitenVoice struct {
	backend *EbitenBackend

	clip   *Clip
	pitch  float64
	main   *ebaudio.Player
	stream *pcmStream
	shots  []*ebitenShot
	paused bool

	loop atomic.Bool
	gain atomic.Uint64 // float64 bits
	pan  atomic.Uint64 // float64 bits
}

type ebitenShot struct {
	player *ebaudio.Player
}

func (v *ebitenVoice) newPlayer(clip *Clip, pitch float64, loop bool) (*ebaudio.Player, *pcmStream) {
	pcm := clip.PCM
	if clip.SampleRate > 0 && clip.SampleRate != v.backend.SampleRate() {
		pcm = Resample(pcm, clip.SampleRate, v.backend.SampleRate())
	}
	if pitch != 1 {
		pcm = ShiftPitch(pcm, pitch)
	}
	stream := &pcmStream{data: pcm, voice: v, loop: loop}
	player, err := v.backend.ctx.NewPlayer(stream)
	if err != nil {
		log.Printf("[Audio] failed to create player for %q: %v", clip.ID, err)
		return nil, nil
	}
	return player, stream
}

// Play implements Voice.
func (v *ebitenVoice) Play(clip *Clip, pitch float64) {
	v.closeMain()
	if clip == nil {
		return
	}
	if pitch <= 0 {
		pitch = 1
	}
	v.clip = clip
	v.pitch = pitch
	v.paused = false
	v.main, v.stream = v.newPlayer(clip, pitch, true)
	if v.main != nil {
		v.main.Play()
	}
}

// PlayOneShot implements Voice.
func (v *ebitenVoice) PlayOneShot(clip *Clip, pitch float64) {
	if clip == nil {
		return
	}
	if pitch <= 0 {
		pitch = 1
	}
	v.reapShots()
	player, _ := v.newPlayer(clip, pitch, false)
	if player == nil {
		return
	}
	player.Play()
	v.shots = append(v.shots, &ebitenShot{player: player})
}

func (v *ebitenVoice) closeMain() {
	if v.main != nil {
		v.main.Pause()
		_ = v.main.Close()
	}
	v.main = nil
	v.stream = nil
}

// reapShots closes one-shots that ran to completion.
func (v *ebitenVoice) reapShots() {
	alive := v.shots[:0]
	for _, s := range v.shots {
		if s.player.IsPlaying() || v.paused {
			alive = append(alive, s)
			continue
		}
		_ = s.player.Close()
	}
	v.shots = alive
}

// Stop implements Voice.
func (v *ebitenVoice) Stop() {
	v.closeMain()
	for _, s := range v.shots {
		s.player.Pause()
		_ = s.player.Close()
	}
	v.shots = nil
	v.paused = false
}

// Pause implements Voice.
func (v *ebitenVoice) Pause() {
	if !v.IsPlaying() {
		return
	}
	v.paused = true
	if v.main != nil {
		v.main.Pause()
	}
	for _, s := range v.shots {
		s.player.Pause()
	}
}

// Resume implements Voice.
func (v *ebitenVoice) Resume() {
	if !v.paused {
		return
	}
	v.paused = false
	if v.main != nil && !v.stream.drained() {
		v.main.Play()
	}
	for _, s := range v.shots {
		s.player.Play()
	}
}

// IsPlaying implements Voice.
func (v *ebitenVoice) IsPlaying() bool {
	if v.paused {
		return false
	}
	if v.main != nil && v.main.IsPlaying() && !v.stream.drained() {
		return true
	}
	v.reapShots()
	return len(v.shots) > 0
}

// Position implements Voice.
func (v *ebitenVoice) Position() time.Duration {
	if v.main == nil || v.stream.drained() {
		return 0
	}
	if !v.paused && !v.main.IsPlaying() {
		return 0
	}
	return clipTime(v.clip, v.main.Position(), v.pitch, v.loop.Load())
}

// SetLoop implements Voice.
func (v *ebitenVoice) SetLoop(loop bool) { v.loop.Store(loop) }

// SetGain implements Voice.
func (v *ebitenVoice) SetGain(gain float64) { v.gain.Store(math.Float64bits(gain)) }

// SetPan implements Voice.
func (v *ebitenVoice) SetPan(pan float64) { v.pan.Store(math.Float64bits(pan)) }

// Close implements Voice.
func (v *ebitenVoice) Close() error {
	v.Stop()
	return nil
}

func (v *ebitenVoice) gains() (float64, float64) {
	return PanGains(math.Float64frombits(v.gain.Load()), math.Float64frombits(v.pan.Load()))
}

// pcmStream feeds PCM to an ebiten player, applying the voice's gain and pan
// per frame. Main-clip streams obey the voice's loop flag; one-shots never loop.
type pcmStream struct {
	voice *ebitenVoice
	data  []byte
	loop  bool // follow the voice loop flag

	mu   sync.Mutex
	pos  int
	done bool
}

func (s *pcmStream) drained() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *pcmStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done || len(s.data) == 0 {
		s.done = true
		return 0, io.EOF
	}

	p = p[:len(p)-len(p)%BytesPerFrame]
	left, right := s.voice.gains()
	n := 0
	for n < len(p) {
		if s.pos >= len(s.data) {
			if s.loop && s.voice.loop.Load() {
				s.pos = 0
			} else {
				break
			}
		}
		frame := s.pos / BytesPerFrame
		l := float64(sampleAt(s.data, frame, 0)) * left
		r := float64(sampleAt(s.data, frame, 1)) * right
		putSample(p[n:], 0, 0, clampInt16(l))
		putSample(p[n:], 0, 1, clampInt16(r))
		n += BytesPerFrame
		s.pos += BytesPerFrame
	}

	if n == 0 {
		s.done = true
		return 0, io.EOF
	}
	return n, nil
}
