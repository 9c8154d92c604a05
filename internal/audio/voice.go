package audio

import "time"

// Voice is one playable channel owned by a Backend. A Voice plays a single
// main clip plus any number of overlapping one-shots.
//
// Voices are not safe for concurrent use; they are driven from the game loop.
type Voice interface {
	// Play restarts the voice from the beginning of clip. A nil clip stops it.
	Play(clip *Clip, pitch float64)
	// PlayOneShot overlays clip on top of whatever is playing. It does not
	// affect Position.
	PlayOneShot(clip *Clip, pitch float64)
	Stop()
	Pause()
	Resume()
	// IsPlaying reports whether the main clip or any one-shot is audible.
	// A paused voice is not playing.
	IsPlaying() bool
	// Position is the elapsed time into the main clip in clip time. It is 0
	// once the voice was stopped or the clip ended.
	Position() time.Duration
	SetLoop(loop bool)
	SetGain(gain float64)
	SetPan(pan float64)
	Close() error
}

// Backend creates voices on a particular output device.
type Backend interface {
	Name() string
	SampleRate() int
	NewVoice() Voice
	Close() error
}

// clipTime converts a playback duration measured in output time into clip
// time for the given pitch, wrapping for looping clips.
func clipTime(clip *Clip, played time.Duration, pitch float64, loop bool) time.Duration {
	if clip == nil || pitch <= 0 {
		return 0
	}
	pos := time.Duration(float64(played) * pitch)
	length := clip.Duration()
	if loop && length > 0 {
		pos %= length
	} else if pos > length {
		pos = length
	}
	return pos
}
