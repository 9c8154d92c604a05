package audio

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// DecodeClip decodes an encoded sound file into a Clip at sampleRate.
// The format is chosen from the file extension of name.
//
// Parameters:
//   - id: Clip ID stored on the result
//   - name: File name (only the extension is used)
//   - data: Encoded file contents
//   - sampleRate: Target sample rate in Hz
//
// Returns:
//   - *Clip: Decoded clip
//   - error: ErrUnsupportedFormat for unknown extensions, or a decode error
func DecodeClip(id, name string, data []byte, sampleRate int) (*Clip, error) {
	ext := strings.ToLower(filepath.Ext(name))

	var stream io.Reader
	var err error
	switch ext {
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
	case ".au":
		au, auErr := DecodeAU(bytes.NewReader(data))
		if auErr != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", name, auErr)
		}
		pcm := au.StereoPCM()
		if au.SampleRate() != sampleRate {
			pcm = Resample(pcm, au.SampleRate(), sampleRate)
		}
		return NewClip(id, pcm, sampleRate), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return NewClip(id, pcm, sampleRate), nil
}
