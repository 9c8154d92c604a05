package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// buildWAV writes a minimal 16-bit PCM RIFF file.
func buildWAV(sampleRate, channels int, pcm []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*channels*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

func TestDecodeClip_WAV(t *testing.T) {
	pcm := stereoPCM(10)
	clip, err := DecodeClip("hit", "sounds/hit.WAV", buildWAV(48000, 2, pcm), 48000)
	if err != nil {
		t.Fatalf("DecodeClip failed: %v", err)
	}
	if clip.ID != "hit" || clip.SampleRate != 48000 {
		t.Errorf("Unexpected clip: id=%q rate=%d", clip.ID, clip.SampleRate)
	}
	if clip.Frames() != 10 {
		t.Errorf("Expected 10 frames, got %d", clip.Frames())
	}
}

func TestDecodeClip_AU(t *testing.T) {
	data := buildAU(auEncodingULaw, 24000, 1, bytes.Repeat([]byte{0xFF}, 100))
	clip, err := DecodeClip("groan", "groan.au", data, 48000)
	if err != nil {
		t.Fatalf("DecodeClip failed: %v", err)
	}
	if clip.Frames() != 200 {
		t.Errorf("Expected resampled 200 frames, got %d", clip.Frames())
	}
}

func TestDecodeClip_Errors(t *testing.T) {
	if _, err := DecodeClip("x", "x.flac", nil, 48000); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := DecodeClip("x", "x.au", []byte("nope"), 48000); err == nil {
		t.Error("Expected error for corrupt AU data")
	}
}
