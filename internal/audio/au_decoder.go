package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// AUDecoder decodes Sun/NeXT audio (.au) files into 16-bit PCM.
// Supports μ-law and 16-bit linear encodings, mono or stereo.
type AUDecoder struct {
	pcm        []byte // 16-bit signed LE, interleaved as in the file
	sampleRate int
	channels   int
}

// AU file header, big-endian (24 bytes minimum)
type auHeader struct {
	Magic      uint32 // ".snd"
	DataOffset uint32
	DataSize   uint32 // 0xFFFFFFFF if unknown
	Encoding   uint32
	SampleRate uint32
	Channels   uint32
}

const (
	auMagic         = 0x2e736e64 // ".snd"
	auHeaderSize    = 24
	auUnknownSize   = 0xFFFFFFFF
	auEncodingULaw  = 1 // 8-bit μ-law
	auEncodingPCM16 = 3 // 16-bit linear PCM, big-endian
)

// μ-law byte -> 16-bit PCM
var mulawTable = buildMulawTable()

// buildMulawTable expands every μ-law code with the G.711 formula instead of
// carrying a literal table.
func buildMulawTable() [256]int16 {
	var table [256]int16
	for i := 0; i < 256; i++ {
		u := ^byte(i)
		sign := u & 0x80
		exponent := (u >> 4) & 0x07
		mantissa := u & 0x0f
		magnitude := ((int(mantissa) << 3) + 0x84) << exponent
		magnitude -= 0x84
		if sign != 0 {
			table[i] = int16(-magnitude)
		} else {
			table[i] = int16(magnitude)
		}
	}
	return table
}

// DecodeAU decodes a Sun/NeXT audio file.
//
// Parameters:
//   - r: Reader containing AU file data
//
// Returns:
//   - *AUDecoder: Decoded audio
//   - error: Error if the header is malformed or the encoding is unsupported
func DecodeAU(r io.Reader) (*AUDecoder, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read AU file: %w", err)
	}

	if len(data) < auHeaderSize {
		return nil, fmt.Errorf("AU file too short: %d bytes (minimum %d)", len(data), auHeaderSize)
	}

	var header auHeader
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read AU header: %w", err)
	}

	if header.Magic != auMagic {
		return nil, fmt.Errorf("invalid AU magic number: 0x%08x (expected 0x%08x)", header.Magic, auMagic)
	}

	if header.Channels < 1 || header.Channels > 2 {
		return nil, fmt.Errorf("unsupported channel count: %d (only 1-2 supported)", header.Channels)
	}

	if header.SampleRate == 0 {
		return nil, fmt.Errorf("invalid AU sample rate: 0")
	}

	offset := int(header.DataOffset)
	if offset < auHeaderSize || offset >= len(data) {
		return nil, fmt.Errorf("invalid data offset: %d (file size: %d)", offset, len(data))
	}

	payload := data[offset:]
	if header.DataSize != auUnknownSize && int(header.DataSize) < len(payload) {
		payload = payload[:header.DataSize]
	}

	var pcm []byte
	switch header.Encoding {
	case auEncodingULaw:
		pcm = make([]byte, len(payload)*2)
		for i, code := range payload {
			binary.LittleEndian.PutUint16(pcm[i*2:], uint16(mulawTable[code]))
		}
	case auEncodingPCM16:
		samples := len(payload) / 2
		pcm = make([]byte, samples*2)
		for i := 0; i < samples; i++ {
			v := binary.BigEndian.Uint16(payload[i*2:])
			binary.LittleEndian.PutUint16(pcm[i*2:], v)
		}
	default:
		return nil, fmt.Errorf("%w: AU encoding %d (supported: 1 μ-law, 3 PCM16)", ErrUnsupportedFormat, header.Encoding)
	}

	return &AUDecoder{
		pcm:        pcm,
		sampleRate: int(header.SampleRate),
		channels:   int(header.Channels),
	}, nil
}

// SampleRate returns the sample rate of the file in Hz.
func (d *AUDecoder) SampleRate() int {
	return d.sampleRate
}

// Channels returns the number of channels in the file (1=mono, 2=stereo).
func (d *AUDecoder) Channels() int {
	return d.channels
}

// StereoPCM returns the decoded audio as 16-bit LE stereo at the file's
// sample rate.
func (d *AUDecoder) StereoPCM() []byte {
	if d.channels == 2 {
		return d.pcm
	}
	return MonoToStereo(d.pcm)
}
