// Package wav writes mono PCM audio as a canonical RIFF/WAVE file.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HeaderSize is the length in bytes of the canonical 44-byte header.
const HeaderSize = 44

// Channels is the channel count of every file this package writes.
const Channels = 1

const formatPCM = 1

var ErrInvalidHeader = errors.New("wav: invalid header")

// Header is the canonical RIFF/WAVE header of an uncompressed PCM file, in file order.
type Header struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // 36 + Subchunk2Size
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample/8
	BlockAlign    uint16 // NumChannels * BitsPerSample/8
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // NumFrames * BlockAlign
}

// NewHeader returns the header describing frames frames of audio in format f.
// frames must not exceed f.MaxFrames().
func NewHeader(f Format, frames int) Header {
	blockAlign := uint32(Channels * f.SampleWidth)
	dataLen := blockAlign * uint32(frames)
	return Header{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataLen,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   formatPCM,
		NumChannels:   Channels,
		SampleRate:    uint32(f.FrameRate),
		ByteRate:      blockAlign * uint32(f.FrameRate),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: uint16(f.SampleWidth * 8),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataLen,
	}
}

// MarshalBinary encodes h in little-endian order.
func (h Header) MarshalBinary() ([]byte, error) {
	var b bytes.Buffer
	b.Grow(HeaderSize)
	if err := binary.Write(&b, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Frames returns the number of frames in the data chunk.
func (h Header) Frames() int {
	if h.BlockAlign == 0 {
		return 0
	}
	return int(h.Subchunk2Size / uint32(h.BlockAlign))
}

// ReadHeader reads and validates a canonical PCM header.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Header{}, fmt.Errorf("failed to read header: %w", err)
	}

	if string(h.ChunkID[:]) != "RIFF" || string(h.Format[:]) != "WAVE" {
		return Header{}, fmt.Errorf("%w: not a RIFF/WAVE file", ErrInvalidHeader)
	}
	if string(h.Subchunk1ID[:]) != "fmt " || string(h.Subchunk2ID[:]) != "data" {
		return Header{}, fmt.Errorf("%w: unexpected chunk layout", ErrInvalidHeader)
	}
	if h.AudioFormat != formatPCM {
		return Header{}, fmt.Errorf("%w: only PCM format is supported, got %d", ErrInvalidHeader, h.AudioFormat)
	}
	return h, nil
}
