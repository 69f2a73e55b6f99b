package wav

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/QEStudios/ToneGenerator/signal"
)

// UnknownFrameCount tells Open that the length is not known yet. The header is
// then written as a placeholder and patched by Close.
const UnknownFrameCount = -1

var (
	ErrSampleWidth        = errors.New("wav: sample width must be 1 or 2 bytes")
	ErrFrameRate          = errors.New("wav: frame rate must be positive")
	ErrNotSeekable        = errors.New("wav: unknown frame count requires a seekable sink")
	ErrFrameOverflow      = errors.New("wav: more frames written than declared")
	ErrFrameCountMismatch = errors.New("wav: frames written differ from declared count")
	ErrClosed             = errors.New("wav: writer is closed")
	ErrTooManyFrames      = errors.New("wav: frame count does not fit in a RIFF header")
)

// Format describes the PCM stream. The channel count is always Channels.
type Format struct {
	SampleWidth int // Bytes per sample, 1 or 2.
	FrameRate   int // Frames per second.

	// Unclamped disables saturation: out of range samples wrap around
	// instead of sticking at the integer limits.
	Unclamped bool
}

// Validate reports whether f can be written.
func (f Format) Validate() error {
	if f.SampleWidth != 1 && f.SampleWidth != 2 {
		return fmt.Errorf("%w, got %d", ErrSampleWidth, f.SampleWidth)
	}
	if f.FrameRate <= 0 {
		return fmt.Errorf("%w, got %d", ErrFrameRate, f.FrameRate)
	}
	return nil
}

// ratio is the full-scale multiplier for a sample width.
func (f Format) ratio() float64 {
	if f.SampleWidth == 1 {
		return 255.0
	}
	return 32767.0
}

// MaxFrames returns the largest frame count whose data chunk still fits the
// 32-bit RIFF size fields.
func (f Format) MaxFrames() int {
	if f.Validate() != nil {
		return 0
	}
	n := (math.MaxUint32 - (HeaderSize - 8)) / int64(Channels*f.SampleWidth)
	return int(min(n, math.MaxInt))
}

// Writer streams samples into a WAV file.
type Writer struct {
	sink     io.Writer
	buf      *bufio.Writer
	format   Format
	ratio    float64
	declared int // UnknownFrameCount if the header must be patched on Close.
	written  int
	limit    int // Most frames the header can describe.
	frame    [2]byte
	closed   bool
}

// Open writes the header to sink and returns a Writer for the payload.
//
// With a known frameCount the final header is written straight away and
// exactly that many frames must follow. With UnknownFrameCount a zeroed
// placeholder is written, so sink must be an io.WriteSeeker; if Close never
// runs the file keeps that placeholder and its declared lengths stay zero.
func Open(sink io.Writer, format Format, frameCount int) (*Writer, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if frameCount < UnknownFrameCount {
		return nil, fmt.Errorf("wav: invalid frame count %d", frameCount)
	}
	if frameCount > format.MaxFrames() {
		return nil, fmt.Errorf("%w: %d frames of %d bytes", ErrTooManyFrames, frameCount, format.SampleWidth)
	}

	w := &Writer{
		sink:     sink,
		buf:      bufio.NewWriter(sink),
		format:   format,
		ratio:    format.ratio(),
		declared: frameCount,
		limit:    format.MaxFrames(),
	}

	var header []byte
	if frameCount == UnknownFrameCount {
		if _, ok := sink.(io.WriteSeeker); !ok {
			return nil, ErrNotSeekable
		}
		header = make([]byte, HeaderSize)
	} else {
		var err error
		header, err = NewHeader(format, frameCount).MarshalBinary()
		if err != nil {
			return nil, err
		}
	}

	if _, err := w.buf.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return w, nil
}

// Format returns the stream format.
func (w *Writer) Format() Format {
	return w.format
}

// Tell returns the number of frames written so far.
func (w *Writer) Tell() int {
	return w.written
}

// EOF reports whether a declared frame count has been reached.
// It is always false when the frame count was unknown.
func (w *Writer) EOF() bool {
	return w.declared != UnknownFrameCount && w.written >= w.declared
}

// encode converts one sample to a little-endian signed integer of the format's width.
// The scaled value is truncated toward zero. NaN encodes as silence.
func (w *Writer) encode(x float64) []byte {
	v := math.Trunc(x * w.ratio)
	switch {
	case math.IsNaN(v):
		v = 0
	case w.format.Unclamped:
		// Keep the low 16 bits, as a plain integer conversion would.
		v = math.Mod(v, 1<<16)
	default:
		lo, hi := float64(math.MinInt16), float64(math.MaxInt16)
		if w.format.SampleWidth == 1 {
			lo, hi = math.MinInt8, math.MaxInt8
		}
		v = math.Max(lo, math.Min(hi, v))
	}

	n := int64(v)
	if w.format.SampleWidth == 1 {
		w.frame[0] = byte(int8(n))
		return w.frame[:1]
	}
	binary.LittleEndian.PutUint16(w.frame[:], uint16(int16(n)))
	return w.frame[:2]
}

func (w *Writer) writeSample(x float64) error {
	if w.closed {
		return ErrClosed
	}
	if w.EOF() {
		return fmt.Errorf("%w: declared %d", ErrFrameOverflow, w.declared)
	}
	if w.written >= w.limit {
		return fmt.Errorf("%w: %d frames written", ErrTooManyFrames, w.written)
	}
	if _, err := w.buf.Write(w.encode(x)); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", w.written, err)
	}
	w.written++
	return nil
}

// WriteSamples appends samples to the payload.
func (w *Writer) WriteSamples(samples []float64) error {
	for _, x := range samples {
		if err := w.writeSample(x); err != nil {
			return err
		}
	}
	return nil
}

// Write pulls s until it is exhausted, appending every sample to the payload.
func (w *Writer) Write(s signal.Signal) error {
	for {
		x, ok := s.Next()
		if !ok {
			return nil
		}
		if err := w.writeSample(x); err != nil {
			return err
		}
	}
}

// WriteRaw appends already encoded frames. len(p) must be a multiple of the sample width.
func (w *Writer) WriteRaw(p []byte) error {
	if w.closed {
		return ErrClosed
	}
	if len(p)%w.format.SampleWidth != 0 {
		return fmt.Errorf("wav: raw write of %d bytes is not a whole number of frames", len(p))
	}
	frames := len(p) / w.format.SampleWidth
	if w.declared != UnknownFrameCount && w.written+frames > w.declared {
		return fmt.Errorf("%w: declared %d", ErrFrameOverflow, w.declared)
	}
	if w.written+frames > w.limit {
		return fmt.Errorf("%w: %d frames written", ErrTooManyFrames, w.written+frames)
	}
	if _, err := w.buf.Write(p); err != nil {
		return fmt.Errorf("failed to write raw frames: %w", err)
	}
	w.written += frames
	return nil
}

// Close flushes the payload and, if the frame count was unknown at Open, rewrites
// the header with the number of frames actually written. It does not close the sink.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush payload: %w", err)
	}

	if w.declared != UnknownFrameCount {
		if w.written != w.declared {
			return fmt.Errorf("%w: declared %d, wrote %d", ErrFrameCountMismatch, w.declared, w.written)
		}
		return nil
	}

	ws := w.sink.(io.WriteSeeker)
	header, err := NewHeader(w.format, w.written).MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := ws.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to header: %w", err)
	}
	if _, err := ws.Write(header); err != nil {
		return fmt.Errorf("failed to rewrite header: %w", err)
	}
	if _, err := ws.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}
	return nil
}
