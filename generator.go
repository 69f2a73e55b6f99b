// Package tonegen renders composed tones into WAV files.
package tonegen

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/QEStudios/ToneGenerator/composer"
	"github.com/QEStudios/ToneGenerator/config"
	"github.com/QEStudios/ToneGenerator/oscillator"
	"github.com/QEStudios/ToneGenerator/signal"
	"github.com/QEStudios/ToneGenerator/tone"
	"github.com/QEStudios/ToneGenerator/wav"
)

// A Generator writes one tone file per call to Generate.
type Generator struct {
	cfg    *config.Config
	logger *log.Logger

	// If true the frame count is not declared up front: the header is written as
	// a placeholder and patched once the last sample is out.
	Stream bool

	// Optional seed for reproducible noise.
	Seed *uint64
}

// NewGenerator returns a Generator using cfg. A nil logger falls back to log.Default().
func NewGenerator(cfg *config.Config, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		cfg:    cfg,
		logger: logger,
	}
}

// Generate composes the tones with the given waveform and writes them to path.
// Composition errors are reported before the file is created.
func (g *Generator) Generate(path string, kind oscillator.Kind, tones []tone.Spec) (err error) {
	g.logger.Printf("Generating %s tone %v into %s", kind, tones, path)

	opts := g.cfg.Options()
	opts.Seed = g.Seed
	sig, err := composer.Compose(kind, g.cfg.FrameRate, tones, opts)
	if err != nil {
		return fmt.Errorf("compose error: %w", err)
	}

	frameCount := wav.UnknownFrameCount
	if !g.Stream {
		frameCount = composer.FrameCount(g.cfg.FrameRate, opts)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close file: %w", cerr))
		}
	}()

	frames, err := Render(file, g.cfg.Format(), frameCount, sig)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}

	g.logger.Printf("Wrote %d frames (%.3fs) to %s", frames, float64(frames)/float64(g.cfg.FrameRate), path)
	return nil
}

// Render writes sig to sink as a WAV stream and returns the number of frames written.
// The writer is closed on every path, so a streaming header is patched even if writing fails.
func Render(sink io.Writer, format wav.Format, frameCount int, sig signal.Signal) (frames int, err error) {
	w, err := wav.Open(sink, format, frameCount)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		frames = w.Tell()
	}()

	err = w.Write(sig)
	return
}
