// Package composer turns a waveform and a list of tones into one enveloped, finite signal.
package composer

import (
	"errors"
	"fmt"
	"math"

	"github.com/QEStudios/ToneGenerator/oscillator"
	"github.com/QEStudios/ToneGenerator/signal"
	"github.com/QEStudios/ToneGenerator/tone"
)

var (
	ErrNoTones       = errors.New("composer: no tones given")
	ErrEmptyEnvelope = errors.New("composer: envelope has no frames")
	ErrVolume        = errors.New("composer: volume must be a non-negative number")
	ErrDuration      = errors.New("composer: invalid envelope duration")
)

// MaxFrames is the longest sound, in frames, Compose will build.
const MaxFrames = math.MaxInt32

// Options shape the envelope of a composed sound.
type Options struct {
	Volume float64 // Peak gain reached at the end of the attack.
	Attack float64 // Seconds spent ramping from silence up to Volume.
	Decay  float64 // Seconds spent ramping from Volume back down to silence.

	// If non-nil, noise oscillators are seeded from this value (plus the tone's index)
	// so the output is reproducible.
	Seed *uint64
}

// DefaultOptions returns a short plucked envelope: 0.5 volume, 10 ms attack, 700 ms decay.
func DefaultOptions() Options {
	return Options{
		Volume: 0.5,
		Attack: 0.01,
		Decay:  0.7,
	}
}

func (o Options) validate(frameRate int) error {
	if !(o.Volume >= 0) || math.IsInf(o.Volume, 0) {
		return fmt.Errorf("%w, got %v", ErrVolume, o.Volume)
	}
	for _, d := range []struct {
		name string
		secs float64
	}{{"attack", o.Attack}, {"decay", o.Decay}} {
		if !(d.secs >= 0) || math.IsInf(d.secs, 1) || d.secs*float64(frameRate) > MaxFrames {
			return fmt.Errorf("%w: %s %vs at %d Hz", ErrDuration, d.name, d.secs, frameRate)
		}
	}
	if o.Attack*float64(frameRate)+o.Decay*float64(frameRate) > MaxFrames {
		return fmt.Errorf("%w: attack %vs and decay %vs at %d Hz exceed %d frames", ErrDuration, o.Attack, o.Decay, frameRate, MaxFrames)
	}
	if FrameCount(frameRate, o) <= 0 {
		return fmt.Errorf("%w: attack %vs and decay %vs at %d Hz", ErrEmptyEnvelope, o.Attack, o.Decay, frameRate)
	}
	return nil
}

// FrameCount returns the exact length of a signal composed with opts at frameRate,
// which is the length of its envelope.
func FrameCount(frameRate int, opts Options) int {
	return max(signal.Frames(frameRate, opts.Attack), 0) + max(signal.Frames(frameRate, opts.Decay), 0)
}

// Envelope returns the attack/decay gain curve for opts.
func Envelope(frameRate int, opts Options) signal.Signal {
	return signal.Concat(
		signal.Envelope(frameRate, opts.Attack, 0, opts.Volume),
		signal.Envelope(frameRate, opts.Decay, opts.Volume, 0),
	)
}

// Compose builds one oscillator of the given kind per tone, averages them, and
// multiplies the mix by the attack/decay envelope. The result ends with the envelope.
func Compose(kind oscillator.Kind, frameRate int, tones []tone.Spec, opts Options) (signal.Signal, error) {
	if len(tones) == 0 {
		return nil, ErrNoTones
	}
	if err := opts.validate(frameRate); err != nil {
		return nil, err
	}

	oscs := make([]signal.Signal, 0, len(tones))
	for i, t := range tones {
		var (
			osc signal.Signal
			err error
		)
		if opts.Seed != nil {
			osc, err = oscillator.NewSeeded(kind, t.Frequency(), frameRate, *opts.Seed+uint64(i))
		} else {
			osc, err = oscillator.New(kind, t.Frequency(), frameRate)
		}
		if err != nil {
			return nil, fmt.Errorf("tone %s: %w", t, err)
		}
		oscs = append(oscs, osc)
	}

	wav, err := signal.Mix(oscs...)
	if err != nil {
		return nil, err
	}
	return signal.Mult(wav, Envelope(frameRate, opts)), nil
}
