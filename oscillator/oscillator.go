// Package oscillator provides the four tone generators: sine, square, triangle and noise.
// Every oscillator is an infinite signal.Signal starting at phase zero.
package oscillator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/QEStudios/ToneGenerator/signal"
)

var (
	// ErrInvalidFrequency is returned when the frequency or frame rate is not a positive number.
	ErrInvalidFrequency = errors.New("oscillator: frequency and frame rate must be positive")
	// ErrPeriodTooShort is returned when the frequency is so high that a period rounds down to zero frames.
	ErrPeriodTooShort = errors.New("oscillator: frequency too high for frame rate")
	// ErrPeriodTooLong is returned when a period exceeds MaxPeriod frames.
	ErrPeriodTooLong = errors.New("oscillator: frequency too low for frame rate")
)

// MaxPeriod is the longest period, in frames, an oscillator accepts.
const MaxPeriod = math.MaxInt32

// Kind selects a waveform.
type Kind int

const (
	Sine Kind = iota
	Square
	Triangle
	Noise
)

var kindNames = map[Kind]string{
	Sine:     "sine",
	Square:   "square",
	Triangle: "triangle",
	Noise:    "noise",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a waveform name, ignoring case.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown waveform %q", s)
}

// New returns an oscillator of the given kind. Noise draws from an unseeded source.
func New(kind Kind, freq float64, frameRate int) (signal.Signal, error) {
	return newOscillator(kind, freq, frameRate, nil)
}

// NewSeeded is like New, but noise oscillators are reproducible for a given seed.
func NewSeeded(kind Kind, freq float64, frameRate int, seed uint64) (signal.Signal, error) {
	return newOscillator(kind, freq, frameRate, seededRand(seed))
}

func newOscillator(kind Kind, freq float64, frameRate int, rng *rand.Rand) (signal.Signal, error) {
	switch kind {
	case Sine:
		return NewSine(freq, frameRate)
	case Square:
		return NewSquare(freq, frameRate)
	case Triangle:
		return NewTriangle(freq, frameRate)
	case Noise:
		return NewNoise(freq, frameRate, rng)
	default:
		return nil, fmt.Errorf("invalid waveform kind: %d", kind)
	}
}

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func checkRate(freq float64, frameRate int) error {
	if frameRate <= 0 || !(freq > 0) || math.IsInf(freq, 0) {
		return fmt.Errorf("%w: %v Hz at %d Hz", ErrInvalidFrequency, freq, frameRate)
	}
	return nil
}

// SquarePeriod returns the half period, in frames, used by the square and noise oscillators:
// floor(frameRate / freq / 2).
func SquarePeriod(freq float64, frameRate int) (int, error) {
	if err := checkRate(freq, frameRate); err != nil {
		return 0, err
	}
	return period(float64(frameRate)/freq/2, freq, frameRate)
}

// TrianglePeriod returns the full period, in frames, of the triangle oscillator: floor(frameRate / freq).
func TrianglePeriod(freq float64, frameRate int) (int, error) {
	if err := checkRate(freq, frameRate); err != nil {
		return 0, err
	}
	return period(float64(frameRate)/freq, freq, frameRate)
}

func period(frames, freq float64, frameRate int) (int, error) {
	w := math.Floor(frames)
	switch {
	case w < 1:
		return 0, fmt.Errorf("%w: %v Hz at %d Hz", ErrPeriodTooShort, freq, frameRate)
	case w > MaxPeriod:
		return 0, fmt.Errorf("%w: %v Hz at %d Hz", ErrPeriodTooLong, freq, frameRate)
	}
	return int(w), nil
}

// NewSine returns sin(2π·freq·i/frameRate) for i = 0, 1, 2, ...
// The index is never wrapped.
func NewSine(freq float64, frameRate int) (signal.Signal, error) {
	if err := checkRate(freq, frameRate); err != nil {
		return nil, err
	}

	fr := 2 * math.Pi * freq / float64(frameRate)
	i := 0
	return signal.Func(func() (float64, bool) {
		v := math.Sin(float64(i) * fr)
		i++
		return v, true
	}), nil
}

// NewSquare returns w samples of +1.0 followed by w samples of -1.0, repeated,
// where w is SquarePeriod(freq, frameRate).
func NewSquare(freq float64, frameRate int) (signal.Signal, error) {
	w, err := SquarePeriod(freq, frameRate)
	if err != nil {
		return nil, err
	}

	i := 0
	return signal.Func(func() (float64, bool) {
		v := -1.0
		if i < w {
			v = 1.0
		}
		i = (i + 1) % (2 * w)
		return v, true
	}), nil
}

// NewTriangle returns a ramp from -1.0 rising by 2/w per sample that resets every w samples,
// w being TrianglePeriod(freq, frameRate). Despite the name the shape is a sawtooth.
func NewTriangle(freq float64, frameRate int) (signal.Signal, error) {
	w, err := TrianglePeriod(freq, frameRate)
	if err != nil {
		return nil, err
	}

	r := 2.0 / float64(w)
	i := 0
	return signal.Func(func() (float64, bool) {
		v := float64(i)*r - 1.0
		i = (i + 1) % w
		return v, true
	}), nil
}

// NewNoise returns sample-and-hold noise: a uniform value in [-1.0, 1.0) held for
// SquarePeriod(freq, frameRate) samples, then redrawn. A nil rng uses a randomly seeded source.
func NewNoise(freq float64, frameRate int, rng *rand.Rand) (signal.Signal, error) {
	w, err := SquarePeriod(freq, frameRate)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	var held float64
	i := 0
	return signal.Func(func() (float64, bool) {
		if i == 0 {
			held = 2*rng.Float64() - 1
		}
		i = (i + 1) % w
		return held, true
	}), nil
}
