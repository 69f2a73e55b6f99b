// Package tone maps tone specifiers, note names such as A4 or ^C5 and plain
// frequencies, to frequencies in Hz.
package tone

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// SharpPrefix marks a raised note name, e.g. "^C5" is C#5.
const SharpPrefix = "^"

// ErrInvalidSpec is returned for tone specifiers that are neither a known note name nor a positive frequency.
var ErrInvalidSpec = errors.New("invalid tone specifier")

type note struct {
	name string
	freq int // Pre-rounded frequency in Hz.
}

// The 88 keys of a piano, A0 through C8, in ascending pitch order.
var notes = [...]note{
	{"A0", 28},
	{"^A0", 29},
	{"B0", 31},
	{"C1", 33},
	{"^C1", 35},
	{"D1", 37},
	{"^D1", 39},
	{"E1", 41},
	{"F1", 44},
	{"^F1", 46},
	{"G1", 49},
	{"^G1", 52},
	{"A1", 55},
	{"^A1", 58},
	{"B1", 62},
	{"C2", 65},
	{"^C2", 69},
	{"D2", 73},
	{"^D2", 78},
	{"E2", 82},
	{"F2", 87},
	{"^F2", 93},
	{"G2", 98},
	{"^G2", 104},
	{"A2", 110},
	{"^A2", 117},
	{"B2", 123},
	{"C3", 131},
	{"^C3", 139},
	{"D3", 147},
	{"^D3", 156},
	{"E3", 165},
	{"F3", 175},
	{"^F3", 185},
	{"G3", 196},
	{"^G3", 208},
	{"A3", 220},
	{"^A3", 233},
	{"B3", 247},
	{"C4", 262},
	{"^C4", 277},
	{"D4", 294},
	{"^D4", 311},
	{"E4", 330},
	{"F4", 349},
	{"^F4", 370},
	{"G4", 392},
	{"^G4", 415},
	{"A4", 440},
	{"^A4", 466},
	{"B4", 494},
	{"C5", 523},
	{"^C5", 554},
	{"D5", 587},
	{"^D5", 622},
	{"E5", 659},
	{"F5", 698},
	{"^F5", 740},
	{"G5", 784},
	{"^G5", 831},
	{"A5", 880},
	{"^A5", 932},
	{"B5", 988},
	{"C6", 1047},
	{"^C6", 1109},
	{"D6", 1175},
	{"^D6", 1245},
	{"E6", 1319},
	{"F6", 1397},
	{"^F6", 1480},
	{"G6", 1568},
	{"^G6", 1661},
	{"A6", 1760},
	{"^A6", 1865},
	{"B6", 1976},
	{"C7", 2093},
	{"^C7", 2217},
	{"D7", 2349},
	{"^D7", 2489},
	{"E7", 2637},
	{"F7", 2794},
	{"^F7", 2960},
	{"G7", 3136},
	{"^G7", 3322},
	{"A7", 3520},
	{"^A7", 3729},
	{"B7", 3951},
	{"C8", 4186},
}

var noteFreqs = func() map[string]float64 {
	m := make(map[string]float64, len(notes))
	for _, n := range notes {
		m[n.name] = float64(n.freq)
	}
	return m
}()

// Lookup returns the tabulated frequency of a note name. Matching is exact and case-sensitive.
func Lookup(name string) (float64, bool) {
	freq, ok := noteFreqs[name]
	return freq, ok
}

// Names returns every note name in the table, lowest pitch first.
func Names() []string {
	names := make([]string, len(notes))
	for i, n := range notes {
		names[i] = n.name
	}
	return names
}

// A Spec identifies the pitch of one oscillator, either by note name or by a raw frequency.
type Spec struct {
	name string  // The note name, empty for numeric specifiers.
	freq float64 // The resolved frequency in Hz.
}

// Parse resolves a tone specifier. Known note names take priority;
// anything else must parse as a positive, finite frequency in Hz.
func Parse(s string) (Spec, error) {
	if freq, ok := Lookup(s); ok {
		return Spec{name: s, freq: freq}, nil
	}

	freq, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q is not a note name or a number", ErrInvalidSpec, s)
	}
	return Hz(freq)
}

// Hz returns a numeric specifier for the given frequency.
func Hz(freq float64) (Spec, error) {
	if math.IsNaN(freq) || math.IsInf(freq, 0) || freq <= 0 {
		return Spec{}, fmt.Errorf("%w: frequency must be positive, got %v", ErrInvalidSpec, freq)
	}
	return Spec{freq: freq}, nil
}

// ParseAll parses every specifier in order, stopping at the first invalid one.
func ParseAll(args []string) ([]Spec, error) {
	specs := make([]Spec, 0, len(args))
	for i, arg := range args {
		spec, err := Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("tone %d: %w", i+1, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Resolve is shorthand for Parse followed by Frequency.
func Resolve(s string) (float64, error) {
	spec, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return spec.Frequency(), nil
}

// Frequency returns the pitch in Hz.
func (s Spec) Frequency() float64 {
	return s.freq
}

// Name returns the note name, or "" if the specifier was numeric.
func (s Spec) Name() string {
	return s.name
}

func (s Spec) String() string {
	if s.name != "" {
		return s.name
	}
	return strconv.FormatFloat(s.freq, 'g', -1, 64) + "Hz"
}
