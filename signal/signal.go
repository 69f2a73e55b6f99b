// Package signal implements lazily evaluated sample sequences and the
// combinators used to build a tone out of oscillators and envelopes.
//
// A Signal is pulled one sample at a time. Each pull advances internal
// state, so a Signal must only be consumed by a single loop and cannot be
// rewound. Combinators wrap their inputs and pull from them depth-first,
// which keeps memory use constant regardless of duration.
package signal

import (
	"errors"
	"math"
)

// ErrNoInputs is returned by combinators that need at least one input signal.
var ErrNoInputs = errors.New("signal: no input signals")

// Signal is a stream of samples, conceptually in [-1.0, 1.0].
type Signal interface {
	// Next returns the next sample. The second result is false once the
	// sequence is exhausted, after which Next keeps returning false.
	Next() (float64, bool)
}

// Func adapts an ordinary function to the Signal interface.
type Func func() (float64, bool)

// Next calls f().
func (f Func) Next() (float64, bool) {
	return f()
}

// Frames converts a duration in seconds into a whole number of frames at the given rate.
// NaN gives 0 and results outside the int32 range saturate.
func Frames(frameRate int, duration float64) int {
	n := math.Round(float64(frameRate) * duration)
	switch {
	case math.IsNaN(n):
		return 0
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	}
	return int(n)
}

// Values returns a finite signal that emits vs in order.
func Values(vs ...float64) Signal {
	i := 0
	return Func(func() (float64, bool) {
		if i >= len(vs) {
			return 0, false
		}
		v := vs[i]
		i++
		return v, true
	})
}

// Constant returns an infinite signal that always emits v.
func Constant(v float64) Signal {
	return Func(func() (float64, bool) {
		return v, true
	})
}

// Collect drains s into a slice. A negative limit drains until exhaustion,
// which never returns for an infinite signal.
func Collect(s Signal, limit int) []float64 {
	var out []float64
	if limit > 0 {
		out = make([]float64, 0, limit)
	}
	for limit < 0 || len(out) < limit {
		v, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

// Len drains a finite signal and returns how many samples it produced.
func Len(s Signal) int {
	n := 0
	for {
		if _, ok := s.Next(); !ok {
			return n
		}
		n++
	}
}
