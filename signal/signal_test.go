package signal

import (
	"errors"
	"math"
	"testing"

	"github.com/faiface/beep"
)

const rate = 44100

// counter is an infinite ramp 0, 1, 2, ...
func counter() Signal {
	i := 0.0
	return Func(func() (float64, bool) {
		v := i
		i++
		return v, true
	})
}

func equalSlices(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			return false
		}
	}
	return true
}

func TestAddShortestWins(t *testing.T) {
	tests := []struct {
		name string
		sigs []Signal
		want []float64
	}{
		{"equal", []Signal{Values(1, 2, 3), Values(10, 20, 30)}, []float64{11, 22, 33}},
		{"first shorter", []Signal{Values(1, 2), Values(10, 20, 30)}, []float64{11, 22}},
		{"last shorter", []Signal{Values(1, 2, 3), Values(10)}, []float64{11}},
		{"with infinite", []Signal{counter(), Values(5, 5, 5, 5)}, []float64{5, 6, 7, 8}},
		{"empty input", []Signal{counter(), Values()}, nil},
		{"no inputs", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Collect(Add(tt.sigs...), -1)
			if !equalSlices(got, tt.want) {
				t.Errorf("Add = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMultShortestWins(t *testing.T) {
	got := Collect(Mult(counter(), Values(2, 2, 2)), -1)
	if want := []float64{0, 2, 4}; !equalSlices(got, want) {
		t.Errorf("Mult = %v, want %v", got, want)
	}

	got = Collect(Mult(Values(1, 2, 3, 4), Values(0.5, 0.5)), -1)
	if want := []float64{0.5, 1}; !equalSlices(got, want) {
		t.Errorf("Mult = %v, want %v", got, want)
	}
}

func TestExhaustionIsSticky(t *testing.T) {
	s := Add(Values(1), counter())
	if _, ok := s.Next(); !ok {
		t.Fatal("first sample missing")
	}
	for i := 0; i < 3; i++ {
		if _, ok := s.Next(); ok {
			t.Fatalf("pull %d after exhaustion returned a sample", i)
		}
	}
}

func TestInfiniteInputsNeedBound(t *testing.T) {
	got := Collect(Add(Constant(0.25), Constant(0.5)), 1000)
	if len(got) != 1000 {
		t.Fatalf("Collect with limit returned %d samples", len(got))
	}
	for _, v := range got {
		if v != 0.75 {
			t.Fatalf("Add of constants = %v, want 0.75", v)
		}
	}

	if n := Len(Cut(rate, 0.5, Add(Constant(1), Constant(1)))); n != 22050 {
		t.Errorf("Cut of infinite Add has %d samples, want 22050", n)
	}
}

func TestAmp(t *testing.T) {
	got := Collect(Amp(0.5, Values(1, -1, 0.5)), -1)
	if want := []float64{0.5, -0.5, 0.25}; !equalSlices(got, want) {
		t.Errorf("Amp = %v, want %v", got, want)
	}

	if n := len(Collect(Amp(2, counter()), 10)); n != 10 {
		t.Errorf("Amp of infinite signal ended after %d samples", n)
	}
}

func TestConcat(t *testing.T) {
	got := Collect(Concat(Values(1, 2), Values(), Values(3)), -1)
	if want := []float64{1, 2, 3}; !equalSlices(got, want) {
		t.Errorf("Concat = %v, want %v", got, want)
	}

	got = Collect(Concat(Values(-1), counter()), 4)
	if want := []float64{-1, 0, 1, 2}; !equalSlices(got, want) {
		t.Errorf("Concat into infinite = %v, want %v", got, want)
	}

	if n := Len(Concat()); n != 0 {
		t.Errorf("empty Concat produced %d samples", n)
	}
}

func TestCut(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		sig      Signal
		want     int
	}{
		{"infinite", 0.01, counter(), 441},
		{"rounds", 0.7, counter(), 30870},
		{"upstream shorter", 1, Values(1, 2, 3), 3},
		{"zero", 0, counter(), 0},
		{"negative", -1, counter(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if n := Len(Cut(rate, tt.duration, tt.sig)); n != tt.want {
				t.Errorf("Cut(%v) has %d samples, want %d", tt.duration, n, tt.want)
			}
		})
	}
}

func TestMix(t *testing.T) {
	if _, err := Mix(); !errors.Is(err, ErrNoInputs) {
		t.Errorf("Mix() error = %v, want ErrNoInputs", err)
	}

	mixed, err := Mix(Values(1, 1), Values(0, -1), Values(-1, 0.5))
	if err != nil {
		t.Fatalf("Mix error: %v", err)
	}
	got := Collect(mixed, -1)
	if want := []float64{0, 0.5 / 3}; !equalSlices(got, want) {
		t.Errorf("Mix = %v, want %v", got, want)
	}
}

func TestFrames(t *testing.T) {
	tests := []struct {
		dur  float64
		want int
	}{
		{0.01, 441},
		{0.7, 30870},
		{-1, -44100},
		{math.NaN(), 0},
		{math.Inf(1), math.MaxInt32},
		{1e300, math.MaxInt32},
		{math.Inf(-1), math.MinInt32},
	}
	for _, tt := range tests {
		if got := Frames(rate, tt.dur); got != tt.want {
			t.Errorf("Frames(%d, %v) = %d, want %d", rate, tt.dur, got, tt.want)
		}
	}
	if n := Len(Envelope(rate, math.NaN(), 0, 1)); n != 0 {
		t.Errorf("envelope of NaN duration has %d samples", n)
	}
}

func TestEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		a0, a1   float64
		wantLen  int
	}{
		{"attack", 0.01, 0, 0.5, 441},
		{"decay", 0.7, 0.5, 0, 30870},
		{"single frame", 1.0 / rate, 0, 1, 1},
		{"zero", 0, 0, 1, 0},
		{"rounds to zero", 0.4 / rate, 0, 1, 0},
		{"negative", -0.5, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Collect(Envelope(rate, tt.duration, tt.a0, tt.a1), -1)
			if len(got) != tt.wantLen {
				t.Fatalf("Envelope has %d samples, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen == 0 {
				return
			}
			if last := got[len(got)-1]; last != tt.a1 {
				t.Errorf("last sample = %v, want exactly %v", last, tt.a1)
			}
			step := (tt.a1 - tt.a0) / float64(tt.wantLen)
			if first := got[0]; math.Abs(first-(tt.a0+step)) > 1e-12 {
				t.Errorf("first sample = %v, want %v", first, tt.a0+step)
			}
		})
	}
}

func TestEnvelopeLinear(t *testing.T) {
	got := Collect(Envelope(4, 1, 0, 1), -1)
	if want := []float64{0.25, 0.5, 0.75, 1}; !equalSlices(got, want) {
		t.Errorf("Envelope = %v, want %v", got, want)
	}
	got = Collect(Envelope(4, 1, 1, 0), -1)
	if want := []float64{0.75, 0.5, 0.25, 0}; !equalSlices(got, want) {
		t.Errorf("Envelope = %v, want %v", got, want)
	}
}

func TestStreamer(t *testing.T) {
	st := Streamer(Values(0.1, 0.2, 0.3))

	buf := make([][2]float64, 2)
	n, ok := st.Stream(buf)
	if n != 2 || !ok {
		t.Fatalf("Stream = (%d, %v), want (2, true)", n, ok)
	}
	if buf[0] != [2]float64{0.1, 0.1} || buf[1] != [2]float64{0.2, 0.2} {
		t.Errorf("Stream filled %v", buf)
	}

	n, ok = st.Stream(buf)
	if n != 1 || !ok {
		t.Fatalf("partial Stream = (%d, %v), want (1, true)", n, ok)
	}
	n, ok = st.Stream(buf)
	if n != 0 || ok {
		t.Errorf("drained Stream = (%d, %v), want (0, false)", n, ok)
	}
	if st.Err() != nil {
		t.Errorf("Err() = %v", st.Err())
	}
}

func TestStreamerWithBeepTake(t *testing.T) {
	st := beep.Take(100, Streamer(Constant(0.5)))

	total := 0
	buf := make([][2]float64, 64)
	for {
		n, ok := st.Stream(buf)
		for _, frame := range buf[:n] {
			if frame[0] != 0.5 || frame[1] != 0.5 {
				t.Fatalf("frame = %v, want [0.5 0.5]", frame)
			}
		}
		total += n
		if !ok {
			break
		}
	}
	if total != 100 {
		t.Errorf("beep.Take streamed %d frames, want 100", total)
	}
}
