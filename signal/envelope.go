package signal

// Envelope returns a linear gain ramp from a0 to a1 lasting duration seconds.
//
// The ramp has n = round(frameRate*duration) samples, sample i being
// a0 + (i+1)*(a1-a0)/n: the first sample is one step past a0 and the last is
// exactly a1. A duration that rounds to zero frames gives an empty signal.
func Envelope(frameRate int, duration, a0, a1 float64) Signal {
	n := Frames(frameRate, duration)
	if n <= 0 {
		return Values()
	}

	step := (a1 - a0) / float64(n)
	i := 0
	return Func(func() (float64, bool) {
		if i >= n {
			return 0, false
		}
		i++
		if i == n {
			return a1, true
		}
		return a0 + float64(i)*step, true
	})
}
