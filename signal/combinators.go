package signal

// pointwise folds one sample from every input into each output sample.
// It ends as soon as any input ends.
type pointwise struct {
	inputs   []Signal
	identity float64
	fold     func(acc, x float64) float64
	done     bool
}

func (p *pointwise) Next() (float64, bool) {
	if p.done || len(p.inputs) == 0 {
		return 0, false
	}

	acc := p.identity
	for _, in := range p.inputs {
		x, ok := in.Next()
		if !ok {
			// The remaining inputs are dropped, they will never be pulled again.
			p.done = true
			p.inputs = nil
			return 0, false
		}
		acc = p.fold(acc, x)
	}
	return acc, true
}

// Add sums its inputs sample by sample. The result is as long as the shortest input.
func Add(sigs ...Signal) Signal {
	return &pointwise{
		inputs:   sigs,
		identity: 0,
		fold:     func(acc, x float64) float64 { return acc + x },
	}
}

// Mult multiplies its inputs sample by sample. The result is as long as the shortest input,
// so a finite envelope bounds an infinite oscillator.
func Mult(sigs ...Signal) Signal {
	return &pointwise{
		inputs:   sigs,
		identity: 1,
		fold:     func(acc, x float64) float64 { return acc * x },
	}
}

// Amp scales every sample of s by volume.
func Amp(volume float64, s Signal) Signal {
	return Func(func() (float64, bool) {
		x, ok := s.Next()
		if !ok {
			return 0, false
		}
		return volume * x, true
	})
}

// Mix averages its inputs, so N full-scale signals stay within full scale.
func Mix(sigs ...Signal) (Signal, error) {
	if len(sigs) == 0 {
		return nil, ErrNoInputs
	}
	return Amp(1/float64(len(sigs)), Add(sigs...)), nil
}

// Concat plays each input to exhaustion in turn. Only the last input may be infinite.
func Concat(sigs ...Signal) Signal {
	i := 0
	return Func(func() (float64, bool) {
		for i < len(sigs) {
			if x, ok := sigs[i].Next(); ok {
				return x, true
			}
			i++
		}
		return 0, false
	})
}

// Take emits at most n samples of s.
func Take(n int, s Signal) Signal {
	remaining := n
	return Func(func() (float64, bool) {
		if remaining <= 0 {
			return 0, false
		}
		x, ok := s.Next()
		if !ok {
			remaining = 0
			return 0, false
		}
		remaining--
		return x, true
	})
}

// Cut limits s to the given duration in seconds at frameRate.
func Cut(frameRate int, duration float64, s Signal) Signal {
	return Take(Frames(frameRate, duration), s)
}
