package signal

import "github.com/faiface/beep"

type streamer struct {
	s Signal
}

// Streamer exposes s as a beep.Streamer. The mono signal is copied to both channels.
func Streamer(s Signal) beep.Streamer {
	return &streamer{s: s}
}

func (st *streamer) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		x, more := st.s.Next()
		if !more {
			return i, i > 0
		}
		samples[i][0] = x
		samples[i][1] = x
	}
	return len(samples), true
}

func (*streamer) Err() error {
	return nil
}
