package testutil

import (
	"math"
	"math/rand"
)

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Blocks returns a piecewise-constant activity signal of the given length
// with unit blocks [start, start+width) for each start.
func Blocks(length, width int, starts ...int) []float64 {
	out := make([]float64, length)
	for _, s := range starts {
		for i := s; i < s+width && i < length; i++ {
			if i >= 0 {
				out[i] = 1
			}
		}
	}
	return out
}

// Innovation returns the first difference of ai with a leading zero, the
// spike train whose cumulative sum is ai.
func Innovation(ai []float64) []float64 {
	out := make([]float64, len(ai))
	for i := 1; i < len(ai); i++ {
		out[i] = ai[i] - ai[i-1]
	}
	return out
}

// GammaHRF returns a short, smooth, positive response with unit maximum at
// peak samples. It is a cheap stand-in for the SPM model in unit tests.
func GammaHRF(length int, peak float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		x := float64(i) / peak
		out[i] = x * x * math.Exp(-2*(x-1))
	}
	return out
}
