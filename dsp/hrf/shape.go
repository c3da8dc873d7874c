package hrf

import (
	"math"

	"github.com/cwbudde/algo-bold/dsp/interp"
)

// FWHM returns the full width at half maximum of h sampled at times t, in
// the unit of t. Half-maximum crossings are located on the interpolating
// cubic spline through (t, h).
// It returns -1 when h does not cross its half maximum twice.
func FWHM(t, h []float64) float64 {
	if len(t) != len(h) || len(h) < 2 {
		return -1
	}
	peak := math.Inf(-1)
	for _, v := range h {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		return -1
	}

	roots := interp.Crossings(t, h, peak/2)
	if len(roots) < 2 {
		return -1
	}
	return math.Abs(roots[1] - roots[0])
}

// TimeToPeak returns t at the maximum of h.
func TimeToPeak(t, h []float64) float64 {
	if len(t) == 0 || len(t) != len(h) {
		return math.NaN()
	}
	best := 0
	for i, v := range h {
		if v > h[best] {
			best = i
		}
	}
	return t[best]
}
