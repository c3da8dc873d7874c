package interp

import (
	gointerp "gonum.org/v1/gonum/interp"
)

// minSplinePoints is the smallest sample count fitted with a cubic spline.
// Shorter curves are interpolated linearly.
const minSplinePoints = 4

// Curve is a continuous interpolant through sampled points.
type Curve interface {
	Predict(x float64) float64
}

// Fit returns the not-a-knot cubic spline through (t, y), matching an
// interpolating cubic B-spline with no smoothing. Curves with fewer than
// four samples, or whose spline system is singular, fall back to a
// piecewise linear interpolant. t must be strictly increasing with
// len(t) == len(y) >= 2.
func Fit(t, y []float64) Curve {
	if len(t) >= minSplinePoints {
		var nak gointerp.NotAKnotCubic
		if err := nak.Fit(t, y); err == nil {
			return &nak
		}
	}
	var pl gointerp.PiecewiseLinear
	if err := pl.Fit(t, y); err != nil {
		return nil
	}
	return &pl
}

// Crossings returns the abscissae where the cubic spline through (t, y)
// crosses level, in increasing order. t must be strictly increasing with
// len(t) == len(y).
func Crossings(t, y []float64, level float64) []float64 {
	if len(t) != len(y) || len(y) < 2 {
		return nil
	}
	c := Fit(t, y)
	if c == nil {
		return nil
	}

	var out []float64
	for i := 0; i < len(y)-1; i++ {
		a := y[i] - level
		b := y[i+1] - level
		if a == 0 {
			out = append(out, t[i])
			continue
		}
		if a*b >= 0 {
			continue
		}
		out = append(out, bisect(c, t[i], t[i+1], level))
	}
	if y[len(y)-1] == level {
		out = append(out, t[len(t)-1])
	}
	return out
}

// bisect locates the crossing of level by c inside [lo, hi]. The curve
// must lie on opposite sides of level at the two ends.
func bisect(c Curve, lo, hi, level float64) float64 {
	fLo := c.Predict(lo) - level
	for range 60 {
		mid := 0.5 * (lo + hi)
		fMid := c.Predict(mid) - level
		if fMid == 0 {
			return mid
		}
		if (fMid < 0) == (fLo < 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}
