package optim

import "math"

const invPhi = 0.6180339887498949 // (sqrt(5)-1)/2

// GoldenSection minimises a unimodal f on [lo, hi]. It stops when the
// bracket is narrower than tol or after maxIter evaluations past the first
// two, and returns the best abscissa seen with its value.
func GoldenSection(f func(float64) float64, lo, hi, tol float64, maxIter int) (x, fx float64) {
	if hi < lo {
		lo, hi = hi, lo
	}
	if maxIter <= 0 {
		maxIter = 100
	}
	tol = math.Max(tol, 0)

	a, b := lo, hi
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, fd := f(c), f(d)

	for range maxIter {
		if b-a <= tol {
			break
		}
		// Each step reuses one interior point, so only one new evaluation
		// is needed.
		if fc < fd {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = f(d)
		}
	}

	if fc < fd {
		return c, fc
	}
	return d, fd
}
