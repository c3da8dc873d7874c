package bold

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-bold/dsp/conv"
	"github.com/cwbudde/algo-bold/dsp/hrf"
	"github.com/cwbudde/algo-bold/dsp/linop"
	"gonum.org/v1/gonum/mat"
)

// DefaultSupportThreshold selects the coefficients kept by the amplitude
// corrections: |x| > 1e-2·max|x|.
const DefaultSupportThreshold = 1e-2

// pinvRcond matches the relative singular value cutoff of the usual
// pseudo-inverse.
const pinvRcond = 1e-15

var errSVD = errors.New("bold: SVD did not converge")

// CorrectInnovationAmplitude removes the L1 shrinkage bias of a sparse
// innovation estimate. The support {k : |i[k]| > threshold·max|i|} is kept
// and the amplitudes on it are refit to y by least squares.
func CorrectInnovationAmplitude(i, y, h []float64, threshold float64) (Estimate, error) {
	if len(y) == 0 {
		return Estimate{}, ErrEmptySignal
	}
	if len(h) == 0 {
		return Estimate{}, ErrEmptyHRF
	}
	if len(i) != len(y) {
		return Estimate{}, fmt.Errorf("%w: innovation has %d samples, signal %d", ErrLengthMismatch, len(i), len(y))
	}

	n := len(y)
	hc, err := linop.CausalConvolution(h, n)
	if err != nil {
		return Estimate{}, err
	}
	integ := linop.Integration(n)
	support := supportOf(i, threshold)

	corrected := make([]float64, n)
	if len(support) > 0 {
		// Column k of H·Integ is h convolved with a unit step starting at k.
		a := mat.NewDense(n, len(support), nil)
		step := make([]float64, n)
		for c, k := range support {
			for j := range step {
				step[j] = 0
				if j >= k {
					step[j] = 1
				}
			}
			a.SetCol(c, hc.Op(step))
		}
		coef, err := pinvSolve(a, y)
		if err != nil {
			return Estimate{}, err
		}
		for c, k := range support {
			corrected[k] = coef[c]
		}
	}

	ai := integ.Op(corrected)
	return Estimate{
		AR: hc.Op(ai),
		AI: ai,
		I:  corrected,
	}, nil
}

// CorrectHRFAmplitude refits the dictionary coefficients z on their support
// to y given the activity ai. It returns the corrected HRF and weights.
func CorrectHRFAmplitude(z, y, ai []float64, dict *hrf.Dictionary, threshold float64) (h, coeffs []float64, err error) {
	if len(y) == 0 || len(ai) == 0 {
		return nil, nil, ErrEmptySignal
	}
	if len(ai) != len(y) {
		return nil, nil, fmt.Errorf("%w: activity has %d samples, signal %d", ErrLengthMismatch, len(ai), len(y))
	}
	d, err := dictionaryOperator(dict)
	if err != nil {
		return nil, nil, err
	}
	if len(z) != dict.Size() {
		return nil, nil, fmt.Errorf("%w: %d coefficients for %d atoms", ErrDictionary, len(z), dict.Size())
	}

	n := len(y)
	support := supportOf(z, threshold)
	coeffs = make([]float64, len(z))
	if len(support) > 0 {
		a := mat.NewDense(n, len(support), nil)
		for c, k := range support {
			col, err := conv.Causal(ai, dict.Atoms[k])
			if err != nil {
				return nil, nil, err
			}
			a.SetCol(c, col)
		}
		coef, err := pinvSolve(a, y)
		if err != nil {
			return nil, nil, err
		}
		for c, k := range support {
			coeffs[k] = coef[c]
		}
	}

	return d.Op(coeffs), coeffs, nil
}

func supportOf(x []float64, threshold float64) []int {
	peak := 0.0
	for _, v := range x {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		return nil
	}
	var idx []int
	for k, v := range x {
		if math.Abs(v) > threshold*peak {
			idx = append(idx, k)
		}
	}
	return idx
}

// pinvSolve returns pinv(a)·y through a thin SVD, discarding singular values
// below pinvRcond·max(s).
func pinvSolve(a *mat.Dense, y []float64) ([]float64, error) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, errSVD
	}
	s := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	cutoff := 0.0
	if len(s) > 0 {
		cutoff = pinvRcond * s[0]
	}

	var uty mat.VecDense
	uty.MulVec(u.T(), mat.NewVecDense(len(y), append([]float64(nil), y...)))
	for k, sv := range s {
		if sv > cutoff {
			uty.SetVec(k, uty.AtVec(k)/sv)
		} else {
			uty.SetVec(k, 0)
		}
	}

	var x mat.VecDense
	x.MulVec(&v, &uty)
	return mat.Col(nil, 0, &x), nil
}
