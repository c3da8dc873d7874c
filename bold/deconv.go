package bold

import (
	"fmt"

	"github.com/cwbudde/algo-bold/dsp/hrf"
	"github.com/cwbudde/algo-bold/dsp/linop"
	"github.com/cwbudde/algo-bold/dsp/optim"
)

// Deconvolve estimates the innovation signal of y for a known HRF h by
// minimising ½||h * Integ(i) - y||² + Lambda·||i||₁.
func Deconvolve(y, h []float64, opts Options) (Estimate, error) {
	return deconvolve(y, h, opts, true)
}

// DeconvolveEvents is Deconvolve for event designs, where the activity is
// a spike train and no integration takes place:
// ½||h * i - y||² + Lambda·||i||₁.
func DeconvolveEvents(y, h []float64, opts Options) (Estimate, error) {
	return deconvolve(y, h, opts, false)
}

func deconvolve(y, h []float64, opts Options, integrate bool) (Estimate, error) {
	if len(y) == 0 {
		return Estimate{}, ErrEmptySignal
	}
	if len(h) == 0 {
		return Estimate{}, ErrEmptyHRF
	}
	if err := checkLambda(opts.Lambda); err != nil {
		return Estimate{}, err
	}

	n := len(y)
	hc, err := linop.CausalConvolution(h, n)
	if err != nil {
		return Estimate{}, err
	}
	integ := linop.Integration(n)

	var op linop.Operator = hc
	if integrate {
		if op, err = linop.Compose(hc, integ); err != nil {
			return Estimate{}, err
		}
	}

	f, err := optim.NewL2Residual(op, y)
	if err != nil {
		return Estimate{}, err
	}
	res, err := optim.FISTA(f, optim.L1{Lambda: opts.Lambda}, make([]float64, n), opts.solver())
	if err != nil {
		return Estimate{}, fmt.Errorf("bold: deconvolution: %w", err)
	}

	est := Estimate{
		I:          res.X,
		Cost:       res.Cost,
		Iterations: res.Iterations,
		Converged:  res.Converged,
	}
	if integrate {
		est.AI = integ.Op(res.X)
	} else {
		est.AI = append([]float64(nil), res.X...)
	}
	est.AR = hc.Op(est.AI)
	return est, nil
}

// EstimateHRF estimates the HRF of y for a known activity ai as a sparse
// combination of dictionary atoms by minimising
// ½||ai * (D·z) - y||² + Lambda·||z||₁.
func EstimateHRF(ai, y []float64, dict *hrf.Dictionary, opts Options) (HRFEstimate, error) {
	if len(y) == 0 || len(ai) == 0 {
		return HRFEstimate{}, ErrEmptySignal
	}
	if len(ai) != len(y) {
		return HRFEstimate{}, fmt.Errorf("%w: activity has %d samples, signal %d", ErrLengthMismatch, len(ai), len(y))
	}
	if err := checkLambda(opts.Lambda); err != nil {
		return HRFEstimate{}, err
	}

	d, err := dictionaryOperator(dict)
	if err != nil {
		return HRFEstimate{}, err
	}
	ac, err := linop.NewConvolution(ai, dict.Len(), len(y))
	if err != nil {
		return HRFEstimate{}, err
	}
	op, err := linop.Compose(ac, d)
	if err != nil {
		return HRFEstimate{}, err
	}

	f, err := optim.NewL2Residual(op, y)
	if err != nil {
		return HRFEstimate{}, err
	}
	res, err := optim.FISTA(f, optim.L1{Lambda: opts.Lambda}, make([]float64, dict.Size()), opts.solver())
	if err != nil {
		return HRFEstimate{}, fmt.Errorf("bold: HRF estimation: %w", err)
	}

	return HRFEstimate{
		HRF:        d.Op(res.X),
		Coeffs:     res.X,
		Cost:       res.Cost,
		Iterations: res.Iterations,
		Converged:  res.Converged,
	}, nil
}

func dictionaryOperator(dict *hrf.Dictionary) (*linop.Matrix, error) {
	if dict == nil || dict.Size() == 0 || dict.Len() == 0 {
		return nil, ErrDictionary
	}
	m, err := linop.FromColumns(dict.Atoms)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDictionary, err)
	}
	return m, nil
}
