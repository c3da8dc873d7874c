package bold

import (
	"fmt"

	"github.com/cwbudde/algo-bold/dsp/core"
	"github.com/cwbudde/algo-bold/dsp/hrf"
	"github.com/cwbudde/algo-bold/dsp/linop"
	"github.com/sirupsen/logrus"
)

// InitTimeLength is the SPM time length of the starting HRF used by
// blind deconvolution when no initial HRF is given.
const InitTimeLength = 30.0

// BlindOptions configures BlindDeconvolve.
type BlindOptions struct {
	LambdaBold float64
	LambdaHRF  float64
	// Iterations is the number of alternating rounds.
	Iterations int
	// InnerMaxIter caps the FISTA iterations of each step.
	InnerMaxIter int
	// InitHRF is the starting HRF. When nil, the SPM response with a 30 s
	// time length is used. It is truncated or zero-padded to the
	// dictionary length.
	InitHRF []float64
	Logger  logrus.FieldLogger
}

// DefaultBlindOptions returns ten rounds of 2000-iteration steps.
func DefaultBlindOptions() BlindOptions {
	return BlindOptions{
		LambdaBold:   1.0,
		LambdaHRF:    1e-4,
		Iterations:   10,
		InnerMaxIter: 2000,
	}
}

// BlindResult is the output of a blind deconvolution.
type BlindResult struct {
	AR, AI, I []float64
	HRF       []float64
	Coeffs    []float64
	// Cost holds ½||ar - y||² + LambdaBold·||i||₁ + LambdaHRF·||z||₁
	// after each round.
	Cost []float64
}

// BlindDeconvolve jointly estimates the innovation signal and the HRF of y
// by alternating minimisation: a BOLD deconvolution with the current HRF,
// then a sparse HRF estimation on dict with the current activity.
func BlindDeconvolve(y []float64, dict *hrf.Dictionary, opts BlindOptions) (BlindResult, error) {
	if len(y) == 0 {
		return BlindResult{}, ErrEmptySignal
	}
	if err := checkLambda(opts.LambdaBold); err != nil {
		return BlindResult{}, err
	}
	if err := checkLambda(opts.LambdaHRF); err != nil {
		return BlindResult{}, err
	}
	if dict == nil || dict.Size() == 0 || dict.Len() == 0 {
		return BlindResult{}, ErrDictionary
	}
	def := DefaultBlindOptions()
	if opts.Iterations <= 0 {
		opts.Iterations = def.Iterations
	}
	if opts.InnerMaxIter <= 0 {
		opts.InnerMaxIter = def.InnerMaxIter
	}

	h, err := initialHRF(dict, opts.InitHRF)
	if err != nil {
		return BlindResult{}, err
	}

	boldOpts := Options{Lambda: opts.LambdaBold, MaxIter: opts.InnerMaxIter, Logger: opts.Logger}
	hrfOpts := Options{Lambda: opts.LambdaHRF, MaxIter: opts.InnerMaxIter, Logger: opts.Logger}
	log := boldOpts.logger()

	var out BlindResult
	out.Cost = make([]float64, 0, opts.Iterations)
	for round := range opts.Iterations {
		est, err := Deconvolve(y, h, boldOpts)
		if err != nil {
			return BlindResult{}, fmt.Errorf("round %d: %w", round+1, err)
		}
		hEst, err := EstimateHRF(est.AI, y, dict, hrfOpts)
		if err != nil {
			return BlindResult{}, fmt.Errorf("round %d: %w", round+1, err)
		}
		h = hEst.HRF

		hc, err := linop.CausalConvolution(h, len(y))
		if err != nil {
			return BlindResult{}, err
		}
		ar := hc.Op(est.AI)

		cost := 0.5*sumSquaredDiff(ar, y) + opts.LambdaBold*l1(est.I) + opts.LambdaHRF*l1(hEst.Coeffs)
		out = BlindResult{
			AR:     ar,
			AI:     est.AI,
			I:      est.I,
			HRF:    h,
			Coeffs: hEst.Coeffs,
			Cost:   append(out.Cost, cost),
		}
		log.WithFields(logrus.Fields{
			"round":      round + 1,
			"cost":       cost,
			"bold_iters": est.Iterations,
			"hrf_iters":  hEst.Iterations,
		}).Debug("blind deconvolution round")
	}

	return out, nil
}

func initialHRF(dict *hrf.Dictionary, init []float64) ([]float64, error) {
	if init == nil {
		resp, err := hrf.FromTimeLength(dict.TR, InitTimeLength, true)
		if err != nil {
			return nil, err
		}
		init = resp.Values
	}
	if len(init) == 0 {
		return nil, ErrEmptyHRF
	}
	return core.Resize(init, dict.Len()), nil
}
