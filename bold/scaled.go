package bold

import (
	"fmt"

	"github.com/cwbudde/algo-bold/dsp/conv"
	"github.com/cwbudde/algo-bold/dsp/hrf"
	"github.com/cwbudde/algo-bold/dsp/optim"
	"github.com/sirupsen/logrus"
)

// ScaledOptions configures ScaledBlindDeconvolve.
type ScaledOptions struct {
	TR         float64
	LambdaBold float64
	Iterations int
	// InnerMaxIter caps the FISTA iterations of each BOLD step.
	InnerMaxIter int
	// InitDelta is the starting dilation; DeltaMin and DeltaMax bound the
	// search.
	InitDelta float64
	DeltaMin  float64
	DeltaMax  float64
	// DeltaTol is the bracket width at which the dilation search stops.
	DeltaTol float64
	// HRFDuration is the length of the modelled HRF in seconds.
	HRFDuration float64
	Logger      logrus.FieldLogger
}

// DefaultScaledOptions returns the settings for an acquisition at tr.
func DefaultScaledOptions(tr float64) ScaledOptions {
	return ScaledOptions{
		TR:           tr,
		LambdaBold:   1.0,
		Iterations:   10,
		InnerMaxIter: 2000,
		InitDelta:    1.0,
		DeltaMin:     0.5,
		DeltaMax:     2.0,
		DeltaTol:     1e-3,
		HRFDuration:  30,
	}
}

// ScaledResult is the output of ScaledBlindDeconvolve.
type ScaledResult struct {
	AR, AI, I []float64
	HRF       []float64
	Delta     float64
	// Cost holds ½||ar - y||² + LambdaBold·||i||₁ after each round.
	Cost []float64
}

// ScaledBlindDeconvolve is a blind deconvolution where the HRF is the SPM
// model with a single unknown dilation. Each round deconvolves y with the
// current HRF, then searches the dilation that best explains y given the
// estimated activity.
func ScaledBlindDeconvolve(y []float64, opts ScaledOptions) (ScaledResult, error) {
	if len(y) == 0 {
		return ScaledResult{}, ErrEmptySignal
	}
	if err := checkLambda(opts.LambdaBold); err != nil {
		return ScaledResult{}, err
	}
	opts = scaledDefaults(opts)
	if opts.DeltaMin <= 0 || opts.DeltaMax < opts.DeltaMin {
		return ScaledResult{}, fmt.Errorf("%w: dilation bounds [%v, %v]", hrf.ErrInvalidDelta, opts.DeltaMin, opts.DeltaMax)
	}

	model := func(delta float64) ([]float64, error) {
		resp, err := hrf.SPM(hrf.Params{
			TR:         opts.TR,
			Delta:      delta,
			Duration:   opts.HRFDuration,
			Normalized: true,
		})
		return resp.Values, err
	}

	delta := min(max(opts.InitDelta, opts.DeltaMin), opts.DeltaMax)
	h, err := model(delta)
	if err != nil {
		return ScaledResult{}, err
	}

	boldOpts := Options{Lambda: opts.LambdaBold, MaxIter: opts.InnerMaxIter, Logger: opts.Logger}
	log := boldOpts.logger()

	out := ScaledResult{Cost: make([]float64, 0, opts.Iterations)}
	for round := range opts.Iterations {
		est, err := Deconvolve(y, h, boldOpts)
		if err != nil {
			return ScaledResult{}, fmt.Errorf("round %d: %w", round+1, err)
		}

		var searchErr error
		residual := func(d float64) float64 {
			hd, err := model(d)
			if err != nil {
				searchErr = err
				return 0
			}
			ar, err := conv.Causal(est.AI, hd)
			if err != nil {
				searchErr = err
				return 0
			}
			return 0.5 * sumSquaredDiff(ar, y)
		}
		delta, _ = optim.GoldenSection(residual, opts.DeltaMin, opts.DeltaMax, opts.DeltaTol, 100)
		if searchErr != nil {
			return ScaledResult{}, fmt.Errorf("round %d: %w", round+1, searchErr)
		}

		if h, err = model(delta); err != nil {
			return ScaledResult{}, err
		}
		ar, err := conv.Causal(est.AI, h)
		if err != nil {
			return ScaledResult{}, err
		}

		cost := 0.5*sumSquaredDiff(ar, y) + opts.LambdaBold*l1(est.I)
		out = ScaledResult{
			AR:    ar,
			AI:    est.AI,
			I:     est.I,
			HRF:   h,
			Delta: delta,
			Cost:  append(out.Cost, cost),
		}
		log.WithFields(logrus.Fields{
			"round": round + 1,
			"cost":  cost,
			"delta": delta,
		}).Debug("scaled blind deconvolution round")
	}

	return out, nil
}

func scaledDefaults(opts ScaledOptions) ScaledOptions {
	def := DefaultScaledOptions(opts.TR)
	if opts.Iterations <= 0 {
		opts.Iterations = def.Iterations
	}
	if opts.InnerMaxIter <= 0 {
		opts.InnerMaxIter = def.InnerMaxIter
	}
	if opts.InitDelta <= 0 {
		opts.InitDelta = def.InitDelta
	}
	if opts.DeltaMin == 0 && opts.DeltaMax == 0 {
		opts.DeltaMin, opts.DeltaMax = def.DeltaMin, def.DeltaMax
	}
	if opts.DeltaTol <= 0 {
		opts.DeltaTol = def.DeltaTol
	}
	if opts.HRFDuration <= 0 {
		opts.HRFDuration = def.HRFDuration
	}
	return opts
}
