package bold

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-bold/dsp/optim"
	"github.com/sirupsen/logrus"
)

// Errors returned by the deconvolution algorithms.
var (
	ErrEmptySignal    = errors.New("bold: signal is empty")
	ErrEmptyHRF       = errors.New("bold: HRF is empty")
	ErrInvalidLambda  = errors.New("bold: regularisation weight must be finite and >= 0")
	ErrDictionary     = errors.New("bold: invalid HRF dictionary")
	ErrLengthMismatch = errors.New("bold: signal length mismatch")
)

// Options configures a single sparse estimation.
type Options struct {
	// Lambda weighs the L1 penalty.
	Lambda float64
	// MaxIter caps the FISTA iterations; early stopping is always on.
	MaxIter int
	// Logger receives solver progress at debug level. Nil discards it.
	Logger logrus.FieldLogger
}

// DefaultOptions returns the settings of the BOLD deconvolution step.
func DefaultOptions() Options {
	return Options{
		Lambda:  1.0,
		MaxIter: 999,
	}
}

// DefaultHRFOptions returns the settings of the HRF estimation step.
func DefaultHRFOptions() Options {
	return Options{
		Lambda:  1e-4,
		MaxIter: 9999,
	}
}

func (o Options) solver() optim.Options {
	s := optim.DefaultOptions()
	if o.MaxIter > 0 {
		s.MaxIter = o.MaxIter
	}
	s.Logger = o.Logger
	return s
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return optim.DiscardLogger()
	}
	return o.Logger
}

func checkLambda(lambda float64) error {
	if lambda < 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidLambda, lambda)
	}
	return nil
}

// Estimate is the output of a BOLD deconvolution.
type Estimate struct {
	AR []float64 // activity-related signal, the denoised BOLD fit
	AI []float64 // activity-inducing signal
	I  []float64 // innovation signal
	// Cost is the objective after each solver iteration.
	Cost       []float64
	Iterations int
	Converged  bool
}

// HRFEstimate is the output of an HRF estimation.
type HRFEstimate struct {
	HRF []float64
	// Coeffs are the dictionary weights with HRF = D·Coeffs.
	Coeffs     []float64
	Cost       []float64
	Iterations int
	Converged  bool
}

func l1(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += math.Abs(v)
	}
	return s
}

func sumSquaredDiff(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
