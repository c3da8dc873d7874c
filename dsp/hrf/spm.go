package hrf

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-bold/dsp/core"
	"gonum.org/v1/gonum/stat/distuv"
)

// Errors returned by the HRF model.
var (
	ErrInvalidTR       = errors.New("hrf: TR must be positive")
	ErrInvalidDelta    = errors.New("hrf: dilation must be positive")
	ErrInvalidDuration = errors.New("hrf: duration must be at least one TR")
	ErrTimeLength      = errors.New("hrf: time length must lie in [10, 50] seconds")
	ErrInvalidAtoms    = errors.New("hrf: dictionary needs at least one atom")
)

// SPM model constants, from the literature.
const (
	fineDT      = 0.001 // continuous-time simulation grid, seconds
	support     = 60.0  // time span the fine-grid response is computed on
	peakDelay   = 6.0
	underDelay  = 16.0
	dispersion  = 1.0
	underRatio  = 0.167
	normGain    = 10.0 // unit-norm response is scaled so a unit block maps to ~unit amplitude
	supportFrac = 1e-3

	// MinTimeLength and MaxTimeLength bound the legacy time-length parameter.
	MinTimeLength = 10.0
	MaxTimeLength = 50.0
)

// Params configures the SPM response.
type Params struct {
	// TR is the sampling period of the returned response, in seconds.
	TR float64
	// Delta dilates time: the response is evaluated at Delta*t. Values above
	// one give a narrower, earlier response.
	Delta float64
	// Duration is the length of the returned response in seconds.
	Duration float64
	// Normalized scales the fine-grid response to unit L2 norm times 10.
	Normalized bool
}

// DefaultParams returns an undilated, normalised 60 s response at tr.
func DefaultParams(tr float64) Params {
	return Params{
		TR:         tr,
		Delta:      1.0,
		Duration:   support,
		Normalized: true,
	}
}

// Response is a sampled HRF.
type Response struct {
	Values []float64
	Times  []float64
	// Support marks samples with |h| >= 1e-3 * max(h).
	Support []bool
}

// Len returns the number of samples.
func (r Response) Len() int {
	return len(r.Values)
}

// SupportLen returns the index just past the last sample in the support,
// which lets callers drop the trailing near-zero tail.
func (r Response) SupportLen() int {
	for i := len(r.Support) - 1; i >= 0; i-- {
		if r.Support[i] {
			return i + 1
		}
	}
	return 0
}

func (p Params) validate() error {
	if p.TR <= 0 || math.IsNaN(p.TR) {
		return fmt.Errorf("%w: %v", ErrInvalidTR, p.TR)
	}
	if p.Delta <= 0 || math.IsNaN(p.Delta) {
		return fmt.Errorf("%w: %v", ErrInvalidDelta, p.Delta)
	}
	if p.Duration < p.TR {
		return fmt.Errorf("%w: %v s at TR %v s", ErrInvalidDuration, p.Duration, p.TR)
	}
	return nil
}

// SPM returns the canonical double-gamma response described by p.
func SPM(p Params) (Response, error) {
	if err := p.validate(); err != nil {
		return Response{}, err
	}

	n := int(support / fineDT)
	times := core.Linspace(0, support, n)
	fine := make([]float64, n)
	peak := newGamma(peakDelay/dispersion, fineDT/dispersion)
	under := newGamma(underDelay/dispersion, fineDT/dispersion)
	for i, t := range times {
		st := p.Delta * t
		fine[i] = peak.pdf(st) - underRatio*under.pdf(st)
	}

	if p.Normalized {
		var energy float64
		for _, v := range fine {
			energy += v * v
		}
		if energy > 0 {
			scale := normGain / math.Sqrt(energy)
			for i := range fine {
				fine[i] *= scale
			}
		}
	}

	step := core.DecimationStep(p.TR, fineDT)
	values := core.Decimate(fine, step)
	stamps := core.Decimate(times, step)

	keep := int(p.Duration/p.TR + 1e-9)
	if keep < len(values) {
		values = values[:keep]
		stamps = stamps[:keep]
	} else if keep > len(values) {
		values = core.Resize(values, keep)
		extended := make([]float64, keep)
		copy(extended, stamps)
		for i := len(stamps); i < keep; i++ {
			extended[i] = float64(i) * p.TR
		}
		stamps = extended
	}

	return Response{
		Values:  values,
		Times:   stamps,
		Support: supportMask(values),
	}, nil
}

// FromTimeLength returns the 60 s SPM response stretched so that its shape
// spans timeLength seconds. This is the parametrisation used by HRF
// dictionaries: Delta = 60 / timeLength.
func FromTimeLength(tr, timeLength float64, normalized bool) (Response, error) {
	if timeLength < MinTimeLength || timeLength > MaxTimeLength || math.IsNaN(timeLength) {
		return Response{}, fmt.Errorf("%w: got %v", ErrTimeLength, timeLength)
	}
	return SPM(Params{
		TR:         tr,
		Delta:      support / timeLength,
		Duration:   support,
		Normalized: normalized,
	})
}

// shiftedGamma is the unit-scale gamma density shifted right by loc.
type shiftedGamma struct {
	dist distuv.Gamma
	loc  float64
}

func newGamma(shape, loc float64) shiftedGamma {
	return shiftedGamma{dist: distuv.Gamma{Alpha: shape, Beta: 1}, loc: loc}
}

func (g shiftedGamma) pdf(x float64) float64 {
	z := x - g.loc
	if z <= 0 {
		return 0
	}
	return g.dist.Prob(z)
}

func supportMask(h []float64) []bool {
	peak := 0.0
	for _, v := range h {
		if v > peak {
			peak = v
		}
	}
	mask := make([]bool, len(h))
	for i, v := range h {
		mask[i] = math.Abs(v) >= supportFrac*peak
	}
	return mask
}
