package noise

import (
	"errors"
	"math"
	"sort"
)

// Errors returned by noise estimation.
var (
	ErrEmptySignal     = errors.New("noise: signal is empty")
	ErrInvalidConstant = errors.New("noise: MAD constant must be positive")
)

// DefaultMADConstant makes MAD a consistent estimator of the standard
// deviation for Gaussian data.
const DefaultMADConstant = 0.6744

// db3High is the Daubechies-3 decomposition high-pass filter.
var db3High = [...]float64{
	-0.3326705529509569,
	0.8068915093133388,
	-0.4598775021193313,
	-0.13501102001039084,
	0.08544127388224149,
	0.035226291882100656,
}

// Metrics holds noise analysis results.
type Metrics struct {
	Sigma   float64 // MAD of the db3 detail coefficients
	MAD     float64 // MAD of the raw samples
	Samples int
}

// Analyzer computes noise metrics.
type Analyzer struct {
	C float64
}

// NewAnalyzer creates an analyzer with the Gaussian MAD constant.
func NewAnalyzer() *Analyzer {
	return &Analyzer{C: DefaultMADConstant}
}

// Analyze computes all noise metrics of y.
func (a *Analyzer) Analyze(y []float64) (Metrics, error) {
	if len(y) == 0 {
		return Metrics{}, ErrEmptySignal
	}
	if a.C <= 0 {
		return Metrics{}, ErrInvalidConstant
	}
	return Metrics{
		Sigma:   MAD(detailOrRaw(y), a.C),
		MAD:     MAD(y, a.C),
		Samples: len(y),
	}, nil
}

// EstimateSigma returns the noise standard deviation of x.
func EstimateSigma(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return MAD(detailOrRaw(x), DefaultMADConstant)
}

func detailOrRaw(x []float64) []float64 {
	if len(x) < len(db3High) {
		return x
	}
	return Daubechies3Detail(x)
}

// MAD returns median(|x - median(x)|) / c.
func MAD(x []float64, c float64) float64 {
	if len(x) == 0 || c <= 0 {
		return 0
	}
	med := Median(x)
	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = math.Abs(v - med)
	}
	return Median(dev) / c
}

// Median returns the median of x, averaging the two middle values when
// len(x) is even. x is not modified.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return 0.5 * (s[n/2-1] + s[n/2])
}

// Daubechies3Detail returns the first-level db3 detail coefficients of x
// with half-sample symmetric extension. The output has
// (len(x) + 5) / 2 coefficients.
func Daubechies3Detail(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}
	f := len(db3High)
	out := make([]float64, (n+f-1)/2)
	for k := range out {
		pos := 2*k + 1
		var acc float64
		for j, c := range db3High {
			acc += c * x[symmetric(pos-j, n)]
		}
		out[k] = acc
	}
	return out
}

// symmetric maps i into [0, n) by half-sample symmetric reflection.
func symmetric(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}
