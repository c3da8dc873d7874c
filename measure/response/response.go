package response

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-bold/dsp/hrf"
)

// Errors returned by response analysis functions.
var (
	ErrEmptyResponse = errors.New("response: HRF is empty")
	ErrInvalidTR     = errors.New("response: TR must be positive")
	ErrInvalidTime   = errors.New("response: time must be positive")
)

// onsetRatio is the fraction of the peak that marks the response onset.
const onsetRatio = 0.1

// Metrics holds HRF shape measurements. Times are in seconds from the
// first sample.
type Metrics struct {
	PeakIndex     int
	TimeToPeak    float64
	PeakAmplitude float64 // signed value at PeakIndex
	OnsetTime     float64
	FWHM          float64 // -1 when the half-maximum is not crossed twice
	CenterTime    float64 // energy centroid
	Energy        float64 // sum of squares

	// UndershootIndex is the most negative sample after the peak, or -1
	// when the response stays non-negative.
	UndershootIndex     int
	UndershootAmplitude float64
	// UndershootRatio is |undershoot| / |peak|.
	UndershootRatio float64
}

// Analyzer computes HRF metrics for responses sampled at TR.
type Analyzer struct {
	TR float64
}

// NewAnalyzer creates an analyzer for the repetition time tr.
func NewAnalyzer(tr float64) *Analyzer {
	return &Analyzer{TR: tr}
}

// Analyze computes all metrics of h.
func (a *Analyzer) Analyze(h []float64) (Metrics, error) {
	if len(h) == 0 {
		return Metrics{}, ErrEmptyResponse
	}

	if a.TR <= 0 {
		return Metrics{}, ErrInvalidTR
	}

	peak := findPeak(h)
	m := Metrics{
		PeakIndex:       peak,
		TimeToPeak:      float64(peak) * a.TR,
		PeakAmplitude:   h[peak],
		OnsetTime:       float64(findOnset(h, onsetRatio)) * a.TR,
		FWHM:            hrf.FWHM(a.times(len(h)), h),
		CenterTime:      a.centerTime(h),
		UndershootIndex: -1,
	}

	for _, v := range h {
		m.Energy += v * v
	}

	if idx := findUndershoot(h, peak); idx >= 0 {
		m.UndershootIndex = idx
		m.UndershootAmplitude = h[idx]
		if m.PeakAmplitude != 0 {
			m.UndershootRatio = math.Abs(h[idx]) / math.Abs(m.PeakAmplitude)
		}
	}

	return m, nil
}

// CenterTime computes the temporal energy centroid of h.
//
//	Ts = Σ t·h²(t) / Σ h²(t)
func (a *Analyzer) CenterTime(h []float64) (float64, error) {
	if len(h) == 0 {
		return 0, ErrEmptyResponse
	}

	if a.TR <= 0 {
		return 0, ErrInvalidTR
	}

	return a.centerTime(h), nil
}

func (a *Analyzer) centerTime(h []float64) float64 {
	var numerator, denominator float64

	for i, v := range h {
		e := v * v
		numerator += float64(i) * a.TR * e
		denominator += e
	}

	if denominator <= 0 {
		return 0
	}

	return numerator / denominator
}

// EarlyEnergy returns the fraction of the energy of h contained in the
// first seconds of the response, a ratio between 0 and 1.
func (a *Analyzer) EarlyEnergy(h []float64, seconds float64) (float64, error) {
	if len(h) == 0 {
		return 0, ErrEmptyResponse
	}

	if a.TR <= 0 {
		return 0, ErrInvalidTR
	}

	if seconds <= 0 {
		return 0, ErrInvalidTime
	}

	boundary := int(math.Round(seconds / a.TR))
	if boundary >= len(h) {
		return 1, nil
	}

	var early, total float64

	for i, v := range h {
		e := v * v

		total += e
		if i < boundary {
			early += e
		}
	}

	if total <= 0 {
		return 0, nil
	}

	return early / total, nil
}

// Onset returns the time of the first sample whose magnitude reaches
// ratio times the peak magnitude.
func (a *Analyzer) Onset(h []float64, ratio float64) (float64, error) {
	if len(h) == 0 {
		return 0, ErrEmptyResponse
	}

	if a.TR <= 0 {
		return 0, ErrInvalidTR
	}

	return float64(findOnset(h, ratio)) * a.TR, nil
}

func (a *Analyzer) times(n int) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) * a.TR
	}

	return t
}

func findOnset(h []float64, ratio float64) int {
	threshold := math.Abs(h[findPeak(h)]) * ratio
	for i, v := range h {
		if math.Abs(v) >= threshold {
			return i
		}
	}

	return 0
}

// findPeak returns the index of the absolute maximum.
func findPeak(h []float64) int {
	peakIdx := 0
	peakVal := 0.0

	for i, v := range h {
		av := math.Abs(v)
		if av > peakVal {
			peakVal = av
			peakIdx = i
		}
	}

	return peakIdx
}

// findUndershoot returns the index of the most negative sample after the
// peak, or -1.
func findUndershoot(h []float64, peak int) int {
	idx := -1
	low := 0.0

	for i := peak + 1; i < len(h); i++ {
		if h[i] < low {
			low = h[i]
			idx = i
		}
	}

	return idx
}
