package bold

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-bold/dsp/conv"
	"github.com/cwbudde/algo-bold/dsp/hrf"
	"github.com/cwbudde/algo-bold/internal/testutil"
)

func mustCausal(t *testing.T, x, h []float64) []float64 {
	t.Helper()
	y, err := conv.Causal(x, h)
	if err != nil {
		t.Fatal(err)
	}
	return y
}

func argmax(x []float64) int {
	best := 0
	for i, v := range x {
		if v > x[best] {
			best = i
		}
	}
	return best
}

func TestDeconvolveBlocks(t *testing.T) {
	h := testutil.GammaHRF(20, 4)
	ai := testutil.Blocks(120, 10, 20, 70)
	y := mustCausal(t, ai, h)

	opts := DefaultOptions()
	opts.Lambda = 0.01
	est, err := Deconvolve(y, h, opts)
	if err != nil {
		t.Fatalf("Deconvolve: %v", err)
	}

	if len(est.AR) != 120 || len(est.AI) != 120 || len(est.I) != 120 {
		t.Fatalf("lengths %d/%d/%d", len(est.AR), len(est.AI), len(est.I))
	}
	testutil.RequireFinite(t, est.I)
	if rel := testutil.RelativeError(est.AR, y); rel > 0.05 {
		t.Fatalf("fit relative error = %v", rel)
	}

	for _, k := range []int{25, 75} {
		if math.Abs(est.AI[k]-1) > 0.2 {
			t.Fatalf("AI[%d] = %v, want ~1 inside a block", k, est.AI[k])
		}
	}
	for _, k := range []int{5, 50, 100} {
		if math.Abs(est.AI[k]) > 0.1 {
			t.Fatalf("AI[%d] = %v, want ~0 between blocks", k, est.AI[k])
		}
	}
	if est.Iterations != len(est.Cost) || est.Iterations == 0 {
		t.Fatalf("iterations %d, cost entries %d", est.Iterations, len(est.Cost))
	}
}

func TestDeconvolveEvents(t *testing.T) {
	h := testutil.GammaHRF(20, 4)
	spikes := make([]float64, 100)
	spikes[15] = 1
	spikes[60] = 0.7
	y := mustCausal(t, spikes, h)

	opts := DefaultOptions()
	opts.Lambda = 0.01
	est, err := DeconvolveEvents(y, h, opts)
	if err != nil {
		t.Fatalf("DeconvolveEvents: %v", err)
	}
	if k := argmax(est.I); k != 15 {
		t.Fatalf("largest spike at %d, want 15", k)
	}
	if est.I[60] < 0.5 || est.I[60] > 0.75 {
		t.Fatalf("I[60] = %v, want shrunk towards 0.7", est.I[60])
	}
	testutil.RequireSliceNearlyEqual(t, est.AI, est.I, 0)
	testutil.RequireSliceNearlyEqual(t, est.AR, mustCausal(t, est.I, h), 1e-9)
}

func TestDeconvolveErrors(t *testing.T) {
	h := []float64{1, 0.5}
	tests := []struct {
		name string
		y, h []float64
		opts Options
		want error
	}{
		{"empty signal", nil, h, DefaultOptions(), ErrEmptySignal},
		{"empty hrf", []float64{1, 2}, nil, DefaultOptions(), ErrEmptyHRF},
		{"negative lambda", []float64{1, 2}, h, Options{Lambda: -1}, ErrInvalidLambda},
		{"nan lambda", []float64{1, 2}, h, Options{Lambda: math.NaN()}, ErrInvalidLambda},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Deconvolve(tt.y, tt.h, tt.opts); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func smallDictionary(t *testing.T) *hrf.Dictionary {
	t.Helper()
	opts := hrf.DefaultDictionaryOptions(1.0)
	opts.Atoms = 5
	d, err := hrf.NewDictionary(opts)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestEstimateHRF(t *testing.T) {
	dict := smallDictionary(t)
	ai := testutil.Blocks(200, 8, 20, 90, 150)
	y := mustCausal(t, ai, dict.Atoms[2])

	est, err := EstimateHRF(ai, y, dict, DefaultHRFOptions())
	if err != nil {
		t.Fatalf("EstimateHRF: %v", err)
	}
	if len(est.Coeffs) != 5 || len(est.HRF) != dict.Len() {
		t.Fatalf("coeffs %d, hrf %d", len(est.Coeffs), len(est.HRF))
	}
	if k := argmax(est.Coeffs); k != 2 {
		t.Fatalf("dominant atom %d, want 2 (coeffs %v)", k, est.Coeffs)
	}
	if math.Abs(est.Coeffs[2]-1) > 0.05 {
		t.Fatalf("coeff = %v, want ~1", est.Coeffs[2])
	}
	if rel := testutil.RelativeError(est.HRF, dict.Atoms[2]); rel > 0.02 {
		t.Fatalf("HRF relative error = %v", rel)
	}
}

func TestEstimateHRFErrors(t *testing.T) {
	dict := smallDictionary(t)
	if _, err := EstimateHRF([]float64{1, 2}, []float64{1}, dict, DefaultHRFOptions()); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
	if _, err := EstimateHRF([]float64{1}, []float64{1}, nil, DefaultHRFOptions()); !errors.Is(err, ErrDictionary) {
		t.Fatalf("err = %v, want ErrDictionary", err)
	}
	if _, err := EstimateHRF([]float64{1}, []float64{1}, &hrf.Dictionary{}, DefaultHRFOptions()); !errors.Is(err, ErrDictionary) {
		t.Fatalf("err = %v, want ErrDictionary", err)
	}
	if _, err := EstimateHRF(nil, nil, dict, DefaultHRFOptions()); !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("err = %v, want ErrEmptySignal", err)
	}
}
