package bold

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-bold/dsp/hrf"
	"github.com/cwbudde/algo-bold/internal/testutil"
)

func TestBlindDeconvolve(t *testing.T) {
	dict := smallDictionary(t)
	y := mustCausal(t, testutil.Blocks(150, 10, 20, 80), dict.Atoms[2])

	opts := DefaultBlindOptions()
	opts.LambdaBold = 0.01
	opts.Iterations = 4
	opts.InnerMaxIter = 300
	opts.InitHRF = dict.Atoms[0]

	res, err := BlindDeconvolve(y, dict, opts)
	if err != nil {
		t.Fatalf("BlindDeconvolve: %v", err)
	}
	if len(res.Cost) != 4 {
		t.Fatalf("cost entries = %d, want 4", len(res.Cost))
	}
	testutil.RequireFinite(t, res.Cost)
	testutil.RequireNonIncreasing(t, res.Cost, 0.01)

	if len(res.HRF) != dict.Len() || len(res.Coeffs) != dict.Size() {
		t.Fatalf("hrf %d, coeffs %d", len(res.HRF), len(res.Coeffs))
	}
	if rel := testutil.RelativeError(res.AR, y); rel > 0.05 {
		t.Fatalf("fit relative error = %v", rel)
	}
}

func TestBlindDeconvolveDefaultInit(t *testing.T) {
	dict := smallDictionary(t)
	y := mustCausal(t, testutil.Blocks(90, 10, 20), dict.Atoms[1])

	opts := DefaultBlindOptions()
	opts.LambdaBold = 0.01
	opts.Iterations = 1
	opts.InnerMaxIter = 50

	res, err := BlindDeconvolve(y, dict, opts)
	if err != nil {
		t.Fatalf("BlindDeconvolve: %v", err)
	}
	if len(res.Cost) != 1 || len(res.I) != 90 {
		t.Fatalf("cost %d, innovation %d", len(res.Cost), len(res.I))
	}
}

func TestInitialHRF(t *testing.T) {
	dict := smallDictionary(t)

	h, err := initialHRF(dict, []float64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != dict.Len() || h[2] != 3 || h[3] != 0 {
		t.Fatalf("padded init = %v", h[:4])
	}

	h, err = initialHRF(dict, nil)
	if err != nil {
		t.Fatal(err)
	}
	want, err := hrf.FromTimeLength(1.0, InitTimeLength, true)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, h, want.Values, 0)

	if _, err := initialHRF(dict, []float64{}); !errors.Is(err, ErrEmptyHRF) {
		t.Fatalf("err = %v, want ErrEmptyHRF", err)
	}
}

func TestBlindDeconvolveErrors(t *testing.T) {
	dict := smallDictionary(t)
	if _, err := BlindDeconvolve(nil, dict, DefaultBlindOptions()); !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("err = %v, want ErrEmptySignal", err)
	}
	if _, err := BlindDeconvolve([]float64{1}, nil, DefaultBlindOptions()); !errors.Is(err, ErrDictionary) {
		t.Fatalf("err = %v, want ErrDictionary", err)
	}
	opts := DefaultBlindOptions()
	opts.LambdaHRF = -1
	if _, err := BlindDeconvolve([]float64{1}, dict, opts); !errors.Is(err, ErrInvalidLambda) {
		t.Fatalf("err = %v, want ErrInvalidLambda", err)
	}
}

func TestScaledBlindDeconvolve(t *testing.T) {
	truth, err := hrf.SPM(hrf.Params{TR: 1, Delta: 1, Duration: 30, Normalized: true})
	if err != nil {
		t.Fatal(err)
	}
	y := mustCausal(t, testutil.Blocks(150, 10, 20, 80), truth.Values)

	opts := DefaultScaledOptions(1.0)
	opts.LambdaBold = 0.2
	opts.Iterations = 3
	opts.InnerMaxIter = 300
	opts.InitDelta = 2.0

	res, err := ScaledBlindDeconvolve(y, opts)
	if err != nil {
		t.Fatalf("ScaledBlindDeconvolve: %v", err)
	}
	if len(res.Cost) != 3 {
		t.Fatalf("cost entries = %d, want 3", len(res.Cost))
	}
	testutil.RequireNonIncreasing(t, res.Cost, 0.01)
	if res.Delta < opts.DeltaMin || res.Delta > 1.9 {
		t.Fatalf("delta = %v, want moved from 2.0 towards 1", res.Delta)
	}
	if len(res.HRF) != 30 {
		t.Fatalf("hrf length = %d, want 30", len(res.HRF))
	}
}

func TestScaledBlindDeconvolveErrors(t *testing.T) {
	opts := DefaultScaledOptions(1.0)
	opts.DeltaMin, opts.DeltaMax = 2, 1
	if _, err := ScaledBlindDeconvolve([]float64{1, 2}, opts); !errors.Is(err, hrf.ErrInvalidDelta) {
		t.Fatalf("err = %v, want ErrInvalidDelta", err)
	}
	if _, err := ScaledBlindDeconvolve(nil, DefaultScaledOptions(1.0)); !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("err = %v, want ErrEmptySignal", err)
	}
	if _, err := ScaledBlindDeconvolve([]float64{1}, DefaultScaledOptions(0)); !errors.Is(err, hrf.ErrInvalidTR) {
		t.Fatalf("err = %v, want ErrInvalidTR", err)
	}
}
