package noise

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-bold/internal/testutil"
)

func gaussian(seed int64, sigma float64, n int) []float64 {
	r := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = sigma * r.NormFloat64()
	}
	return out
}

func TestMedian(t *testing.T) {
	tests := []struct {
		in   []float64
		want float64
	}{
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, 3, 2}, 2.5},
		{[]float64{7}, 7},
	}
	for _, tt := range tests {
		if got := Median(tt.in); got != tt.want {
			t.Fatalf("Median(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if !math.IsNaN(Median(nil)) {
		t.Fatal("median of nothing should be NaN")
	}

	in := []float64{3, 1, 2}
	Median(in)
	if in[0] != 3 {
		t.Fatal("Median modified its input")
	}
}

func TestMAD(t *testing.T) {
	got := MAD([]float64{1, 2, 3, 4, 100}, 1)
	if got != 1 {
		t.Fatalf("MAD = %v, want 1", got)
	}
	if got := MAD([]float64{1, 2, 3, 4, 100}, DefaultMADConstant); math.Abs(got-1/0.6744) > 1e-12 {
		t.Fatalf("scaled MAD = %v", got)
	}
}

func TestDaubechies3DetailLength(t *testing.T) {
	for _, n := range []int{6, 7, 64, 101} {
		if got := len(Daubechies3Detail(make([]float64, n))); got != (n+5)/2 {
			t.Fatalf("n=%d: %d coefficients, want %d", n, got, (n+5)/2)
		}
	}
}

func TestDaubechies3DetailReferenceValues(t *testing.T) {
	// first-level db3 detail with symmetric border extension
	x := []float64{1, 4, -2, 3, 0, 5, 2, -1, 6, 3}
	want := []float64{
		-1.5889159567695645,
		-4.359969264556621,
		-2.39597184368093,
		-0.16706270113649935,
		4.460399228536919,
		-1.7800361063041044,
		-4.168849115023085,
	}
	testutil.RequireSliceNearlyEqual(t, Daubechies3Detail(x), want, 1e-12)

	if got := EstimateSigma(x); math.Abs(got-2.3917161998333407) > 1e-12 {
		t.Fatalf("EstimateSigma = %.16g, want 2.3917161998333407", got)
	}
	m, err := NewAnalyzer().Analyze(x)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.MAD-2.965599051008304) > 1e-12 {
		t.Fatalf("MAD = %.16g, want 2.965599051008304", m.MAD)
	}
}

func TestDaubechies3DetailRampInterior(t *testing.T) {
	// a linear ramp has zero detail wherever the filter stays inside the signal
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	d := Daubechies3Detail(x)
	if len(d) != 8 {
		t.Fatalf("%d coefficients, want 8", len(d))
	}
	for k := 2; k < len(d)-2; k++ {
		if math.Abs(d[k]) > 1e-10 {
			t.Fatalf("d[%d] = %v, want 0", k, d[k])
		}
	}
}

func TestDaubechies3DetailAnnihilatesPolynomials(t *testing.T) {
	// db3 has three vanishing moments; away from the borders the detail
	// coefficients of a quadratic are zero.
	n := 64
	x := make([]float64, n)
	for i := range x {
		v := float64(i)
		x[i] = 0.5*v*v - 3*v + 2
	}
	d := Daubechies3Detail(x)
	for k := 3; k < n/2-3; k++ {
		if math.Abs(d[k]) > 1e-9*math.Max(1, math.Abs(x[2*k])) {
			t.Fatalf("d[%d] = %v, want ~0", k, d[k])
		}
	}
}

func TestEstimateSigmaWhiteNoise(t *testing.T) {
	for _, sigma := range []float64{0.1, 1, 3} {
		got := EstimateSigma(gaussian(1, sigma, 4096))
		if math.Abs(got-sigma)/sigma > 0.1 {
			t.Fatalf("sigma=%v: estimate %v", sigma, got)
		}
	}
}

func TestEstimateSigmaIgnoresSlowSignal(t *testing.T) {
	n := 2048
	y := gaussian(2, 0.5, n)
	for i := range y {
		y[i] += 5 * math.Sin(2*math.Pi*float64(i)/200)
	}
	got := EstimateSigma(y)
	if math.Abs(got-0.5)/0.5 > 0.15 {
		t.Fatalf("estimate %v, want ~0.5", got)
	}

	m, err := NewAnalyzer().Analyze(y)
	if err != nil {
		t.Fatal(err)
	}
	if m.MAD < 5*m.Sigma {
		t.Fatalf("raw MAD %v should be dominated by the signal (sigma %v)", m.MAD, m.Sigma)
	}
	if m.Samples != n {
		t.Fatalf("samples = %d", m.Samples)
	}
}

func TestShortSignalFallsBack(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	if got, want := EstimateSigma(x), MAD(x, DefaultMADConstant); got != want {
		t.Fatalf("estimate %v, want raw MAD %v", got, want)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	if _, err := NewAnalyzer().Analyze(nil); !errors.Is(err, ErrEmptySignal) {
		t.Fatalf("err = %v, want ErrEmptySignal", err)
	}
	a := &Analyzer{}
	if _, err := a.Analyze([]float64{1}); !errors.Is(err, ErrInvalidConstant) {
		t.Fatalf("err = %v, want ErrInvalidConstant", err)
	}
}
