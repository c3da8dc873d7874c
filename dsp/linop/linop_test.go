package linop

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-bold/internal/testutil"
)

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// requireAdjoint checks <Ax, y> == <x, Aᵀy> on deterministic vectors.
func requireAdjoint(t *testing.T, op Operator) {
	t.Helper()
	x := testutil.DeterministicNoise(1, 1, op.InDim())
	y := testutil.DeterministicNoise(2, 1, op.OutDim())
	lhs := dot(op.Op(x), y)
	rhs := dot(x, op.Adj(y))
	if math.Abs(lhs-rhs) > 1e-9*math.Max(1, math.Abs(lhs)) {
		t.Fatalf("<Ax,y> = %v, <x,Aᵀy> = %v", lhs, rhs)
	}
}

func TestIntegration(t *testing.T) {
	op := Integration(4)
	testutil.RequireSliceNearlyEqual(t, op.Op([]float64{1, 0, -1, 2}), []float64{1, 1, 0, 2}, 0)
	testutil.RequireSliceNearlyEqual(t, op.Adj([]float64{1, 2, 3, 4}), []float64{10, 9, 7, 4}, 0)
}

func TestAdjoints(t *testing.T) {
	h := testutil.GammaHRF(20, 5)
	longH := testutil.GammaHRF(90, 20)

	shortConv, err := CausalConvolution(h, 50)
	if err != nil {
		t.Fatal(err)
	}
	longConv, err := CausalConvolution(longH, 200)
	if err != nil {
		t.Fatal(err)
	}
	// HRF-step shape: a 30-sample kernel input through a 150-sample signal
	hrfStep, err := NewConvolution(testutil.DeterministicNoise(3, 1, 150), 30, 150)
	if err != nil {
		t.Fatal(err)
	}
	mat, err := FromColumns([][]float64{
		testutil.DeterministicNoise(4, 1, 30),
		testutil.DeterministicNoise(5, 1, 30),
		testutil.DeterministicNoise(6, 1, 30),
	})
	if err != nil {
		t.Fatal(err)
	}
	bold, err := Compose(shortConv, Integration(50))
	if err != nil {
		t.Fatal(err)
	}
	dict, err := Compose(hrfStep, mat)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		op   Operator
	}{
		{"identity", Identity(7)},
		{"integration", Integration(33)},
		{"short convolution", shortConv},
		{"fft convolution", longConv},
		{"rectangular convolution", hrfStep},
		{"matrix", mat},
		{"bold", bold},
		{"dictionary", dict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireAdjoint(t, tt.op)
		})
	}
}

func TestConvolutionPaths(t *testing.T) {
	h := testutil.GammaHRF(80, 10)
	x := testutil.DeterministicNoise(7, 1, 150)

	fast, err := CausalConvolution(h, 150)
	if err != nil {
		t.Fatal(err)
	}
	if fast.oa == nil {
		t.Fatal("expected the FFT path for an 80-sample kernel")
	}

	want := make([]float64, 150)
	for k := range want {
		for j := 0; j < len(h) && j <= k; j++ {
			want[k] += h[j] * x[k-j]
		}
	}
	testutil.RequireSliceNearlyEqual(t, fast.Op(x), want, 1e-9)
}

func TestConvolutionOutputPadding(t *testing.T) {
	c, err := NewConvolution([]float64{1, 1}, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, c.Op([]float64{1, 2}), []float64{1, 3, 2, 0, 0}, 1e-12)
}

func TestMatrix(t *testing.T) {
	m, err := NewMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}
	if rows, cols := m.Dims(); rows != 2 || cols != 3 {
		t.Fatalf("dims = %dx%d", rows, cols)
	}
	if m.At(1, 2) != 6 {
		t.Fatalf("At(1,2) = %v, want 6", m.At(1, 2))
	}
	testutil.RequireSliceNearlyEqual(t, m.Op([]float64{1, 0, 1}), []float64{6, 8}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, m.Adj([]float64{1, 1}), []float64{3, 7, 11}, 1e-12)
}

func TestConstructorErrors(t *testing.T) {
	if _, err := NewMatrix(2, 2, []float64{1}); !errors.Is(err, ErrDimension) {
		t.Fatalf("NewMatrix err = %v", err)
	}
	if _, err := FromColumns([][]float64{{1, 2}, {3}}); !errors.Is(err, ErrDimension) {
		t.Fatalf("FromColumns err = %v", err)
	}
	if _, err := Compose(Identity(3), Identity(4)); !errors.Is(err, ErrDimension) {
		t.Fatalf("Compose err = %v", err)
	}
	if _, err := NewConvolution([]float64{1}, 0, 3); !errors.Is(err, ErrDimension) {
		t.Fatalf("NewConvolution err = %v", err)
	}
	if _, err := NewConvolution(nil, 3, 3); err == nil {
		t.Fatal("expected error for empty kernel")
	}
}

func TestOpPanicsOnWrongLength(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrDimension) {
			t.Fatalf("recovered %v, want ErrDimension", r)
		}
	}()
	Integration(3).Op([]float64{1, 2})
}

func TestSpectralRadius(t *testing.T) {
	if got := SpectralRadius(Identity(10), DefaultPowerOptions()); math.Abs(got-1) > 1e-6 {
		t.Fatalf("identity radius = %v, want 1", got)
	}

	// diag(3, 1, 0.5): AᵀA has largest eigenvalue 9
	m, err := NewMatrix(3, 3, []float64{3, 0, 0, 0, 1, 0, 0, 0, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if got := SpectralRadius(m, DefaultPowerOptions()); math.Abs(got-9) > 1e-3 {
		t.Fatalf("diag radius = %v, want 9", got)
	}

	if got := SpectralRadius(Identity(0), DefaultPowerOptions()); got != 0 {
		t.Fatalf("empty radius = %v, want 0", got)
	}
}
