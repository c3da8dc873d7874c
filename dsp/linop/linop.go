package linop

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"
)

// ErrDimension reports incompatible operator or vector sizes.
var ErrDimension = errors.New("linop: dimension mismatch")

// Operator is a linear map from R^InDim to R^OutDim.
type Operator interface {
	// Op returns A·x. len(x) must equal InDim.
	Op(x []float64) []float64
	// Adj returns Aᵀ·y. len(y) must equal OutDim.
	Adj(y []float64) []float64
	InDim() int
	OutDim() int
}

func checkLen(name string, got, want int) {
	if got != want {
		panic(fmt.Errorf("%w: %s got %d samples, want %d", ErrDimension, name, got, want))
	}
}

type identity struct{ n int }

// Identity returns the identity on R^n.
func Identity(n int) Operator { return identity{n: n} }

func (o identity) Op(x []float64) []float64 {
	checkLen("identity", len(x), o.n)
	out := make([]float64, o.n)
	copy(out, x)
	return out
}

func (o identity) Adj(y []float64) []float64 { return o.Op(y) }
func (o identity) InDim() int                { return o.n }
func (o identity) OutDim() int               { return o.n }

type integration struct{ n int }

// Integration returns the discrete integrator on R^n: out[k] = sum_{j<=k} x[j].
// Its adjoint is the reversed cumulative sum.
func Integration(n int) Operator { return integration{n: n} }

func (o integration) Op(x []float64) []float64 {
	checkLen("integration", len(x), o.n)
	out := make([]float64, o.n)
	acc := 0.0
	for k, v := range x {
		acc += v
		out[k] = acc
	}
	return out
}

func (o integration) Adj(y []float64) []float64 {
	checkLen("integration adjoint", len(y), o.n)
	out := make([]float64, o.n)
	acc := 0.0
	for k := o.n - 1; k >= 0; k-- {
		acc += y[k]
		out[k] = acc
	}
	return out
}

func (o integration) InDim() int  { return o.n }
func (o integration) OutDim() int { return o.n }

type composed struct {
	outer, inner Operator
}

// Compose returns outer∘inner. outer.InDim must equal inner.OutDim.
func Compose(outer, inner Operator) (Operator, error) {
	if outer == nil || inner == nil {
		return nil, fmt.Errorf("%w: nil operator", ErrDimension)
	}
	if outer.InDim() != inner.OutDim() {
		return nil, fmt.Errorf("%w: outer takes %d samples, inner yields %d",
			ErrDimension, outer.InDim(), inner.OutDim())
	}
	return composed{outer: outer, inner: inner}, nil
}

func (o composed) Op(x []float64) []float64  { return o.outer.Op(o.inner.Op(x)) }
func (o composed) Adj(y []float64) []float64 { return o.inner.Adj(o.outer.Adj(y)) }
func (o composed) InDim() int                { return o.inner.InDim() }
func (o composed) OutDim() int               { return o.outer.OutDim() }

// PowerOptions configures SpectralRadius.
type PowerOptions struct {
	MaxIter int
	Tol     float64
	Seed    int64
}

// DefaultPowerOptions returns 30 iterations with a 1e-6 tolerance.
func DefaultPowerOptions() PowerOptions {
	return PowerOptions{
		MaxIter: 30,
		Tol:     1e-6,
		Seed:    1,
	}
}

// SpectralRadius estimates the largest eigenvalue of AᵀA by power
// iteration. This is the Lipschitz constant of x -> Aᵀ(Ax - y).
func SpectralRadius(op Operator, opts PowerOptions) float64 {
	n := op.InDim()
	if n == 0 {
		return 0
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultPowerOptions().MaxIter
	}

	r := rand.New(rand.NewSource(opts.Seed))
	x := make([]float64, n)
	for i := range x {
		x[i] = r.NormFloat64()
	}
	norm := norm2(x)

	for range opts.MaxIter {
		next := op.Adj(op.Op(x))
		vecmath.ScaleBlockInPlace(next, 1/norm)
		nextNorm := norm2(next)
		if nextNorm == 0 {
			return 0
		}
		if math.Abs(nextNorm-norm) < opts.Tol {
			return nextNorm
		}
		x, norm = next, nextNorm
	}
	return norm
}

func norm2(x []float64) float64 {
	return math.Sqrt(vecmath.DotProduct(x, x))
}
