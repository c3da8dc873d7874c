package optim

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-bold/dsp/linop"
	"github.com/cwbudde/algo-vecmath"
)

// Smooth is a differentiable data term with a Lipschitz-continuous gradient.
type Smooth interface {
	Grad(x []float64) []float64
	Cost(x []float64) float64
	Lipschitz() float64
}

// Proximal is a penalty with a closed-form proximal operator.
type Proximal interface {
	// Prox returns argmin_u step*g(u) + ½||u - x||².
	Prox(x []float64, step float64) []float64
	Cost(x []float64) float64
}

// L1 is the penalty Lambda·||x||₁.
type L1 struct {
	Lambda float64
}

// Prox applies soft thresholding at step·Lambda.
func (p L1) Prox(x []float64, step float64) []float64 {
	th := step * p.Lambda
	out := make([]float64, len(x))
	for i, v := range x {
		switch {
		case v > th:
			out[i] = v - th
		case v < -th:
			out[i] = v + th
		}
	}
	return out
}

func (p L1) Cost(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += math.Abs(v)
	}
	return p.Lambda * s
}

// L2Residual is f(x) = ½||Ax - y||².
type L2Residual struct {
	op        linop.Operator
	y         []float64
	lipschitz float64
}

// NewL2Residual binds op and the observation y. The Lipschitz constant is
// estimated once by power iteration.
func NewL2Residual(op linop.Operator, y []float64) (*L2Residual, error) {
	if op == nil {
		return nil, fmt.Errorf("%w: nil operator", linop.ErrDimension)
	}
	if len(y) != op.OutDim() {
		return nil, fmt.Errorf("%w: observation has %d samples, operator yields %d",
			linop.ErrDimension, len(y), op.OutDim())
	}
	return &L2Residual{
		op:        op,
		y:         y,
		lipschitz: linop.SpectralRadius(op, linop.DefaultPowerOptions()),
	}, nil
}

// Operator returns the forward operator.
func (f *L2Residual) Operator() linop.Operator { return f.op }

// Residual returns Ax - y.
func (f *L2Residual) Residual(x []float64) []float64 {
	r := f.op.Op(x)
	for i, v := range f.y {
		r[i] -= v
	}
	return r
}

func (f *L2Residual) Grad(x []float64) []float64 {
	return f.op.Adj(f.Residual(x))
}

func (f *L2Residual) Cost(x []float64) float64 {
	r := f.Residual(x)
	return 0.5 * vecmath.DotProduct(r, r)
}

func (f *L2Residual) Lipschitz() float64 { return f.lipschitz }
