package linop

import (
	"fmt"

	"github.com/cwbudde/algo-bold/dsp/conv"
)

// fftThreshold is the kernel length above which products go through a
// cached overlap-add convolver.
const fftThreshold = 64

// Convolution is the truncated causal convolution x -> (kernel * x)[:out]
// for inputs of length in. It is not safe for concurrent use when the
// kernel is long enough to use the FFT path.
type Convolution struct {
	kernel []float64
	in     int
	out    int
	oa     *conv.OverlapAdd
}

// NewConvolution builds the operator for inputs of length in producing out
// samples.
func NewConvolution(kernel []float64, in, out int) (*Convolution, error) {
	if len(kernel) == 0 {
		return nil, conv.ErrEmptyKernel
	}
	if in <= 0 || out <= 0 {
		return nil, fmt.Errorf("%w: convolution %d -> %d", ErrDimension, in, out)
	}

	c := &Convolution{
		kernel: append([]float64(nil), kernel...),
		in:     in,
		out:    out,
	}
	if len(kernel) > fftThreshold {
		oa, err := conv.NewOverlapAdd(c.kernel, 0)
		if err != nil {
			return nil, err
		}
		c.oa = oa
	}
	return c, nil
}

// CausalConvolution is the square operator used by the BOLD model: the HRF
// applied to an n-sample signal, truncated to n samples.
func CausalConvolution(kernel []float64, n int) (*Convolution, error) {
	return NewConvolution(kernel, n, n)
}

// Kernel returns the convolution kernel.
func (c *Convolution) Kernel() []float64 { return c.kernel }

func (c *Convolution) InDim() int  { return c.in }
func (c *Convolution) OutDim() int { return c.out }

func (c *Convolution) Op(x []float64) []float64 {
	checkLen("convolution", len(x), c.in)

	var (
		y   []float64
		err error
	)
	if c.oa != nil {
		y, err = c.oa.ProcessCausal(x, c.out)
	} else {
		var full []float64
		full, err = conv.Direct(x, c.kernel)
		y = make([]float64, c.out)
		copy(y, full)
	}
	if err != nil {
		panic(err)
	}
	return y
}

func (c *Convolution) Adj(y []float64) []float64 {
	checkLen("convolution adjoint", len(y), c.out)
	x, err := conv.CausalAdjoint(y, c.kernel, c.in)
	if err != nil {
		panic(err)
	}
	return x
}
