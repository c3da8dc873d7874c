package conv

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// Deconvolution errors.
var (
	ErrDivisionByZero = errors.New("conv: division by zero in deconvolution")
)

// DeconvMethod specifies the spectral deconvolution method.
type DeconvMethod int

const (
	// DeconvNaive performs simple spectral division.
	DeconvNaive DeconvMethod = iota

	// DeconvRegularized computes Y*conj(H) / (|H|^2 + epsilon).
	DeconvRegularized

	// DeconvWiener computes Y*conj(H) / (|H|^2 + NSR).
	DeconvWiener
)

// String returns the method name.
func (m DeconvMethod) String() string {
	switch m {
	case DeconvNaive:
		return "naive"
	case DeconvRegularized:
		return "regularized"
	case DeconvWiener:
		return "wiener"
	default:
		return fmt.Sprintf("DeconvMethod(%d)", int(m))
	}
}

// DeconvOptions configures deconvolution behavior.
type DeconvOptions struct {
	Method DeconvMethod

	// Epsilon is the regularization parameter for DeconvRegularized.
	Epsilon float64

	// NoiseVariance and SignalVariance drive the Wiener noise-to-signal
	// ratio. Zero values are estimated from the signal (1% noise).
	NoiseVariance  float64
	SignalVariance float64

	// Causal treats signal as the truncated causal convolution of the BOLD
	// model: the estimate has len(signal) samples instead of
	// len(signal)-len(kernel)+1.
	Causal bool
}

// DefaultDeconvOptions returns default deconvolution options.
func DefaultDeconvOptions() DeconvOptions {
	return DeconvOptions{
		Method:  DeconvRegularized,
		Epsilon: 1e-6,
	}
}

// Deconvolve recovers an estimate of x from y = conv(x, kernel) by division
// in the frequency domain.
func Deconvolve(signal, kernel []float64, opts DeconvOptions) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	n := len(signal)
	m := len(kernel)

	outputLen := n - m + 1
	fftSize := nextPowerOf2(n)
	if opts.Causal || outputLen <= 0 {
		outputLen = n
	}
	if opts.Causal {
		// room for the tail the truncation removed
		fftSize = nextPowerOf2(n + m - 1)
	}

	var gain func(h complex128) (complex128, error)
	switch opts.Method {
	case DeconvNaive:
		gain = func(h complex128) (complex128, error) {
			if cmplx.Abs(h) < 1e-15 {
				return 0, ErrDivisionByZero
			}
			return 1 / h, nil
		}
	case DeconvWiener:
		gain = regularizedGain(wienerNSR(signal, opts))
	default:
		eps := opts.Epsilon
		if eps <= 0 {
			eps = 1e-6
		}
		gain = regularizedGain(eps)
	}

	return spectralDivide(signal, kernel, fftSize, outputLen, gain)
}

func regularizedGain(eps float64) func(h complex128) (complex128, error) {
	return func(h complex128) (complex128, error) {
		magSq := real(h)*real(h) + imag(h)*imag(h)
		return cmplx.Conj(h) / complex(magSq+eps, 0), nil
	}
}

func wienerNSR(signal []float64, opts DeconvOptions) float64 {
	signalVar := opts.SignalVariance
	if signalVar <= 0 {
		signalVar = variance(signal)
	}
	noiseVar := opts.NoiseVariance
	if noiseVar <= 0 {
		noiseVar = signalVar * 0.01
	}
	if signalVar <= 0 {
		return 1e-6
	}
	nsr := noiseVar / signalVar
	if nsr <= 0 {
		nsr = 1e-6
	}
	return nsr
}

// spectralDivide computes IFFT(FFT(signal) * gain(FFT(kernel))).
func spectralDivide(signal, kernel []float64, fftSize, outputLen int,
	gain func(complex128) (complex128, error),
) ([]float64, error) {
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	signalFreq := make([]complex128, fftSize)
	kernelFreq := make([]complex128, fftSize)
	for i, v := range signal {
		signalFreq[i] = complex(v, 0)
	}
	for i, v := range kernel {
		if i >= fftSize {
			break
		}
		kernelFreq[i] = complex(v, 0)
	}

	if err := plan.Forward(signalFreq, signalFreq); err != nil {
		return nil, err
	}
	if err := plan.Forward(kernelFreq, kernelFreq); err != nil {
		return nil, err
	}

	for i := range signalFreq {
		g, err := gain(kernelFreq[i])
		if err != nil {
			return nil, fmt.Errorf("%w: at frequency bin %d", err, i)
		}
		signalFreq[i] *= g
	}

	if err := plan.Inverse(signalFreq, signalFreq); err != nil {
		return nil, err
	}

	result := make([]float64, outputLen)
	for i := range result {
		result[i] = real(signalFreq[i])
	}
	return result, nil
}

// variance computes the population variance of a signal.
func variance(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	var sum float64
	for _, v := range x {
		d := v - mean
		sum += d * d
	}

	return sum / float64(len(x))
}

// SNR computes the signal-to-noise ratio in dB between original and recovered
// signals, with noise = original - recovered.
func SNR(original, recovered []float64) float64 {
	if len(original) != len(recovered) || len(original) == 0 {
		return math.Inf(-1)
	}

	var signalPower, noisePower float64
	for i := range original {
		signalPower += original[i] * original[i]
		noise := original[i] - recovered[i]
		noisePower += noise * noise
	}

	if noisePower == 0 {
		return math.Inf(1)
	}

	return 10 * math.Log10(signalPower/noisePower)
}
