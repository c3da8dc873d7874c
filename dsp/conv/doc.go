// Package conv provides the convolution operators behind the BOLD forward model.
//
// The haemodynamic model is causal: the activity-related signal is the
// activity-inducing signal convolved with the HRF and truncated to the length
// of the scan. [Causal] computes that product and [CausalAdjoint] its exact
// adjoint, which the proximal solvers need for gradient steps.
//
// # Usage
//
//	ar, err := conv.Causal(ai, hrf)            // forward model
//	g, err := conv.CausalAdjoint(r, hrf, n)    // gradient back-projection
//	full, err := conv.Convolve(a, b)           // full linear convolution
//
// # Algorithm Selection
//
// [Convolve] uses direct convolution for kernels up to 64 samples and
// FFT-based overlap-add above that. A 60 s HRF has 60/TR taps, so it stays on
// the direct path at TR 1 s (60 taps) and switches to overlap-add at
// TR 0.5 s (120 taps). The HRF-estimation step convolves with the full
// activity-inducing signal and takes the FFT path for scans longer than 64
// samples.
//
// # Spectral deconvolution
//
// [Deconvolve] implements the classic frequency-domain inverses (naive,
// regularised, Wiener). They ignore sparsity and serve as a baseline for the
// sparse estimators in package bold.
package conv
