// Package noise estimates the noise level of a BOLD time series.
//
// The estimator is the median absolute deviation of the first-level
// Daubechies-3 detail coefficients, which isolates the white noise floor
// from the slowly varying haemodynamic signal. The estimate is commonly
// used to pick the regularisation weight of the sparse deconvolution.
package noise
