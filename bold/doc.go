// Package bold implements sparse and semi-blind deconvolution of fMRI BOLD
// time series.
//
// The forward model links a sparse innovation signal i to the measured BOLD
// signal y through discrete integration and causal convolution with the
// haemodynamic response h:
//
//	ai = Integ(i)       activity-inducing signal
//	ar = (h * ai)[:N]   activity-related signal
//	y  = ar + noise
//
// Deconvolve recovers i from y and a known h by L1-regularised least
// squares. EstimateHRF recovers h, expressed on an SPM dictionary, from a
// known activity. BlindDeconvolve and ScaledBlindDeconvolve alternate the
// two when h is only partially known.
package bold
