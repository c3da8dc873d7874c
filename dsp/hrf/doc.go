// Package hrf models the haemodynamic response function (HRF).
//
// The canonical SPM response is a difference of two gamma densities, a peak
// near 6 s and an undershoot near 16 s. It is evaluated on a 1 ms grid,
// optionally dilated in time, normalised and decimated to the repetition
// time TR:
//
//	resp, err := hrf.SPM(hrf.DefaultParams(2.0))
//	fmt.Println(hrf.FWHM(resp.Times, resp.Values))
//
// A [Dictionary] stacks SPM responses of increasing time length. The
// semi-blind estimators in package bold search for a sparse combination of
// dictionary atoms instead of a free-form kernel.
package hrf
