// Package response measures the shape of haemodynamic response functions.
//
// The metrics describe the main positive lobe and the post-stimulus
// undershoot of a sampled HRF:
//
//   - Time to peak and peak amplitude
//   - Onset: first sample reaching 10% of the peak
//   - FWHM: full width at half maximum
//   - Center time: temporal energy centroid
//   - Undershoot: most negative sample after the peak, absolute and relative
//
// # Usage
//
//	analyzer := response.NewAnalyzer(2.0) // TR in seconds
//	m, err := analyzer.Analyze(h)
//	fmt.Printf("peak at %.1f s, FWHM %.1f s\n", m.TimeToPeak, m.FWHM)
package response
