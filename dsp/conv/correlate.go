package conv

// Correlate returns the full cross-correlation of a and b, computed as the
// convolution of a with b reversed. Entry k holds lag k-(len(b)-1), so the
// result has len(a)+len(b)-1 samples.
func Correlate(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	flipped := make([]float64, len(b))
	for i, v := range b {
		flipped[len(b)-1-i] = v
	}

	return Convolve(a, flipped)
}

// CorrelateMode is Correlate trimmed like ConvolveMode.
func CorrelateMode(a, b []float64, mode Mode) ([]float64, error) {
	full, err := Correlate(a, b)
	if err != nil {
		return nil, err
	}

	return trimToMode(full, len(a), len(b), mode), nil
}

// Lag returns the shift of template inside signal with the largest
// correlation, and that correlation. Ties resolve to the smallest lag.
func Lag(signal, template []float64) (lag int, peak float64, err error) {
	corr, err := Correlate(signal, template)
	if err != nil {
		return 0, 0, err
	}

	best := 0
	for k, v := range corr {
		if v > corr[best] {
			best = k
		}
	}

	return best - (len(template) - 1), corr[best], nil
}
