package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Clone returns a copy of src, or nil when src is nil.
func Clone(src []float64) []float64 {
	if src == nil {
		return nil
	}
	return append([]float64(nil), src...)
}

// Resize returns a copy of src truncated or zero-padded to n samples.
func Resize(src []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, src)
	return out
}
