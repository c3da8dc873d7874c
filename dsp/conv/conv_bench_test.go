package conv

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-bold/internal/testutil"
)

// acquisitions covers typical scan lengths against HRFs at TR 1 s and 0.5 s.
var acquisitions = []struct {
	signal int
	kernel int
}{
	{300, 30},
	{300, 60},
	{600, 120},
	{1200, 60},
	{2400, 120},
}

func BenchmarkCausal(b *testing.B) {
	for _, size := range acquisitions {
		signal := testutil.DeterministicNoise(1, 1, size.signal)
		kernel := testutil.GammaHRF(size.kernel, 5)

		b.Run(fmt.Sprintf("signal=%d_kernel=%d", size.signal, size.kernel), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = Causal(signal, kernel)
			}
		})
	}
}

func BenchmarkCausalAdjoint(b *testing.B) {
	for _, size := range acquisitions {
		y := testutil.DeterministicNoise(2, 1, size.signal)
		kernel := testutil.GammaHRF(size.kernel, 5)

		b.Run(fmt.Sprintf("signal=%d_kernel=%d", size.signal, size.kernel), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = CausalAdjoint(y, kernel, size.signal)
			}
		})
	}
}

func BenchmarkOverlapAddProcessCausal(b *testing.B) {
	for _, size := range acquisitions {
		signal := testutil.DeterministicNoise(3, 1, size.signal)
		kernel := testutil.GammaHRF(size.kernel, 5)

		oa, err := NewOverlapAdd(kernel, 256)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(fmt.Sprintf("signal=%d_kernel=%d", size.signal, size.kernel), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = oa.ProcessCausal(signal, size.signal)
			}
		})
	}
}
