package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-bold/dsp/core"
)

func ExampleApplyAcquisitionOptions() {
	cfg := core.ApplyAcquisitionOptions(
		core.WithTR(2),
		core.WithMinutes(5),
	)

	fmt.Printf("tr=%.1f scans=%d\n", cfg.TR, cfg.Samples())

	// Output:
	// tr=2.0 scans=150
}
