package response_test

import (
	"fmt"

	"github.com/cwbudde/algo-bold/dsp/hrf"
	"github.com/cwbudde/algo-bold/measure/response"
)

func ExampleAnalyzer_Analyze() {
	resp, err := hrf.SPM(hrf.DefaultParams(1.0))
	if err != nil {
		fmt.Println(err)
		return
	}

	m, err := response.NewAnalyzer(1.0).Analyze(resp.Values)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("peak at %.0f s, undershoot at %d s\n", m.TimeToPeak, m.UndershootIndex)
	// Output: peak at 5 s, undershoot at 16 s
}
