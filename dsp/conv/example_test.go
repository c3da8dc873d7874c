package conv_test

import (
	"fmt"

	"github.com/cwbudde/algo-bold/dsp/conv"
)

func ExampleCausal() {
	// A two-scan block convolved with a short response, truncated to the scan.
	block := []float64{0, 1, 1, 0, 0, 0}
	response := []float64{0.5, 1, 0.5}

	ar, _ := conv.Causal(block, response)
	fmt.Println(ar)

	// Output:
	// [0 0.5 1.5 1.5 0.5 0]
}

func ExampleCausalAdjoint() {
	residual := []float64{0, 0, 1, 0}
	response := []float64{0.5, 1, 0.5}

	grad, _ := conv.CausalAdjoint(residual, response, 4)
	fmt.Println(grad)

	// Output:
	// [0.5 1 0.5 0]
}

func ExampleOverlapAdd() {
	kernel := make([]float64, 100)
	kernel[0] = 1

	convolver, _ := conv.NewOverlapAdd(kernel, 256)
	fmt.Printf("Block size: %d\n", convolver.BlockSize())
	fmt.Printf("FFT size: %d\n", convolver.FFTSize())

	out, _ := convolver.ProcessCausal(make([]float64, 300), 300)
	fmt.Printf("Causal length: %d\n", len(out))

	// Output:
	// Block size: 256
	// FFT size: 512
	// Causal length: 300
}
