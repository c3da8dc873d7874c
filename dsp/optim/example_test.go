package optim_test

import (
	"fmt"

	"github.com/cwbudde/algo-bold/dsp/linop"
	"github.com/cwbudde/algo-bold/dsp/optim"
)

func ExampleL1_Prox() {
	fmt.Println(optim.L1{Lambda: 1}.Prox([]float64{3, -0.5, -2}, 1))

	// Output:
	// [2 0 -1]
}

func ExampleFISTA() {
	y := []float64{2, 0.2, -3}
	f, err := optim.NewL2Residual(linop.Identity(len(y)), y)
	if err != nil {
		panic(err)
	}
	res, err := optim.FISTA(f, optim.L1{Lambda: 1}, make([]float64, len(y)), optim.DefaultOptions())
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.2f converged=%v\n", res.X, res.Converged)

	// Output:
	// [1.00 0.00 -2.00] converged=true
}
