package signal_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-bold/dsp/signal"
)

func ExampleInnovation() {
	fmt.Println(signal.Innovation([]float64{0, 1, 1, 1, 0, 0}))

	// Output:
	// [0 1 0 0 -1 0]
}

func ExampleGenerator_GaussianNoise() {
	g := signal.NewGeneratorWithOptions(nil, signal.WithSeed(1))
	s := []float64{0, 1, 2, 1, 0, 1, 2, 1}
	_, noise, err := g.GaussianNoise(s, 10)
	if err != nil {
		panic(err)
	}

	var ps, pn float64
	for i := range s {
		ps += s[i] * s[i]
		pn += noise[i] * noise[i]
	}
	fmt.Printf("snr=%.1f dB\n", 10*math.Log10(ps/pn))

	// Output:
	// snr=10.0 dB
}

func ExampleNormalize() {
	x, err := signal.Normalize([]float64{-0.5, 0.25, 1}, 0.8)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.2f %.2f %.2f\n", x[0], x[1], x[2])

	// Output:
	// -0.40 0.20 0.80
}
