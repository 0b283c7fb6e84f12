package signal_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/signal"
)

func ExampleWaveGenerator_Sine() {
	g, err := signal.NewWaveGenerator(0.005, 1000)
	if err != nil {
		panic(err)
	}
	x := g.Sine(250, 0)
	for i := range x {
		if math.Abs(x[i]) < 1e-12 {
			x[i] = 0
		}
	}

	fmt.Printf("%.0f %.0f %.0f %.0f %.0f\n", x[0], x[1], x[2], x[3], x[4])

	// Output:
	// 0 1 0 -1 0
}

func ExampleWaveGenerator_Saw() {
	g, err := signal.NewWaveGenerator(0.004, 1000)
	if err != nil {
		panic(err)
	}
	x := g.Saw(250, 0)
	fmt.Printf("%.1f %.1f %.1f %.1f\n", x[0], x[1], x[2], x[3])

	// Output:
	// -1.0 -0.5 0.0 0.5
}

func ExampleMix() {
	out, err := signal.Mix([]float64{1, 0, -1}, []float64{0.5, 0.5, 0.5})
	if err != nil {
		panic(err)
	}
	fmt.Println(out)

	// Output:
	// [1.5 0.5 -0.5]
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
