// Command synthmix renders synthetic waveform mixtures and summarizes their
// spectral features.
//
// Usage:
//
//	synthmix generate [flags]
//	synthmix tone sine|square|saw [flags]
//	synthmix wavetable [flags]
//	synthmix features file.wav [flags]
//	synthmix config
//
// Settings come from synthmix.yaml, SYNTHMIX_* environment variables and
// flags, in increasing priority.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
