// Command bold simulates and deconvolves fMRI BOLD signals.
//
// Usage:
//
//	bold [command] [flags]
//
// Examples:
//
//	bold simulate blocks --duration 300 --snr 10 --seed 1 > sim.csv
//	bold deconv --input sim.csv --column noisy --lambda 0.5
//	bold blind --input sim.csv --column noisy --atoms 20 --iter 10
//	bold hrf --tr 2 --atoms 8
//	bold runs --db bold.db
//
// Flags can also be set through BOLD_* environment variables (BOLD_TR,
// BOLD_DECONV_LAMBDA) or a bold.yaml file in the working directory.
package main

import "os"

func main() {
	a := newApp(os.Stdout, os.Stderr)
	if err := a.root().Execute(); err != nil {
		a.log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
