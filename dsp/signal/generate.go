package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/cwbudde/algo-bold/dsp/core"
)

// ErrGenerationFailed is returned when no draw satisfied the activity
// constraints within the configured number of tries.
var ErrGenerationFailed = errors.New("signal: failed to produce an activity signal, retry with other parameters")

// Generator creates synthetic activity and noise from a shared acquisition
// configuration.
type Generator struct {
	cfg    core.AcquisitionConfig
	seed   int64
	seeded bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes every draw deterministic. Each call restarts the stream
// from seed, so the same call on the same generator repeats its output.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
		g.seeded = true
	}
}

// NewGenerator creates an unseeded generator.
func NewGenerator(opts ...core.AcquisitionOption) *Generator {
	return &Generator{
		cfg: core.ApplyAcquisitionOptions(opts...),
	}
}

// NewGeneratorWithOptions creates a generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.AcquisitionOption, opts ...Option) *Generator {
	g := NewGenerator(coreOpts...)
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the acquisition configuration.
func (g *Generator) Config() core.AcquisitionConfig {
	return g.cfg
}

// SetSeed switches the generator to deterministic mode.
func (g *Generator) SetSeed(seed int64) {
	g.seed = seed
	g.seeded = true
}

// Seed returns the seed and whether one was set.
func (g *Generator) Seed() (int64, bool) {
	return g.seed, g.seeded
}

func (g *Generator) rng() *rand.Rand {
	if g.seeded {
		return rand.New(rand.NewSource(g.seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// GaussianNoise adds white Gaussian noise to s so that the ratio of the
// signal norm to the noise norm is snrDB decibels. It returns the noisy
// signal and the noise.
func (g *Generator) GaussianNoise(s []float64, snrDB float64) (noisy, noise []float64, err error) {
	if len(s) == 0 {
		return nil, nil, fmt.Errorf("noise input must not be empty")
	}
	if math.IsNaN(snrDB) || math.IsInf(snrDB, 0) {
		return nil, nil, fmt.Errorf("noise snr must be finite: %f", snrDB)
	}

	r := g.rng()
	noise = make([]float64, len(s))
	for i := range noise {
		noise[i] = r.NormFloat64()
	}

	ratio := l2Norm(s) / (l2Norm(noise) + eps)
	std := math.Pow(10, -snrDB/20) * ratio

	noisy = make([]float64, len(s))
	for i := range noise {
		noise[i] *= std
		noisy[i] = s[i] + noise[i]
	}
	return noisy, noise, nil
}

const eps = 2.220446049250313e-16

func l2Norm(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// InfNorm returns max |x|.
func InfNorm(x []float64) float64 {
	peak := 0.0
	for _, v := range x {
		if av := math.Abs(v); av > peak {
			peak = av
		}
	}
	return peak
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := InfNorm(data)
	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
