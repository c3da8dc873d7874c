package signal

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-bold/dsp/core"
)

// fineDT is the period of the grid blocks are drawn on before decimation.
const fineDT = 0.001

// Activity is a synthetic neural activity sampled at TR.
type Activity struct {
	// AI is the activity-inducing signal (piecewise constant for blocks).
	AI []float64
	// I is the innovation signal: I[0] = 0, I[k] = AI[k] - AI[k-1].
	// Event designs have no integration step and AI equals I.
	I     []float64
	Times []float64
}

// BlockOptions configures BlockActivity.
type BlockOptions struct {
	Events int
	// AvgDuration and StdDuration are in seconds. A block lasts
	// AvgDuration + StdDuration^2 * N(0, 1) seconds.
	AvgDuration float64
	StdDuration float64
	// MiddleSpike adds an isolated one-millisecond block at the centre.
	MiddleSpike bool
	// Overlapping allows blocks to overlap; UnitaryBlock then clips the sum
	// back to one.
	Overlapping   bool
	UnitaryBlock  bool
	Tries         int
	DurationTries int
}

// DefaultBlockOptions returns four non-overlapping blocks of about 5 s.
func DefaultBlockOptions() BlockOptions {
	return BlockOptions{
		Events:        4,
		AvgDuration:   5,
		StdDuration:   1,
		Tries:         1000,
		DurationTries: 1000,
	}
}

// EventOptions configures EventActivity.
type EventOptions struct {
	Events int
	// Spike amplitudes are AvgAmplitude + StdAmplitude^2 * N(0, 1).
	AvgAmplitude   float64
	StdAmplitude   float64
	Tries          int
	AmplitudeTries int
}

// DefaultEventOptions returns four spikes of amplitude around one.
func DefaultEventOptions() EventOptions {
	return EventOptions{
		Events:         4,
		AvgAmplitude:   1,
		StdAmplitude:   0.5,
		Tries:          1000,
		AmplitudeTries: 1000,
	}
}

// BlockActivity draws a block design. Blocks are placed on a 1 ms grid and
// decimated to TR; draws whose decimation merged or erased a block are
// rejected. With a seed the retries continue the seeded stream, so the
// result stays reproducible.
func (g *Generator) BlockActivity(opts BlockOptions) (Activity, error) {
	if opts.Events < 1 {
		return Activity{}, fmt.Errorf("block events must be > 0: %d", opts.Events)
	}
	if opts.AvgDuration <= 0 {
		return Activity{}, fmt.Errorf("block average duration must be > 0: %f", opts.AvgDuration)
	}
	samples := g.cfg.Samples()
	if samples < 2 {
		return Activity{}, fmt.Errorf("acquisition too short: %d scans", samples)
	}
	tries := max(opts.Tries, 1)
	durationTries := max(opts.DurationTries, 1)

	step := core.DecimationStep(g.cfg.TR, fineDT)
	n := samples * step
	centre := (samples / 2) * step
	variance := opts.StdDuration * opts.StdDuration

	want := opts.Events
	if opts.MiddleSpike {
		want++
	}

	r := g.rng()
	fine := make([]float64, n)
	durations := make([]int, opts.Events)

	for range tries {
		offsets := drawOffsets(r, opts.Events, n)
		if !drawDurations(r, durations, opts.AvgDuration, variance, durationTries) {
			continue
		}

		core.Zero(fine)
		for k, off := range offsets {
			end := min(off+durations[k], n)
			for j := off; j < end; j++ {
				fine[j]++
			}
		}

		if opts.MiddleSpike {
			fine[centre]++
		}
		if !opts.Overlapping && anyAbove(fine, 1) {
			continue
		}
		if opts.Overlapping && opts.UnitaryBlock {
			for j, v := range fine {
				if v > 1 {
					fine[j] = 1
				}
			}
		}
		if opts.MiddleSpike && (fine[centre-1] > 0 || fine[centre+1] > 0) {
			continue
		}

		ai := core.Decimate(fine, step)
		innov := Innovation(ai)
		if !opts.Overlapping && countAbove(innov, 0.5) != want {
			continue
		}

		return Activity{AI: ai, I: innov, Times: g.cfg.Times()}, nil
	}

	return Activity{}, ErrGenerationFailed
}

// EventActivity draws an event design: isolated non-negative spikes on the
// TR grid. Draws where two spikes collide or a spike falls under 0.5 are
// rejected.
func (g *Generator) EventActivity(opts EventOptions) (Activity, error) {
	if opts.Events < 1 {
		return Activity{}, fmt.Errorf("events must be > 0: %d", opts.Events)
	}
	samples := g.cfg.Samples()
	if samples < opts.Events {
		return Activity{}, fmt.Errorf("acquisition of %d scans cannot hold %d events", samples, opts.Events)
	}
	tries := max(opts.Tries, 1)
	amplTries := max(opts.AmplitudeTries, 1)
	variance := opts.StdAmplitude * opts.StdAmplitude

	r := g.rng()
	ampls := make([]float64, opts.Events)

	for range tries {
		offsets := drawOffsets(r, opts.Events, samples)
		ok := false
		for range amplTries {
			ok = true
			for k := range ampls {
				ampls[k] = opts.AvgAmplitude + variance*r.NormFloat64()
				if ampls[k] < 0 {
					ok = false
				}
			}
			if ok {
				break
			}
		}
		if !ok {
			continue
		}

		innov := make([]float64, samples)
		for k, off := range offsets {
			innov[off] += ampls[k]
		}
		if countAbove(innov, 0.5) != opts.Events {
			continue
		}

		return Activity{AI: innov, I: core.Clone(innov), Times: g.cfg.Times()}, nil
	}

	return Activity{}, ErrGenerationFailed
}

// Innovation returns the first difference of ai with a leading zero.
func Innovation(ai []float64) []float64 {
	out := make([]float64, len(ai))
	for k := 1; k < len(ai); k++ {
		out[k] = ai[k] - ai[k-1]
	}
	return out
}

func drawOffsets(r *rand.Rand, count, n int) []int {
	out := make([]int, count)
	for k := range out {
		out[k] = r.Intn(n)
	}
	return out
}

// drawDurations fills dst with block lengths in fine samples. It reports
// false when every draw contained a block shorter than one sample.
func drawDurations(r *rand.Rand, dst []int, avg, variance float64, tries int) bool {
	for range tries {
		ok := true
		for k := range dst {
			d := avg + variance*r.NormFloat64()
			if d < fineDT {
				ok = false
				break
			}
			dst[k] = int(d / fineDT)
		}
		if ok {
			return true
		}
	}
	return false
}

func anyAbove(x []float64, level float64) bool {
	for _, v := range x {
		if v > level {
			return true
		}
	}
	return false
}

func countAbove(x []float64, level float64) int {
	n := 0
	for _, v := range x {
		if v > level {
			n++
		}
	}
	return n
}
