package bold

import (
	"github.com/cwbudde/algo-bold/dsp/conv"
	"github.com/cwbudde/algo-bold/dsp/hrf"
	"github.com/cwbudde/algo-bold/dsp/signal"
)

// Simulation is a synthetic BOLD acquisition with its ground truth.
type Simulation struct {
	Noisy []float64
	AR    []float64
	AI    []float64
	I     []float64
	Times []float64
	HRF   []float64
	Noise []float64
}

// BlockScenario configures SimulateBlocks.
type BlockScenario struct {
	// HRF defaults to the SPM response at the generator TR.
	HRF    []float64
	Blocks signal.BlockOptions
	SNR    float64
}

// EventScenario configures SimulateEvents.
type EventScenario struct {
	HRF    []float64
	Events signal.EventOptions
	SNR    float64
}

// SimulateBlocks draws a block design and returns its noisy BOLD signal.
func SimulateBlocks(g *signal.Generator, sc BlockScenario) (Simulation, error) {
	h, err := scenarioHRF(g, sc.HRF)
	if err != nil {
		return Simulation{}, err
	}
	act, err := g.BlockActivity(sc.Blocks)
	if err != nil {
		return Simulation{}, err
	}
	return simulate(g, act, act.AI, h, sc.SNR)
}

// SimulateEvents draws an event design and returns its noisy BOLD signal.
func SimulateEvents(g *signal.Generator, sc EventScenario) (Simulation, error) {
	h, err := scenarioHRF(g, sc.HRF)
	if err != nil {
		return Simulation{}, err
	}
	act, err := g.EventActivity(sc.Events)
	if err != nil {
		return Simulation{}, err
	}
	return simulate(g, act, act.I, h, sc.SNR)
}

func simulate(g *signal.Generator, act signal.Activity, drive, h []float64, snr float64) (Simulation, error) {
	ar, err := conv.Causal(drive, h)
	if err != nil {
		return Simulation{}, err
	}
	noisy, noise, err := g.GaussianNoise(ar, snr)
	if err != nil {
		return Simulation{}, err
	}
	return Simulation{
		Noisy: noisy,
		AR:    ar,
		AI:    act.AI,
		I:     act.I,
		Times: act.Times,
		HRF:   h,
		Noise: noise,
	}, nil
}

func scenarioHRF(g *signal.Generator, h []float64) ([]float64, error) {
	if h != nil {
		if len(h) == 0 {
			return nil, ErrEmptyHRF
		}
		return h, nil
	}
	resp, err := hrf.SPM(hrf.DefaultParams(g.Config().TR))
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}
