package bold

import (
	"testing"

	"github.com/cwbudde/algo-bold/dsp/core"
	"github.com/cwbudde/algo-bold/dsp/signal"
	"github.com/cwbudde/algo-bold/internal/testutil"
)

func TestSimulateBlocks(t *testing.T) {
	g := signal.NewGeneratorWithOptions([]core.AcquisitionOption{core.WithMinutes(3)}, signal.WithSeed(4))
	sim, err := SimulateBlocks(g, BlockScenario{Blocks: signal.DefaultBlockOptions(), SNR: 10})
	if err != nil {
		t.Fatalf("SimulateBlocks: %v", err)
	}

	if len(sim.Noisy) != 180 || len(sim.Times) != 180 {
		t.Fatalf("lengths %d/%d, want 180", len(sim.Noisy), len(sim.Times))
	}
	if len(sim.HRF) != 60 {
		t.Fatalf("default HRF length = %d, want 60", len(sim.HRF))
	}
	testutil.RequireSliceNearlyEqual(t, sim.AR, mustCausal(t, sim.AI, sim.HRF), 1e-9)
	for k := range sim.Noisy {
		if d := sim.Noisy[k] - sim.AR[k] - sim.Noise[k]; d > 1e-12 || d < -1e-12 {
			t.Fatalf("noisy[%d] != ar + noise", k)
		}
	}

	again, err := SimulateBlocks(g, BlockScenario{Blocks: signal.DefaultBlockOptions(), SNR: 10})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, again.Noisy, sim.Noisy, 0)
}

func TestSimulateEvents(t *testing.T) {
	g := signal.NewGeneratorWithOptions([]core.AcquisitionOption{core.WithMinutes(2)}, signal.WithSeed(8))
	h := testutil.GammaHRF(15, 3)
	sim, err := SimulateEvents(g, EventScenario{HRF: h, Events: signal.DefaultEventOptions(), SNR: 20})
	if err != nil {
		t.Fatalf("SimulateEvents: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, sim.AR, mustCausal(t, sim.I, h), 1e-9)
	testutil.RequireSliceNearlyEqual(t, sim.HRF, h, 0)
}

func TestSimulateEmptyHRF(t *testing.T) {
	g := signal.NewGeneratorWithOptions(nil, signal.WithSeed(1))
	if _, err := SimulateBlocks(g, BlockScenario{HRF: []float64{}, Blocks: signal.DefaultBlockOptions()}); err == nil {
		t.Fatal("expected error for empty HRF")
	}
}
