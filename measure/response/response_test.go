package response

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-bold/dsp/hrf"
)

func spmResponse(t *testing.T, tr float64) []float64 {
	t.Helper()
	resp, err := hrf.SPM(hrf.DefaultParams(tr))
	if err != nil {
		t.Fatalf("SPM: %v", err)
	}
	return resp.Values
}

func TestAnalyzeSPM(t *testing.T) {
	tests := []struct {
		tr             float64
		peakIndex      int
		onset          float64
		undershootIdx  int
		undershootLow  float64
		undershootHigh float64
	}{
		{tr: 1, peakIndex: 5, onset: 2, undershootIdx: 16, undershootLow: 0.085, undershootHigh: 0.093},
		{tr: 2, peakIndex: 3, onset: 2, undershootIdx: 8, undershootLow: 0.093, undershootHigh: 0.101},
	}

	for _, tt := range tests {
		h := spmResponse(t, tt.tr)
		m, err := NewAnalyzer(tt.tr).Analyze(h)
		if err != nil {
			t.Fatalf("TR %v: Analyze: %v", tt.tr, err)
		}

		if m.PeakIndex != tt.peakIndex {
			t.Errorf("TR %v: PeakIndex = %d, want %d", tt.tr, m.PeakIndex, tt.peakIndex)
		}

		if want := float64(tt.peakIndex) * tt.tr; m.TimeToPeak != want {
			t.Errorf("TR %v: TimeToPeak = %v, want %v", tt.tr, m.TimeToPeak, want)
		}

		if m.OnsetTime != tt.onset {
			t.Errorf("TR %v: OnsetTime = %v, want %v", tt.tr, m.OnsetTime, tt.onset)
		}

		if m.UndershootIndex != tt.undershootIdx {
			t.Errorf("TR %v: UndershootIndex = %d, want %d", tt.tr, m.UndershootIndex, tt.undershootIdx)
		}

		if m.UndershootAmplitude >= 0 {
			t.Errorf("TR %v: UndershootAmplitude = %v, want negative", tt.tr, m.UndershootAmplitude)
		}

		if m.UndershootRatio < tt.undershootLow || m.UndershootRatio > tt.undershootHigh {
			t.Errorf("TR %v: UndershootRatio = %.4f, want in [%v, %v]",
				tt.tr, m.UndershootRatio, tt.undershootLow, tt.undershootHigh)
		}

		if math.Abs(m.CenterTime-5.56) > 0.05 {
			t.Errorf("TR %v: CenterTime = %.3f, want about 5.56", tt.tr, m.CenterTime)
		}

		if m.FWHM < 4 || m.FWHM > 6.5 {
			t.Errorf("TR %v: FWHM = %.3f, want in [4, 6.5]", tt.tr, m.FWHM)
		}

		if m.Energy <= 0 {
			t.Errorf("TR %v: Energy = %v, want positive", tt.tr, m.Energy)
		}
	}
}

func TestAnalyzeNoUndershoot(t *testing.T) {
	h := []float64{0, 0.5, 1, 0.5, 0.25, 0}

	m, err := NewAnalyzer(0.5).Analyze(h)
	if err != nil {
		t.Fatal(err)
	}

	if m.UndershootIndex != -1 || m.UndershootRatio != 0 {
		t.Errorf("undershoot = (%d, %v), want (-1, 0)", m.UndershootIndex, m.UndershootRatio)
	}

	if m.TimeToPeak != 1 {
		t.Errorf("TimeToPeak = %v, want 1", m.TimeToPeak)
	}

	if m.Energy != 1.5625 {
		t.Errorf("Energy = %v, want 1.5625", m.Energy)
	}
}

func TestCenterTime(t *testing.T) {
	a := NewAnalyzer(2)

	ct, err := a.CenterTime([]float64{0, 0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}

	if ct != 4 {
		t.Errorf("CenterTime = %v, want 4", ct)
	}

	ct, err = a.CenterTime([]float64{0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}

	if ct != 0 {
		t.Errorf("CenterTime of silence = %v, want 0", ct)
	}
}

func TestEarlyEnergy(t *testing.T) {
	a := NewAnalyzer(1)

	h := spmResponse(t, 1)

	early, err := a.EarlyEnergy(h, 10)
	if err != nil {
		t.Fatal(err)
	}

	if early < 0.97 || early > 0.985 {
		t.Errorf("EarlyEnergy(10 s) = %.4f, want about 0.979", early)
	}

	all, err := a.EarlyEnergy(h, 1000)
	if err != nil {
		t.Fatal(err)
	}

	if all != 1 {
		t.Errorf("EarlyEnergy beyond the response = %v, want 1", all)
	}

	step, err := a.EarlyEnergy([]float64{1, 1, 1, 1}, 2)
	if err != nil {
		t.Fatal(err)
	}

	if step != 0.5 {
		t.Errorf("EarlyEnergy = %v, want 0.5", step)
	}
}

func TestOnset(t *testing.T) {
	a := NewAnalyzer(0.5)

	on, err := a.Onset([]float64{0, 0.05, 0.3, 1, 0.2}, 0.25)
	if err != nil {
		t.Fatal(err)
	}

	if on != 1 {
		t.Errorf("Onset = %v, want 1", on)
	}
}

func TestErrors(t *testing.T) {
	a := NewAnalyzer(1)

	if _, err := a.Analyze(nil); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Analyze(nil) err = %v, want ErrEmptyResponse", err)
	}

	if _, err := NewAnalyzer(0).Analyze([]float64{1}); !errors.Is(err, ErrInvalidTR) {
		t.Errorf("Analyze TR=0 err = %v, want ErrInvalidTR", err)
	}

	if _, err := a.EarlyEnergy([]float64{1}, 0); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("EarlyEnergy(0) err = %v, want ErrInvalidTime", err)
	}

	if _, err := NewAnalyzer(-1).CenterTime([]float64{1}); !errors.Is(err, ErrInvalidTR) {
		t.Errorf("CenterTime TR<0 err = %v, want ErrInvalidTR", err)
	}

	if _, err := a.Onset(nil, 0.1); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Onset(nil) err = %v, want ErrEmptyResponse", err)
	}
}
