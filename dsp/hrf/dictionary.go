package hrf

import (
	"fmt"

	"github.com/cwbudde/algo-bold/dsp/core"
)

// Dictionary is a set of SPM responses with evenly spaced time lengths,
// ordered from the narrowest to the widest.
type Dictionary struct {
	// Atoms holds one response per time length, all of equal length.
	Atoms       [][]float64
	Times       []float64
	TimeLengths []float64
	FWHM        []float64
	TR          float64
}

// DictionaryOptions configures NewDictionary.
type DictionaryOptions struct {
	TR         float64
	Atoms      int
	MinLength  float64
	MaxLength  float64
	Normalized bool
}

// DefaultDictionaryOptions returns a 20-atom normalised dictionary spanning
// the full [10, 50] s time-length range.
func DefaultDictionaryOptions(tr float64) DictionaryOptions {
	return DictionaryOptions{
		TR:         tr,
		Atoms:      20,
		MinLength:  MinTimeLength,
		MaxLength:  MaxTimeLength,
		Normalized: true,
	}
}

// NewDictionary builds an SPM dictionary.
func NewDictionary(opts DictionaryOptions) (*Dictionary, error) {
	if opts.Atoms < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAtoms, opts.Atoms)
	}
	if opts.MinLength == 0 && opts.MaxLength == 0 {
		opts.MinLength, opts.MaxLength = MinTimeLength, MaxTimeLength
	}

	lengths := core.Linspace(opts.MinLength, opts.MaxLength, opts.Atoms)
	d := &Dictionary{
		Atoms:       make([][]float64, 0, opts.Atoms),
		TimeLengths: lengths,
		FWHM:        make([]float64, 0, opts.Atoms),
		TR:          opts.TR,
	}

	for _, tl := range lengths {
		resp, err := FromTimeLength(opts.TR, tl, opts.Normalized)
		if err != nil {
			return nil, err
		}
		d.Atoms = append(d.Atoms, resp.Values)
		d.FWHM = append(d.FWHM, FWHM(resp.Times, resp.Values))
		d.Times = resp.Times
	}

	return d, nil
}

// Len returns the number of samples of each atom.
func (d *Dictionary) Len() int {
	if len(d.Atoms) == 0 {
		return 0
	}
	return len(d.Atoms[0])
}

// Size returns the number of atoms.
func (d *Dictionary) Size() int {
	return len(d.Atoms)
}

// Combine returns sum_k coeffs[k] * Atoms[k].
func (d *Dictionary) Combine(coeffs []float64) []float64 {
	out := make([]float64, d.Len())
	for k, c := range coeffs {
		if c == 0 || k >= len(d.Atoms) {
			continue
		}
		for i, v := range d.Atoms[k] {
			out[i] += c * v
		}
	}
	return out
}
