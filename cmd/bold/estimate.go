package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-bold/bold"
	"github.com/cwbudde/algo-bold/dsp/hrf"
	"github.com/cwbudde/algo-bold/internal/archive"
)

// dictionary builds the SPM dictionary configured under prefix.
func (a *app) dictionary(tr float64, prefix string) (*hrf.Dictionary, error) {
	opts := hrf.DefaultDictionaryOptions(tr)
	opts.Atoms = a.v.GetInt(prefix + ".atoms")
	opts.MinLength = a.v.GetFloat64(prefix + ".min-length")
	opts.MaxLength = a.v.GetFloat64(prefix + ".max-length")
	d, err := hrf.NewDictionary(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build HRF dictionary")
	}
	return d, nil
}

func dictionaryFlags(cmd *cobra.Command, a *app, prefix string, atoms int) {
	flags := cmd.Flags()
	flags.Int("atoms", atoms, "number of dictionary atoms")
	flags.Float64("min-length", hrf.MinTimeLength, "shortest HRF time length in seconds")
	flags.Float64("max-length", hrf.MaxTimeLength, "longest HRF time length in seconds")
	for _, name := range []string{"atoms", "min-length", "max-length"} {
		a.v.BindPFlag(prefix+"."+name, flags.Lookup(name))
	}
}

func (a *app) estimateHRFCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "estimate-hrf",

		Short: "Estimates the HRF of a BOLD signal from a known activity.",

		Long: `Encodes the HRF as a sparse combination of SPM atoms, minimising
½||ai * (D·z) - y||² + λ||z||₁, and writes the estimated HRF as CSV.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.tr()
			if err != nil {
				return err
			}
			inPath := a.v.GetString("estimate-hrf.input")
			actPath := a.v.GetString("estimate-hrf.activity")
			if actPath == "" {
				return errors.New("--activity is required")
			}
			if inPath == "-" && actPath == "-" {
				return errors.New("--input and --activity cannot both read standard input")
			}
			in, err := readTable(inPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			y, err := in.column(a.v.GetString("estimate-hrf.column"))
			if err != nil {
				return err
			}
			act, err := readTable(actPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			ai, err := act.column(a.v.GetString("estimate-hrf.activity-column"))
			if err != nil {
				return err
			}
			dict, err := a.dictionary(tr, "estimate-hrf")
			if err != nil {
				return err
			}

			opts := bold.DefaultHRFOptions()
			opts.Lambda = a.v.GetFloat64("estimate-hrf.lambda")
			if it := a.v.GetInt("estimate-hrf.max-iter"); it > 0 {
				opts.MaxIter = it
			}
			opts.Logger = a.log

			clock := startTimer()
			est, err := bold.EstimateHRF(ai, y, dict, opts)
			if err != nil {
				return errors.Wrap(err, "HRF estimation failed")
			}
			if th := a.v.GetFloat64("estimate-hrf.correct"); th > 0 {
				h, z, err := bold.CorrectHRFAmplitude(est.Coeffs, y, ai, dict, th)
				if err != nil {
					return errors.Wrap(err, "HRF amplitude correction failed")
				}
				est.HRF, est.Coeffs = h, z
			}
			elapsed := clock.elapsed()

			a.log.WithFields(log.Fields{
				"atoms":      dict.Size(),
				"iterations": est.Iterations,
				"fwhm":       hrf.FWHM(dict.Times, est.HRF),
			}).Info("estimated HRF")

			out := &table{}
			out.add("time", dict.Times)
			out.add("hrf", est.HRF)
			if err := writeTable(a.v.GetString("estimate-hrf.output"), a.stdout, out); err != nil {
				return errors.Wrap(err, "failed to write HRF")
			}

			tw := tablewriter.NewWriter(a.stderr)
			tw.SetHeader([]string{"atom", "time length (s)", "coefficient"})
			for k, z := range est.Coeffs {
				if z == 0 {
					continue
				}
				tw.Append([]string{
					strconv.Itoa(k),
					strconv.FormatFloat(dict.TimeLengths[k], 'f', 2, 64),
					strconv.FormatFloat(z, 'g', 6, 64),
				})
			}
			tw.Render()

			return a.record(cmd.Context(), &archive.Run{
				Kind:       "estimate-hrf",
				Params:     map[string]any{"lambda": opts.Lambda, "atoms": dict.Size(), "tr": tr},
				Cost:       est.Cost,
				Iterations: est.Iterations,
				Duration:   elapsed,
			},
				archive.Series{Name: "hrf", Values: est.HRF},
				archive.Series{Name: "coeffs", Values: est.Coeffs},
			)
		},
	}

	flags := cmd.Flags()
	flags.StringP("input", "i", "-", "BOLD CSV file")
	flags.String("column", "", "BOLD column (default: first)")
	flags.String("activity", "", "activity-inducing signal CSV file")
	flags.String("activity-column", "ai", "activity column")
	flags.StringP("output", "o", "-", "output CSV file")
	flags.Float64("lambda", 1e-4, "L1 weight of the dictionary coefficients")
	flags.Int("max-iter", 0, "FISTA iteration cap (0 keeps the default)")
	flags.Float64("correct", 0, "support threshold for amplitude correction (0 disables)")
	for _, name := range []string{"input", "column", "activity", "activity-column", "output",
		"lambda", "max-iter", "correct"} {
		a.v.BindPFlag("estimate-hrf."+name, flags.Lookup(name))
	}
	dictionaryFlags(cmd, a, "estimate-hrf", 20)
	return cmd
}
