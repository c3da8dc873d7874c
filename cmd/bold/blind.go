package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-bold/bold"
	"github.com/cwbudde/algo-bold/dsp/core"
	"github.com/cwbudde/algo-bold/internal/archive"
)

// blindOutput is the common part of both blind variants.
type blindOutput struct {
	ar, ai, i []float64
	hrf       []float64
	cost      []float64
	params    map[string]any
}

func (a *app) blindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "blind",

		Short: "Jointly estimates the activity and the HRF of a BOLD signal.",

		Long: `Alternates a sparse BOLD deconvolution with an HRF update. By default the
HRF is a sparse combination of SPM atoms; with --scaled it is the SPM
response with a single dilation found by golden-section search.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.tr()
			if err != nil {
				return err
			}
			in, err := readTable(a.v.GetString("blind.input"), cmd.InOrStdin())
			if err != nil {
				return err
			}
			y, err := in.column(a.v.GetString("blind.column"))
			if err != nil {
				return err
			}

			clock := startTimer()
			var res blindOutput
			if a.v.GetBool("blind.scaled") {
				res, err = a.scaledBlind(y, tr)
			} else {
				res, err = a.dictionaryBlind(y, tr)
			}
			if err != nil {
				return errors.Wrap(err, "blind deconvolution failed")
			}
			elapsed := clock.elapsed()

			out := &table{}
			out.add("time", core.Linspace(0, tr*float64(len(y)-1), len(y)))
			out.add("ar", res.ar)
			out.add("ai", res.ai)
			out.add("i", res.i)
			if err := writeTable(a.v.GetString("blind.output"), a.stdout, out); err != nil {
				return errors.Wrap(err, "failed to write estimates")
			}
			if path := a.v.GetString("blind.hrf-output"); path != "" {
				h := &table{}
				h.add("time", core.Linspace(0, tr*float64(len(res.hrf)-1), len(res.hrf)))
				h.add("hrf", res.hrf)
				if err := writeTable(path, a.stdout, h); err != nil {
					return errors.Wrap(err, "failed to write HRF")
				}
			}

			tw := tablewriter.NewWriter(a.stderr)
			tw.SetHeader([]string{"round", "cost"})
			for k, c := range res.cost {
				tw.Append([]string{strconv.Itoa(k + 1), strconv.FormatFloat(c, 'g', 8, 64)})
			}
			tw.Render()

			return a.record(cmd.Context(), &archive.Run{
				Kind:       "blind",
				Params:     res.params,
				Cost:       res.cost,
				Iterations: len(res.cost),
				Duration:   elapsed,
			},
				archive.Series{Name: "y", Values: y},
				archive.Series{Name: "ar", Values: res.ar},
				archive.Series{Name: "ai", Values: res.ai},
				archive.Series{Name: "i", Values: res.i},
				archive.Series{Name: "hrf", Values: res.hrf},
			)
		},
	}

	flags := cmd.Flags()
	flags.StringP("input", "i", "-", "BOLD CSV file")
	flags.String("column", "", "BOLD column (default: first)")
	flags.StringP("output", "o", "-", "output CSV file for ar, ai and i")
	flags.String("hrf-output", "", "output CSV file for the estimated HRF")
	flags.Float64("lambda-bold", 1.0, "L1 weight of the innovation")
	flags.Float64("lambda-hrf", 1e-4, "L1 weight of the dictionary coefficients")
	flags.Int("iter", 10, "alternating rounds")
	flags.Int("inner-iter", 2000, "FISTA iteration cap of each step")
	flags.Bool("scaled", false, "fit a single SPM dilation instead of a dictionary")
	flags.Float64("init-delta", 1.0, "starting dilation for --scaled")
	flags.Float64("delta-min", 0.5, "smallest dilation for --scaled")
	flags.Float64("delta-max", 2.0, "largest dilation for --scaled")
	for _, name := range []string{"input", "column", "output", "hrf-output", "lambda-bold",
		"lambda-hrf", "iter", "inner-iter", "scaled", "init-delta", "delta-min", "delta-max"} {
		a.v.BindPFlag("blind."+name, flags.Lookup(name))
	}
	dictionaryFlags(cmd, a, "blind", 20)
	return cmd
}

func (a *app) dictionaryBlind(y []float64, tr float64) (blindOutput, error) {
	dict, err := a.dictionary(tr, "blind")
	if err != nil {
		return blindOutput{}, err
	}
	opts := bold.DefaultBlindOptions()
	opts.LambdaBold = a.v.GetFloat64("blind.lambda-bold")
	opts.LambdaHRF = a.v.GetFloat64("blind.lambda-hrf")
	opts.Iterations = a.v.GetInt("blind.iter")
	opts.InnerMaxIter = a.v.GetInt("blind.inner-iter")
	opts.Logger = a.log

	res, err := bold.BlindDeconvolve(y, dict, opts)
	if err != nil {
		return blindOutput{}, err
	}
	a.log.WithFields(log.Fields{
		"rounds": len(res.Cost),
		"atoms":  dict.Size(),
	}).Info("blind deconvolution done")

	return blindOutput{
		ar: res.AR, ai: res.AI, i: res.I,
		hrf:  res.HRF,
		cost: res.Cost,
		params: map[string]any{
			"method":      "dictionary",
			"tr":          tr,
			"lambda_bold": opts.LambdaBold,
			"lambda_hrf":  opts.LambdaHRF,
			"atoms":       dict.Size(),
		},
	}, nil
}

func (a *app) scaledBlind(y []float64, tr float64) (blindOutput, error) {
	opts := bold.DefaultScaledOptions(tr)
	opts.LambdaBold = a.v.GetFloat64("blind.lambda-bold")
	opts.Iterations = a.v.GetInt("blind.iter")
	opts.InnerMaxIter = a.v.GetInt("blind.inner-iter")
	opts.InitDelta = a.v.GetFloat64("blind.init-delta")
	opts.DeltaMin = a.v.GetFloat64("blind.delta-min")
	opts.DeltaMax = a.v.GetFloat64("blind.delta-max")
	opts.Logger = a.log

	res, err := bold.ScaledBlindDeconvolve(y, opts)
	if err != nil {
		return blindOutput{}, err
	}
	a.log.WithFields(log.Fields{
		"rounds": len(res.Cost),
		"delta":  res.Delta,
	}).Info("scaled blind deconvolution done")

	return blindOutput{
		ar: res.AR, ai: res.AI, i: res.I,
		hrf:  res.HRF,
		cost: res.Cost,
		params: map[string]any{
			"method":      "scaled",
			"tr":          tr,
			"lambda_bold": opts.LambdaBold,
			"delta":       res.Delta,
		},
	}, nil
}
