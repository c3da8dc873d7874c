package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-bold/bold"
	"github.com/cwbudde/algo-bold/dsp/conv"
	"github.com/cwbudde/algo-bold/dsp/core"
	"github.com/cwbudde/algo-bold/dsp/hrf"
	"github.com/cwbudde/algo-bold/dsp/signal"
	"github.com/cwbudde/algo-bold/internal/archive"
)

// modelHRF returns the SPM response at tr, with the canonical dilation or
// the given time length.
func modelHRF(tr, timeLength float64) (hrf.Response, error) {
	if timeLength > 0 {
		return hrf.FromTimeLength(tr, timeLength, true)
	}
	return hrf.SPM(hrf.DefaultParams(tr))
}

func (a *app) deconvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "deconv",

		Short: "Recovers the activity of BOLD signals with a known HRF.",

		Long: `Deconvolves every selected column of the input CSV with the SPM HRF.
The sparse method minimises ½||h * Integ(i) - y||² + λ||i||₁; the wiener
method is the spectral baseline. Several columns are processed in parallel.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.tr()
			if err != nil {
				return err
			}
			in, err := readTable(a.v.GetString("deconv.input"), cmd.InOrStdin())
			if err != nil {
				return err
			}
			names, signals, err := selectColumns(in, a.v.GetStringSlice("deconv.column"))
			if err != nil {
				return err
			}
			resp, err := modelHRF(tr, a.v.GetFloat64("deconv.time-length"))
			if err != nil {
				return errors.Wrap(err, "failed to build HRF")
			}

			opts := bold.DefaultOptions()
			opts.Lambda = a.v.GetFloat64("deconv.lambda")
			if it := a.v.GetInt("deconv.max-iter"); it > 0 {
				opts.MaxIter = it
			}
			opts.Logger = a.log

			method := a.v.GetString("deconv.method")
			events := a.v.GetBool("deconv.events")
			clock := startTimer()

			var estimates []bold.Estimate
			switch method {
			case "sparse":
				if events {
					estimates, err = deconvolveEvents(signals, resp.Values, opts)
				} else {
					estimates, err = bold.DeconvolveBatch(cmd.Context(), signals, resp.Values, opts,
						a.v.GetInt("deconv.workers"))
				}
			case "wiener":
				estimates, err = wienerBaseline(signals, resp.Values)
			default:
				return errors.Errorf("unknown method %q (want sparse or wiener)", method)
			}
			if err != nil {
				return errors.Wrap(err, "deconvolution failed")
			}

			if th := a.v.GetFloat64("deconv.correct"); th > 0 && !events {
				for k := range estimates {
					c, err := bold.CorrectInnovationAmplitude(estimates[k].I, signals[k], resp.Values, th)
					if err != nil {
						return errors.Wrapf(err, "amplitude correction of %s", names[k])
					}
					c.Cost, c.Iterations, c.Converged = estimates[k].Cost, estimates[k].Iterations, estimates[k].Converged
					estimates[k] = c
				}
			}
			elapsed := clock.elapsed()

			a.log.WithFields(log.Fields{
				"signals": len(signals),
				"method":  method,
				"elapsed": elapsed,
			}).Info("deconvolved")

			out := &table{}
			out.add("time", core.Linspace(0, tr*float64(len(signals[0])-1), len(signals[0])))
			for k, est := range estimates {
				prefix := ""
				if len(estimates) > 1 {
					prefix = names[k] + "_"
				}
				out.add(prefix+"ar", est.AR)
				out.add(prefix+"ai", est.AI)
				out.add(prefix+"i", est.I)
			}
			if err := writeTable(a.v.GetString("deconv.output"), a.stdout, out); err != nil {
				return errors.Wrap(err, "failed to write estimates")
			}
			printEstimates(a, names, estimates)

			for k, est := range estimates {
				run := &archive.Run{
					Kind: "deconv",
					Params: map[string]any{
						"column": names[k],
						"method": method,
						"lambda": opts.Lambda,
						"tr":     tr,
						"events": events,
					},
					Cost:       est.Cost,
					Iterations: est.Iterations,
					Duration:   elapsed,
				}
				err := a.record(cmd.Context(), run,
					archive.Series{Name: "y", Values: signals[k]},
					archive.Series{Name: "ar", Values: est.AR},
					archive.Series{Name: "ai", Values: est.AI},
					archive.Series{Name: "i", Values: est.I},
				)
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringP("input", "i", "-", "input CSV file")
	flags.StringSlice("column", nil, "columns to deconvolve (default: all but time)")
	flags.StringP("output", "o", "-", "output CSV file")
	flags.Float64("lambda", 1.0, "L1 regularisation weight")
	flags.Float64("time-length", 0, "HRF time length in seconds (0 uses the canonical SPM HRF)")
	flags.String("method", "sparse", "sparse or wiener")
	flags.Bool("events", false, "event design: no integration of the innovation")
	flags.Int("workers", 0, "parallel deconvolutions (0 uses all CPUs)")
	flags.Int("max-iter", 0, "FISTA iteration cap (0 keeps the default)")
	flags.Float64("correct", 0, "support threshold for amplitude correction (0 disables)")

	for _, name := range []string{"input", "column", "output", "lambda", "time-length",
		"method", "events", "workers", "max-iter", "correct"} {
		a.v.BindPFlag("deconv."+name, flags.Lookup(name))
	}
	return cmd
}

// selectColumns returns the named columns, or every non-time column.
func selectColumns(t *table, names []string) ([]string, [][]float64, error) {
	if len(names) == 0 {
		num := t.numeric()
		if len(num.Columns) == 0 {
			return nil, nil, errors.New("input has no signal columns")
		}
		return num.Header, num.Columns, nil
	}
	cols := make([][]float64, len(names))
	for i, n := range names {
		c, err := t.column(n)
		if err != nil {
			return nil, nil, err
		}
		cols[i] = c
	}
	return names, cols, nil
}

func deconvolveEvents(signals [][]float64, h []float64, opts bold.Options) ([]bold.Estimate, error) {
	out := make([]bold.Estimate, len(signals))
	for k, y := range signals {
		est, err := bold.DeconvolveEvents(y, h, opts)
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", k, err)
		}
		out[k] = est
	}
	return out, nil
}

// wienerBaseline estimates ai by Wiener spectral division.
func wienerBaseline(signals [][]float64, h []float64) ([]bold.Estimate, error) {
	opts := conv.DefaultDeconvOptions()
	opts.Method = conv.DeconvWiener
	opts.Causal = true

	out := make([]bold.Estimate, len(signals))
	for k, y := range signals {
		ai, err := conv.Deconvolve(y, h, opts)
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", k, err)
		}
		ar, err := conv.Causal(ai, h)
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", k, err)
		}
		out[k] = bold.Estimate{AR: ar, AI: ai, I: signal.Innovation(ai), Converged: true}
	}
	return out, nil
}

func printEstimates(a *app, names []string, estimates []bold.Estimate) {
	yes := color.New(color.FgGreen).SprintFunc()
	no := color.New(color.FgRed).SprintFunc()

	tw := tablewriter.NewWriter(a.stderr)
	tw.SetHeader([]string{"column", "iterations", "final cost", "converged", "spikes"})
	for k, est := range estimates {
		cost := "-"
		if n := len(est.Cost); n > 0 {
			cost = strconv.FormatFloat(est.Cost[n-1], 'g', 6, 64)
		}
		state := no("no")
		if est.Converged {
			state = yes("yes")
		}
		tw.Append([]string{
			names[k],
			strconv.Itoa(est.Iterations),
			cost,
			state,
			strconv.Itoa(countNonZero(est.I, 1e-3)),
		})
	}
	tw.Render()
}

// countNonZero counts entries above tol times the largest magnitude.
func countNonZero(x []float64, tol float64) int {
	peak := signal.InfNorm(x)
	if peak == 0 {
		return 0
	}
	n := 0
	for _, v := range x {
		if v > tol*peak || v < -tol*peak {
			n++
		}
	}
	return n
}
