package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-bold/measure/noise"
)

func (a *app) noiseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "noise",

		Short: "Estimates the noise level of BOLD signals.",

		Long: `Estimates the noise standard deviation of every column from the median
absolute deviation of its first-level Daubechies-3 detail coefficients.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readTable(a.v.GetString("noise.input"), cmd.InOrStdin())
			if err != nil {
				return err
			}
			names, signals, err := selectColumns(in, a.v.GetStringSlice("noise.column"))
			if err != nil {
				return err
			}

			analyzer := noise.NewAnalyzer()
			if c := a.v.GetFloat64("noise.constant"); c > 0 {
				analyzer.C = c
			}

			tw := tablewriter.NewWriter(a.stdout)
			tw.SetHeader([]string{"column", "sigma", "mad", "samples"})
			for k, y := range signals {
				m, err := analyzer.Analyze(y)
				if err != nil {
					return errors.Wrapf(err, "column %s", names[k])
				}
				tw.Append([]string{
					names[k],
					strconv.FormatFloat(m.Sigma, 'g', 6, 64),
					strconv.FormatFloat(m.MAD, 'g', 6, 64),
					strconv.Itoa(m.Samples),
				})
			}
			tw.Render()
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringP("input", "i", "-", "input CSV file")
	flags.StringSlice("column", nil, "columns to analyse (default: all but time)")
	flags.Float64("constant", noise.DefaultMADConstant, "MAD normalisation constant")
	for _, name := range []string{"input", "column", "constant"} {
		a.v.BindPFlag("noise."+name, flags.Lookup(name))
	}
	return cmd
}
