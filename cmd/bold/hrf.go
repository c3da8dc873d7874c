package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-bold/bold"
	"github.com/cwbudde/algo-bold/dsp/hrf"
	"github.com/cwbudde/algo-bold/measure/response"
)

func (a *app) hrfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "hrf",

		Short: "Prints shape metrics of the SPM HRF dictionary.",

		Long: `Builds the SPM dictionary at the given TR and prints one row per atom:
time length, time to peak, onset, FWHM, center time and undershoot.
The atom closest to the 30 s starting HRF of blind deconvolution is
highlighted.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.tr()
			if err != nil {
				return err
			}
			dict, err := a.dictionary(tr, "hrf")
			if err != nil {
				return err
			}

			start := closestAtom(dict, bold.InitTimeLength)
			highlight := color.New(color.Bold, color.FgGreen).SprintFunc()
			analyzer := response.NewAnalyzer(tr)

			tw := tablewriter.NewWriter(a.stdout)
			tw.SetHeader([]string{"atom", "time length", "peak", "onset", "fwhm", "center", "undershoot", "samples"})
			for k, h := range dict.Atoms {
				m, err := analyzer.Analyze(h)
				if err != nil {
					return errors.Wrapf(err, "atom %d", k)
				}
				row := []string{
					strconv.Itoa(k),
					fmt.Sprintf("%.2f s", dict.TimeLengths[k]),
					fmt.Sprintf("%.1f s", m.TimeToPeak),
					fmt.Sprintf("%.1f s", m.OnsetTime),
					fmt.Sprintf("%.2f s", m.FWHM),
					fmt.Sprintf("%.2f s", m.CenterTime),
					fmt.Sprintf("%.1f%%", 100*m.UndershootRatio),
					strconv.Itoa(len(h)),
				}
				if k == start {
					for i := range row {
						row[i] = highlight(row[i])
					}
				}
				tw.Append(row)
			}
			tw.Render()

			if path := a.v.GetString("hrf.output"); path != "" {
				out := &table{}
				out.add("time", dict.Times)
				for k, h := range dict.Atoms {
					out.add(fmt.Sprintf("tl%.2f", dict.TimeLengths[k]), h)
				}
				if err := writeTable(path, a.stdout, out); err != nil {
					return errors.Wrap(err, "failed to write dictionary")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "write the atoms as CSV columns")
	a.v.BindPFlag("hrf.output", cmd.Flags().Lookup("output"))
	dictionaryFlags(cmd, a, "hrf", 10)
	return cmd
}

// closestAtom returns the atom whose time length is nearest to tl.
func closestAtom(dict *hrf.Dictionary, tl float64) int {
	best := 0
	for k, v := range dict.TimeLengths {
		if abs(v-tl) < abs(dict.TimeLengths[best]-tl) {
			best = k
		}
	}
	return best
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
