package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-bold/internal/archive"
)

func (a *app) requireArchive() (*archive.Store, error) {
	s, err := a.openArchive()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.New("no archive configured (use --db or BOLD_DB)")
	}
	return s, nil
}

func (a *app) runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "runs",

		Short: "Lists archived runs.",

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.requireArchive()
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(cmd.Context(), a.v.GetInt("runs.limit"))
			if err != nil {
				return errors.Wrap(err, "failed to list runs")
			}

			tw := tablewriter.NewWriter(a.stdout)
			tw.SetHeader([]string{"id", "kind", "created", "iterations", "final cost", "duration"})
			for _, r := range runs {
				tw.Append([]string{
					r.ID,
					r.Kind,
					r.CreatedAt.Local().Format(time.DateTime),
					strconv.Itoa(r.Iterations),
					finalCost(r.Cost),
					r.Duration.String(),
				})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "maximum number of runs (0 lists all)")
	a.v.BindPFlag("runs.limit", cmd.Flags().Lookup("limit"))

	cmd.AddCommand(a.runsShowCmd(), a.runsDeleteCmd())
	return cmd
}

func (a *app) runsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use: "show <id>",

		Short: "Prints the parameters and signals of an archived run.",

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.requireArchive()
			if err != nil {
				return err
			}
			defer s.Close()

			r, err := s.GetRun(cmd.Context(), args[0])
			if err != nil {
				return errors.Wrapf(err, "run %s", args[0])
			}
			series, err := s.Series(cmd.Context(), r.ID)
			if err != nil {
				return errors.Wrapf(err, "series of run %s", r.ID)
			}

			label := color.New(color.Bold).SprintFunc()
			fmt.Fprintf(a.stdout, "%s %s\n", label("id:"), r.ID)
			fmt.Fprintf(a.stdout, "%s %s\n", label("kind:"), r.Kind)
			fmt.Fprintf(a.stdout, "%s %s\n", label("created:"), r.CreatedAt.Local().Format(time.RFC3339))
			fmt.Fprintf(a.stdout, "%s %d\n", label("iterations:"), r.Iterations)
			fmt.Fprintf(a.stdout, "%s %s\n", label("final cost:"), finalCost(r.Cost))
			if r.Note != "" {
				fmt.Fprintf(a.stdout, "%s %s\n", label("note:"), r.Note)
			}

			keys := make([]string, 0, len(r.Params))
			for k := range r.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			params := make([]string, len(keys))
			for i, k := range keys {
				params[i] = fmt.Sprintf("%s=%v", k, r.Params[k])
			}
			fmt.Fprintf(a.stdout, "%s %s\n", label("params:"), strings.Join(params, " "))

			tw := tablewriter.NewWriter(a.stdout)
			tw.SetHeader([]string{"series", "samples", "min", "max"})
			for _, sr := range series {
				lo, hi := bounds(sr.Values)
				tw.Append([]string{
					sr.Name,
					strconv.Itoa(len(sr.Values)),
					strconv.FormatFloat(lo, 'g', 6, 64),
					strconv.FormatFloat(hi, 'g', 6, 64),
				})
			}
			tw.Render()
			return nil
		},
	}
}

func (a *app) runsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use: "delete <id>",

		Short: "Removes an archived run.",

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.requireArchive()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteRun(cmd.Context(), args[0]); err != nil {
				return errors.Wrapf(err, "run %s", args[0])
			}
			a.log.WithField("id", args[0]).Info("deleted run")
			return nil
		},
	}
}

func finalCost(cost []float64) string {
	if len(cost) == 0 {
		return "-"
	}
	return strconv.FormatFloat(cost[len(cost)-1], 'g', 6, 64)
}

func bounds(x []float64) (lo, hi float64) {
	for i, v := range x {
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi
}
