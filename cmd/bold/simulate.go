package main

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-bold/bold"
	"github.com/cwbudde/algo-bold/dsp/core"
	"github.com/cwbudde/algo-bold/dsp/signal"
	"github.com/cwbudde/algo-bold/internal/archive"
)

func (a *app) simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "simulate blocks|events",

		Short: "Generates a synthetic noisy BOLD signal with its ground truth.",

		Long: `Generates a synthetic noisy BOLD signal and writes a CSV with the
columns time, noisy, ar, ai and i.`,

		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"blocks", "events"},

		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.tr()
			if err != nil {
				return err
			}

			gen := signal.NewGenerator(
				core.WithTR(tr),
				core.WithDuration(a.v.GetFloat64("simulate.duration")),
			)
			if a.v.IsSet("simulate.seed") {
				gen.SetSeed(a.v.GetInt64("simulate.seed"))
			}
			snr := a.v.GetFloat64("simulate.snr")
			events := a.v.GetInt("simulate.events")

			var sim bold.Simulation
			switch args[0] {
			case "blocks":
				blocks := signal.DefaultBlockOptions()
				blocks.Events = events
				blocks.AvgDuration = a.v.GetFloat64("simulate.avg-duration")
				blocks.StdDuration = a.v.GetFloat64("simulate.std-duration")
				blocks.MiddleSpike = a.v.GetBool("simulate.middle-spike")
				blocks.Overlapping = a.v.GetBool("simulate.overlapping")
				blocks.UnitaryBlock = blocks.Overlapping
				sim, err = bold.SimulateBlocks(gen, bold.BlockScenario{Blocks: blocks, SNR: snr})
			case "events":
				ev := signal.DefaultEventOptions()
				ev.Events = events
				sim, err = bold.SimulateEvents(gen, bold.EventScenario{Events: ev, SNR: snr})
			}
			if err != nil {
				return errors.Wrapf(err, "failed to simulate %s", args[0])
			}

			a.log.WithFields(log.Fields{
				"design":  args[0],
				"samples": len(sim.Noisy),
				"snr":     snr,
			}).Info("simulated BOLD signal")

			out := &table{}
			out.add("time", sim.Times)
			out.add("noisy", sim.Noisy)
			out.add("ar", sim.AR)
			out.add("ai", sim.AI)
			out.add("i", sim.I)
			if err := writeTable(a.v.GetString("simulate.output"), a.stdout, out); err != nil {
				return errors.Wrap(err, "failed to write simulation")
			}

			params := map[string]any{"design": args[0], "tr": tr, "snr": snr, "events": events}
			if seed, ok := gen.Seed(); ok {
				params["seed"] = seed
			}
			return a.record(cmd.Context(), &archive.Run{Kind: "simulate", Params: params},
				archive.Series{Name: "noisy", Values: sim.Noisy},
				archive.Series{Name: "ar", Values: sim.AR},
				archive.Series{Name: "ai", Values: sim.AI},
				archive.Series{Name: "i", Values: sim.I},
				archive.Series{Name: "hrf", Values: sim.HRF},
			)
		},
	}

	flags := cmd.Flags()
	flags.Float64("duration", 300, "acquisition length in seconds")
	flags.Float64("snr", 10, "signal-to-noise ratio in dB")
	flags.Int("events", 4, "number of blocks or spikes")
	flags.Float64("avg-duration", 5, "mean block duration in seconds")
	flags.Float64("std-duration", 1, "block duration spread")
	flags.Bool("middle-spike", false, "add an isolated spike at the centre")
	flags.Bool("overlapping", false, "allow blocks to overlap")
	flags.Int64("seed", 0, "random seed; unset draws a fresh signal")
	flags.StringP("output", "o", "-", "output CSV file")

	for _, name := range []string{"duration", "snr", "events", "avg-duration", "std-duration",
		"middle-spike", "overlapping", "seed", "output"} {
		a.v.BindPFlag("simulate."+name, flags.Lookup(name))
	}
	return cmd
}
