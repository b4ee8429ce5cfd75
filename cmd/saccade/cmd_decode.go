package main

import (
	"fmt"

	"github.com/nvandessel/saccadegen/internal/constants"
	"github.com/nvandessel/saccadegen/internal/simulator"
	"github.com/nvandessel/saccadegen/internal/transform"
	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode one channel's spikes into saccade magnitudes",
		Long: `Decode the spike train of one channel into a saccade magnitude for
every stimulation onset. Spikes come from --spikes or from one channel of
a recorded spike file.

Examples:
  saccade decode --onsets 2000,2600 --spikes 2010,2011.5,2012
  saccade decode --onsets 2000 --spike-file spikes.yaml --channel right
  saccade decode --onsets 2000 --spikes 2010 --variant single-side --trace`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			onsets, _ := cmd.Flags().GetFloat64Slice("onsets")
			spikes, _ := cmd.Flags().GetFloat64Slice("spikes")
			spikeFile, _ := cmd.Flags().GetString("spike-file")
			channel, _ := cmd.Flags().GetString("channel")
			variant, _ := cmd.Flags().GetString("variant")
			popSize, _ := cmd.Flags().GetFloat64("population-size")
			maxSize, _ := cmd.Flags().GetFloat64("max-size")
			trace, _ := cmd.Flags().GetBool("trace")

			if len(onsets) == 0 {
				return fmt.Errorf("--onsets is required")
			}

			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			if spikeFile != "" {
				ch, err := simulator.ParseChannel(channel)
				if err != nil {
					return err
				}
				trains, err := simulator.LoadSpikeFile(spikeFile)
				if err != nil {
					return err
				}
				spikes = append(spikes, trains[ch]...)
			}

			if variant != "" {
				settings.Decoding.Variant = constants.Variant(variant)
			}
			if popSize > 0 {
				settings.Decoding.PopulationSize = popSize
			}
			if maxSize > 0 {
				settings.Encoding.MaximalSaccadeSize = maxSize
			}
			if err := settings.Validate(); err != nil {
				return err
			}

			dec := settings.Decoder()
			counts := dec.Counts(spikes, onsets)
			steps := make([]transform.Step, len(counts))
			for i, c := range counts {
				steps[i] = dec.Trace(c)
			}

			if jsonOut {
				type jsonEntry struct {
					Onset float64 `json:"onset"`
					transform.Step
				}
				entries := make([]jsonEntry, len(steps))
				for i, s := range steps {
					entries[i] = jsonEntry{Onset: onsets[i], Step: s}
				}
				return printJSON(cmd, map[string]interface{}{
					"variant": settings.Decoding.Variant,
					"events":  entries,
				})
			}

			out := cmd.OutOrStdout()
			for i, s := range steps {
				if trace {
					fmt.Fprintf(out, "onset %-8g count %-5d rate %-10.6f stimulus %-10.3f distance %-8.6f magnitude %.6f\n",
						onsets[i], s.Count, s.Rate, s.Stimulus, s.Distance, s.Magnitude)
					continue
				}
				fmt.Fprintf(out, "onset %-8g count %-5d magnitude %.6f\n", onsets[i], s.Count, s.Magnitude)
			}
			return nil
		},
	}

	cmd.Flags().Float64Slice("onsets", nil, "Stimulation onset times")
	cmd.Flags().Float64Slice("spikes", nil, "Spike times")
	cmd.Flags().String("spike-file", "", "Recorded spike file (YAML or JSON)")
	cmd.Flags().String("channel", "", "Channel to read from --spike-file (left, right, up, down)")
	cmd.Flags().String("variant", "", "Rate normalization: evaluation or single-side (default from config)")
	cmd.Flags().Float64("population-size", 0, "Neurons in the recorded population (default from config)")
	cmd.Flags().Float64("max-size", 0, "Displacement of a saturated response (default from config)")
	cmd.Flags().Bool("trace", false, "Show every intermediate decoding value")

	return cmd
}
