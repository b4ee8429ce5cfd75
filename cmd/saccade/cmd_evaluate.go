package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/nvandessel/saccadegen/internal/config"
	"github.com/nvandessel/saccadegen/internal/eval"
	"github.com/nvandessel/saccadegen/internal/export"
	"github.com/nvandessel/saccadegen/internal/logging"
	"github.com/nvandessel/saccadegen/internal/scenario"
	"github.com/nvandessel/saccadegen/internal/simulator"
	"github.com/nvandessel/saccadegen/internal/store"
	"github.com/nvandessel/saccadegen/internal/visualization"
	"github.com/spf13/cobra"
)

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run an encode, simulate, decode evaluation",
		Long: `Encode every target of a scenario, drive the simulator backend with
the resulting stimuli, decode the recorded spikes and report the RMSE
between decoded and target displacements.

Without --scenario the built-in nine-saccade reference scenario is used.
The run is stored under .saccade/runs.db unless --no-save is given.

Examples:
  saccade evaluate
  saccade evaluate --scenario grid.yaml --jitter 0.05 --seed 7
  saccade evaluate --backend replay --spikes recorded.yaml
  saccade evaluate --plot saccades.png --open --export run.arrow`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			root, _ := cmd.Flags().GetString("root")
			scenarioPath, _ := cmd.Flags().GetString("scenario")
			noSave, _ := cmd.Flags().GetBool("no-save")
			plotPath, _ := cmd.Flags().GetString("plot")
			openPlot, _ := cmd.Flags().GetBool("open")
			exportPath, _ := cmd.Flags().GetString("export")

			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if err := applyEvaluateFlags(cmd, settings); err != nil {
				return err
			}
			if err := settings.Validate(); err != nil {
				return err
			}

			sc := scenario.Default()
			if scenarioPath != "" {
				sc, err = scenario.Load(scenarioPath)
				if err != nil {
					return err
				}
			}

			sim, err := simulator.New(settings.Simulation.Backend, settings.SimulatorOptions())
			if err != nil {
				return err
			}

			logger := logging.NewLogger(settings.Logging.Level, cmd.ErrOrStderr())
			events := logging.NewEventLogger(store.LocalSaccadePath(root), settings.Logging.Level)
			defer events.Close()

			evalCfg := settings.EvalConfig()
			evalCfg.Logger = logger
			evalCfg.Events = events
			if sc.MaximalSaccadeSize > 0 {
				evalCfg.Decoder.MaximalSaccadeSize = sc.MaximalSaccadeSize
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			sigChan := make(chan os.Signal, 1)
			notifySignals(sigChan)
			defer signal.Stop(sigChan)
			go func() {
				select {
				case <-sigChan:
					cancel()
				case <-ctx.Done():
				}
			}()

			res, err := eval.NewEvaluator(sim, evalCfg).Evaluate(ctx, sc.Request())
			if err != nil {
				return fmt.Errorf("evaluation failed: %w", err)
			}

			run := store.NewRun(sc.Name, settings.Simulation.Backend, evalCfg, res)

			saved := false
			if !noSave {
				s, err := store.NewRunStore(settings.Store.Kind, root)
				if err != nil {
					return fmt.Errorf("failed to open run store: %w", err)
				}
				defer s.Close()
				if run.ID, err = s.SaveRun(ctx, run); err != nil {
					return fmt.Errorf("failed to save run: %w", err)
				}
				saved = true
			}

			if exportPath != "" {
				if err := export.WriteFile(exportPath, &run); err != nil {
					return err
				}
			}
			if plotPath != "" {
				if err := visualization.RenderSaccadePlot(&run, plotPath); err != nil {
					return err
				}
				if openPlot {
					if err := visualization.Open(plotPath); err != nil {
						logger.Warn("failed to open plot", "path", plotPath, "error", err)
					}
				}
			}

			if jsonOut {
				return printJSON(cmd, map[string]interface{}{
					"run":     run,
					"horizon": res.Horizon,
					"saved":   saved,
				})
			}

			printRun(cmd, &run)
			if !saved {
				fmt.Fprintln(cmd.OutOrStdout(), "(not saved)")
			}
			return nil
		},
	}

	cmd.Flags().String("scenario", "", "Scenario file (YAML); default is the built-in reference scenario")
	cmd.Flags().String("backend", "", "Simulator backend: calibrated or replay (default from config)")
	cmd.Flags().String("spikes", "", "Recorded spike file for the replay backend")
	cmd.Flags().Int64("seed", 0, "Noise seed of the calibrated backend (default from config)")
	cmd.Flags().Float64("jitter", 0, "Relative spike count noise of the calibrated backend (default from config)")
	cmd.Flags().String("store", "", "Run store: sqlite or memory (default from config)")
	cmd.Flags().Bool("no-save", false, "Do not store the run")
	cmd.Flags().String("plot", "", "Render target and decoded positions to this image (png, svg, pdf)")
	cmd.Flags().Bool("open", false, "Open the rendered plot")
	cmd.Flags().String("export", "", "Export the run's events (.tsv, .arrow, .json)")

	return cmd
}

// applyEvaluateFlags overrides simulation and store settings with any
// flags the user set explicitly.
func applyEvaluateFlags(cmd *cobra.Command, settings *config.SaccadeConfig) error {
	flags := cmd.Flags()
	sim := &settings.Simulation
	if flags.Changed("backend") {
		sim.Backend, _ = flags.GetString("backend")
	}
	if flags.Changed("spikes") {
		sim.SpikeFile, _ = flags.GetString("spikes")
		if !flags.Changed("backend") {
			sim.Backend = simulator.BackendReplay
		}
	}
	if flags.Changed("seed") {
		sim.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("jitter") {
		sim.Jitter, _ = flags.GetFloat64("jitter")
	}
	if flags.Changed("store") {
		settings.Store.Kind, _ = flags.GetString("store")
	}
	if sim.Backend == simulator.BackendReplay && sim.SpikeFile == "" {
		return fmt.Errorf("replay backend requires --spikes or simulation.spike_file")
	}
	return nil
}

// printRun prints a run summary with one line per event.
func printRun(cmd *cobra.Command, run *store.Run) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s\n", run.ID)
	fmt.Fprintf(out, "  scenario: %s  backend: %s  created: %s\n",
		run.Scenario, run.Backend, run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  population: %g  rate scale: %g  max size: %g\n",
		run.PopulationSize, run.RateScale, run.MaximalSaccadeSize)
	if len(run.Events) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  %3s  %8s  %17s  %17s\n", "#", "onset", "target", "decoded")
		fmt.Fprintf(out, "  %s\n", strings.Repeat("-", 51))
		for _, e := range run.Events {
			fmt.Fprintf(out, "  %3d  %8g  (%6.3f, %6.3f)  (%6.3f, %6.3f)\n",
				e.Index, e.Onset, e.TargetX, e.TargetY, e.DecodedX, e.DecodedY)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "RMSE: %.6f\n", run.RMSE)
}
