package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nvandessel/saccadegen/internal/export"
	"github.com/nvandessel/saccadegen/internal/store"
	"github.com/nvandessel/saccadegen/internal/visualization"
	"github.com/spf13/cobra"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored evaluation runs",
		Long: `List, show, export, plot and delete evaluation runs stored in
.saccade/runs.db.

Examples:
  saccade runs list
  saccade runs show <id>
  saccade runs export <id> run.tsv
  saccade runs plot <id> saccades.svg
  saccade runs delete <id>`,
	}

	cmd.AddCommand(
		newRunsListCmd(),
		newRunsShowCmd(),
		newRunsExportCmd(),
		newRunsPlotCmd(),
		newRunsDeleteCmd(),
	)

	return cmd
}

// openRunStore opens the sqlite run store of the project root.
func openRunStore(cmd *cobra.Command) (store.RunStore, error) {
	root, _ := cmd.Flags().GetString("root")
	s, err := store.NewRunStore(store.KindSQLite, root)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}
	return s, nil
}

// getRun loads one run by ID.
func getRun(ctx context.Context, s store.RunStore, id string) (*store.Run, error) {
	run, err := s.GetRun(ctx, id)
	if errors.Is(err, store.ErrRunNotFound) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

func newRunsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")

			s, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			if jsonOut {
				if runs == nil {
					runs = []store.Run{}
				}
				return printJSON(cmd, map[string]interface{}{
					"runs":  runs,
					"count": len(runs),
				})
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs found.")
				return nil
			}
			for _, r := range runs {
				fmt.Fprintf(out, "%s  %s  %-12s %-10s rmse %.6f\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Scenario, r.Backend, r.RMSE)
			}
			fmt.Fprintf(out, "\n%d run(s)\n", len(runs))
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs (0 for all)")

	return cmd
}

func newRunsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a run with its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			s, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			run, err := getRun(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(cmd, run)
			}
			printRun(cmd, run)
			return nil
		},
	}
}

func newRunsExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <id> [path]",
		Short: "Export a run's events as TSV, Arrow IPC or JSON",
		Long: `Export a run's events. The format follows the file extension
(.tsv, .arrow, .json). Without a path the events are written to stdout
in the --format format.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")

			s, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			run, err := getRun(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}

			if len(args) == 2 {
				if err := export.WriteFile(args[1], run); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d events to %s\n", len(run.Events), args[1])
				return nil
			}

			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			return export.Write(cmd.OutOrStdout(), run, format)
		},
	}

	cmd.Flags().String("format", string(export.FormatTSV), "Output format when writing to stdout (tsv, arrow, json)")

	return cmd
}

func newRunsPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot <id> <path>",
		Short: "Render a run's target and decoded positions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			openPlot, _ := cmd.Flags().GetBool("open")

			s, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			run, err := getRun(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}

			if err := visualization.RenderSaccadePlot(run, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Plot written to %s\n", args[1])

			if openPlot {
				return visualization.Open(args[1])
			}
			return nil
		},
	}

	cmd.Flags().Bool("open", false, "Open the rendered plot")

	return cmd
}

func newRunsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a run and its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			s, err := openRunStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteRun(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, store.ErrRunNotFound) {
					return fmt.Errorf("run not found: %s", args[0])
				}
				return fmt.Errorf("failed to delete run: %w", err)
			}

			if jsonOut {
				return printJSON(cmd, map[string]string{"status": "deleted", "id": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
			return nil
		},
	}
}
