package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nvandessel/saccadegen/internal/config"
	"github.com/spf13/cobra"
)

// Set by goreleaser ldflags.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "saccade",
		Short: "Saccade generator encode/decode evaluation",
		Long: `saccade encodes 2-D saccade displacements as stimulus amplitudes for
the four channels of a spiking saccade generator, decodes the resulting
spike trains back into displacements, and scores the round trip.

Evaluation runs are stored under .saccade/ in the project root.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.saccade/config.yaml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newEncodeCmd(),
		newDecodeCmd(),
		newEvaluateCmd(),
		newRunsCmd(),
		newConfigCmd(),
		newServeCmd(),
	)

	return rootCmd
}

// loadSettings loads the configuration named by --config and validates it.
func loadSettings(cmd *cobra.Command) (*config.SaccadeConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	return json.NewEncoder(cmd.OutOrStdout()).Encode(v)
}
