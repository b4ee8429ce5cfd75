// Package config provides unified configuration loading for saccade.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/saccadegen/internal/constants"
	"github.com/nvandessel/saccadegen/internal/eval"
	"github.com/nvandessel/saccadegen/internal/simulator"
	"github.com/nvandessel/saccadegen/internal/transform"
)

// DirName is the per-user and per-project state directory.
const DirName = ".saccade"

// SaccadeConfig contains all saccade configuration settings.
type SaccadeConfig struct {
	// Calibration is the fitted response curve and stimulus range.
	Calibration transform.Calibration `json:"calibration" yaml:"calibration"`

	// Encoding contains settings for turning displacements into stimuli.
	Encoding EncodingConfig `json:"encoding" yaml:"encoding"`

	// Decoding contains settings for turning spikes into displacements.
	Decoding DecodingConfig `json:"decoding" yaml:"decoding"`

	// Simulation selects and tunes the simulator backend.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Store selects where evaluation runs are persisted.
	Store StoreConfig `json:"store" yaml:"store"`

	// Logging contains settings for operational and event logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// EncodingConfig configures the encoder.
type EncodingConfig struct {
	// MaximalSaccadeSize is the displacement encoded by the maximal stimulus.
	MaximalSaccadeSize float64 `json:"maximal_saccade_size" yaml:"maximal_saccade_size"`
}

// DecodingConfig configures the decoder.
type DecodingConfig struct {
	// Variant selects the rate normalization: "evaluation" (default) or "single-side".
	Variant constants.Variant `json:"variant" yaml:"variant"`

	// PopulationSize is the number of neurons per recorded population.
	PopulationSize float64 `json:"population_size" yaml:"population_size"`

	// Window is the detection window after each onset (ms).
	Window float64 `json:"window" yaml:"window"`
}

// SimulationConfig configures the simulator backend.
type SimulationConfig struct {
	// Backend is "calibrated" (default) or "replay".
	Backend string `json:"backend" yaml:"backend"`

	// SpikeFile is the recorded spike file used by the replay backend.
	SpikeFile string `json:"spike_file,omitempty" yaml:"spike_file,omitempty"`

	Seed   int64   `json:"seed" yaml:"seed"`
	Jitter float64 `json:"jitter" yaml:"jitter"`

	// StimDuration is the length of each stimulus (ms).
	StimDuration float64 `json:"stim_duration" yaml:"stim_duration"`

	// HorizonPadding is simulated past the last onset (ms).
	HorizonPadding float64 `json:"horizon_padding" yaml:"horizon_padding"`
}

// StoreConfig configures run persistence.
type StoreConfig struct {
	// Kind is "sqlite" (default) or "memory".
	Kind string `json:"kind" yaml:"kind"`
}

// LoggingConfig configures saccade's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "warn", "debug", or "trace".
	// "debug" enables per-window event logging to .saccade/events.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns a SaccadeConfig with the reference experiment's values.
func Default() *SaccadeConfig {
	return &SaccadeConfig{
		Calibration: transform.DefaultCalibration(),
		Encoding: EncodingConfig{
			MaximalSaccadeSize: constants.DefaultMaximalSaccadeSize,
		},
		Decoding: DecodingConfig{
			Variant:        constants.VariantEvaluation,
			PopulationSize: constants.DefaultPopulationSize,
			Window:         constants.DetectionWindow,
		},
		Simulation: SimulationConfig{
			Backend:        simulator.BackendCalibrated,
			Seed:           constants.DefaultSeed,
			StimDuration:   constants.StimDuration,
			HorizonPadding: constants.HorizonPadding,
		},
		Store: StoreConfig{
			Kind: "sqlite",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.saccade/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, DirName, "config.yaml"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.saccade/config.yaml -> environment variables
func Load() (*SaccadeConfig, error) {
	return LoadPath("")
}

// LoadPath is Load with an explicit config file. An empty path uses the
// default location; a missing default file is not an error.
func LoadPath(path string) (*SaccadeConfig, error) {
	config := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		_, statErr := os.Stat(path)
		if statErr == nil || explicit {
			fileConfig, loadErr := LoadFromFile(path)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*SaccadeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Simulation.SpikeFile = expandEnvVars(config.Simulation.SpikeFile)

	return config, nil
}

// Save writes the configuration as YAML, creating parent directories.
// An empty path writes to the default location.
func (c *SaccadeConfig) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *SaccadeConfig) Validate() error {
	if err := c.Calibration.Validate(); err != nil {
		return err
	}

	if c.Encoding.MaximalSaccadeSize <= 0 {
		return fmt.Errorf("maximal_saccade_size must be positive, got %g", c.Encoding.MaximalSaccadeSize)
	}

	if !c.Decoding.Variant.Valid() {
		return fmt.Errorf("invalid decoding variant: %s (valid: %s, %s)",
			c.Decoding.Variant, constants.VariantEvaluation, constants.VariantSingleSide)
	}
	if c.Decoding.PopulationSize <= 0 {
		return fmt.Errorf("population_size must be positive, got %g", c.Decoding.PopulationSize)
	}
	if c.Decoding.Window < 0 {
		return fmt.Errorf("window must be non-negative, got %g", c.Decoding.Window)
	}

	validBackends := map[string]bool{simulator.BackendCalibrated: true, simulator.BackendReplay: true}
	if !validBackends[c.Simulation.Backend] {
		return fmt.Errorf("invalid backend: %s (valid: calibrated, replay)", c.Simulation.Backend)
	}
	if c.Simulation.Jitter < 0 {
		return fmt.Errorf("jitter must be non-negative, got %g", c.Simulation.Jitter)
	}
	if c.Simulation.StimDuration <= 0 {
		return fmt.Errorf("stim_duration must be positive, got %g", c.Simulation.StimDuration)
	}
	if c.Simulation.HorizonPadding < 0 {
		return fmt.Errorf("horizon_padding must be non-negative, got %g", c.Simulation.HorizonPadding)
	}

	validStores := map[string]bool{"sqlite": true, "memory": true}
	if !validStores[c.Store.Kind] {
		return fmt.Errorf("invalid store kind: %s (valid: sqlite, memory)", c.Store.Kind)
	}

	validLevels := map[string]bool{"info": true, "warn": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, warn, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// Normalization returns the decoder's rate normalization.
func (c *SaccadeConfig) Normalization() transform.Normalization {
	return transform.NormalizationFor(c.Decoding.Variant, c.Decoding.PopulationSize)
}

// Decoder builds the configured decoder.
func (c *SaccadeConfig) Decoder() *transform.Decoder {
	dec := transform.NewDecoder(c.Calibration, c.Normalization())
	dec.Window = c.Decoding.Window
	dec.MaximalSaccadeSize = c.Encoding.MaximalSaccadeSize
	return dec
}

// SimulatorOptions returns the options for simulator.New.
func (c *SaccadeConfig) SimulatorOptions() simulator.Options {
	return simulator.Options{
		Calibration:   c.Calibration,
		Normalization: c.Normalization(),
		Jitter:        c.Simulation.Jitter,
		Seed:          c.Simulation.Seed,
		SpikeFile:     c.Simulation.SpikeFile,
	}
}

// EvalConfig returns the evaluator configuration without loggers.
func (c *SaccadeConfig) EvalConfig() eval.Config {
	return eval.Config{
		Decoder:        *c.Decoder(),
		StimDuration:   c.Simulation.StimDuration,
		HorizonPadding: c.Simulation.HorizonPadding,
	}
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *SaccadeConfig) {
	if v := os.Getenv("SACCADE_VARIANT"); v != "" {
		config.Decoding.Variant = constants.Variant(v)
	}

	if v := os.Getenv("SACCADE_POPULATION_SIZE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Decoding.PopulationSize = f
		}
	}

	if v := os.Getenv("SACCADE_MAXIMAL_SACCADE_SIZE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Encoding.MaximalSaccadeSize = f
		}
	}

	if v := os.Getenv("SACCADE_BACKEND"); v != "" {
		config.Simulation.Backend = v
	}

	if v := os.Getenv("SACCADE_SPIKE_FILE"); v != "" {
		config.Simulation.SpikeFile = v
	}

	if v := os.Getenv("SACCADE_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Simulation.Seed = n
		}
	}

	if v := os.Getenv("SACCADE_JITTER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.Jitter = f
		}
	}

	if v := os.Getenv("SACCADE_STORE"); v != "" {
		config.Store.Kind = v
	}

	if v := os.Getenv("SACCADE_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
