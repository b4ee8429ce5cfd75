package config

import (
	"fmt"
	"strconv"

	"github.com/nvandessel/saccadegen/internal/constants"
)

// Keys lists every dot-notation key accepted by Get and Set, in display order.
var Keys = []string{
	"calibration.y_intercept",
	"calibration.slope",
	"calibration.min_stim",
	"calibration.max_stim",
	"encoding.maximal_saccade_size",
	"decoding.variant",
	"decoding.population_size",
	"decoding.window",
	"simulation.backend",
	"simulation.spike_file",
	"simulation.seed",
	"simulation.jitter",
	"simulation.stim_duration",
	"simulation.horizon_padding",
	"store.kind",
	"logging.level",
}

// Get retrieves a configuration value by dot-notation key.
func (c *SaccadeConfig) Get(key string) (interface{}, bool) {
	switch key {
	case "calibration.y_intercept":
		return c.Calibration.YIntercept, true
	case "calibration.slope":
		return c.Calibration.Slope, true
	case "calibration.min_stim":
		return c.Calibration.MinStim, true
	case "calibration.max_stim":
		return c.Calibration.MaxStim, true
	case "encoding.maximal_saccade_size":
		return c.Encoding.MaximalSaccadeSize, true
	case "decoding.variant":
		return c.Decoding.Variant.String(), true
	case "decoding.population_size":
		return c.Decoding.PopulationSize, true
	case "decoding.window":
		return c.Decoding.Window, true
	case "simulation.backend":
		return c.Simulation.Backend, true
	case "simulation.spike_file":
		return c.Simulation.SpikeFile, true
	case "simulation.seed":
		return c.Simulation.Seed, true
	case "simulation.jitter":
		return c.Simulation.Jitter, true
	case "simulation.stim_duration":
		return c.Simulation.StimDuration, true
	case "simulation.horizon_padding":
		return c.Simulation.HorizonPadding, true
	case "store.kind":
		return c.Store.Kind, true
	case "logging.level":
		return c.Logging.Level, true
	default:
		return nil, false
	}
}

// Set sets a configuration value by dot-notation key and re-validates the
// result. The config is left unchanged on error.
func (c *SaccadeConfig) Set(key, value string) error {
	next := *c
	if err := next.set(key, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func (c *SaccadeConfig) set(key, value string) error {
	num := func(dst *float64) error {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for %s: %s", key, value)
		}
		*dst = f
		return nil
	}

	switch key {
	case "calibration.y_intercept":
		return num(&c.Calibration.YIntercept)
	case "calibration.slope":
		return num(&c.Calibration.Slope)
	case "calibration.min_stim":
		return num(&c.Calibration.MinStim)
	case "calibration.max_stim":
		return num(&c.Calibration.MaxStim)
	case "encoding.maximal_saccade_size":
		return num(&c.Encoding.MaximalSaccadeSize)
	case "decoding.variant":
		c.Decoding.Variant = constants.Variant(value)
	case "decoding.population_size":
		return num(&c.Decoding.PopulationSize)
	case "decoding.window":
		return num(&c.Decoding.Window)
	case "simulation.backend":
		c.Simulation.Backend = value
	case "simulation.spike_file":
		c.Simulation.SpikeFile = value
	case "simulation.seed":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed: %s", value)
		}
		c.Simulation.Seed = n
	case "simulation.jitter":
		return num(&c.Simulation.Jitter)
	case "simulation.stim_duration":
		return num(&c.Simulation.StimDuration)
	case "simulation.horizon_padding":
		return num(&c.Simulation.HorizonPadding)
	case "store.kind":
		c.Store.Kind = value
	case "logging.level":
		c.Logging.Level = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
