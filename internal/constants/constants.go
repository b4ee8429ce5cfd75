// Package constants provides named constants used throughout the saccadegen codebase.
// This centralizes the calibration values and simulation timing of the saccade
// generator so that no transform embeds them as magic numbers.
package constants

// Stimulus amplitude range (pA) delivered to the LLBN populations.
const (
	// MinStimStrength is the amplitude that produces the smallest saccade.
	MinStimStrength = 300.0

	// MaxStimStrength is the amplitude that produces the maximal saccade.
	MaxStimStrength = 960.0
)

// Empirically fitted response curve of the EBN populations. The response
// (spikes per neuron, normalized) is linear in the stimulus amplitude:
//
//	rate = CalibrationSlope*amplitude + CalibrationYIntercept
//
// These are exact fitted values and must not be rounded or re-derived.
const (
	CalibrationYIntercept = -6.929000047679375
	CalibrationSlope      = 0.02500284479148012
)

// Simulation timing, in simulator time units (ms).
const (
	// StimDuration is how long each stimulus current is applied.
	StimDuration = 75.0

	// DetectionWindow is the span after a stimulus onset in which spikes are
	// attributed to that saccade. Both ends are inclusive.
	DetectionWindow = 200.0

	// HorizonPadding is added to the last onset to obtain the simulation horizon.
	HorizonPadding = 400.0
)

// Rate normalization.
const (
	// DefaultPopulationSize is the number of excitatory neurons in one EBN
	// population (size_EBN).
	DefaultPopulationSize = 80.0

	// RateScaleSingleSide is the normalization scale used when a single
	// saccade generator side is decoded.
	RateScaleSingleSide = 1.0

	// RateScaleEvaluation is the additional divisor applied by the full
	// two-axis evaluation.
	RateScaleEvaluation = 10.0
)

// DefaultMaximalSaccadeSize is the displacement encoded by MaxStimStrength.
const DefaultMaximalSaccadeSize = 1.0

// DefaultSeed is the master seed used by stochastic simulator backends.
const DefaultSeed = 1234
