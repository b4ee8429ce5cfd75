package transform

import (
	"errors"
	"fmt"

	"github.com/nvandessel/saccadegen/internal/constants"
)

// Normalization turns a spike count into a rate:
//
//	rate = count / PopulationSize / RateScale
//
// RateScale distinguishes the single-side decoder (1) from the two-axis
// evaluation decoder (10). The two are kept as separate settings.
type Normalization struct {
	PopulationSize float64 `json:"population_size" yaml:"population_size"`
	RateScale      float64 `json:"rate_scale" yaml:"rate_scale"`
}

// NormalizationFor returns the normalization preset for a variant.
func NormalizationFor(variant constants.Variant, populationSize float64) Normalization {
	return Normalization{
		PopulationSize: populationSize,
		RateScale:      variant.RateScale(),
	}
}

// Divisor returns the total count divisor.
func (n Normalization) Divisor() float64 {
	return n.PopulationSize * n.RateScale
}

// Decoder turns spike observations into saccade magnitudes.
type Decoder struct {
	Calibration   Calibration
	Normalization Normalization

	// Window is the detection window after each onset; both ends inclusive.
	Window float64

	// MaximalSaccadeSize scales the clipped [0, 1] distance.
	MaximalSaccadeSize float64
}

// NewDecoder returns a decoder using the default detection window and
// maximal saccade size.
func NewDecoder(cal Calibration, norm Normalization) *Decoder {
	return &Decoder{
		Calibration:        cal,
		Normalization:      norm,
		Window:             constants.DetectionWindow,
		MaximalSaccadeSize: constants.DefaultMaximalSaccadeSize,
	}
}

// Validate checks that the decoder can produce finite magnitudes.
func (d *Decoder) Validate() error {
	if err := d.Calibration.Validate(); err != nil {
		return err
	}
	if d.Normalization.PopulationSize <= 0 {
		return fmt.Errorf("population size must be positive, got %g", d.Normalization.PopulationSize)
	}
	if d.Normalization.RateScale <= 0 {
		return fmt.Errorf("rate scale must be positive, got %g", d.Normalization.RateScale)
	}
	if d.Window < 0 {
		return errors.New("detection window must be non-negative")
	}
	if d.MaximalSaccadeSize <= 0 {
		return fmt.Errorf("maximal saccade size must be positive, got %g", d.MaximalSaccadeSize)
	}
	return nil
}

// CountInWindow counts spikes with onset <= ts <= onset+window.
// The spike times need not be sorted.
func CountInWindow(spikes []float64, onset, window float64) int {
	end := onset + window
	n := 0
	for _, ts := range spikes {
		if ts >= onset && ts <= end {
			n++
		}
	}
	return n
}

// Rate normalizes a spike count.
func (d *Decoder) Rate(count int) float64 {
	return float64(count) / d.Normalization.PopulationSize / d.Normalization.RateScale
}

// Magnitude decodes a spike count into a saccade magnitude in
// [0, MaximalSaccadeSize]. A count of zero decodes to exactly 0.
func (d *Decoder) Magnitude(count int) float64 {
	return d.Trace(count).Magnitude
}

// Step records the intermediate values of one decode.
type Step struct {
	Count     int     `json:"count"`
	Rate      float64 `json:"rate"`
	Stimulus  float64 `json:"stimulus"`
	Distance  float64 `json:"distance"`
	Magnitude float64 `json:"magnitude"`
}

// Trace decodes a spike count and returns every intermediate value.
func (d *Decoder) Trace(count int) Step {
	step := d.traceRate(d.Rate(count))
	step.Count = count
	return step
}

// MagnitudeFromRate decodes an already normalized rate.
func (d *Decoder) MagnitudeFromRate(rate float64) float64 {
	return d.traceRate(rate).Magnitude
}

func (d *Decoder) traceRate(rate float64) Step {
	stim := d.Calibration.StimulusFromRate(rate)
	dist := d.Calibration.DistanceFromStimulus(stim)
	return Step{
		Rate:      rate,
		Stimulus:  stim,
		Distance:  dist,
		Magnitude: dist * d.MaximalSaccadeSize,
	}
}

// Decode returns one magnitude per onset. Detection windows of nearby
// onsets may overlap; each onset is evaluated on its own.
func (d *Decoder) Decode(spikes, onsets []float64) []float64 {
	out := make([]float64, len(onsets))
	for i, onset := range onsets {
		out[i] = d.Magnitude(CountInWindow(spikes, onset, d.Window))
	}
	return out
}

// Counts returns the number of spikes in each onset's detection window.
func (d *Decoder) Counts(spikes, onsets []float64) []int {
	out := make([]int, len(onsets))
	for i, onset := range onsets {
		out[i] = CountInWindow(spikes, onset, d.Window)
	}
	return out
}

// CountForStimulus returns the (fractional) spike count that a noiseless
// generator emits in one detection window for the given amplitude.
// It is the exact inverse of the decode path before clipping.
func (d *Decoder) CountForStimulus(stim float64) float64 {
	return d.Calibration.RateFromStimulus(stim) * d.Normalization.Divisor()
}
