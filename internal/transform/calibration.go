// Package transform implements the encode/decode pair that bridges 2-D
// saccade displacements and the spiking saccade generator.
//
// Encoding maps a signed displacement onto the stimulus amplitude of one of
// two antagonist channels. Decoding maps the spike count observed in a
// channel's detection window back onto a displacement magnitude by inverting
// the calibrated response curve and clipping to the encodable range.
package transform

import (
	"errors"
	"fmt"

	"github.com/nvandessel/saccadegen/internal/constants"
)

// Calibration holds the stimulus range and the fitted response curve of
// the saccade generator. Values are read-only once constructed.
type Calibration struct {
	// YIntercept and Slope define rate = Slope*stimulus + YIntercept.
	YIntercept float64 `json:"y_intercept" yaml:"y_intercept"`
	Slope      float64 `json:"slope" yaml:"slope"`

	// MinStim and MaxStim bound the amplitudes of emitted stimuli (pA).
	MinStim float64 `json:"min_stim" yaml:"min_stim"`
	MaxStim float64 `json:"max_stim" yaml:"max_stim"`
}

// DefaultCalibration returns the fitted calibration of the reference
// saccade generator.
func DefaultCalibration() Calibration {
	return Calibration{
		YIntercept: constants.CalibrationYIntercept,
		Slope:      constants.CalibrationSlope,
		MinStim:    constants.MinStimStrength,
		MaxStim:    constants.MaxStimStrength,
	}
}

// Validate checks that the calibration can be inverted.
func (c Calibration) Validate() error {
	if c.Slope == 0 {
		return errors.New("calibration slope must be non-zero")
	}
	if c.MaxStim <= c.MinStim {
		return fmt.Errorf("max_stim (%g) must exceed min_stim (%g)", c.MaxStim, c.MinStim)
	}
	return nil
}

// Span returns MaxStim - MinStim.
func (c Calibration) Span() float64 {
	return c.MaxStim - c.MinStim
}

// StimAmp returns the amplitude that encodes a saccade of the given size.
//
// The size is normalized by maxSize (non-positive maxSize means 1) and
// mapped affinely onto [MinStim, MaxStim]. The result is not clamped:
// sizes outside [0, maxSize] yield amplitudes outside the stimulus range,
// and keeping the input in range is the caller's responsibility.
func (c Calibration) StimAmp(size, maxSize float64) float64 {
	if maxSize <= 0 {
		maxSize = constants.DefaultMaximalSaccadeSize
	}
	norm := size / maxSize
	return norm*c.Span() + c.MinStim
}

// EncodeAxis encodes a signed displacement along one axis onto its pair of
// antagonist channels. A positive displacement drives pos, a negative one
// drives neg with the displacement's magnitude, and zero drives neither.
func (c Calibration) EncodeAxis(d, maxSize float64) (pos, neg float64) {
	switch {
	case d > 0:
		return c.StimAmp(d, maxSize), 0
	case d < 0:
		return 0, c.StimAmp(-d, maxSize)
	default:
		return 0, 0
	}
}

// Encode encodes a 2-D displacement into the four channel amplitudes.
// X drives right (positive) and left; Y drives up (positive) and down.
func (c Calibration) Encode(v Vec2, maxSize float64) ChannelAmplitudes {
	var a ChannelAmplitudes
	a.Right, a.Left = c.EncodeAxis(v.X, maxSize)
	a.Up, a.Down = c.EncodeAxis(v.Y, maxSize)
	return a
}

// StimulusFromRate inverts the response curve.
func (c Calibration) StimulusFromRate(rate float64) float64 {
	return (rate - c.YIntercept) / c.Slope
}

// RateFromStimulus evaluates the response curve.
func (c Calibration) RateFromStimulus(stim float64) float64 {
	return c.Slope*stim + c.YIntercept
}

// DistanceFromStimulus maps a stimulus amplitude onto [0, 1].
// Amplitudes below MinStim give 0 and amplitudes above MaxStim give 1.
func (c Calibration) DistanceFromStimulus(stim float64) float64 {
	return clamp01((stim - c.MinStim) / c.Span())
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
