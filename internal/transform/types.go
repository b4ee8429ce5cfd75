package transform

import (
	"errors"
	"fmt"
)

// ErrMismatchedLengths reports parallel sequences of different lengths.
var ErrMismatchedLengths = errors.New("mismatched sequence lengths")

// Vec2 is a displacement (or position) in the normalized saccade plane.
// Positive X is rightward and positive Y is upward.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// ChannelAmplitudes holds one stimulus amplitude per antagonist channel.
// Per axis at most one of the pair is non-zero.
type ChannelAmplitudes struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
	Up    float64 `json:"up"`
	Down  float64 `json:"down"`
}

// Recombine folds the decoded magnitudes of an antagonist pair into a
// signed displacement per event: pos[i] - neg[i].
func Recombine(pos, neg []float64) ([]float64, error) {
	if len(pos) != len(neg) {
		return nil, fmt.Errorf("%w: %d positive vs %d negative magnitudes", ErrMismatchedLengths, len(pos), len(neg))
	}
	out := make([]float64, len(pos))
	for i := range pos {
		out[i] = pos[i] - neg[i]
	}
	return out, nil
}
