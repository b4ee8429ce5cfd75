package eval

import (
	"github.com/nvandessel/saccadegen/internal/simulator"
	"github.com/nvandessel/saccadegen/internal/transform"
)

// ChannelSeries holds one value per event for each channel.
type ChannelSeries struct {
	Left  []float64 `json:"left"`
	Right []float64 `json:"right"`
	Up    []float64 `json:"up"`
	Down  []float64 `json:"down"`
}

// For returns the series of a channel.
func (s ChannelSeries) For(ch simulator.Channel) []float64 {
	switch ch {
	case simulator.Left:
		return s.Left
	case simulator.Right:
		return s.Right
	case simulator.Up:
		return s.Up
	case simulator.Down:
		return s.Down
	}
	return nil
}

func (s *ChannelSeries) set(ch simulator.Channel, v []float64) {
	switch ch {
	case simulator.Left:
		s.Left = v
	case simulator.Right:
		s.Right = v
	case simulator.Up:
		s.Up = v
	case simulator.Down:
		s.Down = v
	}
}

// Plan encodes every target into the four parallel amplitude sequences.
// Each sequence has len(targets) entries; an entry is 0 when the channel is
// not driven for that event.
func Plan(cal transform.Calibration, targets []transform.Vec2, maxSize float64) ChannelSeries {
	n := len(targets)
	plan := ChannelSeries{
		Left:  make([]float64, n),
		Right: make([]float64, n),
		Up:    make([]float64, n),
		Down:  make([]float64, n),
	}
	for i, v := range targets {
		a := cal.Encode(v, maxSize)
		plan.Left[i] = a.Left
		plan.Right[i] = a.Right
		plan.Up[i] = a.Up
		plan.Down[i] = a.Down
	}
	return plan
}

// DisplacementsFromPoints turns a path of absolute eye positions into the
// displacement of each saccade. The first saccade starts at the origin.
func DisplacementsFromPoints(points []transform.Vec2) []transform.Vec2 {
	out := make([]transform.Vec2, len(points))
	var prev transform.Vec2
	for i, p := range points {
		out[i] = p.Sub(prev)
		prev = p
	}
	return out
}

// PositionsFromDisplacements accumulates displacements into absolute
// positions starting at the origin.
func PositionsFromDisplacements(disp []transform.Vec2) []transform.Vec2 {
	out := make([]transform.Vec2, len(disp))
	var pos transform.Vec2
	for i, d := range disp {
		pos = pos.Add(d)
		out[i] = pos
	}
	return out
}
