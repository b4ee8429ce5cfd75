// Package scenario loads stimulation scenarios: the onset times and target
// displacements of one evaluation batch.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nvandessel/saccadegen/internal/eval"
	"github.com/nvandessel/saccadegen/internal/sanitize"
	"github.com/nvandessel/saccadegen/internal/transform"
)

// DefaultName is the name of the built-in scenario.
const DefaultName = "reference"

// Scenario is one stimulation batch as stored on disk.
//
// Exactly one of Targets or Points is set. Targets are displacements; Points
// are absolute eye positions and are differenced in order, the first one
// relative to the origin.
type Scenario struct {
	Name               string           `yaml:"name" json:"name"`
	StimTimes          []float64        `yaml:"stim_times" json:"stim_times"`
	Targets            []transform.Vec2 `yaml:"targets,omitempty" json:"targets,omitempty"`
	Points             []transform.Vec2 `yaml:"points,omitempty" json:"points,omitempty"`
	MaximalSaccadeSize float64          `yaml:"maximal_saccade_size,omitempty" json:"maximal_saccade_size,omitempty"`
}

// Default returns the built-in nine-saccade scenario.
func Default() *Scenario {
	xs := []float64{0.5, 0.1, -0.5, -0.2, 0.3, 0.7, 0.7, 0.25, -0.2}
	ys := []float64{0.5, 0.2, -0.1, -0.5, -0.1, -0.6, -0.2, -0.68, -1.0}
	points := make([]transform.Vec2, len(xs))
	for i := range xs {
		points[i] = transform.Vec2{X: xs[i], Y: ys[i]}
	}
	return &Scenario{
		Name:      DefaultName,
		StimTimes: []float64{2000, 2600, 3300, 4000, 4500, 5200, 5800, 6400, 6900},
		Points:    points,
	}
}

// Load reads and validates a scenario file. A missing name defaults to the
// file's base name.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s.Name = sanitize.NameOr(s.Name, sanitize.NameOr(base, "scenario"))
	return &s, nil
}

// Validate checks the scenario.
func (s *Scenario) Validate() error {
	if len(s.StimTimes) == 0 {
		return eval.ErrEmptyBatch
	}
	switch {
	case len(s.Targets) > 0 && len(s.Points) > 0:
		return errors.New("targets and points are mutually exclusive")
	case len(s.Targets) == 0 && len(s.Points) == 0:
		return errors.New("one of targets or points is required")
	}
	if n := len(s.Targets) + len(s.Points); n != len(s.StimTimes) {
		return fmt.Errorf("%w: %d stim_times vs %d targets", eval.ErrMismatchedLengths, len(s.StimTimes), n)
	}
	if s.MaximalSaccadeSize < 0 {
		return fmt.Errorf("maximal_saccade_size must be non-negative, got %g", s.MaximalSaccadeSize)
	}
	return nil
}

// Displacements returns the target displacement of every event.
func (s *Scenario) Displacements() []transform.Vec2 {
	if len(s.Points) > 0 {
		return eval.DisplacementsFromPoints(s.Points)
	}
	return append([]transform.Vec2(nil), s.Targets...)
}

// Positions returns the absolute target position of every event.
func (s *Scenario) Positions() []transform.Vec2 {
	if len(s.Points) > 0 {
		return append([]transform.Vec2(nil), s.Points...)
	}
	return eval.PositionsFromDisplacements(s.Targets)
}

// Request builds the evaluation request for the scenario.
func (s *Scenario) Request() eval.Request {
	return eval.Request{
		Onsets:             append([]float64(nil), s.StimTimes...),
		Targets:            s.Displacements(),
		MaximalSaccadeSize: s.MaximalSaccadeSize,
	}
}
