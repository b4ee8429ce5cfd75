// Package store persists evaluation runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nvandessel/saccadegen/internal/eval"
	"github.com/nvandessel/saccadegen/internal/simulator"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// Store kinds accepted by NewRunStore.
const (
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Run is one persisted evaluation.
type Run struct {
	ID                 string        `json:"id"`
	Scenario           string        `json:"scenario"`
	CreatedAt          time.Time     `json:"created_at"`
	Backend            string        `json:"backend"`
	PopulationSize     float64       `json:"population_size"`
	RateScale          float64       `json:"rate_scale"`
	MaximalSaccadeSize float64       `json:"maximal_saccade_size"`
	RMSE               float64       `json:"rmse"`
	Events             []EventRecord `json:"events,omitempty"`
}

// EventRecord is one stimulation event of a run.
type EventRecord struct {
	Index    int     `json:"index"`
	Onset    float64 `json:"onset"`
	TargetX  float64 `json:"target_x"`
	TargetY  float64 `json:"target_y"`
	DecodedX float64 `json:"decoded_x"`
	DecodedY float64 `json:"decoded_y"`

	AmpLeft  float64 `json:"amp_left"`
	AmpRight float64 `json:"amp_right"`
	AmpUp    float64 `json:"amp_up"`
	AmpDown  float64 `json:"amp_down"`

	CountLeft  int `json:"count_left"`
	CountRight int `json:"count_right"`
	CountUp    int `json:"count_up"`
	CountDown  int `json:"count_down"`
}

// RunStore defines the interface for storing and querying evaluation runs.
type RunStore interface {
	// SaveRun stores a run. An empty ID is replaced by a new UUID.
	// Returns the stored ID.
	SaveRun(ctx context.Context, run Run) (string, error)

	// GetRun returns a run with its events, or ErrRunNotFound.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns runs newest first, without events.
	// A limit of zero or less returns all runs.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// DeleteRun removes a run and its events, or returns ErrRunNotFound.
	DeleteRun(ctx context.Context, id string) error

	Close() error
}

// NewRun builds a run record from an evaluation result.
func NewRun(scenario, backend string, cfg eval.Config, res *eval.Result) Run {
	run := Run{
		ID:                 uuid.NewString(),
		Scenario:           scenario,
		CreatedAt:          time.Now().UTC(),
		Backend:            backend,
		PopulationSize:     cfg.Decoder.Normalization.PopulationSize,
		RateScale:          cfg.Decoder.Normalization.RateScale,
		MaximalSaccadeSize: cfg.Decoder.MaximalSaccadeSize,
		RMSE:               res.RMSE,
		Events:             make([]EventRecord, len(res.Onsets)),
	}

	count := func(ch simulator.Channel, i int) int {
		if c := res.Counts[ch]; i < len(c) {
			return c[i]
		}
		return 0
	}
	for i, onset := range res.Onsets {
		run.Events[i] = EventRecord{
			Index:      i,
			Onset:      onset,
			TargetX:    res.Targets[i].X,
			TargetY:    res.Targets[i].Y,
			DecodedX:   res.Displacements[0][i],
			DecodedY:   res.Displacements[1][i],
			AmpLeft:    res.Amplitudes.Left[i],
			AmpRight:   res.Amplitudes.Right[i],
			AmpUp:      res.Amplitudes.Up[i],
			AmpDown:    res.Amplitudes.Down[i],
			CountLeft:  count(simulator.Left, i),
			CountRight: count(simulator.Right, i),
			CountUp:    count(simulator.Up, i),
			CountDown:  count(simulator.Down, i),
		}
	}
	return run
}

// NewRunStore creates a store by kind. The sqlite store lives under
// projectRoot/.saccade.
func NewRunStore(kind, projectRoot string) (RunStore, error) {
	switch kind {
	case "", KindSQLite:
		return NewSQLiteRunStore(projectRoot)
	case KindMemory:
		return NewInMemoryRunStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store kind: %s", kind)
	}
}
