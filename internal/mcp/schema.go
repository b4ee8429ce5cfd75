package mcp

import (
	"time"

	"github.com/nvandessel/saccadegen/internal/transform"
)

// SaccadeEncodeInput defines the input for saccade_encode tool.
type SaccadeEncodeInput struct {
	DX                 float64 `json:"dx" jsonschema:"Horizontal displacement, positive is rightward"`
	DY                 float64 `json:"dy" jsonschema:"Vertical displacement, positive is upward"`
	MaximalSaccadeSize float64 `json:"maximal_saccade_size,omitempty" jsonschema:"Displacement encoded by the maximal stimulus (default from config)"`
}

// SaccadeEncodeOutput defines the output for saccade_encode tool.
type SaccadeEncodeOutput struct {
	Left  float64 `json:"left" jsonschema:"Stimulus amplitude of the left channel (0 if not driven)"`
	Right float64 `json:"right" jsonschema:"Stimulus amplitude of the right channel (0 if not driven)"`
	Up    float64 `json:"up" jsonschema:"Stimulus amplitude of the up channel (0 if not driven)"`
	Down  float64 `json:"down" jsonschema:"Stimulus amplitude of the down channel (0 if not driven)"`
}

// SaccadeDecodeInput defines the input for saccade_decode tool.
type SaccadeDecodeInput struct {
	Spikes             []float64 `json:"spikes" jsonschema:"Spike times of one channel"`
	Onsets             []float64 `json:"onsets" jsonschema:"Stimulation onset times"`
	Variant            string    `json:"variant,omitempty" jsonschema:"Rate normalization: evaluation or single-side (default from config)"`
	PopulationSize     float64   `json:"population_size,omitempty" jsonschema:"Neurons in the recorded population (default from config)"`
	MaximalSaccadeSize float64   `json:"maximal_saccade_size,omitempty" jsonschema:"Displacement of a saturated response (default from config)"`
}

// SaccadeDecodeOutput defines the output for saccade_decode tool.
type SaccadeDecodeOutput struct {
	Counts     []int     `json:"counts" jsonschema:"Spikes in each detection window"`
	Magnitudes []float64 `json:"magnitudes" jsonschema:"Decoded saccade magnitude per onset"`
}

// SaccadeEvaluateInput defines the input for saccade_evaluate tool.
type SaccadeEvaluateInput struct {
	Scenario           string           `json:"scenario,omitempty" jsonschema:"Scenario name recorded with the run"`
	StimTimes          []float64        `json:"stim_times,omitempty" jsonschema:"Onset times; empty runs the built-in reference scenario"`
	Targets            []transform.Vec2 `json:"targets,omitempty" jsonschema:"Target displacements, one per onset"`
	Points             []transform.Vec2 `json:"points,omitempty" jsonschema:"Absolute target positions, one per onset (alternative to targets)"`
	MaximalSaccadeSize float64          `json:"maximal_saccade_size,omitempty" jsonschema:"Displacement encoded by the maximal stimulus (default from config)"`
	Jitter             float64          `json:"jitter,omitempty" jsonschema:"Relative spike count noise of the calibrated backend (default from config)"`
	Seed               int64            `json:"seed,omitempty" jsonschema:"Noise seed (default from config)"`
	NoSave             bool             `json:"no_save,omitempty" jsonschema:"Do not persist the run (default: false)"`
}

// SaccadeEvaluateOutput defines the output for saccade_evaluate tool.
type SaccadeEvaluateOutput struct {
	RunID   string           `json:"run_id,omitempty" jsonschema:"ID of the stored run"`
	RMSE    float64          `json:"rmse" jsonschema:"Root mean squared error over all decoded displacement components"`
	Horizon float64          `json:"horizon" jsonschema:"Simulated time horizon"`
	Decoded []transform.Vec2 `json:"decoded" jsonschema:"Decoded displacement per event"`
	Events  int              `json:"events" jsonschema:"Number of stimulation events"`
}

// SaccadeRunsInput defines the input for saccade_runs tool.
type SaccadeRunsInput struct {
	ID    string `json:"id,omitempty" jsonschema:"Return one run with its events"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of runs to list (default: 20)"`
}

// SaccadeRunsOutput defines the output for saccade_runs tool.
type SaccadeRunsOutput struct {
	Runs  []RunListItem `json:"runs,omitempty" jsonschema:"Stored runs, newest first"`
	Run   *RunDetail    `json:"run,omitempty" jsonschema:"The requested run"`
	Count int           `json:"count" jsonschema:"Number of runs returned"`
}

// SaccadeExportInput defines the input for saccade_export tool.
type SaccadeExportInput struct {
	ID   string `json:"id" jsonschema:"Run to export"`
	Path string `json:"path" jsonschema:"Output file inside the project root; the extension (.tsv, .arrow, .json) selects the format"`
}

// SaccadeExportOutput defines the output for saccade_export tool.
type SaccadeExportOutput struct {
	Path   string `json:"path" jsonschema:"Absolute path of the written file"`
	Format string `json:"format" jsonschema:"Format written"`
	Events int    `json:"events" jsonschema:"Number of event rows"`
}

// RunListItem provides a list view of a stored run.
type RunListItem struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	Backend   string    `json:"backend"`
	RMSE      float64   `json:"rmse"`
	CreatedAt time.Time `json:"created_at"`
}

// RunDetail is a stored run with its per-event results.
type RunDetail struct {
	RunListItem
	RateScale          float64    `json:"rate_scale"`
	PopulationSize     float64    `json:"population_size"`
	MaximalSaccadeSize float64    `json:"maximal_saccade_size"`
	Events             []RunEvent `json:"events"`
}

// RunEvent is one event of a stored run.
type RunEvent struct {
	Onset   float64        `json:"onset"`
	Target  transform.Vec2 `json:"target"`
	Decoded transform.Vec2 `json:"decoded"`
}
