// Package eval drives a saccade generator evaluation: it encodes target
// displacements into stimuli, runs them through a simulator backend, decodes
// the recorded spikes and scores the recovered displacements.
package eval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/nvandessel/saccadegen/internal/constants"
	"github.com/nvandessel/saccadegen/internal/logging"
	"github.com/nvandessel/saccadegen/internal/simulator"
	"github.com/nvandessel/saccadegen/internal/transform"
)

// Precondition errors. They are returned before the simulator is touched.
var (
	ErrMismatchedLengths = transform.ErrMismatchedLengths
	ErrEmptyBatch        = errors.New("no stimulation events")
	ErrNonFinite         = errors.New("value is not finite")
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Request is one evaluation batch.
type Request struct {
	// Onsets are the stimulation onset times, ascending by convention.
	Onsets []float64

	// Targets holds the intended displacement of each event.
	Targets []transform.Vec2

	// MaximalSaccadeSize scales encoding and decoding. Zero uses the
	// evaluator's decoder setting.
	MaximalSaccadeSize float64
}

// Validate checks the request preconditions.
func (r Request) Validate() error {
	if len(r.Onsets) == 0 {
		return ErrEmptyBatch
	}
	if len(r.Onsets) != len(r.Targets) {
		return fmt.Errorf("%w: %d onsets vs %d targets", ErrMismatchedLengths, len(r.Onsets), len(r.Targets))
	}
	if r.MaximalSaccadeSize < 0 {
		return fmt.Errorf("maximal saccade size must be non-negative, got %g", r.MaximalSaccadeSize)
	}
	for i, t := range r.Onsets {
		if !finite(t) {
			return fmt.Errorf("%w: onset %d", ErrNonFinite, i)
		}
	}
	for i, v := range r.Targets {
		if !finite(v.X) || !finite(v.Y) {
			return fmt.Errorf("%w: target %d is (%g, %g)", ErrNonFinite, i, v.X, v.Y)
		}
	}
	return nil
}

// Result is the outcome of one evaluation.
type Result struct {
	Onsets  []float64
	Targets []transform.Vec2
	Horizon float64

	// Amplitudes are the encoded stimuli (0 = channel not driven).
	Amplitudes ChannelSeries

	// Spikes are the raw spike trains returned by the simulator.
	Spikes map[simulator.Channel][]float64

	// Counts are the spikes per detection window.
	Counts map[simulator.Channel][]int

	// Magnitudes are the decoded per-channel saccade sizes.
	Magnitudes ChannelSeries

	// Displacements[0] is X (right - left), Displacements[1] is Y (up - down).
	Displacements [2][]float64

	RMSE float64
}

// Decoded returns the decoded displacements as vectors.
func (r *Result) Decoded() []transform.Vec2 {
	out := make([]transform.Vec2, len(r.Displacements[0]))
	for i := range out {
		out[i] = transform.Vec2{X: r.Displacements[0][i], Y: r.Displacements[1][i]}
	}
	return out
}

// Config configures an Evaluator.
type Config struct {
	// Decoder carries the single calibration used for both encoding and
	// decoding.
	Decoder transform.Decoder

	// StimDuration is the length of every stimulus.
	StimDuration float64

	// HorizonPadding is simulated past the last onset.
	HorizonPadding float64

	Logger *slog.Logger
	Events *logging.EventLogger
}

// DefaultConfig returns the evaluation configuration of the reference
// two-axis experiment.
func DefaultConfig() Config {
	cal := transform.DefaultCalibration()
	norm := transform.NormalizationFor(constants.VariantEvaluation, constants.DefaultPopulationSize)
	return Config{
		Decoder:        *transform.NewDecoder(cal, norm),
		StimDuration:   constants.StimDuration,
		HorizonPadding: constants.HorizonPadding,
	}
}

// Evaluator runs evaluations against one simulator instance.
type Evaluator struct {
	sim    simulator.Simulator
	cfg    Config
	logger *slog.Logger
}

// NewEvaluator creates an evaluator. A nil logger discards output.
func NewEvaluator(sim simulator.Simulator, cfg Config) *Evaluator {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Evaluator{sim: sim, cfg: cfg, logger: logger}
}

// Evaluate runs one batch to completion. Invalid input fails before any
// stimulus is scheduled.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	dec := e.cfg.Decoder
	if req.MaximalSaccadeSize > 0 {
		dec.MaximalSaccadeSize = req.MaximalSaccadeSize
	}
	if err := dec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid decoder: %w", err)
	}

	plan := Plan(dec.Calibration, req.Targets, dec.MaximalSaccadeSize)
	if err := e.schedule(ctx, req.Onsets, plan); err != nil {
		return nil, err
	}

	if err := e.sim.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connecting stimuli: %w", err)
	}

	horizon := Horizon(req.Onsets, e.cfg.HorizonPadding)
	e.logger.Info("running simulation", "events", len(req.Onsets), "horizon", horizon)
	if err := e.sim.Run(ctx, horizon); err != nil {
		return nil, fmt.Errorf("running simulation: %w", err)
	}

	res := &Result{
		Onsets:     req.Onsets,
		Targets:    req.Targets,
		Horizon:    horizon,
		Amplitudes: plan,
		Spikes:     make(map[simulator.Channel][]float64, len(simulator.Channels)),
		Counts:     make(map[simulator.Channel][]int, len(simulator.Channels)),
	}
	for _, ch := range simulator.Channels {
		spikes, err := e.sim.SpikeTimes(ctx, ch)
		if err != nil {
			return nil, fmt.Errorf("reading %s spikes: %w", ch, err)
		}
		res.Spikes[ch] = spikes
		res.Counts[ch] = dec.Counts(spikes, req.Onsets)
		res.Magnitudes.set(ch, e.decodeChannel(&dec, ch, req.Onsets, res.Counts[ch]))
	}

	x, err := transform.Recombine(res.Magnitudes.Right, res.Magnitudes.Left)
	if err != nil {
		return nil, err
	}
	y, err := transform.Recombine(res.Magnitudes.Up, res.Magnitudes.Down)
	if err != nil {
		return nil, err
	}
	res.Displacements = [2][]float64{x, y}

	res.RMSE, err = AxisRMSE(res.Displacements, req.Targets)
	if err != nil {
		return nil, err
	}
	e.logger.Info("evaluation complete", "events", len(req.Onsets), "rmse", res.RMSE)
	return res, nil
}

// schedule registers one stimulus per driven channel and event.
func (e *Evaluator) schedule(ctx context.Context, onsets []float64, plan ChannelSeries) error {
	for _, ch := range simulator.Channels {
		amps := plan.For(ch)
		for i, onset := range onsets {
			if amps[i] == 0 {
				continue
			}
			s := simulator.Stimulus{
				Channel:   ch,
				Onset:     onset,
				Duration:  e.cfg.StimDuration,
				Amplitude: amps[i],
			}
			e.logger.Log(ctx, logging.LevelTrace, "scheduling stimulus",
				"channel", ch, "onset", onset, "amplitude", amps[i])
			if err := e.sim.Schedule(ctx, s); err != nil {
				return fmt.Errorf("scheduling %s stimulus %d: %w", ch, i, err)
			}
		}
	}
	return nil
}

// decodeChannel decodes the per-window counts of one channel.
func (e *Evaluator) decodeChannel(dec *transform.Decoder, ch simulator.Channel, onsets []float64, counts []int) []float64 {
	out := make([]float64, len(counts))
	for i, c := range counts {
		step := dec.Trace(c)
		out[i] = step.Magnitude
		e.cfg.Events.Log(map[string]any{
			"event":     i,
			"channel":   string(ch),
			"onset":     onsets[i],
			"count":     step.Count,
			"rate":      step.Rate,
			"stimulus":  step.Stimulus,
			"distance":  step.Distance,
			"magnitude": step.Magnitude,
		})
	}
	e.logger.Debug("decoded channel", "channel", ch, "magnitudes", out)
	return out
}

// Horizon returns the latest onset plus padding.
func Horizon(onsets []float64, padding float64) float64 {
	latest := math.Inf(-1)
	for _, t := range onsets {
		latest = math.Max(latest, t)
	}
	return latest + padding
}
