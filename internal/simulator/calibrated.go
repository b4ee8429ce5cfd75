package simulator

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/nvandessel/saccadegen/internal/transform"
)

// CalibratedOptions configures a Calibrated backend.
type CalibratedOptions struct {
	Calibration   transform.Calibration
	Normalization transform.Normalization

	// Jitter is the relative standard deviation of the emitted spike count.
	// Zero gives a deterministic, noiseless generator.
	Jitter float64

	// Seed seeds the jitter source.
	Seed int64
}

// Calibrated emits, for every stimulus, the number of spikes the fitted
// response curve predicts for its amplitude, spread evenly over the
// stimulus duration. With zero jitter the decode of its output recovers the
// encoded displacement up to spike-count rounding.
type Calibrated struct {
	mu      sync.Mutex
	opts    CalibratedOptions
	rng     *rand.Rand
	stimuli []Stimulus
	spikes  map[Channel][]float64
	life    lifecycle
}

// NewCalibrated creates a response-curve backend.
func NewCalibrated(opts CalibratedOptions) *Calibrated {
	return &Calibrated{
		opts:   opts,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		spikes: make(map[Channel][]float64, len(Channels)),
	}
}

// Schedule registers a stimulus.
func (c *Calibrated) Schedule(ctx context.Context, s Stimulus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.life.beforeSchedule(s); err != nil {
		return err
	}
	c.stimuli = append(c.stimuli, s)
	return nil
}

// Connect freezes the stimulus set.
func (c *Calibrated) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.life.connected = true
	return nil
}

// Run generates spike trains for all stimuli that start before horizon.
// Spikes past the horizon are dropped.
func (c *Calibrated) Run(ctx context.Context, horizon float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.life.beforeRun(); err != nil {
		return err
	}

	spikes := make(map[Channel][]float64, len(Channels))
	for _, s := range c.stimuli {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, ts := range c.train(s) {
			if ts <= horizon {
				spikes[s.Channel] = append(spikes[s.Channel], ts)
			}
		}
	}
	for ch := range spikes {
		sort.Float64s(spikes[ch])
	}

	c.spikes = spikes
	c.life.ran = true
	return nil
}

// train returns the spike times produced by one stimulus.
func (c *Calibrated) train(s Stimulus) []float64 {
	if s.Amplitude <= 0 || s.Duration <= 0 {
		return nil
	}
	expected := c.opts.Calibration.RateFromStimulus(s.Amplitude) * c.opts.Normalization.Divisor()
	if c.opts.Jitter > 0 {
		expected *= 1 + c.opts.Jitter*c.rng.NormFloat64()
	}
	n := int(math.Round(expected))
	if n <= 0 {
		return nil
	}

	step := s.Duration / float64(n)
	out := make([]float64, n)
	for k := range out {
		out[k] = s.Onset + (float64(k)+0.5)*step
	}
	return out
}

// SpikeTimes returns a copy of a channel's spike train.
func (c *Calibrated) SpikeTimes(ctx context.Context, ch Channel) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.life.beforeRead(ch); err != nil {
		return nil, err
	}
	return append([]float64(nil), c.spikes[ch]...), nil
}

// Stimuli returns the scheduled stimuli.
func (c *Calibrated) Stimuli() []Stimulus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Stimulus(nil), c.stimuli...)
}
