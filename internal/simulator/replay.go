package simulator

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// SpikeFile is the on-disk layout of recorded spike trains. JSON files
// parse as well since JSON is a subset of YAML.
//
//	channels:
//	  left:  [2010.5, 2011.2]
//	  right: []
type SpikeFile struct {
	Channels map[Channel][]float64 `json:"channels" yaml:"channels"`
}

// LoadSpikeFile reads recorded spike trains from path.
func LoadSpikeFile(path string) (map[Channel][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spike file: %w", err)
	}

	var f SpikeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing spike file: %w", err)
	}
	for ch := range f.Channels {
		if !ch.Valid() {
			return nil, fmt.Errorf("spike file %s: %w: %q", path, ErrUnknownChannel, ch)
		}
	}
	return f.Channels, nil
}

// Replay serves spike trains recorded from an external simulator run.
// Scheduled stimuli are kept for inspection only; they do not influence
// the returned spikes.
type Replay struct {
	mu      sync.Mutex
	trains  map[Channel][]float64
	stimuli []Stimulus
	horizon float64
	life    lifecycle
}

// NewReplay creates a backend serving the given trains. Missing channels
// are treated as silent.
func NewReplay(trains map[Channel][]float64) *Replay {
	copied := make(map[Channel][]float64, len(trains))
	for ch, ts := range trains {
		sorted := append([]float64(nil), ts...)
		sort.Float64s(sorted)
		copied[ch] = sorted
	}
	return &Replay{trains: copied}
}

// Schedule records a stimulus.
func (r *Replay) Schedule(ctx context.Context, s Stimulus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.life.beforeSchedule(s); err != nil {
		return err
	}
	r.stimuli = append(r.stimuli, s)
	return nil
}

// Connect marks the stimulus set as wired.
func (r *Replay) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.life.connected = true
	return nil
}

// Run sets the horizon past which recorded spikes are hidden.
func (r *Replay) Run(ctx context.Context, horizon float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.life.beforeRun(); err != nil {
		return err
	}
	r.horizon = horizon
	r.life.ran = true
	return nil
}

// SpikeTimes returns the recorded spikes of ch up to the run horizon.
func (r *Replay) SpikeTimes(ctx context.Context, ch Channel) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.life.beforeRead(ch); err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(r.trains[ch]))
	for _, ts := range r.trains[ch] {
		if ts > r.horizon {
			break
		}
		out = append(out, ts)
	}
	return out, nil
}

// Stimuli returns the recorded stimuli.
func (r *Replay) Stimuli() []Stimulus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Stimulus(nil), r.stimuli...)
}
