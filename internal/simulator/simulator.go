// Package simulator defines the boundary between the evaluation driver and
// the spiking network that implements the saccade generator.
//
// The driver only needs four capabilities: schedule a timed current on a
// channel, wire the stimuli into the network, run to a horizon and read
// back spike times per channel. Backends:
//   - Calibrated: noiseless (or seeded-noise) response-curve model used for
//     tests and dry runs
//   - Replay: spike trains recorded from an external simulator run
package simulator

import (
	"context"
	"errors"
	"fmt"
)

// Channel identifies one antagonist LLBN/EBN channel of the generator.
type Channel string

const (
	Left  Channel = "left"
	Right Channel = "right"
	Up    Channel = "up"
	Down  Channel = "down"
)

// Channels lists all channels in canonical order.
var Channels = []Channel{Left, Right, Up, Down}

// Valid returns true if the channel is a recognized value.
func (c Channel) Valid() bool {
	switch c {
	case Left, Right, Up, Down:
		return true
	}
	return false
}

// Horizontal reports whether the channel drives the horizontal axis.
func (c Channel) Horizontal() bool {
	return c == Left || c == Right
}

// Positive reports whether the channel encodes the positive direction of
// its axis (right or up).
func (c Channel) Positive() bool {
	return c == Right || c == Up
}

// ParseChannel parses a channel name.
func ParseChannel(s string) (Channel, error) {
	c := Channel(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown channel %q (valid: left, right, up, down)", s)
	}
	return c, nil
}

// Stimulus is a timed DC current applied to one channel.
type Stimulus struct {
	Channel   Channel `json:"channel"`
	Onset     float64 `json:"onset"`
	Duration  float64 `json:"duration"`
	Amplitude float64 `json:"amplitude"`
}

// Stop returns the time the current switches off.
func (s Stimulus) Stop() float64 {
	return s.Onset + s.Duration
}

// Simulator is the capability set the evaluation driver needs from a
// spiking network backend. Calls follow the order
// Schedule* -> Connect -> Run -> SpikeTimes*.
type Simulator interface {
	// Schedule registers a stimulus. It must be called before Connect.
	Schedule(ctx context.Context, s Stimulus) error

	// Connect wires all scheduled stimuli into the network and attaches
	// spike recorders to every channel.
	Connect(ctx context.Context) error

	// Run simulates up to horizon and blocks until the run completes.
	Run(ctx context.Context, horizon float64) error

	// SpikeTimes returns the recorded spike times of a channel, ascending.
	SpikeTimes(ctx context.Context, ch Channel) ([]float64, error)
}

// Lifecycle errors.
var (
	ErrAlreadyConnected = errors.New("simulator: stimuli already connected")
	ErrNotConnected     = errors.New("simulator: run before connect")
	ErrNotRun           = errors.New("simulator: spike times requested before run")
	ErrUnknownChannel   = errors.New("simulator: unknown channel")
)

// lifecycle tracks the call order shared by all backends.
type lifecycle struct {
	connected bool
	ran       bool
}

func (l *lifecycle) beforeSchedule(s Stimulus) error {
	if l.connected {
		return ErrAlreadyConnected
	}
	if !s.Channel.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownChannel, s.Channel)
	}
	return nil
}

func (l *lifecycle) beforeRun() error {
	if !l.connected {
		return ErrNotConnected
	}
	return nil
}

func (l *lifecycle) beforeRead(ch Channel) error {
	if !ch.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
	}
	if !l.ran {
		return ErrNotRun
	}
	return nil
}
