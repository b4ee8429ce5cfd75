package simulator

import (
	"context"
	"errors"
	"testing"
)

func TestParseChannel(t *testing.T) {
	tests := []struct {
		input   string
		want    Channel
		wantErr bool
	}{
		{"left", Left, false},
		{"right", Right, false},
		{"up", Up, false},
		{"down", Down, false},
		{"LEFT", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseChannel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseChannel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseChannel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestChannel_Axis(t *testing.T) {
	tests := []struct {
		ch         Channel
		horizontal bool
		positive   bool
	}{
		{Left, true, false},
		{Right, true, true},
		{Up, false, true},
		{Down, false, false},
	}
	for _, tt := range tests {
		if tt.ch.Horizontal() != tt.horizontal {
			t.Errorf("%s.Horizontal() = %v", tt.ch, tt.ch.Horizontal())
		}
		if tt.ch.Positive() != tt.positive {
			t.Errorf("%s.Positive() = %v", tt.ch, tt.ch.Positive())
		}
	}
}

func TestLifecycleOrder(t *testing.T) {
	backends := map[string]func() Simulator{
		"calibrated": func() Simulator { return NewCalibrated(testCalibratedOptions()) },
		"replay":     func() Simulator { return NewReplay(nil) },
	}

	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			sim := mk()

			if err := sim.Run(ctx, 100); !errors.Is(err, ErrNotConnected) {
				t.Errorf("Run before Connect: error = %v, want ErrNotConnected", err)
			}
			if _, err := sim.SpikeTimes(ctx, Left); !errors.Is(err, ErrNotRun) {
				t.Errorf("SpikeTimes before Run: error = %v, want ErrNotRun", err)
			}
			if err := sim.Schedule(ctx, Stimulus{Channel: "sideways"}); !errors.Is(err, ErrUnknownChannel) {
				t.Errorf("Schedule unknown channel: error = %v, want ErrUnknownChannel", err)
			}
			if err := sim.Connect(ctx); err != nil {
				t.Fatalf("Connect: %v", err)
			}
			if err := sim.Schedule(ctx, Stimulus{Channel: Left, Onset: 1, Duration: 1, Amplitude: 400}); !errors.Is(err, ErrAlreadyConnected) {
				t.Errorf("Schedule after Connect: error = %v, want ErrAlreadyConnected", err)
			}
			if err := sim.Run(ctx, 100); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if _, err := sim.SpikeTimes(ctx, Channel("x")); !errors.Is(err, ErrUnknownChannel) {
				t.Errorf("SpikeTimes unknown channel: error = %v, want ErrUnknownChannel", err)
			}
		})
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := NewCalibrated(testCalibratedOptions())
	if err := sim.Schedule(ctx, Stimulus{Channel: Up, Onset: 0, Duration: 75, Amplitude: 500}); !errors.Is(err, context.Canceled) {
		t.Errorf("Schedule error = %v, want context.Canceled", err)
	}
}
