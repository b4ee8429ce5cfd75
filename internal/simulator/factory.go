package simulator

import (
	"fmt"

	"github.com/nvandessel/saccadegen/internal/transform"
)

// Backend names.
const (
	BackendCalibrated = "calibrated"
	BackendReplay     = "replay"
)

// Options configures New.
type Options struct {
	Calibration   transform.Calibration
	Normalization transform.Normalization
	Jitter        float64
	Seed          int64

	// SpikeFile is required by the replay backend.
	SpikeFile string
}

// New creates a simulator backend by name.
func New(kind string, opts Options) (Simulator, error) {
	switch kind {
	case "", BackendCalibrated:
		return NewCalibrated(CalibratedOptions{
			Calibration:   opts.Calibration,
			Normalization: opts.Normalization,
			Jitter:        opts.Jitter,
			Seed:          opts.Seed,
		}), nil
	case BackendReplay:
		if opts.SpikeFile == "" {
			return nil, fmt.Errorf("replay backend requires a spike file")
		}
		trains, err := LoadSpikeFile(opts.SpikeFile)
		if err != nil {
			return nil, err
		}
		return NewReplay(trains), nil
	default:
		return nil, fmt.Errorf("unsupported simulator backend: %s", kind)
	}
}
