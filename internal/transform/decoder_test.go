package transform

import (
	"errors"
	"testing"

	"github.com/nvandessel/saccadegen/internal/constants"
)

func newTestDecoder(variant constants.Variant) *Decoder {
	return NewDecoder(DefaultCalibration(), NormalizationFor(variant, constants.DefaultPopulationSize))
}

func TestNewDecoder_Defaults(t *testing.T) {
	d := newTestDecoder(constants.VariantSingleSide)
	if d.Window != 200 {
		t.Errorf("Window = %v, want 200", d.Window)
	}
	if d.MaximalSaccadeSize != 1 {
		t.Errorf("MaximalSaccadeSize = %v, want 1", d.MaximalSaccadeSize)
	}
	if d.Normalization.Divisor() != 80 {
		t.Errorf("Divisor() = %v, want 80", d.Normalization.Divisor())
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	e := newTestDecoder(constants.VariantEvaluation)
	if e.Normalization.Divisor() != 800 {
		t.Errorf("evaluation Divisor() = %v, want 800", e.Normalization.Divisor())
	}
}

func TestDecoder_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Decoder)
	}{
		{"zero population", func(d *Decoder) { d.Normalization.PopulationSize = 0 }},
		{"zero rate scale", func(d *Decoder) { d.Normalization.RateScale = 0 }},
		{"negative window", func(d *Decoder) { d.Window = -1 }},
		{"zero saccade size", func(d *Decoder) { d.MaximalSaccadeSize = 0 }},
		{"bad calibration", func(d *Decoder) { d.Calibration.Slope = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDecoder(constants.VariantSingleSide)
			tt.mutate(d)
			if err := d.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCountInWindow(t *testing.T) {
	spikes := []float64{1999.9, 2000, 2050, 2199.9, 2200, 2200.1, 1000}
	if got := CountInWindow(spikes, 2000, 200); got != 4 {
		t.Errorf("CountInWindow() = %d, want 4 (inclusive bounds)", got)
	}
	if got := CountInWindow(nil, 2000, 200); got != 0 {
		t.Errorf("CountInWindow(nil) = %d, want 0", got)
	}
}

func TestMagnitude_ZeroSpikes(t *testing.T) {
	for _, pop := range []float64{1, 40, 80, 1000} {
		for _, variant := range []constants.Variant{constants.VariantSingleSide, constants.VariantEvaluation} {
			d := NewDecoder(DefaultCalibration(), NormalizationFor(variant, pop))
			if got := d.Magnitude(0); got != 0.0 {
				t.Errorf("Magnitude(0) with pop=%v variant=%s = %v, want exactly 0", pop, variant, got)
			}
		}
	}
}

func TestMagnitude_SaturatesAtMaximalSize(t *testing.T) {
	d := newTestDecoder(constants.VariantSingleSide)
	d.MaximalSaccadeSize = 2.5

	// rate 20 -> stimulus ~1077 > 960
	count := 20 * 80
	step := d.Trace(count)
	if step.Stimulus <= d.Calibration.MaxStim {
		t.Fatalf("test setup: stimulus %v should exceed MaxStim", step.Stimulus)
	}
	if step.Distance != 1.0 {
		t.Errorf("Distance = %v, want 1.0", step.Distance)
	}
	if step.Magnitude != 2.5 {
		t.Errorf("Magnitude = %v, want 2.5", step.Magnitude)
	}
}

func TestMagnitude_AlwaysClamped(t *testing.T) {
	d := newTestDecoder(constants.VariantSingleSide)
	d.MaximalSaccadeSize = 3
	for count := 0; count <= 3000; count += 7 {
		m := d.Magnitude(count)
		if m < 0 || m > d.MaximalSaccadeSize {
			t.Fatalf("Magnitude(%d) = %v outside [0, %v]", count, m, d.MaximalSaccadeSize)
		}
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	for _, maxSize := range []float64{1, 2, 0.25} {
		for _, variant := range []constants.Variant{constants.VariantSingleSide, constants.VariantEvaluation} {
			d := newTestDecoder(variant)
			d.MaximalSaccadeSize = maxSize
			for i := 0; i <= 20; i++ {
				size := maxSize * float64(i) / 20
				amp := d.Calibration.StimAmp(size, maxSize)
				rate := d.CountForStimulus(amp) / d.Normalization.Divisor()
				got := d.MagnitudeFromRate(rate)
				if !approxEqual(got, size, 1e-9) {
					t.Errorf("round trip size=%v maxSize=%v variant=%s: got %v", size, maxSize, variant, got)
				}
			}
		}
	}
}

func TestDecode_PerOnset(t *testing.T) {
	d := newTestDecoder(constants.VariantSingleSide)

	// 800 spikes in the first window (rate 10, stimulus ~677), none in the second.
	spikes := make([]float64, 0, 800)
	for i := 0; i < 800; i++ {
		spikes = append(spikes, 2000+float64(i)*0.2)
	}
	onsets := []float64{2000, 2600}

	got := d.Decode(spikes, onsets)
	if len(got) != 2 {
		t.Fatalf("Decode() returned %d values, want 2", len(got))
	}
	want := d.Magnitude(800)
	if got[0] != want {
		t.Errorf("Decode()[0] = %v, want %v", got[0], want)
	}
	if got[0] <= 0 || got[0] >= 1 {
		t.Errorf("Decode()[0] = %v, want inside (0, 1)", got[0])
	}
	if got[1] != 0 {
		t.Errorf("Decode()[1] = %v, want 0", got[1])
	}

	counts := d.Counts(spikes, onsets)
	if counts[0] != 800 || counts[1] != 0 {
		t.Errorf("Counts() = %v, want [800 0]", counts)
	}
}

func TestDecode_OverlappingWindowsIndependent(t *testing.T) {
	d := newTestDecoder(constants.VariantSingleSide)
	spikes := []float64{2100, 2150}
	got := d.Counts(spikes, []float64{2000, 2100})
	if got[0] != 2 || got[1] != 2 {
		t.Errorf("Counts() = %v, want both windows to see both spikes", got)
	}
}

func TestDecode_Idempotent(t *testing.T) {
	d := newTestDecoder(constants.VariantEvaluation)
	spikes := []float64{2001, 2002, 2003, 2600, 2601}
	onsets := []float64{2000, 2600}

	a := d.Decode(spikes, onsets)
	b := d.Decode(spikes, onsets)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Decode() not idempotent at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestVariantsNotUnified(t *testing.T) {
	single := newTestDecoder(constants.VariantSingleSide)
	eval := newTestDecoder(constants.VariantEvaluation)

	count := 1200
	if single.Rate(count) != 10*eval.Rate(count) {
		t.Errorf("single-side rate %v should be 10x evaluation rate %v", single.Rate(count), eval.Rate(count))
	}
}

func TestRecombine_MismatchIsSentinel(t *testing.T) {
	_, err := Recombine([]float64{1, 2}, []float64{1})
	if !errors.Is(err, ErrMismatchedLengths) {
		t.Errorf("error = %v, want ErrMismatchedLengths", err)
	}
}
