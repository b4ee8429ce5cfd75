package simulator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSpikeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spikes.yaml")
	content := `
channels:
  left: [2010.5, 2001.25]
  up: [2600]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write spike file: %v", err)
	}

	trains, err := LoadSpikeFile(path)
	if err != nil {
		t.Fatalf("LoadSpikeFile() error = %v", err)
	}
	if len(trains[Left]) != 2 {
		t.Errorf("left spikes = %v, want 2 entries", trains[Left])
	}
	if len(trains[Right]) != 0 {
		t.Errorf("right spikes = %v, want none", trains[Right])
	}
}

func TestLoadSpikeFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spikes.json")
	if err := os.WriteFile(path, []byte(`{"channels": {"down": [1, 2, 3]}}`), 0600); err != nil {
		t.Fatalf("failed to write spike file: %v", err)
	}

	trains, err := LoadSpikeFile(path)
	if err != nil {
		t.Fatalf("LoadSpikeFile() error = %v", err)
	}
	if len(trains[Down]) != 3 {
		t.Errorf("down spikes = %v, want 3 entries", trains[Down])
	}
}

func TestLoadSpikeFile_UnknownChannel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spikes.yaml")
	if err := os.WriteFile(path, []byte("channels:\n  sideways: [1]\n"), 0600); err != nil {
		t.Fatalf("failed to write spike file: %v", err)
	}

	if _, err := LoadSpikeFile(path); err == nil {
		t.Error("expected error for unknown channel")
	}
}

func TestLoadSpikeFile_Missing(t *testing.T) {
	if _, err := LoadSpikeFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReplay_SortsAndTruncates(t *testing.T) {
	ctx := context.Background()
	sim := NewReplay(map[Channel][]float64{
		Right: {2500, 2001, 2100, 9000},
	})
	if err := sim.Schedule(ctx, Stimulus{Channel: Right, Onset: 2000, Duration: 75, Amplitude: 630}); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if err := sim.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := sim.Run(ctx, 2600); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, err := sim.SpikeTimes(ctx, Right)
	if err != nil {
		t.Fatalf("SpikeTimes: %v", err)
	}
	want := []float64{2001, 2100, 2500}
	if len(got) != len(want) {
		t.Fatalf("SpikeTimes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SpikeTimes()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if len(sim.Stimuli()) != 1 {
		t.Errorf("Stimuli() len = %d, want 1", len(sim.Stimuli()))
	}
}

func TestNew(t *testing.T) {
	if _, err := New("", Options{}); err != nil {
		t.Errorf("New(\"\") error = %v", err)
	}
	if _, err := New(BackendCalibrated, Options{}); err != nil {
		t.Errorf("New(calibrated) error = %v", err)
	}
	if _, err := New(BackendReplay, Options{}); err == nil {
		t.Error("New(replay) without spike file should fail")
	}
	if _, err := New("nest", Options{}); err == nil {
		t.Error("New(nest) should fail")
	}
}
