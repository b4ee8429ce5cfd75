package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type decodeOutput struct {
	Variant string `json:"variant"`
	Events  []struct {
		Onset     float64 `json:"onset"`
		Count     int     `json:"count"`
		Magnitude float64 `json:"magnitude"`
	} `json:"events"`
}

func TestDecodeCmd(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	out, err := runCmd(t, "decode", "--json",
		"--onsets", "100,1000",
		"--spikes", "100,150,300,301,1100")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	var got decodeOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("failed to parse output %q: %v", out, err)
	}
	if got.Variant != "evaluation" {
		t.Errorf("variant = %q, want evaluation", got.Variant)
	}
	if len(got.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(got.Events))
	}
	// Window bounds are inclusive: 100, 150 and 300 fall in [100, 300].
	if got.Events[0].Count != 3 {
		t.Errorf("count[0] = %d, want 3", got.Events[0].Count)
	}
	if got.Events[1].Count != 1 {
		t.Errorf("count[1] = %d, want 1", got.Events[1].Count)
	}
	for i, e := range got.Events {
		if e.Magnitude < 0 || e.Magnitude > 1 {
			t.Errorf("magnitude[%d] = %g, want within [0, 1]", i, e.Magnitude)
		}
	}
}

func TestDecodeCmd_SpikeFile(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	spikePath := filepath.Join(tmpDir, "spikes.yaml")
	content := "channels:\n  right: [10, 20, 30, 40]\n  left: [15]\n"
	if err := os.WriteFile(spikePath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write spike file: %v", err)
	}

	out, err := runCmd(t, "decode", "--json", "--onsets", "0",
		"--spike-file", spikePath, "--channel", "right")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	var got decodeOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("failed to parse output %q: %v", out, err)
	}
	if len(got.Events) != 1 || got.Events[0].Count != 4 {
		t.Errorf("events = %+v, want one event with 4 spikes", got.Events)
	}
}

func TestDecodeCmd_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing onsets",
			args:    []string{"decode", "--spikes", "1,2"},
			wantErr: "--onsets is required",
		},
		{
			name:    "unknown variant",
			args:    []string{"decode", "--onsets", "0", "--variant", "bogus"},
			wantErr: "invalid decoding variant",
		},
		{
			name:    "unknown channel",
			args:    []string{"decode", "--onsets", "0", "--spike-file", "x.yaml", "--channel", "north"},
			wantErr: "unknown channel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, tt.args...)
			if err == nil {
				t.Fatal("expected error but got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
