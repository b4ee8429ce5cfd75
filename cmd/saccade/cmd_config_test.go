package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigCmd_SetGet(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	cfgPath := filepath.Join(tmpDir, "config.yaml")

	if _, err := runCmd(t, "config", "set", "decoding.variant", "single-side", "--config", cfgPath); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	out, err := runCmd(t, "config", "get", "decoding.variant", "--config", cfgPath, "--json")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("failed to parse output %q: %v", out, err)
	}
	if got["value"] != "single-side" {
		t.Errorf("value = %v, want single-side", got["value"])
	}
}

func TestConfigCmd_DefaultPath(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	if _, err := runCmd(t, "config", "set", "simulation.jitter", "0.05"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	path := filepath.Join(tmpDir, "home", ".saccade", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written to %s: %v", path, err)
	}
	if !strings.Contains(string(data), "jitter: 0.05") {
		t.Errorf("config file lacks jitter:\n%s", data)
	}
}

func TestConfigCmd_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	cfgPath := filepath.Join(tmpDir, "config.yaml")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown key on get",
			args:    []string{"config", "get", "nope", "--config", cfgPath},
			wantErr: "unknown configuration key",
		},
		{
			name:    "invalid value on set",
			args:    []string{"config", "set", "decoding.population_size", "0", "--config", cfgPath},
			wantErr: "population_size must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// get needs the file to exist since --config is explicit
			if err := os.WriteFile(cfgPath, []byte("{}\n"), 0600); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
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

func TestConfigListCmd(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	out, err := runCmd(t, "config", "list")
	if err != nil {
		t.Fatalf("config list failed: %v", err)
	}
	for _, key := range []string{"decoding.variant", "simulation.backend", "store.kind"} {
		if !strings.Contains(out, key) {
			t.Errorf("config list output lacks %s", key)
		}
	}
}
