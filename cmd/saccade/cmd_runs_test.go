package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/saccadegen/internal/store"
)

func TestRunsCmd_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	first := runEvaluate(t, "--root", tmpDir)
	id := first.Run.ID

	// list
	out, err := runCmd(t, "runs", "list", "--root", tmpDir, "--json")
	if err != nil {
		t.Fatalf("runs list failed: %v", err)
	}
	var list struct {
		Runs  []store.Run `json:"runs"`
		Count int         `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("failed to parse list output %q: %v", out, err)
	}
	if list.Count != 1 || list.Runs[0].ID != id {
		t.Fatalf("list = %+v, want one run %s", list, id)
	}

	// show
	out, err = runCmd(t, "runs", "show", id, "--root", tmpDir, "--json")
	if err != nil {
		t.Fatalf("runs show failed: %v", err)
	}
	var run store.Run
	if err := json.Unmarshal([]byte(out), &run); err != nil {
		t.Fatalf("failed to parse show output: %v", err)
	}
	if len(run.Events) != 9 {
		t.Errorf("show returned %d events, want 9", len(run.Events))
	}

	// show, text
	out, err = runCmd(t, "runs", "show", id, "--root", tmpDir)
	if err != nil {
		t.Fatalf("runs show failed: %v", err)
	}
	if !strings.Contains(out, "RMSE:") || !strings.Contains(out, id) {
		t.Errorf("text output %q lacks run summary", out)
	}

	// export to stdout
	out, err = runCmd(t, "runs", "export", id, "--root", tmpDir, "--format", "json")
	if err != nil {
		t.Fatalf("runs export failed: %v", err)
	}
	if !strings.Contains(out, `"events"`) {
		t.Errorf("json export %q lacks events", out)
	}

	// export and plot to files
	arrowPath := filepath.Join(tmpDir, "run.arrow")
	if _, err := runCmd(t, "runs", "export", id, arrowPath, "--root", tmpDir); err != nil {
		t.Fatalf("runs export to file failed: %v", err)
	}
	svgPath := filepath.Join(tmpDir, "run.svg")
	if _, err := runCmd(t, "runs", "plot", id, svgPath, "--root", tmpDir); err != nil {
		t.Fatalf("runs plot failed: %v", err)
	}
	for _, path := range []string{arrowPath, svgPath} {
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("expected non-empty %s (err %v)", path, err)
		}
	}

	// delete
	if _, err := runCmd(t, "runs", "delete", id, "--root", tmpDir); err != nil {
		t.Fatalf("runs delete failed: %v", err)
	}
	_, err = runCmd(t, "runs", "show", id, "--root", tmpDir)
	if err == nil || !strings.Contains(err.Error(), "run not found") {
		t.Errorf("show after delete err = %v, want run not found", err)
	}
}

func TestRunsListCmd_Empty(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	out, err := runCmd(t, "runs", "list", "--root", tmpDir)
	if err != nil {
		t.Fatalf("runs list failed: %v", err)
	}
	if !strings.Contains(out, "No runs found.") {
		t.Errorf("output = %q, want empty notice", out)
	}
}

func TestRunsDeleteCmd_Unknown(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	_, err := runCmd(t, "runs", "delete", "missing", "--root", tmpDir)
	if err == nil || !strings.Contains(err.Error(), "run not found") {
		t.Errorf("err = %v, want run not found", err)
	}
}
