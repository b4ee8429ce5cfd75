package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nvandessel/saccadegen/internal/config"
	"github.com/nvandessel/saccadegen/internal/store"
)

// isolateHome sets HOME to a temp directory to avoid touching real ~/.saccade/
func isolateHome(t *testing.T, tmpDir string) {
	t.Helper()
	tmpHome := filepath.Join(tmpDir, "home")
	if err := os.MkdirAll(tmpHome, 0755); err != nil {
		t.Fatalf("Failed to create temp home: %v", err)
	}
	t.Setenv("HOME", tmpHome)
}

// newTestServer creates a server rooted in a temp directory.
func newTestServer(t *testing.T, settings *config.SaccadeConfig) *Server {
	t.Helper()
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	server, err := NewServer(&Config{
		Name:     "test-server",
		Version:  "v1.0.0",
		Root:     tmpDir,
		Settings: settings,
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	t.Cleanup(func() { server.Close() })
	return server
}

func TestNewServer(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	cfg := &Config{
		Name:    "test-server",
		Version: "v1.0.0",
		Root:    tmpDir,
	}

	server, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	defer server.Close()

	if server.server == nil {
		t.Error("Server.server is nil")
	}
	if server.store == nil {
		t.Error("Server.store is nil")
	}
	if server.root != tmpDir {
		t.Errorf("Server.root = %q, want %q", server.root, tmpDir)
	}
	if server.settings == nil {
		t.Error("Server.settings is nil, want defaults")
	}
}

func TestNewServer_CreatesSaccadeDir(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	server, err := NewServer(&Config{Name: "test-server", Version: "v1.0.0", Root: tmpDir})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	defer server.Close()

	dir := store.LocalSaccadePath(tmpDir)
	if _, err := os.Stat(filepath.Join(dir, store.DBFileName)); err != nil {
		t.Errorf("expected run database in %s: %v", dir, err)
	}
	if _, err := os.Stat(filepath.Join(dir, AuditFileName)); err != nil {
		t.Errorf("expected audit log in %s: %v", dir, err)
	}
}

func TestNewServer_MemoryStore(t *testing.T) {
	settings := config.Default()
	settings.Store.Kind = store.KindMemory
	server := newTestServer(t, settings)

	if _, ok := server.store.(*store.InMemoryRunStore); !ok {
		t.Errorf("store = %T, want *store.InMemoryRunStore", server.store)
	}
}

func TestNewServer_InvalidSettings(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	settings := config.Default()
	settings.Decoding.PopulationSize = 0

	_, err := NewServer(&Config{Name: "test-server", Version: "v1.0.0", Root: tmpDir, Settings: settings})
	if err == nil {
		t.Fatal("NewServer should reject invalid settings")
	}
}

func TestServer_Close(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	server, err := NewServer(&Config{Name: "test-server", Version: "v1.0.0", Root: tmpDir})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	if err := server.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
