package store

import (
	"path/filepath"
)

// DBFileName is the SQLite database file inside the .saccade directory.
const DBFileName = "runs.db"

// LocalSaccadePath returns the path to the local .saccade directory
// for the given project root.
func LocalSaccadePath(projectRoot string) string {
	return filepath.Join(projectRoot, ".saccade")
}
