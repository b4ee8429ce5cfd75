// Package export writes evaluation runs as tables for offline analysis.
//
// One row is written per stimulation event. TSV uses the etable log format,
// Arrow writes an IPC stream and JSON writes the run record as-is.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nvandessel/saccadegen/internal/store"
)

// Format is an export file format.
type Format string

const (
	FormatTSV   Format = "tsv"
	FormatArrow Format = "arrow"
	FormatJSON  Format = "json"
)

// Columns lists the per-event columns in output order.
var Columns = []string{
	"Event", "Onset",
	"TargetX", "TargetY", "DecodedX", "DecodedY",
	"AmpLeft", "AmpRight", "AmpUp", "AmpDown",
	"CountLeft", "CountRight", "CountUp", "CountDown",
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatTSV, FormatArrow, FormatJSON:
		return f, nil
	case "ipc", "feather":
		return FormatArrow, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s (valid: tsv, arrow, json)", s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot infer export format from %s", path)
	}
	return ParseFormat(ext)
}

// Write writes a run in the given format.
func Write(w io.Writer, run *store.Run, format Format) error {
	switch format {
	case FormatTSV:
		return WriteTSV(w, run)
	case FormatArrow:
		return WriteArrow(w, run)
	case FormatJSON:
		return WriteJSON(w, run)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// WriteFile writes a run to path, inferring the format from its extension.
func WriteFile(path string, run *store.Run) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := Write(f, run, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteJSON writes the run, events included, as indented JSON.
func WriteJSON(w io.Writer, run *store.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

// eventValues returns the column values of one event in Columns order.
func eventValues(e store.EventRecord) []float64 {
	return []float64{
		float64(e.Index), e.Onset,
		e.TargetX, e.TargetY, e.DecodedX, e.DecodedY,
		e.AmpLeft, e.AmpRight, e.AmpUp, e.AmpDown,
		float64(e.CountLeft), float64(e.CountRight), float64(e.CountUp), float64(e.CountDown),
	}
}

// isIntColumn reports whether column i holds integers.
func isIntColumn(i int) bool {
	return i == 0 || i >= 10
}
