package visualization

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openCommand returns the command that opens target with the platform's
// default viewer.
func openCommand(goos, target string) (*exec.Cmd, error) {
	switch goos {
	case "linux":
		return exec.Command("xdg-open", target), nil
	case "darwin":
		return exec.Command("open", target), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", target), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// Open opens a rendered plot (or any file or URL) in the default viewer.
// It supports Linux (xdg-open), macOS (open), and Windows (cmd start).
// It does not wait for the viewer to exit.
func Open(target string) error {
	cmd, err := openCommand(runtime.GOOS, target)
	if err != nil {
		return err
	}
	return cmd.Start()
}
