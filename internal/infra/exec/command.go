package exec

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// OpenImage hands an image to the desktop viewer with a timeout.
// Cancelling ctx stops the viewer launch as well.
// Returns combined output and error
func OpenImage(ctx context.Context, imagePath string, timeout time.Duration) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, args := viewerCommand(runtime.GOOS)

	if err := validateViewerInstalled(name); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image path: %w", err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("image not found: %s", absPath)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmdArgs := append(args, absPath)
	cmd := exec.CommandContext(ctx, name, cmdArgs...)

	output, err := cmd.CombinedOutput()

	switch ctx.Err() {
	case context.DeadlineExceeded:
		return output, fmt.Errorf("viewer timed out after %v", timeout)
	case context.Canceled:
		return output, ctx.Err()
	}

	return output, err
}

// viewerCommand picks the launcher for the platform
func viewerCommand(goos string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return "xdg-open", nil
	}
}

// validateViewerInstalled checks the launcher is on PATH
func validateViewerInstalled(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("image viewer %q is not installed or not in PATH: %w", name, err)
	}
	return nil
}
