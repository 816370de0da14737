package exec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewerCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{goos: "linux", wantName: "xdg-open"},
		{goos: "freebsd", wantName: "xdg-open"},
		{goos: "darwin", wantName: "open"},
		{goos: "windows", wantName: "rundll32", wantArgs: []string{"url.dll,FileProtocolHandler"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := viewerCommand(tt.goos)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestValidateViewerInstalledMissing(t *testing.T) {
	assert.Error(t, validateViewerInstalled("definitely-not-an-image-viewer-binary"))
}

func TestOpenImageHonoursCancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := OpenImage(ctx, path, time.Minute)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
