package log

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestHelpersAreSafeBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		LogInfo("info")
		LogWarn("warn")
		LogDebug("debug")
	})
}

func TestInitWritesFileLog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	t.Cleanup(func() {
		Logger = zap.NewNop()
		consoleLogger = zap.NewNop()
	})

	LogInfo("chart rendered", zap.String("chart", "genre_profitability"), zap.Float64("margin", math.Inf(1)))
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, "INFO chart rendered")
	assert.Contains(t, line, `"chart":"genre_profitability"`)
	assert.Contains(t, line, `"margin":"+Inf"`)
}

func TestCustomFileEncoderLayout(t *testing.T) {
	enc := &customFileEncoder{Encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{MessageKey: "msg"})}
	entry := zapcore.Entry{
		Level:   zapcore.WarnLevel,
		Time:    time.Date(2024, 3, 9, 10, 4, 5, 0, time.UTC),
		Message: "skipped rows",
	}

	buf, err := enc.EncodeEntry(entry, []zapcore.Field{zap.Int("count", 3), zap.Error(errors.New("boom"))})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "2024-03-09 10:04:05     WARN skipped rows\t"))
	assert.Contains(t, out, `"count":3`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestErrorSuffix(t *testing.T) {
	assert.Equal(t, ": bad", errorSuffix([]zap.Field{zap.String("a", "b"), zap.Error(errors.New("bad"))}))
	assert.Equal(t, "", errorSuffix([]zap.Field{zap.String("a", "b")}))
}
