package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte("title,genre,release_date,box_office_gross,box_office_net,budget\n"), 0o644))
	return path
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	input := writeInput(t)

	cfg, err := Load(newFlags(t, "--input", input))
	require.NoError(t, err)

	assert.Equal(t, input, cfg.Report.Input)
	assert.Equal(t, "images", cfg.Report.OutputDir)
	assert.Equal(t, 96, cfg.Report.DPI)
	assert.True(t, cfg.Report.Overview)
	assert.True(t, cfg.Report.Summary)
	assert.False(t, cfg.Report.Show)
	assert.Equal(t, "logs", cfg.Log.Dir)
	assert.False(t, cfg.Telegram.Enabled)
	assert.Equal(t, 1.0, cfg.Telegram.MessagesPerSecond)
	assert.Equal(t, 3, cfg.Telegram.MaxRetries)
}

func TestLoadEnvironment(t *testing.T) {
	input := writeInput(t)
	t.Setenv("BOXOFFICE_INPUT", input)
	t.Setenv("BOXOFFICE_OUTPUT_DIR", "charts-out")
	t.Setenv("BOXOFFICE_DPI", "150")
	t.Setenv("BOXOFFICE_OVERVIEW", "false")

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, input, cfg.Report.Input)
	assert.Equal(t, "charts-out", cfg.Report.OutputDir)
	assert.Equal(t, 150, cfg.Report.DPI)
	assert.False(t, cfg.Report.Overview)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	input := writeInput(t)
	t.Setenv("BOXOFFICE_DPI", "150")

	cfg, err := Load(newFlags(t, "--input", input, "--dpi", "200", "--summary=false"))
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Report.DPI)
	assert.False(t, cfg.Report.Summary)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	input := writeInput(t)

	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"missing input", nil, "input file is required"},
		{"input not found", []string{"--input", filepath.Join(t.TempDir(), "nope.csv")}, "input file"},
		{"input is a directory", []string{"--input", t.TempDir()}, "not a regular file"},
		{"empty output dir", []string{"--input", input, "--output-dir", ""}, "output_dir"},
		{"zero dpi", []string{"--input", input, "--dpi", "0"}, "dpi must be positive"},
		{"publish without token", []string{"--input", input, "--publish", "--telegram-chat", "42"}, "bot_token"},
		{"publish without chat", []string{"--input", input, "--publish", "--telegram-token", "t"}, "chat_id"},
		{"non-numeric chat", []string{"--input", input, "--publish", "--telegram-token", "t", "--telegram-chat", "@channel"}, "must be numeric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newFlags(t, tt.args...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestTelegramCredentialsFromEnvironment(t *testing.T) {
	input := writeInput(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200")

	cfg, err := Load(newFlags(t, "--input", input, "--publish"))
	require.NoError(t, err)

	assert.True(t, cfg.Telegram.Enabled)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "-100200", cfg.Telegram.ChatID)
}
