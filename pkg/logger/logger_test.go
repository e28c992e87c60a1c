package logger

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"invalid": slog.LevelInfo,
	}
	for input, expected := range cases {
		require.Equal(t, expected, ParseLevel(input), input)
	}
}

func TestSetupWriter(t *testing.T) {
	require.Equal(t, os.Stdout, SetupWriter(Config{Output: "stdout"}))
	require.Equal(t, os.Stderr, SetupWriter(Config{Output: "stderr"}))
	require.Equal(t, os.Stdout, SetupWriter(Config{Output: ""}))
	require.Equal(t, os.Stdout, SetupWriter(Config{Output: "file"}), "file output without a filename falls back to stdout")
}

func TestNew_ProducesAWorkingLogger(t *testing.T) {
	l := New(Config{Level: "info", Format: "json", Output: "stdout"})
	require.NotNil(t, l)
	l.Info("test message", "key", "value")
}
