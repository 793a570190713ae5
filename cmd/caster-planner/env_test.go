package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	t.Setenv("CASTER_LOG_LEVEL", "debug")
	t.Setenv("CASTER_MAX_DEPTH", "8")

	cfg, err := loadEnv()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.MaxDepth)
	assert.Equal(t, "caster.yaml", cfg.Mapping)
}

func TestLoadEnv_InvalidNumber(t *testing.T) {
	t.Setenv("CASTER_MAX_DEPTH", "deep")

	_, err := loadEnv()
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{" error ", slog.LevelError},
	}

	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseLevel("loud")
	require.Error(t, err)
}
