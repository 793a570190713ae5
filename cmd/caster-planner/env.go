package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joeshaw/envdecode"
)

// envConfig holds defaults read from the environment. Command line flags
// take precedence.
type envConfig struct {
	// LogLevel is one of debug, info, warn or error. ENV: CASTER_LOG_LEVEL
	LogLevel string `env:"CASTER_LOG_LEVEL,default=warn"`
	// MaxDepth is used when positive and the mapping file sets no max_depth. ENV: CASTER_MAX_DEPTH
	MaxDepth int `env:"CASTER_MAX_DEPTH,default=0"`
	// Mapping is the default mapping file path. ENV: CASTER_MAPPING
	Mapping string `env:"CASTER_MAPPING,default=caster.yaml"`
}

func loadEnv() (envConfig, error) {
	var cfg envConfig

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("failed to read environment: %w", err)
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
