package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "CHAMPSIM_"
	envConfig = envPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if CHAMPSIM_CONFIG is set
//  3. env (prefix CHAMPSIM_, "__" separates nested keys)
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, os.Getenv(envConfig))
}

// LoadFile is Load with an explicit YAML path; an empty path skips the file.
func LoadFile(ctx context.Context, path string) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// CHAMPSIM_WORKER_COUNT -> worker_count
	// CHAMPSIM_SIMULATION__SEASONS -> simulation.seasons
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		if s == "config" {
			return ""
		}
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	resetOverridden(k, &cfg)

	dc := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:           &cfg,
		WeaklyTypedInput: true,
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", DecoderConfig: dc}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resetOverridden clears slice and map defaults that a source sets, so the
// source replaces them instead of being merged element by element.
func resetOverridden(k *koanf.Koanf, cfg *Config) {
	sim := &cfg.Simulation
	resets := []struct {
		key   string
		reset func()
	}{
		{"simulation.competitors", func() { sim.Competitors = nil }},
		{"simulation.main_points", func() { sim.MainPoints = nil }},
		{"simulation.secondary_points", func() { sim.SecondaryPoints = nil }},
		{"simulation.modifiers", func() { sim.Modifiers = nil }},
		{"simulation.schedule", func() { sim.Schedule = nil }},
		{"simulation.secondary_events", func() { sim.SecondaryEvents = nil }},
	}
	for _, r := range resets {
		if k.Exists(r.key) {
			r.reset()
		}
	}
}
