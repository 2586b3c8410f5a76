package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GIVEMATCH_CONFIG is set
//  3. env (prefix GIVEMATCH_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("GIVEMATCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: GIVEMATCH_ADDR, GIVEMATCH_HOME_COUNTRY, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("GIVEMATCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "givematch_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ArtifactDir == "":
		return fmt.Errorf("%w: artifact_dir must not be empty", ErrInvalidConfig)
	case c.DefaultMatchLimit < 1:
		return fmt.Errorf("%w: default_match_limit must be positive", ErrInvalidConfig)
	case c.MaxMatchLimit < c.DefaultMatchLimit:
		return fmt.Errorf("%w: max_match_limit must be >= default_match_limit", ErrInvalidConfig)
	case c.MinTrainingSamples < 1:
		return fmt.Errorf("%w: min_training_samples must be positive", ErrInvalidConfig)
	case c.SyntheticSamples < 1:
		return fmt.Errorf("%w: synthetic_samples must be positive", ErrInvalidConfig)
	}
	return nil
}
