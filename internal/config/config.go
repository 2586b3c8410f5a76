// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ArtifactDir is the directory the model artifact persists under.
	ArtifactDir string `koanf:"artifact_dir"`

	// HomeCountry is the home market for the international fraud rule.
	HomeCountry string `koanf:"home_country"`

	// DefaultMatchLimit is the result size when a request omits one.
	DefaultMatchLimit int `koanf:"default_match_limit"`

	// MaxMatchLimit caps the per-request result size.
	MaxMatchLimit int `koanf:"max_match_limit"`

	// MinTrainingSamples is the floor below which training is skipped.
	MinTrainingSamples int `koanf:"min_training_samples"`

	// SyntheticSamples sets the bootstrap dataset size.
	SyntheticSamples int `koanf:"synthetic_samples"`

	// FraudCacheSize bounds the in-memory fraud verdict cache.
	FraudCacheSize int `koanf:"fraud_cache_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8080",
		ArtifactDir:        "models",
		HomeCountry:        "NG",
		DefaultMatchLimit:  5,
		MaxMatchLimit:      50,
		MinTrainingSamples: 10,
		SyntheticSamples:   1000,
		FraudCacheSize:     10_000,
	}
}
