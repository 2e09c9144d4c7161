// Package config assembles the client configuration in layers: compiled-in
// defaults, then an optional JSON file, then command-line flags. Later
// layers win.
package config

import "time"

// Config is the fully resolved client configuration.
type Config struct {
	// APIBaseURL is the itinerary API root, including the path prefix.
	APIBaseURL string
	// DatabasePath is the local SQLite file backing the offline cache and
	// preferences.
	DatabasePath string
	// RequestTimeout bounds every API request.
	RequestTimeout time.Duration
	// OnlineCheckInterval is how often connectivity is probed.
	OnlineCheckInterval time.Duration
}

// LoadDefaults returns the compiled-in configuration.
func LoadDefaults() *Config {
	return &Config{
		APIBaseURL:          "http://127.0.0.1:8080/api",
		DatabasePath:        "travel_buddy.db",
		RequestTimeout:      30 * time.Second,
		OnlineCheckInterval: 3 * time.Second,
	}
}

// LoadConfig resolves the configuration from all layers.
func LoadConfig() (*Config, error) {
	cfg := LoadDefaults()

	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)

	return cfg, nil
}
