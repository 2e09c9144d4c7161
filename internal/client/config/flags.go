package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/travelbuddy/internal/flagx"
)

// parseFlags overlays command-line flag values. Only the flags owned by
// this package are parsed; -c/-config is consumed by the JSON layer.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-i"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	apiBaseURL := fs.String("a", cfg.APIBaseURL, "API base URL")
	databasePath := fs.String("d", cfg.DatabasePath, "Path to the local database file")
	requestTimeout := fs.Duration("t", cfg.RequestTimeout, "API request timeout")
	onlineCheckInterval := fs.Duration("i", cfg.OnlineCheckInterval, "Connectivity probe interval")

	if err := fs.Parse(args); err != nil {
		return
	}

	cfg.APIBaseURL = *apiBaseURL
	cfg.DatabasePath = *databasePath
	if *requestTimeout > 0 {
		cfg.RequestTimeout = *requestTimeout
	}
	if *onlineCheckInterval > 0 {
		cfg.OnlineCheckInterval = *onlineCheckInterval
	}
}
