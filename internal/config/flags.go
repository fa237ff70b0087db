package config

import (
	"flag"
	"fmt"
)

// parseFlags understands:
//
//	-a                server address host:port
//	-d                database DSN
//	-token-ttl        credential lifetime (e.g. 1h)
//	-request-timeout  per-request timeout (e.g. 30s)
//	-skip-migrations  do not run migrations on start
//	-log-level        debug, info, warn, error
func parseFlags(args []string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("talenthub", flag.ContinueOnError)
	fs.StringVar(&cfg.Server.Address, "a", "", "Net address host:port")
	fs.StringVar(&cfg.Storage.DSN, "d", "", "Database DSN")
	fs.DurationVar(&cfg.Auth.TokenTTL, "token-ttl", 0, "Credential lifetime")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Request timeout")
	fs.BoolVar(&cfg.Storage.SkipMigrations, "skip-migrations", false, "Skip database migrations")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}
	return cfg, nil
}
