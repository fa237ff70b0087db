// Package config assembles the service configuration from defaults,
// environment variables and command-line flags, in that order of
// precedence (later non-zero values win).
package config

import (
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"
)

const defaultAddress = "0.0.0.0:8080"

type Config struct {
	Server  Server  `envPrefix:"SERVER_"`
	Storage Storage
	Auth    Auth
	CORS    CORS

	// Port is honoured when no SERVER_ADDRESS is given.
	Port string `env:"PORT"`

	LogLevel string `env:"LOG_LEVEL"`
}

type Server struct {
	// Env: SERVER_ADDRESS
	Address string `env:"ADDRESS"`
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

type Storage struct {
	DSN            string `env:"POSTGRES_CONN"`
	SkipMigrations bool   `env:"SKIP_MIGRATIONS"`
}

type Auth struct {
	// SecretKey signs the credential cookies.
	SecretKey string        `env:"SECRET_KEY"`
	TokenTTL  time.Duration `env:"TOKEN_TTL"`
}

type CORS struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

var (
	ErrMissingDSN    = errors.New("POSTGRES_CONN is not set")
	ErrMissingSecret = errors.New("SECRET_KEY is not set")
)

func defaults() *Config {
	return &Config{
		Server: Server{
			RequestTimeout: 30 * time.Second,
		},
		Auth: Auth{
			TokenTTL: time.Hour,
		},
		CORS: CORS{
			AllowedOrigins: []string{"http://localhost:5173", "https://talenthub-c77ac.web.app"},
		},
		LogLevel: "info",
	}
}

// Load reads the configuration for a process started with args (without
// the program name).
func Load(args []string) (*Config, error) {
	sources := []func() (*Config, error){
		func() (*Config, error) { return defaults(), nil },
		parseEnv,
		func() (*Config, error) { return parseFlags(args) },
	}

	cfg := new(Config)
	for _, source := range sources {
		src, err := source()
		if err != nil {
			return nil, err
		}
		if err := mergo.Merge(cfg, src, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = defaultAddress
		if cfg.Port != "" {
			cfg.Server.Address = ":" + cfg.Port
		}
	}

	return cfg, cfg.validate()
}

func (cfg *Config) validate() error {
	var errs []error
	if cfg.Storage.DSN == "" {
		errs = append(errs, ErrMissingDSN)
	}
	if cfg.Auth.SecretKey == "" {
		errs = append(errs, ErrMissingSecret)
	}
	return errors.Join(errs...)
}
