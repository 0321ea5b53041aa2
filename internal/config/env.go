package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the CLI settings read from the environment. Flags override them.
type Env struct {
	ConfigDir    string  `env:"SIM_CONFIG_DIR"`
	Seed         *uint64 `env:"SIM_SEED"`
	Duration     float64 `env:"SIM_DURATION"`
	Iterations   int     `env:"SIM_ITERATIONS"`
	LogLevel     string  `env:"SIM_LOG_LEVEL"     envDefault:"info"`
	LogFormat    string  `env:"SIM_LOG_FORMAT"    envDefault:"text"`
	OTelEndpoint string  `env:"SIM_OTEL_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// LoadConfig loads the directory named by e.ConfigDir, or the embedded
// defaults when it is empty.
func (e Env) LoadConfig() (*Config, error) {
	if e.ConfigDir == "" {
		return LoadDefaults()
	}
	return Load(e.ConfigDir)
}
