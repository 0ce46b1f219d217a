package app

import "github.com/caarlos0/env/v10"

// Config holds runtime wiring options for building the app.
type Config struct {
	// Home is the config directory, e.g. $HOME/.proteus.
	Home string `env:"PROTEUS_HOME"`
	// LogLevel controls diagnostic verbosity (zerolog level names).
	LogLevel string `env:"PROTEUS_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from the environment. Flags may override the
// result afterwards.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
