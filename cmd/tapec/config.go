package main

import "github.com/caarlos0/env/v6"

// runConfig holds the run subcommand's environment-overridable settings.
// Flags always win when explicitly set; TAPEC_TAPE_SIZE lets a
// deployment pin a default tape size without touching invocation
// scripts.
type runConfig struct {
	TapeSize int `env:"TAPEC_TAPE_SIZE" envDefault:"10000"`
}

func loadRunConfig() (runConfig, error) {
	cfg := runConfig{}
	if err := env.Parse(&cfg); err != nil {
		return runConfig{}, err
	}
	return cfg, nil
}
