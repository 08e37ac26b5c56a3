// Package config loads process configuration from the environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Config holds the settings shared by the admin server and the CLI.
type Config struct {
	AdminPort string `env:"ADMIN_PORT" envDefault:"8081"`
	// DataFile is the JSON collection file; resolved against the working
	// directory when relative.
	DataFile string `env:"CONTENT_DATA_FILE" envDefault:".content/modules.json"`
}

// Load reads an optional .env file, then parses the environment into a
// Config. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if !filepath.IsAbs(cfg.DataFile) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg.DataFile = filepath.Join(wd, cfg.DataFile)
	}
	return cfg, nil
}
