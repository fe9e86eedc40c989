package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the spmv configuration file
// (~/.config/spmv/config.yaml). Fields are pointers so an absent key
// can be told apart from a zero value.
type Config struct {
	EPS  *float64 `yaml:"eps"`
	Seed *uint64  `yaml:"seed"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServerAddress string   `yaml:"server_address"`
	ServerRate    *float64 `yaml:"server_rate"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "spmv", "config.yaml")
}

// loadConfig reads the config file if present. A missing file yields a
// zero Config and no error; a malformed file is an error.
func loadConfig() (Config, error) {
	var cfg Config
	path := configPath()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyConfig fills in file defaults for flags the user did not set on
// the command line. Explicit flags always win.
func applyConfig(c *cli.Command, cfg Config) {
	if cfg.EPS != nil && !c.IsSet("eps") {
		eps = *cfg.EPS
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		seed = *cfg.Seed
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}
