package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the fieldembed configuration file
// (~/.config/fieldembed/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	Dim      *int64   `yaml:"dim"`
	Window   *int64   `yaml:"window"`
	Negative *int64   `yaml:"negative"`
	Alpha    *float64 `yaml:"alpha"`
	Sample   *float64 `yaml:"sample"`
	Threads  *int64   `yaml:"threads"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// StatusAddress serves live training counters when set.
	StatusAddress string `yaml:"status_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "fieldembed", "config.yaml")
}

// loadConfig reads the config file. Returns a zero Config if the file does
// not exist or cannot be parsed.
func loadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyBenchConfig applies config file defaults to bench command variables
// when the corresponding CLI flag was not explicitly set.
func applyBenchConfig(c *cli.Command, cfg Config,
	dim, window, negative, threads *int64, alpha, sample *float64, addr *string,
) {
	if cfg.Dim != nil && !c.IsSet("dim") {
		*dim = *cfg.Dim
	}
	if cfg.Window != nil && !c.IsSet("window") {
		*window = *cfg.Window
	}
	if cfg.Negative != nil && !c.IsSet("negative") {
		*negative = *cfg.Negative
	}
	if cfg.Threads != nil && !c.IsSet("threads") {
		*threads = *cfg.Threads
	}
	if cfg.Alpha != nil && !c.IsSet("alpha") {
		*alpha = *cfg.Alpha
	}
	if cfg.Sample != nil && !c.IsSet("sample") {
		*sample = *cfg.Sample
	}
	if cfg.StatusAddress != "" && !c.IsSet("addr") {
		*addr = cfg.StatusAddress
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}
