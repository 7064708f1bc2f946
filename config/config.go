package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Endpoints holds the upstream services queried during a scan.
type Endpoints struct {
	CrtSh      string `yaml:"crtsh"`
	BufferOver string `yaml:"bufferover"`
	DoH        string `yaml:"doh"`
}

// Config holds the service configuration.
type Config struct {
	Listen         string    `yaml:"listen"`
	AllowedOrigins []string  `yaml:"allowed_origins"`
	Database       string    `yaml:"database"`
	LogLevel       string    `yaml:"log_level"`
	UserAgent      string    `yaml:"user_agent"`
	Endpoints      Endpoints `yaml:"endpoints"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:         ":8080",
		AllowedOrigins: []string{"http://localhost:5173"},
		Database:       "subscout.db",
		LogLevel:       "info",
		UserAgent:      "subscout/1.0",
		Endpoints: Endpoints{
			CrtSh:      "https://crt.sh",
			BufferOver: "https://dns.bufferover.run",
			DoH:        "https://dns.google/resolve",
		},
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
