// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Controller ControllerConfig `yaml:"controller"`
}

type ControllerConfig struct {
	// Candidate serial ports, tried in order by the connection loop.
	Ports []string `yaml:"ports"`

	BaudRate      int `yaml:"baud_rate"`
	ReadTimeoutMs int `yaml:"read_timeout_ms"`

	NetworksFile string `yaml:"networks_file"`
	LogFile      string `yaml:"log_file"`
	HistoryFile  string `yaml:"history_file"`
}

// ReadTimeout is the transport poll timeout as a duration.
func (c ControllerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{
		Controller: ControllerConfig{
			Ports:         []string{"/dev/ttyUSB0", "/dev/ttyACM0"},
			BaudRate:      115200,
			ReadTimeoutMs: 500,
			NetworksFile:  "networks.yaml",
			LogFile:       "scan_log.txt",
			HistoryFile:   ".espscout_history",
		},
	}
}

// Load reads the YAML config at path. Unset fields fall back to the
// defaults; Validate must still be called afterwards.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults restores defaults for fields the file cleared.
func applyDefaults(cfg *Config) {
	def := Default().Controller
	c := &cfg.Controller

	if len(c.Ports) == 0 {
		c.Ports = def.Ports
	}
	if c.BaudRate == 0 {
		c.BaudRate = def.BaudRate
	}
	if c.ReadTimeoutMs == 0 {
		c.ReadTimeoutMs = def.ReadTimeoutMs
	}
	if c.NetworksFile == "" {
		c.NetworksFile = def.NetworksFile
	}
	if c.LogFile == "" {
		c.LogFile = def.LogFile
	}
	if c.HistoryFile == "" {
		c.HistoryFile = def.HistoryFile
	}
}
