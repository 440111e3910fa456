// internal/config/validate.go
package config

import "fmt"

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	c := cfg.Controller

	if len(c.Ports) == 0 {
		return fmt.Errorf("config: at least one serial port required")
	}
	for _, p := range c.Ports {
		if p == "" {
			return fmt.Errorf("config: empty serial port entry")
		}
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("config: baud_rate must be > 0, got %d", c.BaudRate)
	}
	if c.ReadTimeoutMs <= 0 {
		return fmt.Errorf("config: read_timeout_ms must be > 0, got %d", c.ReadTimeoutMs)
	}
	if c.NetworksFile == "" {
		return fmt.Errorf("config: networks_file required")
	}
	if c.LogFile == "" {
		return fmt.Errorf("config: log_file required")
	}
	return nil
}
