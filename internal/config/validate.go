package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProbe(); err != nil {
		return err
	}
	if err := c.validateRules(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateProbe() error {
	if c.Probe.TimeoutSeconds <= 0 {
		return errors.New("probe.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateRules() error {
	limit := c.Rules.ShortVideoMaxSeconds
	if math.IsNaN(limit) || math.IsInf(limit, 0) || limit <= 0 {
		return errors.New("rules.short_video_max_seconds must be a positive number of seconds")
	}
	if len(c.Rules.VideoExtensions) == 0 {
		return errors.New("rules.video_extensions must include at least one extension")
	}
	if len(c.Rules.ImageExtensions) == 0 {
		return errors.New("rules.image_extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q (use debug, info, warn, or error)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
}
