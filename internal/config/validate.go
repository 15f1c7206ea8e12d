package config

import (
	"errors"
	"fmt"

	"voltctl/internal/voltage"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDriver(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateSafety(); err != nil {
		return err
	}
	if err := c.validateProfiles(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDriver() error {
	switch c.Driver.Backend {
	case "auto", "winring0", "devmsr":
	default:
		return fmt.Errorf("driver.backend must be auto, winring0, or devmsr (got %q)", c.Driver.Backend)
	}
	if c.Driver.CPU < 0 {
		return errors.New("driver.cpu must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateSafety() error {
	if c.Safety.MaxOffsetMV <= 0 || c.Safety.MaxOffsetMV > voltage.MaxOffsetMV {
		return fmt.Errorf("safety.max_offset_mv must be between 0 and %g", voltage.MaxOffsetMV)
	}
	return nil
}

func (c *Config) validateProfiles() error {
	for _, name := range c.ProfileNames() {
		profile := c.Profiles[name]
		if len(profile.Offsets) == 0 {
			return fmt.Errorf("profiles.%s.offsets must set at least one plane", name)
		}
		allow := profile.AllowOvervolt || c.Safety.AllowOvervolt
		for key, mv := range profile.Offsets {
			if _, err := voltage.ParsePlane(key); err != nil {
				return fmt.Errorf("profiles.%s.offsets: %w", name, err)
			}
			if err := voltage.ValidateOffset(mv, c.Safety.MaxOffsetMV, allow); err != nil {
				return fmt.Errorf("profiles.%s.offsets.%s: %w", name, key, err)
			}
		}
	}
	return nil
}
