package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeDriver(); err != nil {
		return err
	}
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	if c.Safety.MaxOffsetMV == 0 {
		c.Safety.MaxOffsetMV = defaultMaxOffsetMV
	}
	return nil
}

func (c *Config) normalizeDriver() error {
	if value, ok := os.LookupEnv("VOLTCTL_BACKEND"); ok && strings.TrimSpace(value) != "" {
		c.Driver.Backend = value
	}
	c.Driver.Backend = strings.ToLower(strings.TrimSpace(c.Driver.Backend))
	if c.Driver.Backend == "" {
		c.Driver.Backend = defaultBackend
	}
	var err error
	if c.Driver.DeviceDir, err = expandPath(strings.TrimSpace(c.Driver.DeviceDir)); err != nil {
		return fmt.Errorf("driver.device_dir: %w", err)
	}
	if c.Driver.LockPath, err = expandPath(strings.TrimSpace(c.Driver.LockPath)); err != nil {
		return fmt.Errorf("driver.lock_path: %w", err)
	}
	c.Driver.DLLPath = strings.TrimSpace(c.Driver.DLLPath)
	return nil
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv("VOLTCTL_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
