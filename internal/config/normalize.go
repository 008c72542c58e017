package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	c.Paths.NotifyConfig = strings.TrimSpace(c.Paths.NotifyConfig)
	if c.Paths.NotifyConfig != "" {
		if c.Paths.NotifyConfig, err = expandPath(c.Paths.NotifyConfig); err != nil {
			return fmt.Errorf("paths.notify_config: %w", err)
		}
	}
	c.Paths.TempDir = strings.TrimSpace(c.Paths.TempDir)
	if c.Paths.TempDir != "" {
		if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
			return fmt.Errorf("paths.temp_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
