package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"svnherald/internal/config"
	"svnherald/internal/logging"
	"svnherald/internal/notifyconf"
	"svnherald/internal/resolve"
)

type commandContext struct {
	configFlag       *string
	notifyConfigFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, notifyConfigFlag *string) *commandContext {
	return &commandContext{
		configFlag:       configFlag,
		notifyConfigFlag: notifyConfigFlag,
	}
}

// loadConfig loads the tool configuration honoring the persistent --config
// and --notify-config flags. It returns the resolved config path and whether
// a file existed there.
func (c *commandContext) loadConfig() (*config.Config, string, bool, error) {
	var path string
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}
	cfg, loadedPath, exists, err := config.Load(path)
	if err != nil {
		return nil, loadedPath, exists, err
	}
	if c.notifyConfigFlag != nil {
		if override := strings.TrimSpace(*c.notifyConfigFlag); override != "" {
			expanded, err := config.ExpandPath(override)
			if err != nil {
				return nil, loadedPath, exists, fmt.Errorf("resolve notify config path: %w", err)
			}
			cfg.Paths.NotifyConfig = expanded
		}
	}
	return cfg, loadedPath, exists, nil
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, _, _, c.configErr = c.loadConfig()
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	})
	return c.logger, c.loggerErr
}

// loadResolver finds and compiles the notification config for a repository.
func (c *commandContext) loadResolver(repository string) (*resolve.Resolver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	path, err := cfg.FindNotifyConfig(repository)
	if err != nil {
		return nil, err
	}
	doc, err := notifyconf.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load notification config: %w", err)
	}
	classified, err := notifyconf.Classify(doc)
	if err != nil {
		return nil, fmt.Errorf("read notification config: %w", err)
	}
	resolver, err := resolve.New(classified, logger)
	if err != nil {
		return nil, fmt.Errorf("compile notification config: %w", err)
	}
	return resolver, nil
}
