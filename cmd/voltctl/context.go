package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"voltctl/internal/config"
	"voltctl/internal/logging"
	"voltctl/internal/msr"
)

type globalFlags struct {
	config   string
	backend  string
	cpu      int
	logLevel string
}

// dependencies holds the seams tests replace.
type dependencies struct {
	newDriver func(msr.Options) (msr.Driver, error)
}

func defaultDependencies() dependencies {
	return dependencies{newDriver: msr.New}
}

type commandContext struct {
	flags *globalFlags
	deps  dependencies

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger

	gateOnce sync.Once
	gate     *msr.Gate
	gateErr  error
}

func newCommandContext(flags *globalFlags, deps dependencies) *commandContext {
	if deps.newDriver == nil {
		deps.newDriver = msr.New
	}
	return &commandContext{flags: flags, deps: deps}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if backend := strings.TrimSpace(c.flags.backend); backend != "" {
			cfg.Driver.Backend = strings.ToLower(backend)
		}
		if c.flags.cpu >= 0 {
			cfg.Driver.CPU = c.flags.cpu
		}
		if level := strings.TrimSpace(c.flags.logLevel); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.log = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.log = logging.NewNop()
			return
		}
		c.log = logger
	})
	return c.log
}

// ensureGate builds the single gate for this invocation.
func (c *commandContext) ensureGate() (*msr.Gate, error) {
	c.gateOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.gateErr = err
			return
		}
		driver, err := c.deps.newDriver(msr.Options{
			Backend:   cfg.Driver.Backend,
			CPU:       cfg.Driver.CPU,
			DeviceDir: cfg.Driver.DeviceDir,
			DLLPath:   cfg.Driver.DLLPath,
		})
		if err != nil {
			c.gateErr = err
			return
		}
		c.gate = msr.NewGate(driver,
			msr.WithLockFile(cfg.Driver.LockPath),
			msr.WithLogger(c.logger()),
		)
	})
	return c.gate, c.gateErr
}

// withHandle acquires the driver for the duration of fn and always releases it.
func (c *commandContext) withHandle(ctx context.Context, fn func(*msr.Handle) error) error {
	gate, err := c.ensureGate()
	if err != nil {
		return err
	}
	handle, err := gate.Acquire(ctx)
	if err != nil {
		return err
	}
	defer handle.Close()
	return fn(handle)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
