package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"quicksort/backend/config"
	"quicksort/backend/global"
	"quicksort/backend/initialize"

	"github.com/gofrs/flock"
)

type commandContext struct {
	configFlag *string
	cfg        *config.Config
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	global.Config = *cfg
	c.cfg = cfg
	return cfg, nil
}

// openApp wires the engine in-process, logging to logOut.
func (c *commandContext) openApp(logOut io.Writer) (*initialize.App, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	initialize.SetupLogger(cfg.Log, logOut)
	return initialize.BuildWith(cfg)
}

// acquireLock takes the data directory lock so that only one process
// moves files at a time.
func (c *commandContext) acquireLock() (*flock.Flock, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another quicksort instance is running; use its HTTP API instead")
	}
	return lock, nil
}
