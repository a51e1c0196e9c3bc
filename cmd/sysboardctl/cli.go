package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"sysboard/internal/client"
	"sysboard/internal/config"
	"sysboard/internal/prefs"
	"sysboard/internal/session"
	"sysboard/internal/store"
)

// cli bundles everything a subcommand needs. Backends that fail to open are
// left out of the dual store; the command still runs on whatever remains.
type cli struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.DualStore
	session *session.Cache
	prefs   *prefs.Registry
	api     *client.Client

	closers []func() error
}

func newCLI() (*cli, error) {
	logger := zap.NewNop()
	if verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("logger init: %w", err)
		}
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	c := &cli{cfg: cfg, logger: logger}

	var primary store.Backend
	if redisBackend, err := store.NewRedisBackend(cfg.Redis.Addr, cfg.Redis.Password); err != nil {
		logger.Warn("redis unavailable, running on local state only", zap.Error(err))
	} else {
		primary = redisBackend
		c.closers = append(c.closers, redisBackend.Close)
	}

	var mirror store.Backend
	if err := os.MkdirAll(filepath.Dir(cfg.Client.StateDir), 0o700); err != nil {
		logger.Warn("state dir unavailable", zap.Error(err))
	} else if pebbleBackend, err := store.NewPebbleBackend(cfg.Client.StateDir, logger); err != nil {
		logger.Warn("local state unavailable", zap.Error(err))
	} else {
		mirror = pebbleBackend
		c.closers = append(c.closers, pebbleBackend.Close)
	}

	c.store = store.NewDualStore(primary, mirror, logger)
	c.session = session.NewCache(c.store)
	c.prefs = prefs.NewRegistry(c.store)
	c.api = client.New(cfg.Client.ServerURL, c.session)

	return c, nil
}

func (c *cli) close() {
	for _, fn := range c.closers {
		if err := fn(); err != nil {
			c.logger.Warn("close failed", zap.Error(err))
		}
	}
}
