package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"myfilms/internal/app"
	"myfilms/internal/browse"
	"myfilms/internal/catalog"
	"myfilms/internal/config"
	"myfilms/internal/debounce"
	"myfilms/internal/instancelock"
	"myfilms/internal/kvstore"
	"myfilms/internal/logging"
	"myfilms/internal/session"
)

type commandContext struct {
	configFlag  *string
	jsonFlag    *bool
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		jsonFlag:    jsonFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

// clientEnv is everything a command needs to run against local state.
type clientEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	store  kvstore.Store
	lock   *instancelock.Lock
	app    *app.App
}

func (s *clientEnv) Close() {
	if s.app != nil {
		s.app.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("close store failed", logging.Error(err))
		}
	}
	if err := s.lock.Release(); err != nil {
		s.logger.Warn("release lock failed", logging.Error(err))
	}
}

type openOptions struct {
	needCatalog bool
	// quiet keeps logs off stderr even with --verbose; the TUI owns the terminal.
	quiet bool
}

// open loads config, takes the instance lock, opens storage and wires the app.
func (c *commandContext) open(ctx context.Context, opts openOptions) (*clientEnv, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if opts.needCatalog {
		if err := cfg.RequireCatalogToken(); err != nil {
			return nil, err
		}
	}

	logger, err := logging.NewFromConfig(cfg, c.verbose() && !opts.quiet)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var lock *instancelock.Lock
	if cfg.StorePath() != "" {
		lock, err = instancelock.Acquire(cfg.LockPath())
		if err != nil {
			if errors.Is(err, instancelock.ErrHeld) {
				return nil, fmt.Errorf("%w; close the other client or use a different storage.data_dir", err)
			}
			return nil, err
		}
	}

	store, err := kvstore.Open(ctx, cfg)
	if err != nil {
		_ = lock.Release()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	api, err := newCatalog(cfg, logger)
	if err != nil {
		_ = store.Close()
		_ = lock.Release()
		return nil, err
	}

	a := app.New(store, api, session.NewAuthenticator(cfg.Auth.Users),
		app.WithLogger(logger),
		app.WithBrowseOptions(
			browse.WithDebouncer(debounce.New(cfg.DebounceDelay())),
			browse.WithBaseContext(ctx),
		),
	)

	return &clientEnv{cfg: cfg, logger: logger, store: store, lock: lock, app: a}, nil
}

func newCatalog(cfg *config.Config, logger *slog.Logger) (catalog.API, error) {
	if cfg.Catalog.Token == "" {
		return unavailableCatalog{err: cfg.RequireCatalogToken()}, nil
	}
	client, err := catalog.New(cfg.Catalog.Token, cfg.Catalog.BaseURL, cfg.Catalog.Language,
		catalog.WithTimeout(cfg.RequestTimeout()),
		catalog.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// unavailableCatalog stands in when no token is configured so list and
// session commands still work offline.
type unavailableCatalog struct{ err error }

func (u unavailableCatalog) Popular(context.Context) ([]catalog.Item, error) { return nil, u.err }

func (u unavailableCatalog) Search(context.Context, string) ([]catalog.Item, error) {
	return nil, u.err
}

func (u unavailableCatalog) Detail(context.Context, int64, catalog.MediaKind) (*catalog.Detail, error) {
	return nil, u.err
}

func (u unavailableCatalog) PersonCredits(context.Context, int64) (*catalog.Credits, error) {
	return nil, u.err
}

// withEnv opens the client environment for the duration of fn.
func (c *commandContext) withEnv(cmd *cobra.Command, opts openOptions, fn func(context.Context, *clientEnv) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := c.open(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

// signedIn restores the stored session or explains how to create one.
func signedIn(ctx context.Context, s *clientEnv) (string, error) {
	user, ok, err := s.app.Restore(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w; run `myfilms login <user>` first", app.ErrNotSignedIn)
	}
	return user, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
