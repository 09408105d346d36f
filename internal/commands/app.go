package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/headsrooms/PlaywrightING/internal/config"
	"github.com/headsrooms/PlaywrightING/internal/logger"
	"github.com/headsrooms/PlaywrightING/internal/model"
	"github.com/headsrooms/PlaywrightING/internal/prompt"
	"github.com/headsrooms/PlaywrightING/internal/snapshot"
	"github.com/headsrooms/PlaywrightING/internal/ui"
)

// app is what a command needs at run time.
type app struct {
	command   string
	home      string
	cfg       *config.Config
	hasConfig bool
	runID     string
	log       zerolog.Logger
	ctx       context.Context
	out       *ui.Printer
	console   *prompt.Console
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	home, err := config.HomeDir(opts.home)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("creating home directory: %w", err)
	}

	cfg, err := config.Load(config.Path(home))
	hasConfig := err == nil
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = config.Default(home)
	case err != nil:
		return nil, err
	}

	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	runID := uuid.NewString()
	log := logger.New(cmd.ErrOrStderr(), level, cfg.Log.JSON).With().
		Str("run", runID).
		Str("command", cmd.Name()).
		Logger()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return &app{
		command:   cmd.Name(),
		home:      home,
		cfg:       cfg,
		hasConfig: hasConfig,
		runID:     runID,
		log:       log,
		ctx:       logger.WithContext(ctx, log),
		out:       ui.New(cmd.OutOrStdout()),
		console:   prompt.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout()),
	}, nil
}

// store opens the configured snapshot store.
func (a *app) store() (snapshot.Store, error) {
	return snapshot.Open(a.cfg.Store.Backend, a.cfg.SnapshotPath(a.home))
}

// loadSnapshot returns the stored position or ErrNoSnapshot.
func (a *app) loadSnapshot() (*model.Position, error) {
	store, err := a.store()
	if err != nil {
		return nil, err
	}
	pos, err := store.Load()
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, fmt.Errorf("%w at %s; run init first", snapshot.ErrNoSnapshot, store.Path())
	}
	return pos, nil
}

// requireCredentials asks for the config on first use and validates it.
func (a *app) requireCredentials() error {
	if !a.hasConfig {
		a.out.Warning(fmt.Sprintf("Configuration file doesn't exist in the expected path %s", config.Path(a.home)))
		cfg, err := config.Ask(a.ctx, a.console, a.home)
		if err != nil {
			return fmt.Errorf("asking for configuration: %w", err)
		}
		if err := config.Save(config.Path(a.home), cfg); err != nil {
			return err
		}
		a.cfg, a.hasConfig = cfg, true
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", config.Path(a.home), err)
	}
	return nil
}
