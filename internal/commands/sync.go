package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/headsrooms/PlaywrightING/internal/browser"
	"github.com/headsrooms/PlaywrightING/internal/config"
	"github.com/headsrooms/PlaywrightING/internal/model"
	"github.com/headsrooms/PlaywrightING/internal/page"
	"github.com/headsrooms/PlaywrightING/internal/reconcile"
	"github.com/headsrooms/PlaywrightING/internal/site"
	"github.com/headsrooms/PlaywrightING/internal/snapshot"
	"github.com/headsrooms/PlaywrightING/internal/synclog"
	"github.com/headsrooms/PlaywrightING/internal/transactions"
)

const (
	timeoutScreenshot = "before_timeout.png"
	errorScreenshot   = "before_error.png"
	screenshotTimeout = 10 * time.Second
)

// sync logs in, reconciles the fresh position with prior and saves the
// result. Nothing is saved unless every step succeeded.
func (a *app) sync(store snapshot.Store, prior *model.Position, force bool) error {
	ctx := a.ctx
	sess, err := browser.Launch(ctx, browser.Options{
		Headless:      a.cfg.Browser.Headless,
		ExecPath:      a.cfg.Browser.ExecPath,
		ActionTimeout: a.cfg.Browser.ActionTimeout,
	})
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}
	defer sess.Close()

	s := site.New(sess, a.siteOptions())
	pos, outcome, err := a.reconcile(ctx, sess, s, prior, force)
	if err != nil {
		a.diagnose(ctx, s, err)
		return err
	}
	if err := s.Logout(ctx); err != nil {
		a.log.Warn().Err(err).Msg("logout failed")
	}

	a.out.Step(4, 4, "Saving snapshot")
	if err := store.Save(pos); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	entry := synclog.Entry{
		Timestamp: pos.LastUpdate,
		RunID:     a.runID,
		Command:   a.command,
		Outcome:   string(outcome),
		Balance:   pos.Balance,
		Currency:  pos.Currency,
	}
	if err := synclog.Append(a.home, []synclog.Entry{entry}); err != nil {
		a.log.Warn().Err(err).Msg("failed to write sync log")
	}

	a.out.Success(fmt.Sprintf("Snapshot %s at %s (%s %s)", outcome, store.Path(), pos.Balance.StringFixed(2), pos.Currency))
	return nil
}

func (a *app) reconcile(ctx context.Context, p page.Page, s *site.Site, prior *model.Position, force bool) (*model.Position, reconcile.Outcome, error) {
	a.out.Step(1, 4, "Logging in")
	if err := s.Login(ctx, a.cfg.Credentials); err != nil {
		return nil, "", fmt.Errorf("logging in: %w", err)
	}

	a.out.Step(2, 4, "Reading position")
	fresh, err := s.ReadPosition(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("reading position: %w", err)
	}

	a.out.Step(3, 4, "Synchronizing transactions")
	fetcher := transactions.NewFetcher(p, a.console, s.FetchOptions())
	engine := reconcile.NewEngine(s, fetcher, reconcile.WithIncremental(a.cfg.Sync.Incremental))
	return engine.Sync(ctx, fresh, prior, force)
}

// diagnose saves a screenshot of the page that was showing when err happened.
func (a *app) diagnose(ctx context.Context, s *site.Site, err error) {
	name := errorScreenshot
	if errors.Is(err, page.ErrNavigationTimeout) {
		name = timeoutScreenshot
	}
	path := filepath.Join(config.ScreenshotsDir(a.home), name)

	shotCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), screenshotTimeout)
	defer cancel()
	if shotErr := s.Screenshot(shotCtx, path); shotErr != nil {
		a.log.Error().Err(err).AnErr("screenshot_error", shotErr).Msg("sync failed")
		return
	}
	a.log.Error().Err(err).Str("screenshot", path).Msg("sync failed")
}

func (a *app) siteOptions() site.Options {
	opts := site.DefaultOptions()
	opts.BaseURL = a.cfg.Browser.BaseURL
	opts.Sentinels = a.cfg.Sentinels
	if a.cfg.Browser.ActionTimeout > 0 {
		opts.ActionTimeout = a.cfg.Browser.ActionTimeout
	}
	if a.cfg.Browser.ProbeTimeout > 0 {
		opts.ProbeTimeout = a.cfg.Browser.ProbeTimeout
	}
	return opts
}
