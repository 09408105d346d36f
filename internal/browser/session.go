// Package browser implements page.Page on a Chrome instance driven over the
// DevTools protocol.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/headsrooms/PlaywrightING/internal/logger"
	"github.com/headsrooms/PlaywrightING/internal/page"
)

// Options configures the browser.
type Options struct {
	Headless      bool
	ExecPath      string // empty looks Chrome up on PATH
	ActionTimeout time.Duration
	Width, Height int
}

// Session is one browser tab.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   Options
}

// Launch starts a browser and opens a tab. Close releases both.
func Launch(ctx context.Context, opts Options) (*Session, error) {
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = 30 * time.Second
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1440, 900
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.WindowSize(opts.Width, opts.Height),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	// The browser outlives ctx cancellation of individual commands.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	log := logger.FromContext(ctx)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		log.Debug().Msgf(format, args...)
	}))

	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, &page.SessionError{Op: "launch", Err: err}
	}

	return &Session{
		ctx: tabCtx,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
		opts: opts,
	}, nil
}

// Close shuts the browser down.
func (s *Session) Close() error {
	s.cancel()
	return nil
}

// Navigate implements page.Page.
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, "navigate", url, s.opts.ActionTimeout, chromedp.Navigate(url))
}

// Text implements page.Page.
func (s *Session) Text(ctx context.Context, selector string) ([]string, error) {
	markup, err := s.HTML(ctx, selector)
	if err != nil {
		return nil, err
	}
	return textTokens(markup)
}

// HTML implements page.Page.
func (s *Session) HTML(ctx context.Context, selector string) (string, error) {
	query, opt := locate(selector)
	var markup string
	err := s.run(ctx, "html", selector, s.opts.ActionTimeout,
		chromedp.InnerHTML(query, &markup, opt, chromedp.NodeReady))
	return markup, err
}

// Click implements page.Page.
func (s *Session) Click(ctx context.Context, selector string) error {
	query, opt := locate(selector)
	return s.run(ctx, "click", selector, s.opts.ActionTimeout,
		chromedp.Click(query, opt, chromedp.NodeVisible))
}

// Fill implements page.Page.
func (s *Session) Fill(ctx context.Context, selector, value string) error {
	query, opt := locate(selector)
	return s.run(ctx, "fill", selector, s.opts.ActionTimeout,
		chromedp.Clear(query, opt, chromedp.NodeVisible),
		chromedp.SendKeys(query, value, opt, chromedp.NodeVisible))
}

// WaitFor implements page.Page.
func (s *Session) WaitFor(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	query, opt := locate(selector)
	err := s.run(ctx, "wait", selector, timeout, chromedp.WaitVisible(query, opt))
	if errors.Is(err, page.ErrNavigationTimeout) {
		return false, nil
	}
	return err == nil, err
}

// Screenshot implements page.Page.
func (s *Session) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := s.run(ctx, "screenshot", "", s.opts.ActionTimeout, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating screenshot directory: %w", err)
	}
	return os.WriteFile(path, buf, 0o644)
}

// run executes actions on the tab. Running out of time maps to
// page.ErrNavigationTimeout; cancelling ctx aborts the actions.
func (s *Session) run(ctx context.Context, op, selector string, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s %q: %w", op, selector, page.ErrNavigationTimeout)
	default:
		return &page.SessionError{Op: op, Selector: selector, Err: err}
	}
}

// locate turns a page selector into a chromedp query.
func locate(selector string) (string, chromedp.QueryOption) {
	kind, body := page.SplitSelector(selector)
	switch kind {
	case "text":
		return containsText(body), chromedp.BySearch
	case "xpath":
		return body, chromedp.BySearch
	default:
		return body, chromedp.ByQuery
	}
}

// containsText matches elements owning a text node that contains s.
func containsText(s string) string {
	return fmt.Sprintf("//*[text()[contains(normalize-space(.), %s)]]", xpathLiteral(s))
}

func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = `"` + p + `"`
	}
	return "concat(" + strings.Join(quoted, `, '"', `) + ")"
}

var _ page.Page = (*Session)(nil)
