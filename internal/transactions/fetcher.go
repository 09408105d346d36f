// Package transactions walks the month-by-month transaction view of the
// selected account or card and returns its rows.
package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/headsrooms/PlaywrightING/internal/logger"
	"github.com/headsrooms/PlaywrightING/internal/model"
	"github.com/headsrooms/PlaywrightING/internal/page"
)

// Confirmer blocks until the operator answers a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// Selectors locate the controls of the transaction view.
type Selectors struct {
	ShowMore              string
	PreviousMonth         string
	DisabledPreviousMonth string
	Table                 string
	AlternativeTable      string
	DateNavigator         string
	ThisMonth             string
	PhoneCheckText        string
}

// Options configures a Fetcher.
type Options struct {
	Selectors    Selectors
	Format       TableFormat
	ProbeTimeout time.Duration
}

// Request selects what to fetch for the currently opened entity.
type Request struct {
	Credit bool
	// Since stops the walk after the first month holding a row older than
	// Since. Zero walks back until the view has no previous month.
	Since time.Time
}

const approvalQuestion = "Have you accepted the notification on your phone?"

// Fetcher reads every transaction row visible for the opened entity.
type Fetcher struct {
	page    page.Page
	confirm Confirmer
	opts    Options
}

// NewFetcher creates a Fetcher driving p. confirm gates the phone verification.
func NewFetcher(p page.Page, confirm Confirmer, opts Options) *Fetcher {
	return &Fetcher{page: p, confirm: confirm, opts: opts}
}

// Fetch walks from the current month backwards and returns the unique rows
// sorted by date, most recent first.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (model.Table, error) {
	sel := f.opts.Selectors
	log := logger.FromContext(ctx)

	if req.Credit {
		if err := f.page.Click(ctx, sel.DateNavigator); err != nil {
			return model.Table{}, fmt.Errorf("opening date navigator: %w", err)
		}
		if err := f.page.Click(ctx, sel.ThisMonth); err != nil {
			return model.Table{}, fmt.Errorf("selecting this month: %w", err)
		}
	}

	var acc model.Table
	for month := 1; ; month++ {
		if err := ctx.Err(); err != nil {
			return model.Table{}, err
		}
		if err := f.expand(ctx); err != nil {
			return model.Table{}, err
		}

		rows, err := f.readTable(ctx)
		if err != nil {
			return model.Table{}, fmt.Errorf("reading month %d: %w", month, err)
		}
		log.Debug().Int("month", month).Int("rows", rows.Len()).Msg("read transaction table")
		acc = acc.Append(rows)

		if reachedKnown(rows, req.Since) {
			log.Debug().Time("since", req.Since).Msg("reached known transactions")
			break
		}

		more, err := f.hasPreviousMonth(ctx)
		if err != nil {
			return model.Table{}, err
		}
		if !more {
			break
		}
		if err := f.page.Click(ctx, sel.PreviousMonth); err != nil {
			return model.Table{}, fmt.Errorf("going to previous month: %w", err)
		}
	}
	return acc.Normalize(), nil
}

// expand triggers "show more" until it disappears. When the phone
// verification text is on screen the trigger starts a push approval and the
// walk does not continue before the operator confirms it.
func (f *Fetcher) expand(ctx context.Context) error {
	sel := f.opts.Selectors
	for {
		more, err := f.page.WaitFor(ctx, sel.ShowMore, f.opts.ProbeTimeout)
		if err != nil {
			return fmt.Errorf("probing show more: %w", err)
		}
		if !more {
			return nil
		}

		gated, err := f.page.WaitFor(ctx, page.TextSelector(sel.PhoneCheckText), f.opts.ProbeTimeout)
		if err != nil {
			return fmt.Errorf("probing phone verification: %w", err)
		}
		if err := f.page.Click(ctx, sel.ShowMore); err != nil {
			return fmt.Errorf("clicking show more: %w", err)
		}
		if gated {
			if err := f.awaitApproval(ctx); err != nil {
				return err
			}
		}
	}
}

func (f *Fetcher) awaitApproval(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Warn().Msg("check your phone and accept the notification")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := f.confirm.Confirm(ctx, approvalQuestion)
		if err != nil {
			return fmt.Errorf("waiting for phone approval: %w", err)
		}
		if ok {
			return nil
		}
		log.Warn().Msg("please accept the notification to continue")
	}
}

func (f *Fetcher) readTable(ctx context.Context) (model.Table, error) {
	sel := f.opts.Selectors
	region := sel.Table
	if sel.AlternativeTable != "" {
		found, err := f.page.WaitFor(ctx, sel.Table, f.opts.ProbeTimeout)
		if err != nil {
			return model.Table{}, err
		}
		if !found {
			region = sel.AlternativeTable
		}
	}

	markup, err := f.page.HTML(ctx, region)
	if err != nil {
		return model.Table{}, err
	}
	return ParseTable(markup, f.opts.Format)
}

func (f *Fetcher) hasPreviousMonth(ctx context.Context) (bool, error) {
	sel := f.opts.Selectors
	disabled, err := f.page.WaitFor(ctx, sel.DisabledPreviousMonth, f.opts.ProbeTimeout)
	if err != nil {
		return false, fmt.Errorf("probing previous month: %w", err)
	}
	if disabled {
		return false, nil
	}
	enabled, err := f.page.WaitFor(ctx, sel.PreviousMonth, f.opts.ProbeTimeout)
	if err != nil {
		return false, fmt.Errorf("probing previous month: %w", err)
	}
	return enabled, nil
}

func reachedKnown(rows model.Table, since time.Time) bool {
	if since.IsZero() {
		return false
	}
	cutoff := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, time.UTC)
	for _, r := range rows.Rows {
		if r.Date.Before(cutoff) {
			return true
		}
	}
	return false
}
