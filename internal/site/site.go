// Package site drives the banking site: login, the position probe and the
// navigation to each account or card.
package site

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/headsrooms/PlaywrightING/internal/amount"
	"github.com/headsrooms/PlaywrightING/internal/listing"
	"github.com/headsrooms/PlaywrightING/internal/logger"
	"github.com/headsrooms/PlaywrightING/internal/model"
	"github.com/headsrooms/PlaywrightING/internal/page"
	"github.com/headsrooms/PlaywrightING/internal/transactions"
)

// Options configures a Site.
type Options struct {
	BaseURL       string
	Selectors     Selectors
	Sentinels     listing.Sentinels
	Format        transactions.TableFormat
	ActionTimeout time.Duration
	ProbeTimeout  time.Duration
}

// DefaultOptions returns the options for the live site.
func DefaultOptions() Options {
	return Options{
		BaseURL:       DefaultBaseURL,
		Selectors:     DefaultSelectors,
		Sentinels:     DefaultSentinels,
		Format:        DefaultFormat,
		ActionTimeout: DefaultActionTimeout,
		ProbeTimeout:  DefaultProbeTimeout,
	}
}

// Site is a logged-in or logging-in session on the banking site.
type Site struct {
	page page.Page
	opts Options
	now  func() time.Time
}

// New returns a Site driving p.
func New(p page.Page, opts Options) *Site {
	return &Site{page: p, opts: opts, now: time.Now}
}

// FetchOptions returns the options a transactions.Fetcher needs for this site.
func (s *Site) FetchOptions() transactions.Options {
	return transactions.Options{
		Selectors:    s.opts.Selectors.Transactions,
		Format:       s.opts.Format,
		ProbeTimeout: s.opts.ProbeTimeout,
	}
}

// Open shows the transaction view of the account or card called name.
func (s *Site) Open(ctx context.Context, name string) error {
	if err := s.page.Click(ctx, s.opts.Selectors.MyProducts); err != nil {
		return fmt.Errorf("opening products: %w", err)
	}
	if err := s.page.Click(ctx, page.TextSelector(name)); err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	return nil
}

// ReadPosition reads the overall balance and the shallow accounts and cards
// listed under "my products".
func (s *Site) ReadPosition(ctx context.Context) (*model.Position, error) {
	sel := s.opts.Selectors
	log := logger.FromContext(ctx)

	if err := s.require(ctx, sel.OverallPosition); err != nil {
		return nil, err
	}
	tokens, err := s.page.Text(ctx, sel.OverallPosition)
	if err != nil {
		return nil, fmt.Errorf("reading overall position: %w", err)
	}
	balance, currency, err := parseBalance(tokens)
	if err != nil {
		return nil, err
	}

	if err := s.page.Click(ctx, sel.MyProducts); err != nil {
		return nil, fmt.Errorf("opening products: %w", err)
	}
	if err := s.require(ctx, sel.NormalAccounts); err != nil {
		return nil, err
	}
	normal, err := s.readListing(ctx, sel.NormalAccounts, model.AccountTypeNormal)
	if err != nil {
		return nil, err
	}

	var savings []model.Account
	ok, err := s.page.WaitFor(ctx, sel.SavingsAccounts, s.opts.ProbeTimeout)
	if err != nil {
		return nil, err
	}
	if ok {
		if savings, err = s.readListing(ctx, sel.SavingsAccounts, model.AccountTypeSavings); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("balance", balance.String()).
		Int("normal", len(normal)).
		Int("savings", len(savings)).
		Msg("read position")

	return &model.Position{
		Balance:    balance,
		Currency:   currency,
		Accounts:   append(normal, savings...),
		LastUpdate: s.now(),
	}, nil
}

func (s *Site) readListing(ctx context.Context, selector string, typ model.AccountType) ([]model.Account, error) {
	tokens, err := s.page.Text(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("reading %s accounts: %w", typ, err)
	}
	accounts, err := listing.Parse(tokens, typ, s.opts.Sentinels)
	if err != nil {
		return nil, fmt.Errorf("parsing %s accounts: %w", typ, err)
	}
	return accounts, nil
}

// require waits for selector and turns its absence into ErrNavigationTimeout.
func (s *Site) require(ctx context.Context, selector string) error {
	ok, err := s.page.WaitFor(ctx, selector, s.opts.ActionTimeout)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("waiting for %q: %w", selector, page.ErrNavigationTimeout)
	}
	return nil
}

// parseBalance reads "<amount> <currency>". The currency may be glued to the
// amount.
func parseBalance(tokens []string) (decimal.Decimal, string, error) {
	if len(tokens) == 0 {
		return decimal.Zero, "", fmt.Errorf("overall position is empty")
	}
	raw := strings.Join(tokens, " ")
	currency := ""
	if len(tokens) > 1 {
		currency = tokens[len(tokens)-1]
		raw = strings.Join(tokens[:len(tokens)-1], "")
	} else if i := strings.LastIndexFunc(raw, unicode.IsDigit); i >= 0 && i+1 < len(raw) {
		raw, currency = raw[:i+1], strings.TrimSpace(raw[i+1:])
	}
	balance, err := amount.Parse(raw)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("reading overall position: %w", err)
	}
	return balance, currency, nil
}
