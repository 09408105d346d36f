// Package reconcile updates a position's accounts and cards by merging newly
// fetched transactions into the history already stored for them.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/headsrooms/PlaywrightING/internal/logger"
	"github.com/headsrooms/PlaywrightING/internal/model"
	"github.com/headsrooms/PlaywrightING/internal/transactions"
)

// Fetcher returns the rows visible for the entity currently opened.
type Fetcher interface {
	Fetch(ctx context.Context, req transactions.Request) (model.Table, error)
}

// Navigator opens the transaction view of an entity by name.
type Navigator interface {
	Open(ctx context.Context, name string) error
}

// Outcome tells what Sync did.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeTouched Outcome = "touched"
)

// Engine runs the per-entity update protocol. It drives one entity at a time.
type Engine struct {
	nav         Navigator
	fetcher     Fetcher
	now         func() time.Time
	incremental bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIncremental makes fetches stop once they reach rows older than the
// entity's last update.
func WithIncremental(on bool) Option {
	return func(e *Engine) { e.incremental = on }
}

// NewEngine creates an Engine.
func NewEngine(nav Navigator, fetcher Fetcher, opts ...Option) *Engine {
	e := &Engine{nav: nav, fetcher: fetcher, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sync reconciles a freshly scraped shallow position with the stored one.
// When the balance is unchanged and force is off, the prior graph is touched
// as it is, keeping entities the fresh scrape no longer lists. Otherwise the
// history of known accounts and cards is carried over by name and every
// entity is fetched and merged. Prior is never modified.
func (e *Engine) Sync(ctx context.Context, fresh, prior *model.Position, force bool) (*model.Position, Outcome, error) {
	log := logger.FromContext(ctx)

	if !force && fresh.Equal(prior) {
		log.Info().Str("balance", fresh.Balance.String()).Msg("balance unchanged, touching snapshot")
		return prior.Touch(e.now()), OutcomeTouched, nil
	}

	updated, err := e.UpdatePosition(ctx, Carry(fresh, prior))
	if err != nil {
		return nil, "", err
	}
	if prior == nil {
		return updated, OutcomeCreated, nil
	}
	return updated, OutcomeUpdated, nil
}

// UpdatePosition updates every account in order.
func (e *Engine) UpdatePosition(ctx context.Context, p *model.Position) (*model.Position, error) {
	accounts := make([]model.Account, len(p.Accounts))
	for i, a := range p.Accounts {
		updated, err := e.UpdateAccount(ctx, a)
		if err != nil {
			return nil, err
		}
		accounts[i] = updated
	}
	return p.WithAccounts(accounts, e.now()), nil
}

// UpdateAccount updates the account's cards first, then its own transactions.
func (e *Engine) UpdateAccount(ctx context.Context, a model.Account) (model.Account, error) {
	cards := make([]model.Card, len(a.Cards))
	for i, c := range a.Cards {
		updated, err := e.UpdateCard(ctx, c)
		if err != nil {
			return model.Account{}, err
		}
		cards[i] = updated
	}

	h, err := e.update(ctx, a.Name, a.History, false)
	if err != nil {
		return model.Account{}, err
	}
	return a.WithCards(cards).WithHistory(h), nil
}

// UpdateCard fetches and merges the card's transactions.
func (e *Engine) UpdateCard(ctx context.Context, c model.Card) (model.Card, error) {
	h, err := e.update(ctx, c.Name, c.History, c.IsCredit())
	if err != nil {
		return model.Card{}, err
	}
	return c.WithHistory(h), nil
}

func (e *Engine) update(ctx context.Context, name string, h model.History, credit bool) (model.History, error) {
	log := logger.FromContext(ctx).With().Str("entity", name).Logger()
	log.Info().Msg("obtaining transactions")

	if err := e.nav.Open(ctx, name); err != nil {
		return model.History{}, fmt.Errorf("opening %s: %w", name, err)
	}

	req := transactions.Request{Credit: credit}
	if e.incremental && h.Synced() {
		req.Since = h.LastUpdate
	}
	fetched, err := e.fetcher.Fetch(ctx, req)
	if err != nil {
		return model.History{}, fmt.Errorf("fetching transactions of %s: %w", name, err)
	}

	merged := h.Merged(fetched, e.now())
	log.Info().
		Int("fetched", fetched.Len()).
		Int("new", merged.Transactions.Len()-h.Transactions.Len()).
		Int("total", merged.Transactions.Len()).
		Msg("merged transactions")
	return merged, nil
}
