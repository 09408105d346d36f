package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies the listing an account was scraped from.
type AccountType string

const (
	AccountTypeNormal  AccountType = "normal"
	AccountTypeSavings AccountType = "savings"
)

// CardKind tags the Card variant.
type CardKind string

const (
	CardKindDebit  CardKind = "debit"
	CardKindCredit CardKind = "credit"
)

// Card is a debit or credit card attached to an account. Activated is only
// meaningful for debit cards, OutstandingExpense only for credit cards.
type Card struct {
	Name               string
	Kind               CardKind
	Activated          bool
	OutstandingExpense decimal.Decimal
	History
}

// NewDebitCard returns a shallow debit card.
func NewDebitCard(name string, activated bool) Card {
	return Card{Name: name, Kind: CardKindDebit, Activated: activated}
}

// NewCreditCard returns a shallow credit card.
func NewCreditCard(name string, expense decimal.Decimal) Card {
	return Card{Name: name, Kind: CardKindCredit, OutstandingExpense: expense}
}

// IsCredit reports whether the card is a credit card.
func (c Card) IsCredit() bool { return c.Kind == CardKindCredit }

// WithHistory returns a copy of c carrying h.
func (c Card) WithHistory(h History) Card {
	c.History = h
	return c
}

// Account is a holding with a balance, its cards and its own history.
type Account struct {
	Name    string
	Type    AccountType
	Balance decimal.Decimal
	Cards   []Card
	History
}

// WithHistory returns a copy of a carrying h.
func (a Account) WithHistory(h History) Account {
	a.Cards = slices.Clone(a.Cards)
	a.History = h
	return a
}

// WithCards returns a copy of a holding cards.
func (a Account) WithCards(cards []Card) Account {
	a.Cards = slices.Clone(cards)
	return a
}

// Card returns the card named name.
func (a Account) Card(name string) (Card, bool) {
	for _, c := range a.Cards {
		if c.Name == name {
			return c, true
		}
	}
	return Card{}, false
}

// Position is the root snapshot: the overall balance and every account.
type Position struct {
	Balance    decimal.Decimal
	Currency   string
	Accounts   []Account
	LastUpdate time.Time
}

// Equal compares positions by balance only. Freshly scraped positions carry
// no history, so this is a change probe rather than structural equality.
func (p *Position) Equal(other *Position) bool {
	if p == nil || other == nil {
		return false
	}
	return p.Balance.Equal(other.Balance)
}

// Account returns the account named name.
func (p *Position) Account(name string) (Account, bool) {
	for _, a := range p.Accounts {
		if a.Name == name {
			return a, true
		}
	}
	return Account{}, false
}

// WithAccounts returns a copy of p holding accounts, stamped at.
func (p *Position) WithAccounts(accounts []Account, at time.Time) *Position {
	next := *p
	next.Accounts = slices.Clone(accounts)
	next.LastUpdate = at
	return &next
}

// Touch returns a copy of p where the position and every account and card
// have their freshness timestamp moved to at. Transactions are untouched.
func (p *Position) Touch(at time.Time) *Position {
	accounts := make([]Account, len(p.Accounts))
	for i, a := range p.Accounts {
		cards := make([]Card, len(a.Cards))
		for j, c := range a.Cards {
			cards[j] = c.WithHistory(c.Touched(at))
		}
		accounts[i] = a.WithCards(cards).WithHistory(a.Touched(at))
	}
	return p.WithAccounts(accounts, at)
}
