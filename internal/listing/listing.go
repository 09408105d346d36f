// Package listing splits the token stream scraped from the product listing
// into accounts and cards.
package listing

import (
	"fmt"
	"strings"

	"github.com/headsrooms/PlaywrightING/internal/amount"
	"github.com/headsrooms/PlaywrightING/internal/model"
)

// Sentinels are the marker tokens the listing markup places between entities.
type Sentinels struct {
	Account   string `yaml:"account"`
	Card      string `yaml:"card"`
	Activated string `yaml:"activated"`
}

const (
	nameTokens    = 3
	accountTokens = 4
)

// Parse builds shallow accounts from tokens. Savings listings never carry
// cards. Cards are attached to every account whose joined text contains the
// card name, so names that are substrings of one another can attach a card
// to more than one account.
//
// When the account sentinel is missing the whole stream is read as a single
// account; an account block without a card sentinel has no cards.
func Parse(tokens []string, typ model.AccountType, s Sentinels) ([]model.Account, error) {
	blocks := split(tokens, s.Account, true)

	var cards []model.Card
	if typ == model.AccountTypeNormal {
		for i, block := range blocks {
			for j, sub := range split(block, s.Card, false) {
				card, err := parseCard(sub, s)
				if err != nil {
					return nil, fmt.Errorf("account %d card %d: %w", i+1, j+1, err)
				}
				cards = append(cards, card)
			}
		}
	}

	accounts := make([]model.Account, 0, len(blocks))
	for i, block := range blocks {
		acct, err := parseAccount(block, typ)
		if err != nil {
			return nil, fmt.Errorf("account %d: %w", i+1, err)
		}

		text := join(block)
		var owned []model.Card
		for _, c := range cards {
			if strings.Contains(text, c.Name) {
				owned = append(owned, c)
			}
		}
		accounts = append(accounts, acct.WithCards(owned))
	}
	return accounts, nil
}

func parseAccount(block []string, typ model.AccountType) (model.Account, error) {
	if len(block) == 0 {
		return model.Account{}, fmt.Errorf("empty account block")
	}
	head := block[:min(accountTokens, len(block))]

	balance, err := amount.Parse(head[len(head)-1])
	if err != nil {
		return model.Account{}, fmt.Errorf("balance: %w", err)
	}
	return model.Account{
		Name:    join(head[:min(nameTokens, len(head))]),
		Type:    typ,
		Balance: balance,
	}, nil
}

func parseCard(sub []string, s Sentinels) (model.Card, error) {
	if len(sub) == 0 {
		return model.Card{}, fmt.Errorf("empty card block")
	}
	name := join(sub[:min(nameTokens, len(sub))])
	info := sub[len(sub)-1]

	if info == s.Activated {
		return model.NewDebitCard(name, true), nil
	}
	expense, err := amount.Parse(info)
	if err != nil {
		return model.Card{}, fmt.Errorf("card %q outstanding expense: %w", name, err)
	}
	return model.NewCreditCard(name, expense), nil
}

// split returns the token runs that follow each occurrence of sentinel, each
// running up to the next occurrence or the end. The sentinel itself is not
// part of any run. With no occurrence, whole decides between one run holding
// every token and no runs at all.
func split(tokens []string, sentinel string, whole bool) [][]string {
	var bounds []int
	for i, tok := range tokens {
		if tok == sentinel {
			bounds = append(bounds, i)
		}
	}
	if len(bounds) == 0 {
		if whole && len(tokens) > 0 {
			return [][]string{tokens}
		}
		return nil
	}

	bounds = append(bounds, len(tokens))
	runs := make([][]string, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		runs = append(runs, tokens[bounds[i]+1:bounds[i+1]])
	}
	return runs
}

// join glues the non-empty tokens with single spaces.
func join(tokens []string) string {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok = strings.TrimSpace(tok); tok != "" {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}
