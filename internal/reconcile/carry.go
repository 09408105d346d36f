package reconcile

import "github.com/headsrooms/PlaywrightING/internal/model"

// Carry returns fresh with the history of every account and card that prior
// already knows, matched by name. Balances and card details come from fresh.
func Carry(fresh, prior *model.Position) *model.Position {
	if prior == nil {
		return fresh.WithAccounts(fresh.Accounts, fresh.LastUpdate)
	}

	accounts := make([]model.Account, len(fresh.Accounts))
	for i, a := range fresh.Accounts {
		old, ok := prior.Account(a.Name)
		if !ok {
			accounts[i] = a.WithCards(a.Cards)
			continue
		}

		cards := make([]model.Card, len(a.Cards))
		for j, c := range a.Cards {
			if oldCard, ok := old.Card(c.Name); ok {
				c = c.WithHistory(oldCard.History)
			}
			cards[j] = c
		}
		accounts[i] = a.WithCards(cards).WithHistory(old.History)
	}
	return fresh.WithAccounts(accounts, fresh.LastUpdate)
}
