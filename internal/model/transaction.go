package model

import "time"

// History is the transaction record shared by accounts and cards.
type History struct {
	Transactions Table
	LastUpdate   time.Time // zero until the first successful fetch or touch
}

// Synced reports whether the entity was ever fetched or verified.
func (h History) Synced() bool {
	return !h.LastUpdate.IsZero()
}

// Merged returns a copy holding the merge of the known rows with fetched, stamped at.
func (h History) Merged(fetched Table, at time.Time) History {
	return History{Transactions: h.Transactions.Merge(fetched), LastUpdate: at}
}

// Touched returns a copy with only the freshness timestamp moved to at.
func (h History) Touched(at time.Time) History {
	return History{Transactions: h.Transactions, LastUpdate: at}
}
