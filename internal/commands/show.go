package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/headsrooms/PlaywrightING/internal/id"
	"github.com/headsrooms/PlaywrightING/internal/model"
	"github.com/headsrooms/PlaywrightING/internal/prompt"
	"github.com/headsrooms/PlaywrightING/internal/synclog"
	"github.com/headsrooms/PlaywrightING/internal/ui"
)

const (
	showPosition     = "position"
	showAccounts     = "accounts"
	showTransactions = "transactions"
	showHistory      = "history"
)

var showOptions = []string{showPosition, showAccounts, showTransactions, showHistory}

func newShowCommand(opts *rootOptions) *cobra.Command {
	var option string
	var entity string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the snapshot (position, accounts or the transactions of one entity) or the sync history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return runShow(a, option, entity)
		},
	}

	cmd.Flags().StringVar(&option, "option", "", "what to show: position, accounts, transactions or history")
	cmd.Flags().StringVar(&entity, "entity", "", "account (1) or card (1.a) whose transactions are shown")

	return cmd
}

func runShow(a *app, option, entity string) error {
	var err error
	if option == "" {
		option, err = a.console.Choose(a.ctx, "What do you want to show?", showOptions, showPosition)
		if err != nil {
			return err
		}
	} else if !slices.Contains(showOptions, option) {
		return fmt.Errorf("%w: option %q, use one of %v", prompt.ErrNotAValidChoice, option, showOptions)
	}

	if option == showHistory {
		entries, err := synclog.Read(a.home)
		if err != nil {
			return err
		}
		a.out.History(entries)
		return nil
	}

	pos, err := a.loadSnapshot()
	if err != nil {
		return err
	}

	switch option {
	case showPosition:
		a.out.Position(pos)
	case showAccounts:
		a.out.Accounts(pos)
	case showTransactions:
		choices := ui.Choices(pos)
		if len(choices) == 0 {
			a.out.Info("no accounts")
			return nil
		}
		keys := make([]string, len(choices))
		for i, c := range choices {
			keys[i] = c.Key
		}

		if entity == "" {
			a.out.Menu(choices)
			entity, err = a.console.Choose(a.ctx, "Choose an account or card", keys, keys[0])
			if err != nil {
				return err
			}
		}
		t, ok := entityTable(pos, entity)
		if !ok {
			return fmt.Errorf("%w: entity %q, use one of %v", prompt.ErrNotAValidChoice, entity, keys)
		}
		a.out.Table(t)
	}
	return nil
}

// entityTable returns the transactions selected by key ("1" or "1.a").
func entityTable(pos *model.Position, key string) (model.Table, bool) {
	acct, card, err := id.ParseKey(key)
	if err != nil || acct >= len(pos.Accounts) {
		return model.Table{}, false
	}
	a := pos.Accounts[acct]
	if card == id.NoCard {
		return a.Transactions, true
	}
	if card >= len(a.Cards) {
		return model.Table{}, false
	}
	return a.Cards[card].Transactions, true
}
