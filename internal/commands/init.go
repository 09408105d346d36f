package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/headsrooms/PlaywrightING/internal/snapshot"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Build the first snapshot: position, accounts, cards and every transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return runInit(a, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "replace an existing snapshot")

	return cmd
}

func runInit(a *app, force bool) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	exists, err := store.Exists()
	if err != nil {
		return err
	}
	if exists && !force {
		return fmt.Errorf("%w at %s: remove it, add --force or run update instead",
			snapshot.ErrSnapshotExists, store.Path())
	}

	if err := a.requireCredentials(); err != nil {
		return err
	}

	a.out.Header("Init")
	return a.sync(store, nil, true)
}
