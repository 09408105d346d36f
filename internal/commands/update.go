package commands

import (
	"github.com/spf13/cobra"
)

func newUpdateCommand(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Refresh the snapshot, fetching transactions only when the balance moved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return runUpdate(a, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "fetch transactions even if the balance did not change")

	return cmd
}

func runUpdate(a *app, force bool) error {
	if err := a.requireCredentials(); err != nil {
		return err
	}
	store, err := a.store()
	if err != nil {
		return err
	}
	prior, err := store.Load()
	if err != nil {
		return err
	}
	if prior == nil {
		a.log.Info().Str("path", store.Path()).Msg("no snapshot yet, building one")
	}

	a.out.Header("Update")
	return a.sync(store, prior, force)
}
