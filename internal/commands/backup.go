package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/headsrooms/PlaywrightING/internal/snapshot"
)

func newBackupCommand(opts *rootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the snapshot next to it under a new name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return runBackup(a, name, time.Now())
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "backup file name without extension (default DDMonYY-HHMM)")

	return cmd
}

func runBackup(a *app, name string, now time.Time) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	if name == "" {
		name = snapshot.BackupName(now)
	}
	dst, err := snapshot.Backup(store, a.home, name)
	if err != nil {
		return err
	}
	a.out.Success(fmt.Sprintf("Backed up %s to %s", store.Path(), dst))
	return nil
}
