package commands

import (
	"github.com/spf13/cobra"

	"github.com/headsrooms/PlaywrightING/internal/buildinfo"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	home     string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "playwrighting",
		Short:   "Keep a local snapshot of your bank position and transactions",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.home, "home", "", "home directory (default $PLAYWRIGHTING_HOME or ~/playwrighting)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides log.level in config.yaml)")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newUpdateCommand(opts),
		newDownloadCommand(opts),
		newShowCommand(opts),
		newBackupCommand(opts),
	)

	return rootCmd
}
