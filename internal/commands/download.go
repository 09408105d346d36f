package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/headsrooms/PlaywrightING/internal/export"
)

func newDownloadCommand(opts *rootOptions) *cobra.Command {
	var path string
	var createParents bool

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Export every transaction table as CSV, one directory per account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return runDownload(a, path, createParents)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "directory where files will be written (default download_path in config.yaml)")
	cmd.Flags().BoolVar(&createParents, "create-parents", false, "create missing parent directories")

	return cmd
}

func runDownload(a *app, path string, createParents bool) error {
	pos, err := a.loadSnapshot()
	if err != nil {
		return err
	}
	if path == "" {
		path = a.cfg.DownloadPath
	}
	if path == "" {
		return fmt.Errorf("no download path: pass --path or set download_path in config.yaml")
	}

	written, err := export.Position(pos, path, export.Options{CreateParents: createParents})
	if err != nil {
		return err
	}
	for _, f := range written {
		a.log.Debug().Str("file", f).Msg("exported")
	}
	a.out.Success(fmt.Sprintf("Exported %d files to %s", len(written), path))
	return nil
}
