package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"churchmap/internal/importer"
	"churchmap/internal/services"
)

func importCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-import churches from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], importer.Format(format))
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from the file extension)")
	return cmd
}

func runImport(cmd *cobra.Command, path string, format importer.Format) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if format == "" {
		format = importer.FormatFromPath(path)
	}
	churches, err := importer.Parse(f, format)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	count, err := a.data.BulkCreate(context.Background(), churches)
	if err != nil {
		a.notifier.NotifyWriteFailed("import "+path, err)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d churches.\n", count)
	if a.data.Mode() == services.ModeOfflineDataset {
		fmt.Fprintln(cmd.ErrOrStderr(), "note: no remote directory configured; the import lasts for this run only")
	}
	return nil
}
