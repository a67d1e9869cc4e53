package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "churchmap",
		Short:        "Find nearby churches and upcoming Masses, online or offline",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	addGlobalFlags(root)

	root.AddCommand(serveCmd())
	root.AddCommand(listCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(importCmd())
	root.AddCommand(mapCmd())
	root.AddCommand(versionCmd())
	return root
}
