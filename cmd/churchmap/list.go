package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"churchmap/internal/domain/entities"
	"churchmap/internal/listing"
)

func listCmd() *cobra.Command {
	var opts listing.Options
	var sortKey string
	var descending bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Page through the church directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SortKey = entities.SortKey(sortKey)
			if descending {
				opts.SortDirection = listing.Descending
			}
			return runList(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.Page, "page", listing.DefaultPage, "page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "page size (default from config)")
	cmd.Flags().StringVar(&opts.SearchTerm, "search", "", "filter by name, address or diocese")
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort by name, address or diocese")
	cmd.Flags().BoolVar(&descending, "desc", false, "sort descending")
	return cmd
}

func runList(cmd *cobra.Command, opts listing.Options) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if opts.Limit == 0 {
		opts.Limit = a.cfg.Search.PageSize
	}
	page, err := a.data.List(context.Background(), opts)
	if err != nil {
		return err
	}

	printChurches(cmd.OutOrStdout(), page.Data)
	fmt.Fprintf(cmd.OutOrStdout(), "\npage %d of %d, %d churches\n", opts.Normalize().Page, page.TotalPages, page.Total)
	return nil
}
