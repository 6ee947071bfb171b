package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rickgao/quotecard/internal/symbols"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		catalogPath string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search the symbol catalog by ticker or company name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if catalogPath == "" {
				catalogPath = a.cfg.Symbols.CatalogPath
			}
			if catalogPath == "" {
				return errors.New("symbols.catalog_path or --catalog is required")
			}

			catalog, err := symbols.Open(catalogPath)
			if err != nil {
				return err
			}
			defer catalog.Close()

			results, err := catalog.Search(strings.Join(args, " "), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "no matches")
				return nil
			}
			for _, e := range results {
				fmt.Fprintf(out, "%-8s %-40s %s\n", e.Symbol, e.Name, e.Exchange)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "symbol catalog CSV (overrides symbols.catalog_path)")
	cmd.Flags().IntVarP(&limit, "limit", "n", symbols.DefaultLimit, "maximum results")
	return cmd
}
