package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rickgao/quotecard/internal/export"
	"github.com/rickgao/quotecard/internal/model"
)

func newLookupCmd(a *app) *cobra.Command {
	var (
		asJSON   bool
		copyText bool
		csvPath  string
	)

	cmd := &cobra.Command{
		Use:   "lookup SYMBOL",
		Short: "Look up a quote card",
		Example: `  quotecard lookup AAPL
  quotecard lookup msft --json
  quotecard lookup NVDA --copy --csv ./exports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.ErrOrStderr()); err != nil {
				return err
			}
			svc, err := a.cardService()
			if err != nil {
				return err
			}

			c, err := svc.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(c); err != nil {
					return fmt.Errorf("encode card: %w", err)
				}
			} else {
				fmt.Fprintln(out, export.Text(c))
			}

			if copyText {
				if err := export.Copy(c); err != nil {
					return err
				}
				a.logger.Info("copied to clipboard", "symbol", c.Symbol)
			}

			if csvPath != "" {
				path, err := writeCSVFile(csvPath, c)
				if err != nil {
					return err
				}
				a.logger.Info("wrote csv", "symbol", c.Symbol, "path", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the card as JSON")
	cmd.Flags().BoolVar(&copyText, "copy", false, "copy the text summary to the clipboard")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write a CSV export to this file or directory")
	return cmd
}

// writeCSVFile writes the card's CSV to path. An existing directory gets
// the default <SYMBOL>_data.csv name.
func writeCSVFile(path string, c model.Card) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, export.Filename(c))
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv file: %w", err)
	}
	if err := export.WriteCSV(f, c); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close csv file: %w", err)
	}
	return path, nil
}
