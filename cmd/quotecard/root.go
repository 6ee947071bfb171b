package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "quotecard",
		Short: "Stock quote cards with a reconciled market capitalization",
		Long: `quotecard looks up a ticker's price, daily change, P/E ratio and
market capitalization. The reported market cap is reconciled against
shares outstanding times price before it is rendered ("$2.98T").

Without --config, defaults are used and the Finnhub API key is read
from FINNHUB_API_KEY (optionally via the --env-file).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to YAML config file")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the config")
	flags.StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	cmd.AddCommand(
		newLookupCmd(a),
		newSearchCmd(a),
		newServeCmd(a),
		newStreamCmd(a),
		newMigrateCmd(a),
		newVersionCmd(),
	)
	return cmd
}
