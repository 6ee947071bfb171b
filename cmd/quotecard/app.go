package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rickgao/quotecard/internal/api"
	"github.com/rickgao/quotecard/internal/card"
	"github.com/rickgao/quotecard/internal/config"
	"github.com/rickgao/quotecard/internal/marketcap"
	"github.com/rickgao/quotecard/internal/version"
	"github.com/rickgao/quotecard/internal/yahoo"
)

// apiKeyEnv supplies the Finnhub key when the config file leaves it empty.
const apiKeyEnv = "FINNHUB_API_KEY"

// app holds state shared by all subcommands.
type app struct {
	configPath string
	envFile    string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

// load reads the env file and config, then builds the logger.
func (a *app) load(logOut io.Writer) error {
	if err := config.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	var cfg *config.Config
	if a.configPath == "" {
		cfg = config.Default()
	} else {
		var err error
		cfg, err = config.LoadWithDefaults(a.configPath)
		if err != nil {
			return err
		}
	}
	if cfg.Provider.Finnhub.APIKey == "" {
		cfg.Provider.Finnhub.APIKey = os.Getenv(apiKeyEnv)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	level, _ := cfg.Log.SlogLevel()
	a.logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(a.logger)
	a.cfg = cfg
	return nil
}

// providers returns the configured providers, primary first.
func (a *app) providers() ([]card.Provider, error) {
	var out []card.Provider
	for _, name := range []string{a.cfg.Provider.Name, a.cfg.Provider.Fallback} {
		switch name {
		case "":
		case config.ProviderFinnhub:
			out = append(out, api.NewClient(
				a.cfg.Provider.Finnhub.RestURL,
				a.cfg.Provider.Finnhub.APIKey,
				api.WithLogger(a.logger),
				api.WithTimeout(a.cfg.Provider.Timeout),
				api.WithRetries(a.cfg.Provider.Retries(), a.cfg.Provider.RetryBackoff),
				api.WithUserAgent("quotecard/"+version.Version),
			))
		case config.ProviderYahoo:
			out = append(out, yahoo.New(yahoo.WithLogger(a.logger)))
		default:
			return nil, fmt.Errorf("unknown provider %q", name)
		}
	}
	return out, nil
}

// cardService builds the card service over the configured providers.
func (a *app) cardService() (*card.Service, error) {
	providers, err := a.providers()
	if err != nil {
		return nil, err
	}
	return card.NewService(providers,
		card.WithResolver(marketcap.NewResolver(a.cfg.MarketCap)),
		card.WithLogger(a.logger),
	), nil
}
