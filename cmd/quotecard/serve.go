package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/quotecard/internal/card"
	"github.com/rickgao/quotecard/internal/database"
	"github.com/rickgao/quotecard/internal/model"
	"github.com/rickgao/quotecard/internal/poller"
	"github.com/rickgao/quotecard/internal/server"
	"github.com/rickgao/quotecard/internal/stream"
	"github.com/rickgao/quotecard/internal/symbols"
	"github.com/rickgao/quotecard/internal/version"
	"github.com/rickgao/quotecard/internal/watchlist"
)

const shutdownTimeout = 10 * time.Second

func contextWithShutdownTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), shutdownTimeout)
}

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve quote cards over HTTP",
		Long: `Serve starts the HTTP API, refreshes watchlist symbols on an interval
and, when stream.enabled is set, applies live Finnhub trades to the
stored cards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	logger := a.logger
	cfg := a.cfg

	logger.Info("starting quotecard",
		"version", version.Version,
		"commit", version.Commit,
		"provider", cfg.Provider.Name,
		"fallback", cfg.Provider.Fallback,
	)

	svc, err := a.cardService()
	if err != nil {
		return err
	}

	store, closeStore, err := a.openWatchlist(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithWatchlist(store),
	}

	if cfg.Symbols.CatalogPath != "" {
		catalog, err := symbols.Open(cfg.Symbols.CatalogPath)
		if err != nil {
			return err
		}
		defer catalog.Close()
		logger.Info("symbol catalog loaded", "path", cfg.Symbols.CatalogPath, "symbols", catalog.Len())
		opts = append(opts, server.WithCatalog(catalog))
	}

	// Poller
	p := poller.New(poller.Config{
		Interval:    cfg.Poller.Interval,
		Concurrency: cfg.Poller.Concurrency,
		Timeout:     cfg.Poller.Timeout,
	}, svc, store, poller.CardHandlerFunc(func(c model.Card) error {
		logger.Debug("card refreshed",
			"symbol", c.Symbol,
			"price", c.Price,
			"market_cap", c.MarketCap.ShortForm,
		)
		return nil
	}), logger)
	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}
	defer func() {
		stopCtx, cancel := contextWithShutdownTimeout()
		defer cancel()
		p.Stop(stopCtx)
	}()

	// Live trades
	if st := a.startStream(ctx, svc, store); st != nil {
		opts = append(opts, server.WithSubscriber(st))
		defer func() {
			stopCtx, cancel := contextWithShutdownTimeout()
			defer cancel()
			st.Stop(stopCtx)
		}()
	}

	srv := server.New(svc, opts...)
	httpServer := srv.HTTPServer(cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := contextWithShutdownTimeout()
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}

	logger.Info("quotecard stopped")
	return nil
}

// openWatchlist returns the Postgres store when a database is configured
// and the in-memory store otherwise.
func (a *app) openWatchlist(ctx context.Context) (watchlist.Store, func(), error) {
	if !a.cfg.Database.Enabled() {
		a.logger.Info("no database configured, watchlist kept in memory")
		return watchlist.NewMemoryStore(), func() {}, nil
	}

	a.logger.Info("connecting to database",
		"host", a.cfg.Database.Host,
		"port", a.cfg.Database.Port,
		"database", a.cfg.Database.Name,
	)
	pool, err := database.Connect(ctx, a.cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	a.logger.Info("database connected")
	return watchlist.NewPGStore(pool), pool.Close, nil
}

// startStream connects the live trade stream. It returns nil when the
// stream is disabled or the first connection fails.
func (a *app) startStream(ctx context.Context, svc *card.Service, store watchlist.Store) *stream.Stream {
	cfg := a.cfg
	if !cfg.Stream.Enabled {
		return nil
	}
	if !cfg.UsesFinnhub() {
		a.logger.Warn("stream requires the finnhub provider, not starting")
		return nil
	}

	st := stream.New(stream.Config{
		URL:               cfg.Provider.Finnhub.WSURL,
		Token:             cfg.Provider.Finnhub.APIKey,
		ReconnectBaseWait: cfg.Stream.ReconnectBaseDelay,
		ReconnectMaxWait:  cfg.Stream.ReconnectMaxDelay,
		BufferSize:        cfg.Stream.BufferSize,
	}, stream.TradeHandlerFunc(func(t model.Trade) {
		if c, ok := svc.ApplyTrade(t); ok {
			a.logger.Debug("card updated from trade",
				"symbol", c.Symbol,
				"price", t.Price,
				"market_cap", c.MarketCap.ShortForm,
			)
		}
	}), a.logger)

	list, err := store.List(ctx)
	if err != nil {
		a.logger.Warn("list watchlist for stream", "error", err)
	}
	if err := st.Start(ctx, list); err != nil {
		a.logger.Error("trade stream unavailable", "url", cfg.Provider.Finnhub.WSURL, "error", err)
		return nil
	}
	return st
}
