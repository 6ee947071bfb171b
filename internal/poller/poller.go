package poller

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/quotecard/internal/model"
)

// SymbolSource provides the symbols to refresh.
type SymbolSource interface {
	List(ctx context.Context) ([]string, error)
}

// Refresher looks up a fresh card. card.Service satisfies it.
type Refresher interface {
	Lookup(ctx context.Context, symbol string) (model.Card, error)
}

// CardHandler receives refreshed cards.
type CardHandler interface {
	HandleCard(c model.Card) error
}

// CardHandlerFunc is a function adapter for CardHandler.
type CardHandlerFunc func(model.Card) error

func (f CardHandlerFunc) HandleCard(c model.Card) error {
	return f(c)
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Poll interval (default: 1m)
	Concurrency int           // Max concurrent lookups (default: 4)
	Timeout     time.Duration // Per-lookup timeout (default: 15s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    time.Minute,
		Concurrency: 4,
		Timeout:     15 * time.Second,
	}
}

// Result summarizes one refresh cycle.
type Result struct {
	Symbols   int
	Refreshed int64
	Failed    int64
	Duration  time.Duration
}

// Poller periodically refreshes cards for watchlist symbols.
type Poller struct {
	cfg       Config
	refresher Refresher
	symbols   SymbolSource
	handler   CardHandler
	logger    *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Poller. A nil handler discards refreshed cards.
func New(cfg Config, refresher Refresher, symbols SymbolSource, handler CardHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	d := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = d.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = d.Timeout
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if handler == nil {
		handler = CardHandlerFunc(func(model.Card) error { return nil })
	}
	return &Poller{
		cfg:       cfg,
		refresher: refresher,
		symbols:   symbols,
		handler:   handler,
		logger:    logger,
	}
}

// Start runs a cycle immediately and then every Interval until Stop.
func (p *Poller) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		p.loop(ctx)
	}()

	p.logger.Info("watchlist poller started",
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
	)
	return nil
}

// Stop cancels the loop and waits for the in-flight cycle.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()

	select {
	case <-p.done:
		p.logger.Info("watchlist poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) loop(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		res, err := p.Cycle(ctx)
		switch {
		case err != nil:
			p.logger.Warn("failed to list watchlist", "err", err)
		case res.Symbols > 0:
			p.logger.Info("poll cycle complete",
				"symbols", res.Symbols,
				"refreshed", res.Refreshed,
				"errors", res.Failed,
				"duration", res.Duration,
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Cycle refreshes every listed symbol once, at most Concurrency at a
// time. Per-symbol failures are logged and counted; only a failure to
// list symbols is returned.
func (p *Poller) Cycle(ctx context.Context) (Result, error) {
	start := time.Now()

	symbols, err := p.symbols.List(ctx)
	if err != nil {
		return Result{}, err
	}

	var refreshed, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(p.cfg.Concurrency)

	for _, symbol := range symbols {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := p.refresh(ctx, symbol); err != nil {
				p.logger.Warn("failed to refresh card", "symbol", symbol, "err", err)
				failed.Add(1)
				return nil
			}
			refreshed.Add(1)
			return nil
		})
	}
	g.Wait()

	return Result{
		Symbols:   len(symbols),
		Refreshed: refreshed.Load(),
		Failed:    failed.Load(),
		Duration:  time.Since(start),
	}, nil
}

func (p *Poller) refresh(ctx context.Context, symbol string) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	c, err := p.refresher.Lookup(ctx, symbol)
	if err != nil {
		return err
	}
	return p.handler.HandleCard(c)
}
