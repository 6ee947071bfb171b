package yahoo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"golang.org/x/sync/singleflight"

	"github.com/rickgao/quotecard/internal/model"
)

// ProviderName identifies Yahoo-sourced cards.
const ProviderName = "yahoo"

// Fetcher retrieves an equity snapshot for a symbol.
type Fetcher func(symbol string) (*finance.Equity, error)

// Provider serves quotes, profiles and metrics from Yahoo Finance.
type Provider struct {
	fetch  Fetcher
	group  singleflight.Group
	logger *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithFetcher replaces the upstream lookup.
func WithFetcher(f Fetcher) Option {
	return func(p *Provider) {
		p.fetch = f
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// New creates a Provider backed by equity.Get.
func New(opts ...Option) *Provider {
	p := &Provider{
		fetch:  equity.Get,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements card.Provider.
func (p *Provider) Name() string { return ProviderName }

// Quote implements card.Provider.
func (p *Provider) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	eq, err := p.equity(ctx, symbol)
	if err != nil || eq == nil {
		return nil, err
	}
	q := model.Quote{
		CurrentPrice:  positive(eq.RegularMarketPrice),
		PercentChange: nonZeroWithPrice(eq.RegularMarketChangePercent, eq.RegularMarketPrice),
		PreviousClose: positive(eq.RegularMarketPreviousClose),
		Timestamp:     int64(eq.RegularMarketTime) * 1_000_000,
	}
	return &q, nil
}

// Profile implements card.Provider.
func (p *Provider) Profile(ctx context.Context, symbol string) (*model.Profile, error) {
	eq, err := p.equity(ctx, symbol)
	if err != nil || eq == nil {
		return nil, err
	}
	var out model.Profile
	if name := firstNonEmpty(eq.LongName, eq.ShortName); name != "" {
		out.Name = model.String(name)
	}
	// Yahoo reports market cap in whole dollars.
	out.ReportedMarketCap = positive(float64(eq.MarketCap))
	out.SharesOutstanding = positive(float64(eq.SharesOutstanding))
	return &out, nil
}

// Metrics implements card.Provider.
func (p *Provider) Metrics(ctx context.Context, symbol string) (*model.Metrics, error) {
	eq, err := p.equity(ctx, symbol)
	if err != nil || eq == nil {
		return nil, err
	}
	return &model.Metrics{
		PETTM:           positive(eq.TrailingPE),
		PENormalizedTTM: positive(eq.ForwardPE),
	}, nil
}

func (p *Provider) equity(ctx context.Context, symbol string) (*finance.Equity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	ch := p.group.DoChan(symbol, func() (any, error) {
		p.logger.Debug("fetching yahoo equity", "symbol", symbol)
		return p.fetch(symbol)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("yahoo equity %s: %w", symbol, res.Err)
		}
		eq, _ := res.Val.(*finance.Equity)
		return eq, nil
	}
}

func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return model.Float(v)
}

// Yahoo fills missing numbers with zero; a zero change is only meaningful
// when a price is present.
func nonZeroWithPrice(change, price float64) *float64 {
	if price <= 0 {
		return nil
	}
	return model.Float(change)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
