package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/quotecard/internal/marketcap"
	"github.com/rickgao/quotecard/internal/model"
)

var (
	// ErrNoData is returned when every retrieval from every provider failed.
	ErrNoData = errors.New("no data available")

	// ErrEmptySymbol is returned for blank symbols.
	ErrEmptySymbol = errors.New("symbol is required")
)

// Provider supplies the records a card is built from.
type Provider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (*model.Quote, error)
	Profile(ctx context.Context, symbol string) (*model.Profile, error)
	Metrics(ctx context.Context, symbol string) (*model.Metrics, error)
}

// records is one provider's answer for a symbol.
type records struct {
	source  string
	quote   *model.Quote
	profile *model.Profile
	metrics *model.Metrics
}

func (r *records) hasData() bool {
	if r.quote != nil && r.quote.CurrentPrice != nil {
		return true
	}
	return r.profile != nil && (r.profile.Name != nil || r.profile.ReportedMarketCap != nil)
}

type entry struct {
	card model.Card
	recs records
}

// Service looks up cards and remembers the latest one per symbol.
type Service struct {
	providers []Provider
	resolver  *marketcap.Resolver
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.RWMutex
	latest map[string]entry
}

// Option configures a Service.
type Option func(*Service)

// WithResolver sets the market-cap resolver.
func WithResolver(r *marketcap.Resolver) Option {
	return func(s *Service) {
		s.resolver = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for ResolvedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service that tries providers in order.
func NewService(providers []Provider, opts ...Option) *Service {
	s := &Service{
		providers: providers,
		resolver:  marketcap.NewResolver(marketcap.DefaultThresholds()),
		logger:    slog.Default(),
		now:       time.Now,
		latest:    make(map[string]entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Lookup fetches fresh records and builds a card. Providers are tried in
// order until one returns data. The result replaces the stored latest card.
func (s *Service) Lookup(ctx context.Context, symbol string) (model.Card, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return model.Card{}, ErrEmptySymbol
	}

	var (
		errs  []error
		empty *records
	)
	for _, p := range s.providers {
		recs, err := s.fetch(ctx, p, symbol)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return model.Card{}, fmt.Errorf("lookup %s: %w", symbol, ctxErr)
			}
			s.logger.Warn("provider failed",
				"provider", p.Name(),
				"symbol", symbol,
				"error", err,
			)
			errs = append(errs, err)
			continue
		}
		if recs.hasData() {
			return s.store(symbol, recs), nil
		}
		s.logger.Debug("provider returned no data", "provider", p.Name(), "symbol", symbol)
		if empty == nil {
			empty = recs
		}
	}

	if empty != nil {
		return s.store(symbol, empty), nil
	}
	return model.Card{}, fmt.Errorf("lookup %s: %w", symbol, errors.Join(append([]error{ErrNoData}, errs...)...))
}

// fetch retrieves all three records concurrently. Individual failures are
// logged and leave the record nil; an error is returned only when all
// three failed.
func (s *Service) fetch(ctx context.Context, p Provider, symbol string) (*records, error) {
	recs := &records{source: p.Name()}
	var quoteErr, profileErr, metricsErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs.quote, quoteErr = p.Quote(gctx, symbol)
		return nil
	})
	g.Go(func() error {
		recs.profile, profileErr = p.Profile(gctx, symbol)
		return nil
	})
	g.Go(func() error {
		recs.metrics, metricsErr = p.Metrics(gctx, symbol)
		return nil
	})
	_ = g.Wait()

	if quoteErr != nil && profileErr != nil && metricsErr != nil {
		return nil, errors.Join(quoteErr, profileErr, metricsErr)
	}
	for _, err := range []error{quoteErr, profileErr, metricsErr} {
		if err != nil {
			s.logger.Warn("retrieval failed",
				"provider", p.Name(),
				"symbol", symbol,
				"error", err,
			)
		}
	}
	if quoteErr != nil {
		recs.quote = nil
	}
	if profileErr != nil {
		recs.profile = nil
	}
	if metricsErr != nil {
		recs.metrics = nil
	}
	return recs, nil
}

func (s *Service) store(symbol string, recs *records) model.Card {
	c := Build(symbol, recs.quote, recs.profile, recs.metrics, s.resolver)
	c.LookupID = uuid.New()
	c.Source = recs.source
	c.ResolvedAt = s.now().UTC()

	s.mu.Lock()
	s.latest[symbol] = entry{card: c, recs: *recs}
	s.mu.Unlock()

	s.logger.Debug("card resolved",
		"symbol", symbol,
		"source", c.Source,
		"method", c.MarketCap.Method,
		"market_cap", c.MarketCap.ShortForm,
	)
	return c
}

// Latest returns the last card built for symbol.
func (s *Service) Latest(symbol string) (model.Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.latest[NormalizeSymbol(symbol)]
	return e.card, ok
}

// LatestOrLookup returns the stored card for symbol, looking it up if
// none exists yet.
func (s *Service) LatestOrLookup(ctx context.Context, symbol string) (model.Card, error) {
	if c, ok := s.Latest(symbol); ok {
		return c, nil
	}
	return s.Lookup(ctx, symbol)
}

// ApplyTrade rebuilds the stored card for the trade's symbol at the trade
// price. The percent change is recomputed against the previous close and
// dropped when no previous close is known. Trades for symbols without a
// stored card are ignored.
func (s *Service) ApplyTrade(t model.Trade) (model.Card, bool) {
	symbol := NormalizeSymbol(t.Symbol)
	if t.Price <= 0 {
		return model.Card{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.latest[symbol]
	if !ok {
		return model.Card{}, false
	}

	q := model.Quote{
		CurrentPrice: model.Float(t.Price),
		Timestamp:    t.ExchangeTS,
	}
	if e.recs.quote != nil && e.recs.quote.PreviousClose != nil && *e.recs.quote.PreviousClose > 0 {
		prev := *e.recs.quote.PreviousClose
		q.PreviousClose = model.Float(prev)
		q.PercentChange = model.Float((t.Price - prev) / prev * 100)
	}

	c := Build(symbol, &q, e.recs.profile, e.recs.metrics, s.resolver)
	c.LookupID = e.card.LookupID
	c.Source = e.card.Source
	c.ResolvedAt = s.now().UTC()

	e.recs.quote = &q
	s.latest[symbol] = entry{card: c, recs: e.recs}
	return c, true
}

// Symbols returns the symbols with a stored card.
func (s *Service) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.latest))
	for sym := range s.latest {
		out = append(out, sym)
	}
	return out
}
