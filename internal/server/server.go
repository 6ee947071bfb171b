package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rickgao/quotecard/internal/model"
	"github.com/rickgao/quotecard/internal/symbols"
	"github.com/rickgao/quotecard/internal/watchlist"
)

// CardService looks up and remembers cards.
type CardService interface {
	Lookup(ctx context.Context, symbol string) (model.Card, error)
	Latest(symbol string) (model.Card, bool)
	LatestOrLookup(ctx context.Context, symbol string) (model.Card, error)
}

// Searcher finds symbols by ticker or company name.
type Searcher interface {
	Search(query string, limit int) ([]symbols.Entry, error)
}

// Subscriber follows live trades for a symbol.
type Subscriber interface {
	Subscribe(symbol string) error
	Unsubscribe(symbol string) error
}

// Server serves the HTTP API.
type Server struct {
	cards      CardService
	catalog    Searcher
	watchlist  watchlist.Store
	subscriber Subscriber
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithCatalog enables /api/search.
func WithCatalog(c Searcher) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithWatchlist sets the watchlist store. The default is an empty
// in-memory store.
func WithWatchlist(w watchlist.Store) Option {
	return func(s *Server) {
		s.watchlist = w
	}
}

// WithSubscriber keeps the live stream in step with the watchlist.
func WithSubscriber(sub Subscriber) Option {
	return func(s *Server) {
		s.subscriber = sub
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server.
func New(cards CardService, opts ...Option) *Server {
	s := &Server{
		cards:     cards,
		watchlist: watchlist.NewMemoryStore(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the router with all handlers mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/cards/{symbol}", func(r chi.Router) {
			r.Get("/", s.handleLookup)
			r.Get("/latest", s.handleLatest)
			r.Get("/text", s.handleText)
			r.Get("/export.csv", s.handleCSV)
		})

		r.Get("/search", s.handleSearch)

		r.Get("/watchlist", s.handleListWatchlist)
		r.Put("/watchlist/{symbol}", s.handleAddWatchlist)
		r.Delete("/watchlist/{symbol}", s.handleRemoveWatchlist)
	})

	return r
}

// HTTPServer wraps Routes in an http.Server.
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
