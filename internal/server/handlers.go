package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rickgao/quotecard/internal/card"
	"github.com/rickgao/quotecard/internal/export"
	"github.com/rickgao/quotecard/internal/model"
	"github.com/rickgao/quotecard/internal/symbols"
	"github.com/rickgao/quotecard/internal/version"
	"github.com/rickgao/quotecard/internal/watchlist"
)

const maxSearchLimit = 50

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ok(w, map[string]any{
		"status": "ok",
		"build":  version.Get(),
	})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	c, err := s.cards.Lookup(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		s.lookupError(w, err)
		return
	}
	ok(w, c)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	symbol := card.NormalizeSymbol(chi.URLParam(r, "symbol"))
	c, found := s.cards.Latest(symbol)
	if !found {
		notFound(w, fmt.Sprintf("no card for %s", symbol))
		return
	}
	ok(w, c)
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	c, err := s.cards.LatestOrLookup(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		s.lookupError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, export.Text(c))
}

func (s *Server) handleCSV(w http.ResponseWriter, r *http.Request) {
	c, err := s.cards.LatestOrLookup(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		s.lookupError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(c)))
	if err := export.WriteCSV(w, c); err != nil {
		s.logger.Warn("write csv failed", "symbol", c.Symbol, "error", err)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		unavailable(w, "symbol catalog not loaded")
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		badRequest(w, "query parameter q is required")
		return
	}

	limit := symbols.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(w, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSearchLimit)
	}

	results, err := s.catalog.Search(q, limit)
	if err != nil {
		s.logger.Error("symbol search failed", "query", q, "error", err)
		internalError(w)
		return
	}
	if results == nil {
		results = []symbols.Entry{}
	}
	ok(w, results)
}

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	list, err := s.watchlist.List(r.Context())
	if err != nil {
		s.logger.Error("list watchlist failed", "error", err)
		internalError(w)
		return
	}

	cards := make([]model.Card, 0, len(list))
	for _, symbol := range list {
		if c, found := s.cards.Latest(symbol); found {
			cards = append(cards, c)
		}
	}
	ok(w, map[string]any{
		"symbols": list,
		"cards":   cards,
	})
}

func (s *Server) handleAddWatchlist(w http.ResponseWriter, r *http.Request) {
	symbol, err := watchlist.Normalize(chi.URLParam(r, "symbol"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.watchlist.Add(r.Context(), symbol); err != nil {
		s.logger.Error("add to watchlist failed", "symbol", symbol, "error", err)
		internalError(w)
		return
	}
	if s.subscriber != nil {
		if err := s.subscriber.Subscribe(symbol); err != nil {
			s.logger.Warn("stream subscribe failed", "symbol", symbol, "error", err)
		}
	}
	ok(w, map[string]string{"symbol": symbol})
}

func (s *Server) handleRemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	symbol, err := watchlist.Normalize(chi.URLParam(r, "symbol"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.watchlist.Remove(r.Context(), symbol); err != nil {
		if errors.Is(err, watchlist.ErrNotFound) {
			notFound(w, fmt.Sprintf("%s is not in the watchlist", symbol))
			return
		}
		s.logger.Error("remove from watchlist failed", "symbol", symbol, "error", err)
		internalError(w)
		return
	}
	if s.subscriber != nil {
		if err := s.subscriber.Unsubscribe(symbol); err != nil {
			s.logger.Warn("stream unsubscribe failed", "symbol", symbol, "error", err)
		}
	}
	ok(w, map[string]string{"symbol": symbol})
}

// lookupError maps card service errors to responses.
func (s *Server) lookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, card.ErrEmptySymbol):
		badRequest(w, err.Error())
	case errors.Is(err, card.ErrNoData):
		s.logger.Warn("card lookup failed", "error", err)
		badGateway(w, err.Error())
	default:
		s.logger.Error("card lookup failed", "error", err)
		internalError(w)
	}
}
