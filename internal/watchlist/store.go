package watchlist

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrNotFound is returned when removing a symbol that is not listed.
	ErrNotFound = errors.New("symbol not in watchlist")

	// ErrInvalidSymbol is returned for blank symbols.
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// Store persists the watchlist.
type Store interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, symbol string) error
	Remove(ctx context.Context, symbol string) error
}

// Normalize trims and upper-cases a symbol.
func Normalize(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", ErrInvalidSymbol
	}
	return s, nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	symbols map[string]struct{}
}

// NewMemoryStore creates a MemoryStore seeded with symbols.
func NewMemoryStore(symbols ...string) *MemoryStore {
	m := &MemoryStore{symbols: make(map[string]struct{})}
	for _, s := range symbols {
		if norm, err := Normalize(s); err == nil {
			m.symbols[norm] = struct{}{}
		}
	}
	return m
}

// List returns symbols in alphabetical order.
func (m *MemoryStore) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.symbols))
	for s := range m.symbols {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

// Add inserts symbol. Adding an existing symbol is a no-op.
func (m *MemoryStore) Add(ctx context.Context, symbol string) error {
	s, err := Normalize(symbol)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.symbols[s] = struct{}{}
	m.mu.Unlock()
	return nil
}

// Remove deletes symbol.
func (m *MemoryStore) Remove(ctx context.Context, symbol string) error {
	s, err := Normalize(symbol)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.symbols[s]; !ok {
		return ErrNotFound
	}
	delete(m.symbols, s)
	return nil
}
