package model

import (
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Provider Records
// -----------------------------------------------------------------------------

// Quote is the latest price snapshot for a symbol.
type Quote struct {
	CurrentPrice  *float64 // Last trade price
	PercentChange *float64 // Change vs previous close, in percent (1.14 = +1.14%)
	PreviousClose *float64 // Previous session close
	Timestamp     int64    // Quote time (µs since epoch)
}

// Profile is static company information.
type Profile struct {
	Name              *string  // Company display name
	LogoURL           *string  // Logo image URL
	ReportedMarketCap *float64 // Market cap as reported, unit scale unknown
	SharesOutstanding *float64 // Share count in raw units
}

// Metrics holds valuation ratios.
type Metrics struct {
	PETTM           *float64 // Trailing twelve months P/E
	PENormalizedTTM *float64 // Normalized P/E
}

// Trade is a single print from the live trade stream.
type Trade struct {
	Symbol     string  // Ticker
	Price      float64 // Trade price
	Volume     float64 // Shares traded
	ExchangeTS int64   // Provider timestamp (µs since epoch)
	ReceivedAt int64   // Local receive timestamp (µs since epoch)
}

// -----------------------------------------------------------------------------
// Presentation Records
// -----------------------------------------------------------------------------

// MarketCap is the reconciled market capitalization of a card.
type MarketCap struct {
	CanonicalValue *float64 `json:"canonicalValue"`  // Raw dollars, nil if unavailable
	ShortForm      string   `json:"shortForm"`       // e.g. "$2.98T" or "N/A"
	Method         string   `json:"method"`          // How the value was resolved
	Scale          string   `json:"scale,omitempty"` // Scale applied to the reported figure, if any
	Confident      bool     `json:"confident"`       // false for heuristic guesses
}

// Card is the derived record for one lookup, consumed by the text, CSV
// and HTTP presentations. It is never mutated after construction.
type Card struct {
	LookupID      uuid.UUID `json:"lookupId"`
	Symbol        string    `json:"symbol"`
	Price         *float64  `json:"price"`
	PercentChange *float64  `json:"percentChange"`
	MarketCap     MarketCap `json:"marketCap"`
	PERatio       *float64  `json:"peRatio"`
	CompanyName   string    `json:"companyName"`
	LogoURL       string    `json:"logoUrl"`
	Source        string    `json:"source"`     // Provider that supplied the data
	ResolvedAt    time.Time `json:"resolvedAt"` // When the card was built
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to s.
func String(s string) *string { return &s }
