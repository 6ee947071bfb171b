// Package model defines the records passed between quote providers, the
// card builder and the presentation layers.
//
// Conventions:
//   - Optional numbers are *float64; nil means the provider did not supply a usable value
//   - Monetary values are US dollars in raw units (no implied scaling)
//   - Timestamps: int64 microseconds since Unix epoch, 0 if unknown
//   - Symbols are upper-case tickers (e.g., "AAPL")
package model
