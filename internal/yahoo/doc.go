// Package yahoo adapts the piquette/finance-go equity endpoint to the card
// provider interface. It is used as a fallback when the primary provider
// fails or returns nothing for a symbol.
//
// A single equity lookup carries price, profile and valuation fields, so the
// three provider calls for one symbol share one upstream request.
package yahoo
