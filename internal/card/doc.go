// Package card assembles quote cards from provider records.
//
// A lookup fetches the quote, profile and metrics for a symbol
// concurrently, estimates a reference market cap from shares outstanding
// and price, reconciles the provider's reported market cap against it, and
// renders the short form. Failed retrievals become nil fields rather than
// failing the card.
//
// The service keeps the last successfully built card per symbol so copy
// and export can reuse it without another round trip. Live trades replace
// that card with one rebuilt at the trade price.
package card
