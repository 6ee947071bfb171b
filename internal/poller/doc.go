// Package poller keeps watchlist cards fresh.
//
// The poller:
//   - Looks up every watchlist symbol on a fixed interval
//   - Bounds concurrent lookups with a semaphore
//   - Applies a per-symbol timeout so one slow provider call cannot stall a cycle
//   - Hands each refreshed card to an optional handler
package poller
