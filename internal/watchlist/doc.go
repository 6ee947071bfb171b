// Package watchlist stores the symbols the poller keeps fresh and the
// stream subscribes to.
//
// Two stores are provided: MemoryStore for running without a database and
// PGStore backed by the watchlist table.
package watchlist
