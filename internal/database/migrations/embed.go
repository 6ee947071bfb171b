package migrations

import "embed"

// FS contains embedded PostgreSQL migrations for the watchlist.
//
//go:embed *.sql
var FS embed.FS
