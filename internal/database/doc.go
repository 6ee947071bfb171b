// Package database provides the PostgreSQL connection pool and schema
// migrations for the persistent watchlist.
//
// Migrations are embedded SQL files applied with goose. The database is
// optional; without one the watchlist lives in memory.
package database
