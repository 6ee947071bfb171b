// Package server exposes quote cards, symbol search and the watchlist over
// HTTP.
//
// Routes:
//
//	GET    /health
//	GET    /api/cards/{symbol}             fresh lookup
//	GET    /api/cards/{symbol}/latest      last stored card
//	GET    /api/cards/{symbol}/text        clipboard text
//	GET    /api/cards/{symbol}/export.csv  CSV download
//	GET    /api/search?q=&limit=
//	GET    /api/watchlist
//	PUT    /api/watchlist/{symbol}
//	DELETE /api/watchlist/{symbol}
//
// JSON responses use a {"data": ..., "error": ...} envelope.
package server
