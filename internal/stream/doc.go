// Package stream keeps a websocket open to the Finnhub trade feed.
//
// The stream:
//   - Subscribes to trades for every watched symbol
//   - Decodes trade prints and hands them to a TradeHandler
//   - Ignores the server's application-level pings
//   - Reconnects with exponential backoff and re-subscribes
package stream
