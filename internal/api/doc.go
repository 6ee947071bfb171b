// Package api provides the Finnhub REST client used as the primary quote
// provider.
//
// REST endpoint:
//   - https://finnhub.io/api/v1
//
// Endpoints used: /quote, /stock/profile2, /stock/metric
//
// Authentication is a token sent in the X-Finnhub-Token header.
package api
