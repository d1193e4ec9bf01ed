// Package api provides the CoinGecko REST client used by the collector.
//
// REST endpoints:
//   - Public: https://api.coingecko.com/api/v3
//   - Pro:    https://pro-api.coingecko.com/api/v3
//
// Only GET /coins/markets is used. Every numeric field of a market record is
// optional; records without an id or symbol are rejected one by one.
package api
