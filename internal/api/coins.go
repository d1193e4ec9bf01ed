package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ErrEmptyResponse is returned when the API answers with an empty list.
var ErrEmptyResponse = errors.New("empty response")

// GetCoinMarkets fetches one page of coin market records.
// An empty page is reported as ErrEmptyResponse.
func (c *Client) GetCoinMarkets(ctx context.Context, opts CoinMarketsOptions) ([]CoinMarket, error) {
	query := url.Values{}

	if opts.VsCurrency != "" {
		query.Set("vs_currency", opts.VsCurrency)
	}
	if opts.Order != "" {
		query.Set("order", opts.Order)
	}
	if opts.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	query.Set("sparkline", strconv.FormatBool(opts.Sparkline))

	var resp []CoinMarket
	if err := c.get(ctx, "/coins/markets", query, &resp); err != nil {
		return nil, fmt.Errorf("get coin markets: %w", err)
	}

	if len(resp) == 0 {
		return nil, fmt.Errorf("get coin markets: %w", ErrEmptyResponse)
	}

	return resp, nil
}
