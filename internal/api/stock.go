package api

import (
	"context"
	"fmt"
	"net/url"
)

// GetQuote fetches the latest quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*QuoteResponse, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	var resp QuoteResponse
	if err := c.get(ctx, "/quote", query, &resp); err != nil {
		return nil, fmt.Errorf("get quote %s: %w", symbol, err)
	}
	return &resp, nil
}

// GetProfile fetches the company profile for a symbol.
func (c *Client) GetProfile(ctx context.Context, symbol string) (*ProfileResponse, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	var resp ProfileResponse
	if err := c.get(ctx, "/stock/profile2", query, &resp); err != nil {
		return nil, fmt.Errorf("get profile %s: %w", symbol, err)
	}
	return &resp, nil
}

// GetMetrics fetches basic financial metrics for a symbol.
func (c *Client) GetMetrics(ctx context.Context, symbol string) (*MetricsResponse, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("metric", "all")

	var resp MetricsResponse
	if err := c.get(ctx, "/stock/metric", query, &resp); err != nil {
		return nil, fmt.Errorf("get metrics %s: %w", symbol, err)
	}
	return &resp, nil
}
