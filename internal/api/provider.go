package api

import (
	"context"

	"github.com/rickgao/quotecard/internal/model"
)

// ProviderName identifies Finnhub-sourced cards.
const ProviderName = "finnhub"

// Name implements card.Provider.
func (c *Client) Name() string { return ProviderName }

// Quote implements card.Provider.
func (c *Client) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	resp, err := c.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	q := resp.ToModel()
	return &q, nil
}

// Profile implements card.Provider.
func (c *Client) Profile(ctx context.Context, symbol string) (*model.Profile, error) {
	resp, err := c.GetProfile(ctx, symbol)
	if err != nil {
		return nil, err
	}
	p := resp.ToModel()
	return &p, nil
}

// Metrics implements card.Provider.
func (c *Client) Metrics(ctx context.Context, symbol string) (*model.Metrics, error) {
	resp, err := c.GetMetrics(ctx, symbol)
	if err != nil {
		return nil, err
	}
	m := resp.ToModel()
	return &m, nil
}
