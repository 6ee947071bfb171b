package card

import (
	"strings"

	"github.com/rickgao/quotecard/internal/marketcap"
	"github.com/rickgao/quotecard/internal/model"
	"github.com/rickgao/quotecard/internal/shortform"
)

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Build derives a card from provider records. Any record may be nil.
// A nil resolver uses the default thresholds. LookupID, Source and
// ResolvedAt are left for the caller to stamp.
func Build(symbol string, q *model.Quote, p *model.Profile, m *model.Metrics, r *marketcap.Resolver) model.Card {
	if q == nil {
		q = &model.Quote{}
	}
	if p == nil {
		p = &model.Profile{}
	}
	if m == nil {
		m = &model.Metrics{}
	}

	resolve := marketcap.Resolve
	if r != nil {
		resolve = r.Resolve
	}

	reference := marketcap.Estimate(p.SharesOutstanding, q.CurrentPrice)
	res := resolve(p.ReportedMarketCap, reference)

	c := model.Card{
		Symbol:        symbol,
		Price:         q.CurrentPrice,
		PercentChange: q.PercentChange,
		MarketCap:     marketCapOf(res),
		PERatio:       m.PETTM,
		CompanyName:   symbol,
	}
	if c.PERatio == nil {
		c.PERatio = m.PENormalizedTTM
	}
	if p.Name != nil && *p.Name != "" {
		c.CompanyName = *p.Name
	}
	if p.LogoURL != nil {
		c.LogoURL = *p.LogoURL
	}
	return c
}

func marketCapOf(res marketcap.Result) model.MarketCap {
	canonical := res.Canonical()
	mc := model.MarketCap{
		CanonicalValue: canonical,
		ShortForm:      shortform.Format(canonical),
		Method:         string(res.Method),
		Confident:      res.Confident(),
	}
	if res.Scale != marketcap.ScaleNone {
		mc.Scale = res.Scale.String()
	}
	return mc
}
