package api

import (
	"math"

	"github.com/rickgao/quotecard/internal/model"
)

// SharesFromMillions converts a share count reported in millions to a raw
// count. Returns nil for nil input.
func SharesFromMillions(millions *float64) *float64 {
	if millions == nil {
		return nil
	}
	return model.Float(*millions * 1e6)
}

// SecondsToMicro converts Unix seconds to microseconds since epoch.
func SecondsToMicro(sec int64) int64 {
	return sec * 1_000_000
}

// ToModel converts a QuoteResponse to model.Quote.
// Unknown symbols come back as an all-zero quote without a timestamp and
// convert to an empty Quote.
func (q *QuoteResponse) ToModel() model.Quote {
	if q.Timestamp == 0 && isZero(q.Current) {
		return model.Quote{}
	}
	return model.Quote{
		CurrentPrice:  finiteOrNil(q.Current),
		PercentChange: finiteOrNil(q.PercentChange),
		PreviousClose: positiveOrNil(q.PreviousClose),
		Timestamp:     SecondsToMicro(q.Timestamp),
	}
}

// ToModel converts a ProfileResponse to model.Profile.
func (p *ProfileResponse) ToModel() model.Profile {
	var out model.Profile
	if p.Name != "" {
		out.Name = model.String(p.Name)
	}
	if p.Logo != "" {
		out.LogoURL = model.String(p.Logo)
	}
	out.ReportedMarketCap = finiteOrNil(p.MarketCapitalization)
	out.SharesOutstanding = SharesFromMillions(finiteOrNil(p.ShareOutstanding))
	return out
}

// ToModel converts a MetricsResponse to model.Metrics.
func (m *MetricsResponse) ToModel() model.Metrics {
	return model.Metrics{
		PETTM:           firstFinite(m.Metric.PETTM, m.Metric.PEBasicExclExtraTTM),
		PENormalizedTTM: firstFinite(m.Metric.PENormalizedTTM, m.Metric.PENormalizedAnnual),
	}
}

func isZero(v *float64) bool {
	return v == nil || *v == 0
}

func finiteOrNil(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return model.Float(*v)
}

func positiveOrNil(v *float64) *float64 {
	if v = finiteOrNil(v); v == nil || *v <= 0 {
		return nil
	}
	return v
}

func firstFinite(values ...*float64) *float64 {
	for _, v := range values {
		if f := finiteOrNil(v); f != nil {
			return f
		}
	}
	return nil
}
