package api

// QuoteResponse from GET /quote
type QuoteResponse struct {
	Current       *float64 `json:"c"`
	Change        *float64 `json:"d"`
	PercentChange *float64 `json:"dp"`
	High          *float64 `json:"h"`
	Low           *float64 `json:"l"`
	Open          *float64 `json:"o"`
	PreviousClose *float64 `json:"pc"`
	Timestamp     int64    `json:"t"` // Unix seconds
}

// ProfileResponse from GET /stock/profile2
type ProfileResponse struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Logo     string `json:"logo"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
	Country  string `json:"country"`
	Industry string `json:"finnhubIndustry"`
	WebURL   string `json:"weburl"`

	// Finnhub documents both figures in millions. Market cap is passed on
	// untouched as the reported figure; its scale is resolved downstream.
	MarketCapitalization *float64 `json:"marketCapitalization"`
	ShareOutstanding     *float64 `json:"shareOutstanding"`
}

// MetricsResponse from GET /stock/metric?metric=all
type MetricsResponse struct {
	Symbol     string        `json:"symbol"`
	MetricType string        `json:"metricType"`
	Metric     MetricsValues `json:"metric"`
}

// MetricsValues is the subset of the metric map used for cards.
type MetricsValues struct {
	PETTM               *float64 `json:"peTTM"`
	PEBasicExclExtraTTM *float64 `json:"peBasicExclExtraTTM"`
	PENormalizedTTM     *float64 `json:"peNormalizedTTM"`
	PENormalizedAnnual  *float64 `json:"peNormalizedAnnual"`
}
