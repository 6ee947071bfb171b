package config

import (
	"time"

	"github.com/rickgao/quotecard/internal/marketcap"
)

// Default values for optional configuration fields.
const (
	DefaultProvider           = ProviderFinnhub
	DefaultFinnhubRestURL     = "https://finnhub.io/api/v1"
	DefaultFinnhubWSURL       = "wss://ws.finnhub.io"
	DefaultProviderTimeout    = 10 * time.Second
	DefaultMaxRetries         = 3
	DefaultRetryBackoff       = 500 * time.Millisecond
	DefaultDBPort             = 5432
	DefaultDBSSLMode          = "prefer"
	DefaultMaxConns           = 4
	DefaultMinConns           = 1
	DefaultServerAddr         = ":8080"
	DefaultReadTimeout        = 10 * time.Second
	DefaultWriteTimeout       = 30 * time.Second
	DefaultPollInterval       = 1 * time.Minute
	DefaultPollConcurrency    = 4
	DefaultPollTimeout        = 15 * time.Second
	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 60 * time.Second
	DefaultStreamBufferSize   = 1000
	DefaultLogLevel           = "info"
)

// Provider names.
const (
	ProviderFinnhub = "finnhub"
	ProviderYahoo   = "yahoo"
)

func (c *Config) applyDefaults() {
	// Provider defaults
	if c.Provider.Name == "" {
		c.Provider.Name = DefaultProvider
	}
	if c.Provider.Finnhub.RestURL == "" {
		c.Provider.Finnhub.RestURL = DefaultFinnhubRestURL
	}
	if c.Provider.Finnhub.WSURL == "" {
		c.Provider.Finnhub.WSURL = DefaultFinnhubWSURL
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = DefaultProviderTimeout
	}
	if c.Provider.MaxRetries == nil {
		n := DefaultMaxRetries
		c.Provider.MaxRetries = &n
	}
	if c.Provider.RetryBackoff == 0 {
		c.Provider.RetryBackoff = DefaultRetryBackoff
	}

	// Market cap defaults
	if c.MarketCap.AcceptDecades == 0 {
		c.MarketCap.AcceptDecades = marketcap.DefaultAcceptDecades
	}
	if len(c.MarketCap.Buckets) == 0 {
		c.MarketCap.Buckets = marketcap.DefaultBuckets()
	}

	// Database defaults
	if c.Database.Enabled() {
		applyDBDefaults(&c.Database)
	}

	// Server defaults
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultPollConcurrency
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollTimeout
	}

	// Stream defaults
	if c.Stream.ReconnectBaseDelay == 0 {
		c.Stream.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Stream.ReconnectMaxDelay == 0 {
		c.Stream.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Stream.BufferSize == 0 {
		c.Stream.BufferSize = DefaultStreamBufferSize
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
