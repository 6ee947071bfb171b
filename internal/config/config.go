package config

import (
	"time"

	"github.com/rickgao/quotecard/internal/marketcap"
)

// Config is the root configuration.
type Config struct {
	Provider  ProviderConfig       `yaml:"provider"`
	MarketCap marketcap.Thresholds `yaml:"marketcap"`
	Database  DBConfig             `yaml:"database"`
	Server    ServerConfig         `yaml:"server"`
	Poller    PollerConfig         `yaml:"poller"`
	Stream    StreamConfig         `yaml:"stream"`
	Symbols   SymbolsConfig        `yaml:"symbols"`
	Log       LogConfig            `yaml:"log"`
}

// ProviderConfig selects and configures quote providers.
type ProviderConfig struct {
	Name         string        `yaml:"name"`     // finnhub | yahoo
	Fallback     string        `yaml:"fallback"` // Optional second provider
	Finnhub      FinnhubConfig `yaml:"finnhub"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   *int          `yaml:"max_retries"` // 0 disables retries; unset means DefaultMaxRetries
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// Retries returns max_retries, or DefaultMaxRetries when it is unset.
func (p ProviderConfig) Retries() int {
	if p.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *p.MaxRetries
}

// FinnhubConfig holds Finnhub endpoints and credentials.
type FinnhubConfig struct {
	RestURL string `yaml:"rest_url"`
	WSURL   string `yaml:"ws_url"`
	APIKey  string `yaml:"api_key"`
}

// DBConfig holds the watchlist database connection. Leaving host empty
// keeps the watchlist in memory.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Enabled reports whether a database is configured.
func (db DBConfig) Enabled() bool {
	return db.Host != ""
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// PollerConfig holds watchlist refresh settings.
type PollerConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"` // Per-symbol lookup timeout
}

// StreamConfig holds live trade stream settings.
type StreamConfig struct {
	Enabled            bool          `yaml:"enabled"`
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	BufferSize         int           `yaml:"buffer_size"`
}

// SymbolsConfig points at the ticker catalog used for search.
type SymbolsConfig struct {
	CatalogPath string `yaml:"catalog_path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}
