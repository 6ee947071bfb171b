package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if err := validateProviderName("provider.name", c.Provider.Name); err != nil {
		return err
	}
	if c.Provider.Fallback != "" {
		if err := validateProviderName("provider.fallback", c.Provider.Fallback); err != nil {
			return err
		}
		if c.Provider.Fallback == c.Provider.Name {
			return fmt.Errorf("provider.fallback must differ from provider.name (%s)", c.Provider.Name)
		}
	}
	if c.UsesFinnhub() && c.Provider.Finnhub.APIKey == "" {
		return errors.New("provider.finnhub.api_key is required")
	}
	if c.Provider.Retries() < 0 {
		return errors.New("provider.max_retries must be >= 0")
	}

	if err := c.MarketCap.Validate(); err != nil {
		return fmt.Errorf("marketcap.%w", err)
	}

	if c.Database.Enabled() {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be > 0")
	}
	if c.Poller.Concurrency < 1 {
		return errors.New("poller.concurrency must be >= 1")
	}

	if c.Stream.BufferSize < 1 {
		return errors.New("stream.buffer_size must be >= 1")
	}
	if c.Stream.ReconnectBaseDelay > c.Stream.ReconnectMaxDelay {
		return fmt.Errorf("stream.reconnect_base_delay (%v) cannot exceed reconnect_max_delay (%v)",
			c.Stream.ReconnectBaseDelay, c.Stream.ReconnectMaxDelay)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// UsesFinnhub reports whether Finnhub is the primary or fallback provider.
func (c *Config) UsesFinnhub() bool {
	return c.Provider.Name == ProviderFinnhub || c.Provider.Fallback == ProviderFinnhub
}

// SlogLevel parses the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

func validateProviderName(field, name string) error {
	switch name {
	case ProviderFinnhub, ProviderYahoo:
		return nil
	}
	return fmt.Errorf("%s must be one of %s, %s, got %q", field, ProviderFinnhub, ProviderYahoo, name)
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
