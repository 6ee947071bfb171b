package stream

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale")
	ErrAlreadyClosed   = errors.New("already closed")
)

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// Command is a subscription command sent to the server.
type Command struct {
	Type   string `json:"type"` // "subscribe" or "unsubscribe"
	Symbol string `json:"symbol"`
}

// Message is a server message. Only trade messages carry data.
type Message struct {
	Type string      `json:"type"` // "trade", "ping", "error"
	Data []TradeData `json:"data,omitempty"`
	Msg  string      `json:"msg,omitempty"` // Error text
}

// TradeData is one trade print.
type TradeData struct {
	Symbol     string   `json:"s"`
	Price      float64  `json:"p"`
	Timestamp  int64    `json:"t"` // Unix milliseconds
	Volume     float64  `json:"v"`
	Conditions []string `json:"c,omitempty"`
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL          string        // WebSocket URL including the token query
	PingInterval time.Duration // How often to send keepalive pings
	PingTimeout  time.Duration // Max time without activity before considering connection stale
	WriteTimeout time.Duration // Write deadline for sends
	BufferSize   int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PingInterval: 30 * time.Second,
		PingTimeout:  90 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   1000,
	}
}

// Config configures a Stream.
type Config struct {
	URL               string        // e.g. wss://ws.finnhub.io
	Token             string        // Finnhub API token
	ReconnectBaseWait time.Duration // Base wait time for reconnection
	ReconnectMaxWait  time.Duration // Max wait time for reconnection
	BufferSize        int           // Message channel buffer size
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:               "wss://ws.finnhub.io",
		ReconnectBaseWait: 1 * time.Second,
		ReconnectMaxWait:  60 * time.Second,
		BufferSize:        1000,
	}
}
