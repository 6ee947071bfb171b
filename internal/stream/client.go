package stream

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one WebSocket connection to the trade feed.
type Client interface {
	Connect(ctx context.Context) error
	Close() error
	Send(data []byte) error

	// Messages delivers inbound text frames stamped with local receive time.
	Messages() <-chan TimestampedMessage

	// Errors delivers at most one terminal connection error.
	Errors() <-chan error

	IsConnected() bool
}

var dialer = websocket.Dialer{HandshakeTimeout: 10 * time.Second}

// wsClient keeps a connection alive with pings and treats PingTimeout
// without any inbound frame as a dead connection, enforced with read
// deadlines.
type wsClient struct {
	cfg    ClientConfig
	logger *slog.Logger

	out  chan TimestampedMessage
	errs chan error
	quit chan struct{}

	mu        sync.Mutex // guards conn, live, shut
	conn      *websocket.Conn
	live      bool
	shut      bool
	closeOnce sync.Once

	wmu sync.Mutex // serializes writes
}

// NewClient returns an unconnected client. Zero fields in cfg take their
// DefaultClientConfig values.
func NewClient(cfg ClientConfig, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	d := DefaultClientConfig()
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = d.PingInterval
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = d.PingTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = d.WriteTimeout
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = d.BufferSize
	}
	return &wsClient{
		cfg:    cfg,
		logger: logger,
		out:    make(chan TimestampedMessage, cfg.BufferSize),
		errs:   make(chan error, 1),
		quit:   make(chan struct{}),
	}
}

func (c *wsClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	shut := c.shut
	c.mu.Unlock()
	if shut {
		return ErrAlreadyClosed
	}

	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return err
	}

	extend := func() { conn.SetReadDeadline(time.Now().Add(c.cfg.PingTimeout)) }
	extend()
	conn.SetPongHandler(func(string) error {
		extend()
		return nil
	})
	conn.SetPingHandler(func(data string) error {
		extend()
		c.wmu.Lock()
		defer c.wmu.Unlock()
		err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(c.cfg.WriteTimeout))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	c.mu.Lock()
	c.conn = conn
	c.live = true
	c.mu.Unlock()

	go c.read(conn, extend)
	go c.keepalive(conn)

	c.logger.Debug("websocket connected", "url", redact(c.cfg.URL))
	return nil
}

func (c *wsClient) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.shut = true
		c.live = false
		conn := c.conn
		c.mu.Unlock()

		close(c.quit)
		if conn == nil {
			return
		}

		c.wmu.Lock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.wmu.Unlock()
		err = conn.Close()
	})
	return err
}

func (c *wsClient) Send(data []byte) error {
	c.mu.Lock()
	conn, live := c.conn, c.live
	c.mu.Unlock()
	if !live {
		return ErrNotConnected
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsClient) Messages() <-chan TimestampedMessage { return c.out }

func (c *wsClient) Errors() <-chan error { return c.errs }

func (c *wsClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

func (c *wsClient) read(conn *websocket.Conn, extend func()) {
	for {
		_, data, err := conn.ReadMessage()
		at := time.Now()
		if err != nil {
			c.mu.Lock()
			c.live = false
			c.mu.Unlock()
			c.report(err)
			return
		}
		extend()

		select {
		case c.out <- TimestampedMessage{Data: data, ReceivedAt: at}:
		case <-c.quit:
			return
		default:
			c.logger.Warn("message buffer full, dropping message", "size", len(data))
		}
	}
}

func (c *wsClient) keepalive(conn *websocket.Conn) {
	t := time.NewTicker(c.cfg.PingInterval)
	defer t.Stop()

	for {
		select {
		case <-c.quit:
			return
		case <-t.C:
			c.wmu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.WriteTimeout))
			c.wmu.Unlock()
			if err != nil {
				c.logger.Debug("ping failed", "error", err)
				return
			}
		}
	}
}

// report forwards a read failure unless the client was closed locally.
// Read deadline expiry becomes ErrStaleConnection.
func (c *wsClient) report(err error) {
	select {
	case <-c.quit:
		return
	default:
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		c.logger.Warn("no frames within ping timeout", "timeout", c.cfg.PingTimeout)
		err = ErrStaleConnection
	}
	select {
	case c.errs <- err:
	default:
	}
}
