package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rickgao/quotecard/internal/model"
)

// TradeHandler receives decoded trades.
type TradeHandler interface {
	HandleTrade(t model.Trade)
}

// TradeHandlerFunc is a function adapter for TradeHandler.
type TradeHandlerFunc func(model.Trade)

func (f TradeHandlerFunc) HandleTrade(t model.Trade) {
	f(t)
}

// Stream maintains a trade subscription for a set of symbols.
type Stream struct {
	cfg     Config
	handler TradeHandler
	logger  *slog.Logger

	newClient func(ClientConfig, *slog.Logger) Client

	mu      sync.Mutex
	client  Client
	symbols map[string]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Stream.
func New(cfg Config, handler TradeHandler, logger *slog.Logger) *Stream {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if cfg.ReconnectBaseWait <= 0 {
		cfg.ReconnectBaseWait = defaults.ReconnectBaseWait
	}
	if cfg.ReconnectMaxWait < cfg.ReconnectBaseWait {
		cfg.ReconnectMaxWait = cfg.ReconnectBaseWait
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaults.BufferSize
	}
	return &Stream{
		cfg:       cfg,
		handler:   handler,
		logger:    logger,
		newClient: NewClient,
		symbols:   make(map[string]struct{}),
	}
}

// DialURL returns the websocket URL with the token query parameter.
func DialURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse stream url: %w", err)
	}
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// redact masks the token query parameter for logging.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Has("token") {
		q.Set("token", "xxxxx")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Start connects and subscribes to the given symbols.
func (s *Stream) Start(ctx context.Context, symbols []string) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.mu.Lock()
	for _, sym := range symbols {
		if norm := normalize(sym); norm != "" {
			s.symbols[norm] = struct{}{}
		}
	}
	s.mu.Unlock()

	if err := s.connect(); err != nil {
		s.cancel()
		return fmt.Errorf("connect stream: %w", err)
	}

	s.wg.Add(1)
	go s.run()

	s.logger.Info("trade stream started", "symbols", len(symbols))
	return nil
}

// Stop closes the connection and waits for the read loop to exit.
func (s *Stream) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	s.mu.Lock()
	if s.client != nil {
		s.client.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("trade stream stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe adds symbol to the stream.
func (s *Stream) Subscribe(symbol string) error {
	symbol = normalize(symbol)
	if symbol == "" {
		return nil
	}

	s.mu.Lock()
	s.symbols[symbol] = struct{}{}
	client := s.client
	s.mu.Unlock()

	if client == nil || !client.IsConnected() {
		// Sent on the next (re)connect.
		return nil
	}
	return send(client, "subscribe", symbol)
}

// Unsubscribe removes symbol from the stream.
func (s *Stream) Unsubscribe(symbol string) error {
	symbol = normalize(symbol)

	s.mu.Lock()
	delete(s.symbols, symbol)
	client := s.client
	s.mu.Unlock()

	if client == nil || !client.IsConnected() {
		return nil
	}
	return send(client, "unsubscribe", symbol)
}

// Symbols returns the subscribed symbols in alphabetical order.
func (s *Stream) Symbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.symbols))
	for sym := range s.symbols {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// connect dials a fresh client, subscribes to every symbol and only then
// makes it the stream's client. A client that fails to subscribe is closed.
func (s *Stream) connect() error {
	dialURL, err := DialURL(s.cfg.URL, s.cfg.Token)
	if err != nil {
		return err
	}

	cfg := DefaultClientConfig()
	cfg.URL = dialURL
	cfg.BufferSize = s.cfg.BufferSize

	client := s.newClient(cfg, s.logger)
	if err := client.Connect(s.ctx); err != nil {
		client.Close()
		return err
	}

	sent := make(map[string]struct{})
	if err := s.subscribeAll(client, sent); err != nil {
		client.Close()
		return err
	}

	s.mu.Lock()
	prev := s.client
	s.client = client
	s.mu.Unlock()
	if prev != nil && prev != client {
		prev.Close()
	}

	// Symbols added by Subscribe while the client was unpublished.
	if err := s.subscribeAll(client, sent); err != nil {
		s.logger.Warn("late subscribe failed", "error", err)
	}
	return nil
}

// subscribeAll sends a subscribe for every symbol not yet in sent.
func (s *Stream) subscribeAll(client Client, sent map[string]struct{}) error {
	for _, sym := range s.Symbols() {
		if _, ok := sent[sym]; ok {
			continue
		}
		if err := send(client, "subscribe", sym); err != nil {
			return fmt.Errorf("subscribe %s: %w", sym, err)
		}
		sent[sym] = struct{}{}
	}
	return nil
}

// run reads until the context ends, reconnecting on connection errors.
func (s *Stream) run() {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		if s.client != nil {
			s.client.Close()
		}
		s.mu.Unlock()
	}()

	for {
		s.mu.Lock()
		client := s.client
		s.mu.Unlock()

		err := s.readLoop(client)
		if s.ctx.Err() != nil {
			return
		}

		s.logger.Warn("stream connection error", "error", err)
		if !s.reconnect(client) {
			return
		}
	}
}

// readLoop dispatches messages from client until it fails.
func (s *Stream) readLoop(client Client) error {
	for {
		select {
		case <-s.ctx.Done():
			return s.ctx.Err()

		case err := <-client.Errors():
			return err

		case msg, ok := <-client.Messages():
			if !ok {
				return ErrNotConnected
			}
			s.handleMessage(msg)
		}
	}
}

// reconnect attempts to reconnect with exponential backoff. It returns
// false when the stream is stopping.
func (s *Stream) reconnect(old Client) bool {
	old.Close()

	wait := s.cfg.ReconnectBaseWait
	maxWait := s.cfg.ReconnectMaxWait

	for {
		select {
		case <-s.ctx.Done():
			return false
		case <-time.After(wait):
		}

		s.logger.Info("attempting reconnection", "wait", wait)

		if err := s.connect(); err != nil {
			s.logger.Warn("reconnection failed", "error", err)

			// Exponential backoff
			wait *= 2
			if wait > maxWait {
				wait = maxWait
			}
			continue
		}

		s.logger.Info("reconnected", "symbols", len(s.Symbols()))
		return true
	}
}

func (s *Stream) handleMessage(msg TimestampedMessage) {
	var m Message
	if err := json.Unmarshal(msg.Data, &m); err != nil {
		s.logger.Debug("failed to decode message", "error", err)
		return
	}

	switch m.Type {
	case "trade":
		for _, td := range m.Data {
			t, ok := td.toModel(msg.ReceivedAt)
			if !ok {
				continue
			}
			if s.handler != nil {
				s.handler.HandleTrade(t)
			}
		}
	case "ping":
	case "error":
		s.logger.Warn("stream error message", "msg", m.Msg)
	default:
		s.logger.Debug("unhandled message type", "type", m.Type)
	}
}

func (td TradeData) toModel(receivedAt time.Time) (model.Trade, bool) {
	symbol := normalize(td.Symbol)
	if symbol == "" || td.Price <= 0 {
		return model.Trade{}, false
	}
	return model.Trade{
		Symbol:     symbol,
		Price:      td.Price,
		Volume:     td.Volume,
		ExchangeTS: td.Timestamp * 1000,
		ReceivedAt: receivedAt.UnixMicro(),
	}, true
}

func send(client Client, typ, symbol string) error {
	data, err := json.Marshal(Command{Type: typ, Symbol: symbol})
	if err != nil {
		return err
	}
	return client.Send(data)
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
