package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/quotecard/internal/model"
)

// tradeRecorder collects trades delivered to a handler.
type tradeRecorder struct {
	mu     sync.Mutex
	trades []model.Trade
	ch     chan model.Trade
}

func newTradeRecorder() *tradeRecorder {
	return &tradeRecorder{ch: make(chan model.Trade, 10)}
}

func (r *tradeRecorder) HandleTrade(t model.Trade) {
	r.mu.Lock()
	r.trades = append(r.trades, t)
	r.mu.Unlock()
	r.ch <- t
}

func (r *tradeRecorder) wait(t *testing.T) model.Trade {
	t.Helper()
	select {
	case tr := <-r.ch:
		return tr
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for trade")
		return model.Trade{}
	}
}

func readCommand(t *testing.T, conn *websocket.Conn) (Command, bool) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return Command{}, false
	}
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		t.Logf("bad command %q: %v", data, err)
		return Command{}, false
	}
	return cmd, true
}

func waitCommand(t *testing.T, ch <-chan Command) Command {
	t.Helper()
	select {
	case cmd := <-ch:
		return cmd
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for command")
		return Command{}
	}
}

func stopStream(t *testing.T, s *Stream) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestDialURL(t *testing.T) {
	got, err := DialURL("wss://ws.finnhub.io", "abc")
	if err != nil {
		t.Fatalf("DialURL failed: %v", err)
	}
	if got != "wss://ws.finnhub.io?token=abc" {
		t.Errorf("DialURL = %q", got)
	}

	got, err = DialURL("ws://localhost:1234/ws", "")
	if err != nil {
		t.Fatalf("DialURL failed: %v", err)
	}
	if got != "ws://localhost:1234/ws" {
		t.Errorf("DialURL without token = %q", got)
	}

	if _, err := DialURL("://bad", "x"); err == nil {
		t.Error("expected error for malformed url")
	}
}

func TestStream_SubscribesAndDeliversTrades(t *testing.T) {
	commands := make(chan Command, 10)

	server := mockWSServer(t, func(conn *websocket.Conn) {
		cmd, ok := readCommand(t, conn)
		if !ok {
			return
		}
		commands <- cmd

		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`))
		conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"type":"trade","data":[{"s":"aapl","p":191.03,"t":1700000000123,"v":25},{"s":"AAPL","p":0,"t":1700000000124,"v":1}]}`))

		for {
			cmd, ok := readCommand(t, conn)
			if !ok {
				return
			}
			commands <- cmd
		}
	})
	defer server.Close()

	rec := newTradeRecorder()
	s := New(Config{URL: wsURL(server), ReconnectBaseWait: 10 * time.Millisecond}, rec, nil)

	if err := s.Start(context.Background(), []string{" aapl "}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer stopStream(t, s)

	cmd := waitCommand(t, commands)
	if cmd.Type != "subscribe" || cmd.Symbol != "AAPL" {
		t.Errorf("first command = %+v, want subscribe AAPL", cmd)
	}

	tr := rec.wait(t)
	if tr.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", tr.Symbol)
	}
	if tr.Price != 191.03 {
		t.Errorf("Price = %v, want 191.03", tr.Price)
	}
	if tr.Volume != 25 {
		t.Errorf("Volume = %v, want 25", tr.Volume)
	}
	if tr.ExchangeTS != 1700000000123000 {
		t.Errorf("ExchangeTS = %d, want 1700000000123000", tr.ExchangeTS)
	}
	if tr.ReceivedAt == 0 {
		t.Error("ReceivedAt should be set")
	}

	if err := s.Subscribe("msft"); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	cmd = waitCommand(t, commands)
	if cmd.Type != "subscribe" || cmd.Symbol != "MSFT" {
		t.Errorf("command = %+v, want subscribe MSFT", cmd)
	}

	if err := s.Unsubscribe("AAPL"); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
	cmd = waitCommand(t, commands)
	if cmd.Type != "unsubscribe" || cmd.Symbol != "AAPL" {
		t.Errorf("command = %+v, want unsubscribe AAPL", cmd)
	}

	if got := s.Symbols(); len(got) != 1 || got[0] != "MSFT" {
		t.Errorf("Symbols() = %v, want [MSFT]", got)
	}

	// The zero-price print is dropped.
	time.Sleep(50 * time.Millisecond)
	rec.mu.Lock()
	n := len(rec.trades)
	rec.mu.Unlock()
	if n != 1 {
		t.Errorf("delivered %d trades, want 1", n)
	}
}

func TestStream_ReconnectResubscribes(t *testing.T) {
	var conns atomic.Int32
	resubscribed := make(chan Command, 10)

	server := mockWSServer(t, func(conn *websocket.Conn) {
		n := conns.Add(1)
		if n == 1 {
			// Drop the first connection after the initial subscribe.
			readCommand(t, conn)
			return
		}
		for {
			cmd, ok := readCommand(t, conn)
			if !ok {
				return
			}
			resubscribed <- cmd
		}
	})
	defer server.Close()

	s := New(Config{
		URL:               wsURL(server),
		ReconnectBaseWait: 10 * time.Millisecond,
		ReconnectMaxWait:  50 * time.Millisecond,
	}, TradeHandlerFunc(func(model.Trade) {}), nil)

	if err := s.Start(context.Background(), []string{"AAPL"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer stopStream(t, s)

	cmd := waitCommand(t, resubscribed)
	if cmd.Type != "subscribe" || cmd.Symbol != "AAPL" {
		t.Errorf("command after reconnect = %+v, want subscribe AAPL", cmd)
	}
	if got := conns.Load(); got < 2 {
		t.Errorf("connections = %d, want >= 2", got)
	}
}

func TestStream_SubscribeBeforeStart(t *testing.T) {
	s := New(Config{URL: "ws://localhost:1"}, nil, nil)

	if err := s.Subscribe("aapl"); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := s.Subscribe(" "); err != nil {
		t.Fatalf("Subscribe(blank) failed: %v", err)
	}
	if got := s.Symbols(); len(got) != 1 || got[0] != "AAPL" {
		t.Errorf("Symbols() = %v, want [AAPL]", got)
	}
}

func TestStream_StartFails(t *testing.T) {
	s := New(Config{URL: "ws://127.0.0.1:1"}, nil, nil)

	if err := s.Start(context.Background(), []string{"AAPL"}); err == nil {
		t.Fatal("expected Start to fail without a server")
	}
}

// trackedClient records whether Close was called on the wrapped client.
type trackedClient struct {
	Client
	closed atomic.Bool
}

func (c *trackedClient) Close() error {
	c.closed.Store(true)
	return c.Client.Close()
}

func TestStream_FailedSubscribeClosesClient(t *testing.T) {
	// Upgrade, then drop the socket before any subscribe is read.
	server := mockWSServer(t, func(conn *websocket.Conn) {})
	defer server.Close()

	var mu sync.Mutex
	var clients []*trackedClient

	s := New(Config{URL: wsURL(server)}, nil, nil)
	s.newClient = func(cfg ClientConfig, logger *slog.Logger) Client {
		c := &trackedClient{Client: NewClient(cfg, logger)}
		mu.Lock()
		clients = append(clients, c)
		mu.Unlock()
		return c
	}

	symbols := make([]string, 5000)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("S%d", i)
	}

	if err := s.Start(context.Background(), symbols); err == nil {
		stopStream(t, s)
		t.Fatal("expected Start to fail after the server dropped the socket")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(clients) != 1 {
		t.Fatalf("clients created = %d, want 1", len(clients))
	}
	if !clients[0].closed.Load() {
		t.Error("client was not closed after subscribe failed")
	}
	if s.client != nil {
		t.Error("failed client was left on the stream")
	}
}

// fakeClient is an in-memory Client whose Send can be made to fail.
type fakeClient struct {
	failSend bool
	msgs     chan TimestampedMessage
	errs     chan error
	closed   atomic.Bool
}

func newFakeClient(failSend bool) *fakeClient {
	return &fakeClient{
		failSend: failSend,
		msgs:     make(chan TimestampedMessage),
		errs:     make(chan error, 1),
	}
}

func (c *fakeClient) Connect(context.Context) error { return nil }

func (c *fakeClient) Close() error {
	c.closed.Store(true)
	return nil
}

func (c *fakeClient) Send([]byte) error {
	if c.failSend {
		return errors.New("broken pipe")
	}
	return nil
}

func (c *fakeClient) Messages() <-chan TimestampedMessage { return c.msgs }
func (c *fakeClient) Errors() <-chan error                { return c.errs }
func (c *fakeClient) IsConnected() bool                   { return !c.closed.Load() }

func TestStream_ReconnectClosesFailedClients(t *testing.T) {
	first := newFakeClient(false)

	var mu sync.Mutex
	var failed []*fakeClient
	attempts := make(chan struct{}, 100)

	s := New(Config{
		URL:               "ws://example.invalid",
		ReconnectBaseWait: time.Millisecond,
		ReconnectMaxWait:  5 * time.Millisecond,
	}, TradeHandlerFunc(func(model.Trade) {}), nil)
	s.newClient = func(ClientConfig, *slog.Logger) Client {
		mu.Lock()
		defer mu.Unlock()
		if first != nil {
			c := first
			first = nil
			return c
		}
		c := newFakeClient(true)
		failed = append(failed, c)
		attempts <- struct{}{}
		return c
	}

	if err := s.Start(context.Background(), []string{"AAPL"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.mu.Lock()
	live := s.client.(*fakeClient)
	s.mu.Unlock()

	live.errs <- errors.New("connection reset")
	for i := 0; i < 3; i++ {
		select {
		case <-attempts:
		case <-time.After(2 * time.Second):
			t.Fatalf("timeout waiting for reconnect attempt %d", i+1)
		}
	}
	stopStream(t, s)

	if !live.closed.Load() {
		t.Error("dropped client was not closed")
	}
	mu.Lock()
	defer mu.Unlock()
	for i, c := range failed {
		if !c.closed.Load() {
			t.Errorf("failed reconnect client %d was not closed", i)
		}
	}
	if s.client != live {
		t.Error("a failed reconnect client replaced the stream's client")
	}
}

func TestStream_HandleMessage(t *testing.T) {
	rec := newTradeRecorder()
	s := New(DefaultConfig(), rec, nil)
	now := time.UnixMicro(1700000000500000)

	inputs := []string{
		`not json`,
		`{"type":"ping"}`,
		`{"type":"error","msg":"Invalid symbol"}`,
		`{"type":"news"}`,
		`{"type":"trade","data":[{"s":"","p":1,"t":1,"v":1}]}`,
		`{"type":"trade","data":[{"s":"TSLA","p":-1,"t":1,"v":1}]}`,
		`{"type":"trade","data":[{"s":"TSLA","p":250.5,"t":1700000000000,"v":3,"c":["1"]}]}`,
	}
	for _, in := range inputs {
		s.handleMessage(TimestampedMessage{Data: []byte(in), ReceivedAt: now})
	}

	if len(rec.trades) != 1 {
		t.Fatalf("delivered %d trades, want 1", len(rec.trades))
	}
	tr := rec.trades[0]
	if tr.Symbol != "TSLA" || tr.Price != 250.5 {
		t.Errorf("trade = %+v", tr)
	}
	if tr.ReceivedAt != 1700000000500000 {
		t.Errorf("ReceivedAt = %d, want 1700000000500000", tr.ReceivedAt)
	}
}

func TestNew_FillsDefaults(t *testing.T) {
	s := New(Config{URL: "ws://x", ReconnectBaseWait: 5 * time.Second, ReconnectMaxWait: time.Second}, nil, nil)

	if s.cfg.ReconnectMaxWait != 5*time.Second {
		t.Errorf("ReconnectMaxWait = %v, want clamp to base 5s", s.cfg.ReconnectMaxWait)
	}
	if s.cfg.BufferSize != 1000 {
		t.Errorf("BufferSize = %d, want 1000", s.cfg.BufferSize)
	}
}
