package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rickgao/quotecard/internal/card"
	"github.com/rickgao/quotecard/internal/model"
	"github.com/rickgao/quotecard/internal/shortform"
	"github.com/rickgao/quotecard/internal/stream"
)

const statsInterval = 10 * time.Second

func newStreamCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "stream SYMBOL...",
		Short: "Print live trades and the cards they update",
		Long: `Stream looks up each symbol once, then subscribes to Finnhub trades and
prints every trade with the card rebuilt at the trade price. Press
Ctrl+C to stop.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if !a.cfg.UsesFinnhub() {
				return errors.New("stream requires provider.name or provider.fallback to be finnhub")
			}

			svc, err := a.cardService()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			symbols := make([]string, 0, len(args))
			for _, arg := range args {
				c, err := svc.Lookup(ctx, arg)
				if err != nil {
					a.logger.Warn("initial lookup failed", "symbol", arg, "error", err)
					continue
				}
				symbols = append(symbols, c.Symbol)
			}
			if len(symbols) == 0 {
				return errors.New("no symbol could be looked up")
			}

			p := &tradePrinter{out: cmd.OutOrStdout(), verbose: verbose, cards: svc}
			st := stream.New(stream.Config{
				URL:               a.cfg.Provider.Finnhub.WSURL,
				Token:             a.cfg.Provider.Finnhub.APIKey,
				ReconnectBaseWait: a.cfg.Stream.ReconnectBaseDelay,
				ReconnectMaxWait:  a.cfg.Stream.ReconnectMaxDelay,
				BufferSize:        a.cfg.Stream.BufferSize,
			}, p, a.logger)

			if err := st.Start(ctx, symbols); err != nil {
				return err
			}
			a.logger.Info("streaming started - press Ctrl+C to stop", "symbols", symbols)

			ticker := time.NewTicker(statsInterval)
			defer ticker.Stop()
			for done := false; !done; {
				select {
				case <-ctx.Done():
					done = true
				case <-ticker.C:
					a.logger.Info("stats",
						"trades", p.trades.Load(),
						"cards_updated", p.updated.Load(),
					)
				}
			}

			stopCtx, cancel := contextWithShutdownTimeout()
			defer cancel()
			err = st.Stop(stopCtx)
			fmt.Fprintln(cmd.ErrOrStderr(), p.summary())
			return err
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the full card JSON for each trade")
	return cmd
}

// tradePrinter applies trades to the card service and prints the result.
type tradePrinter struct {
	out     io.Writer
	verbose bool
	cards   *card.Service

	mu      sync.Mutex
	trades  atomic.Int64
	updated atomic.Int64
}

func (p *tradePrinter) HandleTrade(t model.Trade) {
	p.trades.Add(1)
	c, ok := p.cards.ApplyTrade(t)
	if ok {
		p.updated.Add(1)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.verbose && ok {
		data, _ := json.MarshalIndent(c, "", "  ")
		fmt.Fprintf(p.out, "[TRADE] %s\n", data)
		return
	}

	marketCap := shortform.NotAvailable
	if ok {
		marketCap = c.MarketCap.ShortForm
	}
	fmt.Fprintf(p.out, "[TRADE] symbol=%s price=%s volume=%g market_cap=%s\n",
		t.Symbol, shortform.Dollars(&t.Price), t.Volume, marketCap)
}

var numbers = message.NewPrinter(language.English)

// summary reports the totals with digit grouping ("1,204 trades").
func (p *tradePrinter) summary() string {
	return numbers.Sprintf("streamed %d trades, %d card updates", p.trades.Load(), p.updated.Load())
}
