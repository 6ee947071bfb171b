// Package export renders cards as clipboard text and single-row CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/shopspring/decimal"

	"github.com/rickgao/quotecard/internal/model"
	"github.com/rickgao/quotecard/internal/shortform"
)

// Header is the CSV header row.
var Header = []string{"Symbol", "Price", "Market Cap", "P/E Ratio", "Change"}

// Text renders the card as the multi-line clipboard summary.
func Text(c model.Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Symbol: %s\n", c.Symbol)
	fmt.Fprintf(&b, "Price: %s\n", shortform.Dollars(c.Price))
	fmt.Fprintf(&b, "Market Cap: %s\n", c.MarketCap.ShortForm)
	fmt.Fprintf(&b, "P/E Ratio: %s\n", fixed(c.PERatio))
	fmt.Fprintf(&b, "Change: %s", Change(c.PercentChange))
	return b.String()
}

// Change renders a percent change with an explicit sign for gains
// ("+1.14%", "-0.40%", "0.00%").
func Change(pct *float64) string {
	s := fixed(pct)
	if s == shortform.NotAvailable {
		return s
	}
	if decimal.NewFromFloat(*pct).Round(2).IsPositive() {
		s = "+" + s
	}
	return s + "%"
}

// WriteCSV writes the header and one row for the card.
func WriteCSV(w io.Writer, c model.Card) error {
	cw := csv.NewWriter(w)
	row := []string{
		c.Symbol,
		fixed(c.Price),
		c.MarketCap.ShortForm,
		fixed(c.PERatio),
		fixed(c.PercentChange),
	}
	if err := cw.WriteAll([][]string{Header, row}); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Filename is the suggested download name for the card's CSV.
func Filename(c model.Card) string {
	return c.Symbol + "_data.csv"
}

// Copy writes the card's text summary to the system clipboard.
func Copy(c model.Card) error {
	if err := clipboard.WriteAll(Text(c)); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

func fixed(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return shortform.NotAvailable
	}
	return decimal.NewFromFloat(*v).StringFixed(2)
}
