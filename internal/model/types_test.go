package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCard_JSONFieldNames(t *testing.T) {
	c := Card{
		LookupID:      uuid.MustParse("2f1d3c9e-6d8b-4a57-9f0e-0b8f0a3a4c11"),
		Symbol:        "AAPL",
		Price:         Float(191.03),
		PercentChange: Float(1.14),
		MarketCap: MarketCap{
			CanonicalValue: Float(2.98e12),
			ShortForm:      "$2.98T",
			Method:         "matched-to-reference",
			Scale:          "billions",
			Confident:      true,
		},
		PERatio:     Float(32.8),
		CompanyName: "Apple Inc",
		LogoURL:     "https://example.com/aapl.png",
		Source:      "finnhub",
		ResolvedAt:  time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	out := string(data)

	for _, field := range []string{
		`"symbol":"AAPL"`,
		`"price":191.03`,
		`"percentChange":1.14`,
		`"marketCap":{"canonicalValue":2980000000000,"shortForm":"$2.98T"`,
		`"peRatio":32.8`,
		`"companyName":"Apple Inc"`,
		`"logoUrl":"https://example.com/aapl.png"`,
		`"lookupId":"2f1d3c9e-6d8b-4a57-9f0e-0b8f0a3a4c11"`,
	} {
		if !strings.Contains(out, field) {
			t.Errorf("JSON missing %s\n got: %s", field, out)
		}
	}
}

func TestCard_NullFields(t *testing.T) {
	c := Card{Symbol: "ZZZZ", MarketCap: MarketCap{ShortForm: "N/A", Method: "unavailable"}}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	out := string(data)

	for _, field := range []string{`"price":null`, `"percentChange":null`, `"peRatio":null`, `"canonicalValue":null`} {
		if !strings.Contains(out, field) {
			t.Errorf("JSON missing %s\n got: %s", field, out)
		}
	}
	if strings.Contains(out, `"scale"`) {
		t.Errorf("empty scale should be omitted, got: %s", out)
	}
}
