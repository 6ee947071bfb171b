package symbols

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `symbol,name,exchange
AAPL,Apple Inc,NASDAQ
AMZN,Amazon.com Inc,NASDAQ
AMD,Advanced Micro Devices Inc,NASDAQ
MSFT,Microsoft Corp,NASDAQ
APLE,Apple Hospitality REIT Inc,NYSE
 ibm , International Business Machines Corp , NYSE
,Missing Symbol,NYSE
`

func newCatalog(t *testing.T) *Catalog {
	t.Helper()
	entries, err := LoadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("LoadCSV() error: %v", err)
	}
	c, err := New(entries)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestLoadCSV(t *testing.T) {
	entries, err := LoadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("LoadCSV() error: %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("len(entries) = %d, want 6", len(entries))
	}
	last := entries[5]
	if last.Symbol != "IBM" || last.Name != "International Business Machines Corp" || last.Exchange != "NYSE" {
		t.Errorf("entries[5] = %+v, want trimmed IBM entry", last)
	}
}

func TestLoadCSV_NoHeader(t *testing.T) {
	entries, err := LoadCSV(strings.NewReader("TSLA,Tesla Inc\n"))
	if err != nil {
		t.Fatalf("LoadCSV() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Symbol != "TSLA" || entries[0].Exchange != "" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestCatalog_Search(t *testing.T) {
	c := newCatalog(t)

	tests := []struct {
		name      string
		query     string
		wantFirst string
		wantIn    []string
	}{
		{"exact symbol ranks first", "aapl", "AAPL", nil},
		{"symbol prefix", "AM", "", []string{"AMZN", "AMD"}},
		{"company name", "microsoft", "MSFT", nil},
		{"name word matches several", "apple", "", []string{"AAPL", "APLE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Search(tt.query, 0)
			if err != nil {
				t.Fatalf("Search(%q) error: %v", tt.query, err)
			}
			if len(got) == 0 {
				t.Fatalf("Search(%q) returned nothing", tt.query)
			}
			if tt.wantFirst != "" && got[0].Symbol != tt.wantFirst {
				t.Errorf("Search(%q)[0] = %s, want %s", tt.query, got[0].Symbol, tt.wantFirst)
			}
			for _, want := range tt.wantIn {
				found := false
				for _, e := range got {
					if e.Symbol == want {
						found = true
					}
				}
				if !found {
					t.Errorf("Search(%q) missing %s in %v", tt.query, want, got)
				}
			}
		})
	}
}

func TestCatalog_SearchLimitAndEmpty(t *testing.T) {
	c := newCatalog(t)

	got, err := c.Search("a", 1)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(got) > 1 {
		t.Errorf("len(Search(a, 1)) = %d, want <= 1", len(got))
	}

	got, err = c.Search("   ", 5)
	if err != nil || got != nil {
		t.Errorf("Search(blank) = %v, %v, want nil, nil", got, err)
	}
}

func TestCatalog_Get(t *testing.T) {
	c := newCatalog(t)

	e, ok := c.Get(" msft")
	if !ok || e.Name != "Microsoft Corp" {
		t.Errorf("Get(msft) = %+v, %v", e, ok)
	}
	if _, ok := c.Get("NOPE"); ok {
		t.Error("Get(NOPE) found an entry")
	}
	if c.Len() != 6 {
		t.Errorf("Len() = %d, want 6", c.Len())
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer c.Close()
	if c.Len() != 6 {
		t.Errorf("Len() = %d, want 6", c.Len())
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("Open(missing) expected error")
	}
}
