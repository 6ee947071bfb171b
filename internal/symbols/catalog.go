// Package symbols provides ticker search over a CSV catalog of listed
// companies, indexed in memory with bleve.
package symbols

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// DefaultLimit caps search results when the caller passes limit <= 0.
const DefaultLimit = 10

// Entry is one listed instrument.
type Entry struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// Catalog indexes entries for symbol and name search.
type Catalog struct {
	index   bleve.Index
	entries map[string]Entry
}

// LoadCSV reads entries from a symbol,name,exchange CSV. A leading header
// row is skipped; blank symbols are ignored.
func LoadCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var entries []Entry
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "symbol") {
			continue
		}
		if len(rec) == 0 {
			continue
		}
		e := Entry{Symbol: strings.ToUpper(strings.TrimSpace(rec[0]))}
		if e.Symbol == "" {
			continue
		}
		if len(rec) > 1 {
			e.Name = strings.TrimSpace(rec[1])
		}
		if len(rec) > 2 {
			e.Exchange = strings.TrimSpace(rec[2])
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Open loads a catalog CSV from path and indexes it.
func Open(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	entries, err := LoadCSV(f)
	if err != nil {
		return nil, err
	}
	return New(entries)
}

// New indexes entries in an in-memory bleve index. Later duplicates of a
// symbol replace earlier ones.
func New(entries []Entry) (*Catalog, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	c := &Catalog{
		index:   index,
		entries: make(map[string]Entry, len(entries)),
	}

	batch := index.NewBatch()
	for _, e := range entries {
		c.entries[e.Symbol] = e
		if err := batch.Index(e.Symbol, e); err != nil {
			index.Close()
			return nil, fmt.Errorf("index %s: %w", e.Symbol, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("execute batch: %w", err)
	}
	return c, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	entryMapping := bleve.NewDocumentMapping()

	symbolField := bleve.NewTextFieldMapping()
	symbolField.Analyzer = "keyword"
	entryMapping.AddFieldMappingsAt("symbol", symbolField)

	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = "standard"
	entryMapping.AddFieldMappingsAt("name", nameField)

	exchangeField := bleve.NewTextFieldMapping()
	exchangeField.Index = false
	entryMapping.AddFieldMappingsAt("exchange", exchangeField)

	indexMapping.DefaultMapping = entryMapping
	return indexMapping
}

// Search matches query against symbols (exact, then prefix) and company
// names. Results are ordered by relevance.
func (c *Catalog) Search(query string, limit int) ([]Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	upper := strings.ToUpper(query)

	exact := bleve.NewTermQuery(upper)
	exact.SetField("symbol")
	exact.SetBoost(10)

	prefix := bleve.NewPrefixQuery(upper)
	prefix.SetField("symbol")
	prefix.SetBoost(5)

	name := bleve.NewMatchQuery(query)
	name.SetField("name")
	name.SetBoost(3)

	namePrefix := bleve.NewPrefixQuery(strings.ToLower(query))
	namePrefix.SetField("name")

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(exact, prefix, name, namePrefix))
	req.Size = limit

	res, err := c.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	out := make([]Entry, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if e, ok := c.entries[hit.ID]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// Get returns the entry for symbol.
func (c *Catalog) Get(symbol string) (Entry, bool) {
	e, ok := c.entries[strings.ToUpper(strings.TrimSpace(symbol))]
	return e, ok
}

// Len returns the number of indexed symbols.
func (c *Catalog) Len() int { return len(c.entries) }

// Close releases the index.
func (c *Catalog) Close() error {
	if c == nil || c.index == nil {
		return errors.New("catalog not open")
	}
	return c.index.Close()
}
