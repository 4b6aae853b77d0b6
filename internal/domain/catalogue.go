package domain

import "github.com/shopspring/decimal"

// FieldKind classifies a price-source column header
type FieldKind int

const (
	FieldUnknown FieldKind = iota
	FieldCode
	FieldDescription
	FieldPrice     // any price column
	FieldPriceIncl // tax-inclusive price column (preferred over FieldPrice)
)

// RawRow is one row of a tabular price source: column name -> cell value,
// headers exactly as they appeared in the upload
type RawRow map[string]string

// PriceRecord is one normalized entry of the price catalogue
type PriceRecord struct {
	Code           string           `json:"code"`           // raw code as it appeared in the source
	NormalizedCode string           `json:"normalizedCode"` // digits-only join key
	Description    string           `json:"description"`
	PriceIncl      *decimal.Decimal `json:"priceIncl"` // nil when the source price was unparseable
}

// Catalog is the deduplicated normalized-code -> PriceRecord mapping for one run.
// Insertion order is preserved so tie-breaks and fallback scans are deterministic.
// A Catalog is fully built before any matching starts and is read-only afterwards.
type Catalog struct {
	records map[string]*PriceRecord
	order   []string
}

// NewCatalog creates an empty catalogue
func NewCatalog() *Catalog {
	return &Catalog{records: make(map[string]*PriceRecord)}
}

// Add inserts a record keyed by its normalized code. The first occurrence of a
// code wins; later duplicates are rejected and Add reports false.
func (c *Catalog) Add(record *PriceRecord) bool {
	if record == nil || record.NormalizedCode == "" {
		return false
	}
	if _, exists := c.records[record.NormalizedCode]; exists {
		return false
	}
	c.records[record.NormalizedCode] = record
	c.order = append(c.order, record.NormalizedCode)
	return true
}

// Get looks up a record by normalized code
func (c *Catalog) Get(normalizedCode string) (*PriceRecord, bool) {
	record, ok := c.records[normalizedCode]
	return record, ok
}

// Codes returns all normalized codes in insertion order
func (c *Catalog) Codes() []string {
	return c.order
}

// Len returns the number of records in the catalogue
func (c *Catalog) Len() int {
	return len(c.order)
}
