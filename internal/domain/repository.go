package domain

import (
	"context"
	"time"
)

// FieldDetector classifies a raw column header. Alternate source layouts plug in
// their own implementation without touching the matcher.
type FieldDetector interface {
	Detect(header string) FieldKind
}

// RowReader decodes a tabular price source (e.g. xlsx) into header-mapped rows
type RowReader interface {
	Rows(data []byte) ([]RawRow, error)
}

// LineReader decodes a document price source (e.g. the text layer of a
// tabular-layout PDF) into a flat sequence of text lines
type LineReader interface {
	Lines(data []byte) ([]string, error)
}

// CatalogCache caches built catalogues, keyed by a content hash of the source
// bytes. The cache is owned by the calling layer; catalogue building itself
// stays stateless.
type CatalogCache interface {
	Get(ctx context.Context, key string) (*Catalog, error)
	Set(ctx context.Context, key string, catalog *Catalog, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
