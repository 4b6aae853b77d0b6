package domain

import "github.com/shopspring/decimal"

// PhotoFile is one uploaded product photo. Content is opaque to matching;
// only the filename is consulted to derive a code.
type PhotoFile struct {
	Filename string
	Content  []byte
}

// MatchKind records which fallback stage produced a match
type MatchKind string

const (
	MatchExact          MatchKind = "EXACT"
	MatchPrefixTrim     MatchKind = "PREFIX_TRIM"
	MatchSubstringScore MatchKind = "SUBSTRING_SCORE"
	MatchNumericNearest MatchKind = "NUMERIC_NEAREST"
	MatchNone           MatchKind = "NONE"
)

// MatchResult pairs one photo with its matched price record (nil for NONE).
// Created once per photo and immutable thereafter.
type MatchResult struct {
	PhotoFilename string
	Record        *PriceRecord
	Kind          MatchKind
	Score         float64 // populated for SUBSTRING_SCORE matches only
}

// ReportRow is the contract surface the Excel/PDF renderers consume
type ReportRow struct {
	PhotoFilename string           `json:"photoFilename"`
	Code          string           `json:"code"`
	Description   string           `json:"description"`
	PriceIncl     *decimal.Decimal `json:"priceIncl"`
	MatchKind     MatchKind        `json:"matchKind"`
	Note          string           `json:"note,omitempty"` // "NO MATCH" marker for operators
}

// MatchReport is the full result of one price-source + photo-batch run,
// rows in photo upload order
type MatchReport struct {
	BatchID    string      `json:"batchId"`
	SourceName string      `json:"sourceName"`
	Rows       []ReportRow `json:"rows"`
	Matched    int         `json:"matched"`
	Unmatched  int         `json:"unmatched"`
}

// SourceFile is an uploaded price source: raw bytes plus the original filename,
// which decides how the bytes get decoded
type SourceFile struct {
	Name string
	Data []byte
}
