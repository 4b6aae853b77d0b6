package usecase

import (
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Gee9999/proto-catalogue-app/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9]+`)
	nonDigitRegex        = regexp.MustCompile(`[^0-9]+`)

	// decimalNumberRegex matches a price-style decimal token, with or without
	// thousands separators ("4.85", "1,234.56")
	decimalNumberRegex = regexp.MustCompile(`^-?\d+(?:,\d{3})*\.\d+$`)

	// blockStartRegex matches a token opening a new record in document text:
	// a digit run with at most one trailing letter suffix ("8610", "8610A")
	blockStartRegex = regexp.MustCompile(`^[0-9]+[A-Za-z]?$`)

	// priceCleanRegex strips currency symbols, whitespace and anything else
	// that is not part of a plain decimal number
	priceCleanRegex = regexp.MustCompile(`[^0-9.,\-]+`)
)

// priceColumnIndex is the 0-indexed position of the tax-inclusive price among
// the decimal-number tokens of one document block. The source documents have a
// fixed column layout; this constant encodes that layout and is not derived
// per line.
const priceColumnIndex = 4

// HeaderFieldDetector classifies headers by normalized substring rules:
// uppercase, strip everything non-alphanumeric (including embedded newlines
// that spreadsheet exports encode literally), then look for CODE / DESC /
// PRICE+INCL markers.
type HeaderFieldDetector struct{}

// NewHeaderFieldDetector creates the default header classifier
func NewHeaderFieldDetector() HeaderFieldDetector {
	return HeaderFieldDetector{}
}

// Detect classifies a single raw header
func (HeaderFieldDetector) Detect(header string) domain.FieldKind {
	normalized := nonAlphanumericRegex.ReplaceAllString(strings.ToUpper(header), "")
	switch {
	case strings.Contains(normalized, "CODE"):
		return domain.FieldCode
	case strings.Contains(normalized, "DESC"):
		return domain.FieldDescription
	case strings.Contains(normalized, "PRICE") && strings.Contains(normalized, "INCL"):
		return domain.FieldPriceIncl
	case strings.Contains(normalized, "PRICE"):
		return domain.FieldPrice
	default:
		return domain.FieldUnknown
	}
}

// CatalogConfig holds configuration for the catalogue builder
type CatalogConfig struct {
	EnableDebugLogging bool
}

// CatalogService builds a deduplicated price catalogue from an already-decoded
// price source: either header-mapped rows or document text lines
type CatalogService struct {
	detector           domain.FieldDetector
	enableDebugLogging bool
}

// NewCatalogService creates a catalogue builder. A nil detector falls back to
// the default header classifier.
func NewCatalogService(detector domain.FieldDetector, config CatalogConfig) *CatalogService {
	if detector == nil {
		detector = NewHeaderFieldDetector()
	}
	return &CatalogService{
		detector:           detector,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// BuildFromRows builds a catalogue from tabular rows. Returns a SchemaError
// when the code, description or price column cannot be identified. Individual
// rows that fail to normalize are logged and skipped, never fatal.
func (s *CatalogService) BuildFromRows(rows []domain.RawRow) (*domain.Catalog, error) {
	if len(rows) == 0 {
		return nil, domain.ErrEmptySource
	}

	headers := collectHeaders(rows)
	codeHeader, descHeader, priceHeader, serr := s.detectFields(headers)
	if serr != nil {
		return nil, serr
	}

	catalog := domain.NewCatalog()
	for i, row := range rows {
		rawCode := strings.TrimSpace(row[codeHeader])
		normalized := NormalizeCode(rawCode)
		if normalized == "" {
			if s.enableDebugLogging {
				log.Printf("[CATALOG] row %d skipped: no usable code in %q", i, rawCode)
			}
			continue
		}

		record := &domain.PriceRecord{
			Code:           rawCode,
			NormalizedCode: normalized,
			Description:    strings.TrimSpace(row[descHeader]),
			PriceIncl:      ParsePrice(row[priceHeader]),
		}
		if !catalog.Add(record) && s.enableDebugLogging {
			log.Printf("[CATALOG] row %d skipped: duplicate code %s", i, normalized)
		}
	}

	if s.enableDebugLogging {
		log.Printf("[CATALOG] built %d record(s) from %d row(s)", catalog.Len(), len(rows))
	}
	return catalog, nil
}

// BuildFromLines builds a catalogue from document text lines. A line whose
// first token is a digit run (optional single letter suffix) opens a new
// block; the block runs until the next such line. Within a block the
// description is every token between the code and the first decimal number,
// and the price is the decimal number at the fixed column position. Blocks
// with too few decimal numbers are not records and are skipped.
func (s *CatalogService) BuildFromLines(lines []string) (*domain.Catalog, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptySource
	}

	catalog := domain.NewCatalog()
	var block []string
	flush := func() {
		if len(block) > 0 {
			s.addBlock(catalog, block)
			block = nil
		}
	}

	for _, line := range lines {
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		if blockStartRegex.MatchString(tokens[0]) {
			flush()
			block = tokens
			continue
		}
		if block != nil {
			block = append(block, tokens...)
		}
	}
	flush()

	if s.enableDebugLogging {
		log.Printf("[CATALOG] built %d record(s) from %d line(s)", catalog.Len(), len(lines))
	}
	return catalog, nil
}

// addBlock converts one token block into a record, if it carries enough
// decimal-number columns to be one
func (s *CatalogService) addBlock(catalog *domain.Catalog, tokens []string) {
	rawCode := tokens[0]
	normalized := NormalizeCode(rawCode)
	if normalized == "" {
		return
	}

	var description []string
	var numbers []string
	for _, token := range tokens[1:] {
		if decimalNumberRegex.MatchString(token) {
			numbers = append(numbers, token)
		} else if len(numbers) == 0 {
			description = append(description, token)
		}
	}
	if len(numbers) <= priceColumnIndex {
		if s.enableDebugLogging {
			log.Printf("[CATALOG] block %s skipped: %d decimal column(s), need %d",
				rawCode, len(numbers), priceColumnIndex+1)
		}
		return
	}

	record := &domain.PriceRecord{
		Code:           rawCode,
		NormalizedCode: normalized,
		Description:    strings.Join(description, " "),
		PriceIncl:      ParsePrice(numbers[priceColumnIndex]),
	}
	catalog.Add(record)
}

// detectFields maps the three required fields onto concrete headers. A
// tax-inclusive price column is preferred; any price column is accepted when
// no stricter match exists.
func (s *CatalogService) detectFields(headers []string) (code, desc, price string, serr *domain.SchemaError) {
	var anyPrice string
	for _, header := range headers {
		switch s.detector.Detect(header) {
		case domain.FieldCode:
			if code == "" {
				code = header
			}
		case domain.FieldDescription:
			if desc == "" {
				desc = header
			}
		case domain.FieldPriceIncl:
			if price == "" {
				price = header
			}
		case domain.FieldPrice:
			if anyPrice == "" {
				anyPrice = header
			}
		}
	}
	if price == "" {
		price = anyPrice
	}

	var missing []string
	if code == "" {
		missing = append(missing, "code")
	}
	if desc == "" {
		missing = append(missing, "description")
	}
	if price == "" {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return "", "", "", &domain.SchemaError{Missing: missing, Headers: headers}
	}
	return code, desc, price, nil
}

// collectHeaders gathers the union of column names across rows, sorted so
// detection is deterministic regardless of map iteration order
func collectHeaders(rows []domain.RawRow) []string {
	seen := make(map[string]bool)
	var headers []string
	for _, row := range rows {
		for header := range row {
			if !seen[header] {
				seen[header] = true
				headers = append(headers, header)
			}
		}
	}
	sort.Strings(headers)
	return headers
}

// NormalizeCode reduces a raw code value to its digits-only canonical form.
// A trailing ".0" left over from numeric-to-string conversion is dropped
// first. Normalizing an already-normalized code is a no-op.
func NormalizeCode(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ".0")
	return nonDigitRegex.ReplaceAllString(s, "")
}

// ParsePrice parses a messy price cell into a decimal amount. Currency
// symbols, whitespace and thousands separators are stripped; a lone comma is
// accepted as the decimal point. Returns nil when nothing parseable remains,
// since partial records are expected from messy sources.
func ParsePrice(raw string) *decimal.Decimal {
	s := priceCleanRegex.ReplaceAllString(raw, "")
	if s == "" {
		return nil
	}
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			// 1,234.56: commas are thousands separators
			s = strings.ReplaceAll(s, ",", "")
		} else if strings.Count(s, ",") == 1 {
			// 1234,56: comma is the decimal point
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &value
}
