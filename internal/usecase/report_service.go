package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gee9999/proto-catalogue-app/internal/domain"
)

// noMatchNote is the operator-facing marker on report rows the fallback chain
// could not resolve, so unmatched photos stand out instead of showing blank fields
const noMatchNote = "NO MATCH"

// ReportConfig holds configuration for the report service
type ReportConfig struct {
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// ReportService runs one full catalogue-matching request: decode the price
// source, build (or reuse) the catalogue, match the photo batch, assemble the
// report. Catalogues are cached by a hash of the source bytes so re-uploads of
// the same price list skip the rebuild.
type ReportService struct {
	cache              domain.CatalogCache
	rowReader          domain.RowReader
	lineReader         domain.LineReader
	catalogService     *CatalogService
	matchingService    *MatchingService
	cacheTTL           time.Duration
	enableDebugLogging bool
}

// NewReportService creates a report service with its collaborators
func NewReportService(
	cache domain.CatalogCache,
	rowReader domain.RowReader,
	lineReader domain.LineReader,
	catalogService *CatalogService,
	matchingService *MatchingService,
	config ReportConfig,
) *ReportService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}
	return &ReportService{
		cache:              cache,
		rowReader:          rowReader,
		lineReader:         lineReader,
		catalogService:     catalogService,
		matchingService:    matchingService,
		cacheTTL:           cacheTTL,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// MatchReport builds the catalogue from the price source and matches the photo
// batch against it. Schema failures abort the run before any matching begins;
// unmatched photos come back as NO MATCH rows.
func (s *ReportService) MatchReport(
	ctx context.Context,
	source domain.SourceFile,
	photos []domain.PhotoFile,
) (*domain.MatchReport, error) {
	if len(photos) == 0 {
		return nil, domain.ErrNoPhotos
	}

	catalog, err := s.BuildCatalog(ctx, source)
	if err != nil {
		return nil, err
	}

	results, err := s.matchingService.MatchBatch(ctx, photos, catalog)
	if err != nil {
		return nil, err
	}

	report := &domain.MatchReport{
		BatchID:    uuid.NewString(),
		SourceName: source.Name,
		Rows:       make([]domain.ReportRow, 0, len(results)),
	}
	for _, result := range results {
		row := domain.ReportRow{
			PhotoFilename: result.PhotoFilename,
			MatchKind:     result.Kind,
		}
		if result.Record != nil {
			row.Code = result.Record.NormalizedCode
			row.Description = result.Record.Description
			row.PriceIncl = result.Record.PriceIncl
			report.Matched++
		} else {
			row.Note = noMatchNote
			report.Unmatched++
		}
		report.Rows = append(report.Rows, row)
	}

	if s.enableDebugLogging {
		log.Printf("[REPORT] batch %s: %d matched, %d unmatched of %d photo(s)",
			report.BatchID, report.Matched, report.Unmatched, len(photos))
	}
	return report, nil
}

// BuildCatalog decodes and normalizes the price source, cache-first. The
// source format is picked by file extension: spreadsheets go through the row
// reader, PDF price lists through the line reader.
func (s *ReportService) BuildCatalog(ctx context.Context, source domain.SourceFile) (*domain.Catalog, error) {
	key := sourceCacheKey(source.Data)
	if s.cache != nil {
		if catalog, err := s.cache.Get(ctx, key); err == nil && catalog != nil {
			if s.enableDebugLogging {
				log.Printf("[REPORT] catalogue cache hit for %q", source.Name)
			}
			return catalog, nil
		}
	}

	catalog, err := s.buildCatalog(source)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, catalog, s.cacheTTL); err != nil && s.enableDebugLogging {
			log.Printf("[REPORT] catalogue cache store failed: %v", err)
		}
	}
	return catalog, nil
}

func (s *ReportService) buildCatalog(source domain.SourceFile) (*domain.Catalog, error) {
	switch strings.ToLower(filepath.Ext(source.Name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		rows, err := s.rowReader.Rows(source.Data)
		if err != nil {
			return nil, fmt.Errorf("read spreadsheet %q: %w", source.Name, err)
		}
		return s.catalogService.BuildFromRows(rows)
	case ".pdf":
		lines, err := s.lineReader.Lines(source.Data)
		if err != nil {
			return nil, fmt.Errorf("read pdf %q: %w", source.Name, err)
		}
		return s.catalogService.BuildFromLines(lines)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, source.Name)
	}
}

// sourceCacheKey derives the catalogue cache key from the source content
func sourceCacheKey(data []byte) string {
	sum := sha256.Sum256(data)
	return "catalog:" + hex.EncodeToString(sum[:])
}
