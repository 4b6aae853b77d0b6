package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gee9999/proto-catalogue-app/internal/domain"
	"github.com/Gee9999/proto-catalogue-app/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	reports *usecase.ReportService
}

// NewHandler creates a new HTTP handler
func NewHandler(reports *usecase.ReportService) *Handler {
	return &Handler{reports: reports}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "proto-catalogue",
		"version": "1.0.0",
	})
}

// MatchCatalogue handles a full matching run: multipart upload with a "prices"
// file (xlsx or pdf) and one or more "photos" files, responding with the
// ordered match report.
func (h *Handler) MatchCatalogue(c *gin.Context) {
	if h.reports == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "report service not configured"})
		return
	}

	source, ok := h.readPriceSource(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form: " + err.Error()})
		return
	}

	photos, err := readPhotos(form.File["photos"])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading photos: " + err.Error()})
		return
	}

	report, err := h.reports.MatchReport(c.Request.Context(), source, photos)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// PreviewCatalogue builds the catalogue from a "prices" upload without any
// photos, so operators can verify schema detection before a full run
func (h *Handler) PreviewCatalogue(c *gin.Context) {
	if h.reports == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "report service not configured"})
		return
	}

	source, ok := h.readPriceSource(c)
	if !ok {
		return
	}

	catalog, err := h.reports.BuildCatalog(c.Request.Context(), source)
	if err != nil {
		h.respondError(c, err)
		return
	}

	const sampleSize = 5
	sample := make([]*domain.PriceRecord, 0, sampleSize)
	for _, code := range catalog.Codes() {
		if len(sample) == sampleSize {
			break
		}
		if record, ok := catalog.Get(code); ok {
			sample = append(sample, record)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"sourceName": source.Name,
		"records":    catalog.Len(),
		"sample":     sample,
	})
}

// readPriceSource pulls the "prices" upload out of the request. On failure it
// writes the error response itself and reports ok=false.
func (h *Handler) readPriceSource(c *gin.Context) (domain.SourceFile, bool) {
	fileHeader, err := c.FormFile("prices")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'prices' file upload"})
		return domain.SourceFile{}, false
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading price source: " + err.Error()})
		return domain.SourceFile{}, false
	}

	return domain.SourceFile{Name: fileHeader.Filename, Data: data}, true
}

// respondError maps domain errors onto HTTP statuses. A SchemaError includes
// the missing fields and the available headers so the operator can remap the
// source.
func (h *Handler) respondError(c *gin.Context, err error) {
	var schemaErr *domain.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":            "price source schema could not be detected",
			"missingFields":    schemaErr.Missing,
			"availableHeaders": schemaErr.Headers,
		})
	case errors.Is(err, domain.ErrUnsupportedSource):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoPhotos), errors.Is(err, domain.ErrEmptySource),
		errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// readPhotos loads the uploaded photo batch, preserving upload order. Photo
// bytes are opaque to matching and passed through for downstream rendering.
func readPhotos(headers []*multipart.FileHeader) ([]domain.PhotoFile, error) {
	photos := make([]domain.PhotoFile, 0, len(headers))
	for _, header := range headers {
		data, err := readUpload(header)
		if err != nil {
			return nil, err
		}
		photos = append(photos, domain.PhotoFile{Filename: header.Filename, Content: data})
	}
	return photos, nil
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
