package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/Gee9999/proto-catalogue-app/config"
	"github.com/Gee9999/proto-catalogue-app/internal/infrastructure/cache"
	"github.com/Gee9999/proto-catalogue-app/internal/infrastructure/excel"
	"github.com/Gee9999/proto-catalogue-app/internal/infrastructure/pricepdf"
	"github.com/Gee9999/proto-catalogue-app/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupTestRouter wires a full stack against real readers and an in-memory cache
func setupTestRouter() *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:3000"},
			MaxUploadMB:    8,
		},
		Matching: config.MatchingConfig{
			MinSubstringScore:      0.6,
			TrimMaxDigits:          3,
			TrimMinRemaining:       4,
			CandidatePrefixLengths: []int{6, 4},
		},
	}

	catalogService := usecase.NewCatalogService(nil, usecase.CatalogConfig{})
	matchingService := usecase.NewMatchingService(usecase.MatchConfig{
		MinSubstringScore:      cfg.Matching.MinSubstringScore,
		TrimMaxDigits:          cfg.Matching.TrimMaxDigits,
		TrimMinRemaining:       cfg.Matching.TrimMinRemaining,
		CandidatePrefixLengths: cfg.Matching.CandidatePrefixLengths,
	})
	reportService := usecase.NewReportService(
		cache.NewMemoryCache(),
		excel.NewReader(),
		pricepdf.NewReader(),
		catalogService,
		matchingService,
		usecase.ReportConfig{},
	)

	return SetupRouter(cfg, NewHandler(reportService))
}

// priceWorkbook builds an in-memory xlsx with a header row plus the given records
func priceWorkbook(t *testing.T, records [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows := append([][]string{{"Code", "Description", "PRICE-A INCL."}}, records...)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// matchRequest builds the multipart POST for /api/v1/catalogue/match
func matchRequest(t *testing.T, prices []byte, photoNames []string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("prices", "prices.xlsx")
	if err != nil {
		t.Fatalf("create prices part: %v", err)
	}
	if _, err := part.Write(prices); err != nil {
		t.Fatalf("write prices part: %v", err)
	}

	for _, name := range photoNames {
		photo, err := writer.CreateFormFile("photos", name)
		if err != nil {
			t.Fatalf("create photo part: %v", err)
		}
		if _, err := photo.Write([]byte{0xFF, 0xD8}); err != nil {
			t.Fatalf("write photo part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req, _ := http.NewRequest("POST", "/api/v1/catalogue/match", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter()

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", response["status"])
	}
	if response["service"] != "proto-catalogue" {
		t.Errorf("service = %v, want proto-catalogue", response["service"])
	}
}

func TestMatchEndpoint(t *testing.T) {
	t.Run("matched and unmatched photos in upload order", func(t *testing.T) {
		router := setupTestRouter()
		prices := priceWorkbook(t, [][]string{
			{"8613900001", "Bead", "4.85"},
		})

		req := matchRequest(t, prices, []string{"8613900001-25pcs.jpg", "unknown-item.png"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var report struct {
			BatchID string `json:"batchId"`
			Rows    []struct {
				PhotoFilename string  `json:"photoFilename"`
				Code          string  `json:"code"`
				Description   string  `json:"description"`
				PriceIncl     *string `json:"priceIncl"`
				MatchKind     string  `json:"matchKind"`
				Note          string  `json:"note"`
			} `json:"rows"`
			Matched   int `json:"matched"`
			Unmatched int `json:"unmatched"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
			t.Fatalf("unmarshal report: %v", err)
		}

		if report.BatchID == "" {
			t.Error("batchId is empty")
		}
		if len(report.Rows) != 2 {
			t.Fatalf("len(rows) = %d, want 2", len(report.Rows))
		}

		first := report.Rows[0]
		if first.PhotoFilename != "8613900001-25pcs.jpg" || first.MatchKind != "EXACT" {
			t.Errorf("rows[0] = %+v, want EXACT match for the bead photo", first)
		}
		if first.Code != "8613900001" || first.Description != "Bead" {
			t.Errorf("rows[0] = %+v, want the bead record fields", first)
		}
		if first.PriceIncl == nil || *first.PriceIncl != "4.85" {
			t.Errorf("rows[0].priceIncl = %v, want 4.85", first.PriceIncl)
		}

		second := report.Rows[1]
		if second.MatchKind != "NONE" || second.Note != "NO MATCH" {
			t.Errorf("rows[1] = %+v, want a marked NONE row", second)
		}
		if second.Code != "" || second.PriceIncl != nil {
			t.Errorf("rows[1] = %+v, want blank record fields", second)
		}

		if report.Matched != 1 || report.Unmatched != 1 {
			t.Errorf("matched/unmatched = %d/%d, want 1/1", report.Matched, report.Unmatched)
		}
	})

	t.Run("missing prices upload is a 400", func(t *testing.T) {
		router := setupTestRouter()

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		_ = writer.Close()

		req, _ := http.NewRequest("POST", "/api/v1/catalogue/match", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("missing photos is a 400", func(t *testing.T) {
		router := setupTestRouter()
		prices := priceWorkbook(t, [][]string{{"8613900001", "Bead", "4.85"}})

		req := matchRequest(t, prices, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d; body: %s", w.Code, http.StatusBadRequest, w.Body.String())
		}
	})

	t.Run("undetectable schema is a 422 naming the headers", func(t *testing.T) {
		router := setupTestRouter()

		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		_ = f.SetCellValue(sheet, "A1", "Artikel")
		_ = f.SetCellValue(sheet, "B1", "Bedrag")
		_ = f.SetCellValue(sheet, "A2", "1234")
		_ = f.SetCellValue(sheet, "B2", "9.99")
		buf, err := f.WriteToBuffer()
		if err != nil {
			t.Fatalf("write workbook: %v", err)
		}
		_ = f.Close()

		req := matchRequest(t, buf.Bytes(), []string{"1234.jpg"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("Status = %d, want %d; body: %s", w.Code, http.StatusUnprocessableEntity, w.Body.String())
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if response["availableHeaders"] == nil {
			t.Error("response is missing availableHeaders")
		}
		if response["missingFields"] == nil {
			t.Error("response is missing missingFields")
		}
	})

	t.Run("unsupported source extension is a 415", func(t *testing.T) {
		router := setupTestRouter()

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("prices", "prices.csv")
		_, _ = part.Write([]byte("Code,Description,Price\n1,x,2.0\n"))
		photo, _ := writer.CreateFormFile("photos", "1234.jpg")
		_, _ = photo.Write([]byte{0xFF})
		_ = writer.Close()

		req, _ := http.NewRequest("POST", "/api/v1/catalogue/match", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnsupportedMediaType {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusUnsupportedMediaType)
		}
	})
}

func TestPreviewEndpoint(t *testing.T) {
	router := setupTestRouter()
	prices := priceWorkbook(t, [][]string{
		{"8613900001", "Bead", "4.85"},
		{"8613900002", "Clasp", "12.50"},
	})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("prices", "prices.xlsx")
	if err != nil {
		t.Fatalf("create prices part: %v", err)
	}
	if _, err := part.Write(prices); err != nil {
		t.Fatalf("write prices part: %v", err)
	}
	_ = writer.Close()

	req, _ := http.NewRequest("POST", "/api/v1/catalogue/preview", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response struct {
		SourceName string                   `json:"sourceName"`
		Records    int                      `json:"records"`
		Sample     []map[string]interface{} `json:"sample"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if response.Records != 2 {
		t.Errorf("records = %d, want 2", response.Records)
	}
	if len(response.Sample) != 2 {
		t.Errorf("len(sample) = %d, want 2", len(response.Sample))
	}
	if response.SourceName != "prices.xlsx" {
		t.Errorf("sourceName = %q, want prices.xlsx", response.SourceName)
	}
}
