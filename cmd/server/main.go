package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Gee9999/proto-catalogue-app/config"
	httpDelivery "github.com/Gee9999/proto-catalogue-app/internal/delivery/http"
	"github.com/Gee9999/proto-catalogue-app/internal/infrastructure/cache"
	"github.com/Gee9999/proto-catalogue-app/internal/infrastructure/excel"
	"github.com/Gee9999/proto-catalogue-app/internal/infrastructure/pricepdf"
	"github.com/Gee9999/proto-catalogue-app/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Proto Catalogue Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Infrastructure dependencies
	catalogCache := cache.NewMemoryCache()
	excelReader := excel.NewReader()
	pdfReader := pricepdf.NewReader()

	// Usecase layer
	catalogService := usecase.NewCatalogService(nil, usecase.CatalogConfig{
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})
	matchingService := usecase.NewMatchingService(usecase.MatchConfig{
		MinSubstringScore:      cfg.Matching.MinSubstringScore,
		TrimMaxDigits:          cfg.Matching.TrimMaxDigits,
		TrimMinRemaining:       cfg.Matching.TrimMinRemaining,
		CandidatePrefixLengths: cfg.Matching.CandidatePrefixLengths,
		EnableDebugLogging:     cfg.Matching.EnableDebugLogging,
	})
	reportService := usecase.NewReportService(
		catalogCache,
		excelReader,
		pdfReader,
		catalogService,
		matchingService,
		usecase.ReportConfig{
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: cfg.Matching.EnableDebugLogging,
		},
	)

	log.Printf("Matching: score floor=%.2f, trim=%d..%d digits (min %d remaining), prefixes=%v",
		cfg.Matching.MinSubstringScore,
		1, cfg.Matching.TrimMaxDigits,
		cfg.Matching.TrimMinRemaining,
		cfg.Matching.CandidatePrefixLengths)
	log.Printf("Catalogue cache TTL: %s", cfg.Cache.TTL)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(reportService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
