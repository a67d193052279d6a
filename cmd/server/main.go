package main

import (
	"fmt"
	"log"
	"os"

	"github.com/medscan/backend/config"
	httpDelivery "github.com/medscan/backend/internal/delivery/http"
	"github.com/medscan/backend/internal/domain"
	"github.com/medscan/backend/internal/infrastructure/drugbank"
	"github.com/medscan/backend/internal/infrastructure/openfda"
	"github.com/medscan/backend/internal/infrastructure/rxnorm"
	"github.com/medscan/backend/internal/infrastructure/store"
	"github.com/medscan/backend/internal/infrastructure/upcitemdb"
	"github.com/medscan/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting MedScan Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Source timeout: %s", cfg.Sources.Timeout)

	// Initialize infrastructure dependencies
	recordStore := store.NewMemoryStore()

	openFDAClient := openfda.NewClient(cfg.Sources.OpenFDABaseURL, cfg.Sources.Timeout)
	upcClient := upcitemdb.NewClient(cfg.Sources.UPCItemDBBaseURL, cfg.Sources.Timeout)
	rxNormClient := rxnorm.NewClient(cfg.Sources.RxNormBaseURL, cfg.Sources.Timeout)
	drugBankClient := drugbank.NewClient(cfg.Sources.DrugBankBaseURL, cfg.Sources.Timeout)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		openFDAClient.SetDebug(true)
		upcClient.SetDebug(true)
		rxNormClient.SetDebug(true)
		drugBankClient.SetDebug(true)
		log.Printf("Source client debug mode enabled")
	}

	// Adapter order encodes source trust priority: regulatory directory
	// first, general product database, nomenclature, secondary pharma DB
	adapters := []domain.SourceAdapter{
		openFDAClient,
		upcClient,
		rxNormClient,
		drugBankClient,
	}

	overrides := usecase.DefaultOverrideTable()
	log.Printf("Override table loaded: %d verified products", overrides.Size())

	// Initialize usecase layer
	resolver := usecase.NewResolverService(
		recordStore,
		overrides,
		adapters,
		usecase.ResolverConfig{
			EnableDebugLogging: cfg.Resolver.EnableDebugLogging,
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(resolver, recordStore)

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
