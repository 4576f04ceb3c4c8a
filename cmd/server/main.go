package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/ecasulo-ricoh/ocr-test-sub000/api"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/audit"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/auth"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/bulk"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/config"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/detect"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/docuware"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/logger"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/ocr"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/patterns"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/storage"
)

func main() {
	// .env is optional; real deployments set variables in the environment
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.DefaultPath
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Setup(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth")
	}

	engine, err := ocr.NewEngine(cfg.OCR)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize OCR engine")
	}

	var sink audit.Sink = audit.Nop{}
	if fileSink, err := audit.NewFileSink(cfg.Audit); err != nil {
		log.Warn().Err(err).Msg("audit sink unavailable, continuing without audit trail")
	} else {
		sink = fileSink
	}

	archive, err := storage.NewArchive(cfg.Archive)
	if err != nil {
		log.Warn().Err(err).Msg("document archive unavailable, continuing without archiving")
		archive = nil
	}

	provider := docuware.NewProvider(cfg.DocRepo)
	analyzer := detect.NewAnalyzer(patterns.NewRegistry())
	orchestrator := bulk.NewOrchestrator(provider, engine, analyzer, sink, archive)

	handler := api.NewHandler(cfg, tokens, provider, engine, analyzer, orchestrator, archive)
	router := handler.SetupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	log.Info().
		Str("addr", addr).
		Str("ocr_engine", cfg.OCR.Engine).
		Str("cabinet", cfg.DocRepo.CabinetID).
		Bool("archive", archive != nil).
		Msg("starting document indexing service")

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
