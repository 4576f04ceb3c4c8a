package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/audit"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/bulk"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/detect"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/docuware"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/ocr"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/patterns"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/storage"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Run a bulk index update over recent documents",
	Long: `Fetch the most recent documents from the configured cabinet, run OCR
and field detection over each one, and write the detected fiscal fields
back to the repository.

Runs in dry-run mode unless --apply is given.`,
	Example: `  # Preview what 50 documents would get
  indexctl bulk --count 50

  # Actually write detected fields, only into empty index fields
  indexctl bulk --count 50 --apply

  # Overwrite already-populated fields too
  indexctl bulk --count 10 --apply --overwrite`,
	RunE: runBulk,
}

func init() {
	rootCmd.AddCommand(bulkCmd)

	bulkCmd.Flags().Int("count", 10, "Number of recent documents to process (max 1000)")
	bulkCmd.Flags().Bool("apply", false, "Write detected fields instead of the default dry run")
	bulkCmd.Flags().Bool("overwrite", false, "Also overwrite index fields that already have a value")
	bulkCmd.Flags().String("cabinet", "", "Cabinet id (default: configured cabinet)")
	bulkCmd.Flags().Int("timeout", 3600, "Batch timeout in seconds")
}

func runBulk(cmd *cobra.Command, args []string) error {
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}

	count, _ := cmd.Flags().GetInt("count")
	apply, _ := cmd.Flags().GetBool("apply")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	cabinet, _ := cmd.Flags().GetString("cabinet")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if cabinet == "" {
		cabinet = cfg.DocRepo.CabinetID
	}

	engine, err := ocr.NewEngine(cfg.OCR)
	if err != nil {
		return err
	}

	var sink audit.Sink = audit.Nop{}
	if fileSink, err := audit.NewFileSink(cfg.Audit); err == nil {
		sink = fileSink
	}

	archive, err := storage.NewArchive(cfg.Archive)
	if err != nil {
		archive = nil
	}

	provider := docuware.NewProvider(cfg.DocRepo)
	analyzer := detect.NewAnalyzer(patterns.NewRegistry())
	orchestrator := bulk.NewOrchestrator(provider, engine, analyzer, sink, archive)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dryRun := !apply
	onlyEmpty := !overwrite
	req := &models.BulkUpdateRequest{
		DocumentCount:         count,
		DryRun:                &dryRun,
		OnlyUpdateEmptyFields: &onlyEmpty,
		CabinetID:             cabinet,
		Language:              cfg.OCR.Language,
	}

	result, err := orchestrator.Run(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(result)
}
