// Package bulk drives the batch indexing pipeline: resolve recent
// documents, OCR each one, detect fiscal fields and write them back to the
// repository. Documents are isolated from each other; one bad document
// never aborts the batch.
package bulk

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/audit"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/detect"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/docuware"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/logger"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/ocr"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/storage"
)

// ClientSource yields the shared repository client. *docuware.Provider
// satisfies it; a construction failure surfaces as a resolution failure.
type ClientSource interface {
	Client() (docuware.Client, error)
}

// Archiver stores a best-effort copy of fetched document content.
// *storage.Archive satisfies it; nil means archiving is off.
type Archiver interface {
	StoreDocument(ctx context.Context, cabinetID, documentID string, content []byte, contentType string) (string, error)
}

// Orchestrator runs bulk indexing batches. Safe for concurrent use; each
// Run owns its own BatchResult.
type Orchestrator struct {
	source   ClientSource
	engine   ocr.Engine
	analyzer *detect.Analyzer
	sink     audit.Sink
	archive  Archiver
	log      zerolog.Logger
	now      func() time.Time
}

// NewOrchestrator wires the batch pipeline. archive may be nil.
func NewOrchestrator(source ClientSource, engine ocr.Engine, analyzer *detect.Analyzer, sink audit.Sink, archive *storage.Archive) *Orchestrator {
	o := &Orchestrator{
		source:   source,
		engine:   engine,
		analyzer: analyzer,
		sink:     sink,
		log:      logger.WithComponent("bulk"),
		now:      time.Now,
	}
	if sink == nil {
		o.sink = audit.Nop{}
	}
	if archive != nil {
		o.archive = archive
	}
	return o
}

// Run executes one bulk batch. Only request validation and document
// resolution can fail the batch as a whole; every later failure is
// recorded against its document and processing continues.
func (o *Orchestrator) Run(ctx context.Context, req *models.BulkUpdateRequest) (*models.BatchResult, error) {
	if req.DocumentCount < 1 || req.DocumentCount > models.MaxBulkDocuments {
		return nil, fmt.Errorf("%w: documentCount must be between 1 and %d, got %d",
			models.ErrValidation, models.MaxBulkDocuments, req.DocumentCount)
	}

	batchID := uuid.New().String()
	dryRun := req.IsDryRun()
	onlyEmpty := req.IsOnlyEmpty()
	start := o.now()

	log := o.log.With().Str("batch_id", batchID).Bool("dry_run", dryRun).Logger()
	log.Info().Int("document_count", req.DocumentCount).Str("cabinet", req.CabinetID).
		Msg("starting bulk run")

	repo, err := o.source.Client()
	if err != nil {
		log.Error().Err(err).Msg("repository client unavailable")
		return nil, fmt.Errorf("%w: %v", models.ErrResolution, err)
	}

	ids, err := repo.ListRecentDocumentIDs(ctx, req.CabinetID, req.DocumentCount)
	if err != nil {
		log.Error().Err(err).Msg("document resolution failed")
		return nil, fmt.Errorf("%w: %v", models.ErrResolution, err)
	}

	result := &models.BatchResult{
		BatchID:   batchID,
		DryRun:    dryRun,
		Details:   make([]models.DocumentOutcome, 0, len(ids)),
		StartTime: start,
	}

	var totalOcrMs, totalUpdateMs int64
	var ocrCalls, updateCalls int

	for _, id := range ids {
		outcome := o.processDocument(ctx, log, repo, req, id, dryRun, onlyEmpty,
			&totalOcrMs, &ocrCalls, &totalUpdateMs, &updateCalls)

		result.Details = append(result.Details, outcome)
		result.TotalProcessed++
		switch outcome.Status {
		case models.StatusUpdated:
			result.Updated++
		case models.StatusFailed:
			result.Failed++
			for _, e := range outcome.Errors {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", id, e))
			}
		case models.StatusSkipped:
			result.Skipped++
		case models.StatusNoChanges:
			result.NoChanges++
		}

		o.sink.Record("document", map[string]interface{}{
			"batch_id":    batchID,
			"document_id": id,
			"status":      outcome.Status,
			"stage":       outcome.Stage,
			"confidence":  outcome.Confidence,
			"duration_ms": outcome.ProcessingTimeMs,
			"dry_run":     dryRun,
		})
	}

	result.EndTime = o.now()
	elapsed := result.EndTime.Sub(result.StartTime)
	if ocrCalls > 0 {
		result.Performance.AvgOcrMs = float64(totalOcrMs) / float64(ocrCalls)
	}
	if updateCalls > 0 {
		result.Performance.AvgUpdateMs = float64(totalUpdateMs) / float64(updateCalls)
	}
	if elapsed > 0 && result.TotalProcessed > 0 {
		result.Performance.DocsPerSecond = float64(result.TotalProcessed) / elapsed.Seconds()
	}

	// Success reflects id-list resolution only; individual document
	// failures are reported through Failed and Errors.
	result.Success = true
	result.Message = fmt.Sprintf("procesados %d documentos: %d actualizados, %d fallidos, %d omitidos, %d sin cambios",
		result.TotalProcessed, result.Updated, result.Failed, result.Skipped, result.NoChanges)

	o.sink.Record("batch", map[string]interface{}{
		"batch_id":  batchID,
		"processed": result.TotalProcessed,
		"updated":   result.Updated,
		"failed":    result.Failed,
		"dry_run":   dryRun,
	})
	log.Info().Int("processed", result.TotalProcessed).Int("updated", result.Updated).
		Int("failed", result.Failed).Dur("elapsed", elapsed).Msg("bulk run finished")

	return result, nil
}

func (o *Orchestrator) processDocument(ctx context.Context, log zerolog.Logger, repo docuware.Client,
	req *models.BulkUpdateRequest, documentID string, dryRun, onlyEmpty bool,
	totalOcrMs *int64, ocrCalls *int, totalUpdateMs *int64, updateCalls *int) (outcome models.DocumentOutcome) {

	outcome = models.DocumentOutcome{
		DocumentID: documentID,
		Stage:      models.StagePending,
	}
	docStart := o.now()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("document_id", documentID).
				Msg("panic while processing document")
			outcome.Status = models.StatusFailed
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("panic: %v", r))
		}
		outcome.ProcessingTimeMs = o.now().Sub(docStart).Milliseconds()
	}()

	content, contentType, err := repo.GetDocumentContent(ctx, documentID)
	if err != nil {
		log.Warn().Err(err).Str("document_id", documentID).Msg("content fetch failed")
		outcome.Status = models.StatusFailed
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("content fetch failed: %v", err))
		return outcome
	}

	if o.archive != nil {
		if _, err := o.archive.StoreDocument(ctx, req.CabinetID, documentID, content, contentType); err != nil {
			// Archiving is best effort.
			log.Warn().Err(err).Str("document_id", documentID).Msg("archive failed")
		}
	}

	ocrStart := o.now()
	raw, err := o.engine.ExtractText(ctx, content, contentType, req.Language)
	if err != nil {
		log.Warn().Err(err).Str("document_id", documentID).Msg("ocr failed")
		outcome.Status = models.StatusFailed
		outcome.Stage = models.StageOcrFailed
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("ocr failed: %v", err))
		return outcome
	}
	*totalOcrMs += o.now().Sub(ocrStart).Milliseconds()
	*ocrCalls++

	if strings.TrimSpace(raw.Text) == "" {
		log.Warn().Str("document_id", documentID).Msg("ocr produced empty text")
		outcome.Status = models.StatusFailed
		outcome.Stage = models.StageOcrFailed
		outcome.Errors = append(outcome.Errors, models.ErrExtraction.Error())
		return outcome
	}

	facts := o.analyzer.AnalyzeBulk(raw.Text)
	outcome.Confidence = facts.Confianza
	outcome.Warnings = facts.Warnings
	outcome.DetectedFields = facts.IndexFields()

	if len(outcome.DetectedFields) == 0 {
		outcome.Status = models.StatusNoChanges
		outcome.Stage = models.StageExtractionIncomplete
		return outcome
	}
	outcome.Stage = models.StageFieldsReady

	toApply := outcome.DetectedFields
	if onlyEmpty {
		current, err := repo.GetIndexFields(ctx, documentID)
		if err != nil {
			log.Warn().Err(err).Str("document_id", documentID).Msg("index field read failed")
			outcome.Status = models.StatusFailed
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("index field read failed: %v", err))
			return outcome
		}
		toApply = make(map[string]string, len(outcome.DetectedFields))
		for name, value := range outcome.DetectedFields {
			if current[name] == "" {
				toApply[name] = value
			}
		}
		if len(toApply) == 0 {
			// Everything detected is already populated on the document.
			outcome.Status = models.StatusSkipped
			return outcome
		}
	}
	outcome.AppliedFields = toApply

	if dryRun {
		outcome.Status = models.StatusUpdated
		return outcome
	}

	updateStart := o.now()
	if err := repo.WriteIndexFields(ctx, documentID, toApply); err != nil {
		log.Warn().Err(err).Str("document_id", documentID).Msg("index field write failed")
		outcome.Status = models.StatusFailed
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("index field write failed: %v", err))
		return outcome
	}
	*totalUpdateMs += o.now().Sub(updateStart).Milliseconds()
	*updateCalls++

	outcome.Status = models.StatusUpdated
	return outcome
}
