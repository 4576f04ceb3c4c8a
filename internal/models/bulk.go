package models

import "time"

// MaxBulkDocuments caps the number of documents one bulk run may touch.
// The pipeline is strictly sequential, so this bounds worst-case latency.
const MaxBulkDocuments = 1000

// BulkUpdateRequest is the input contract for a bulk indexing run.
type BulkUpdateRequest struct {
	DocumentCount         int    `json:"documentCount"`
	DryRun                *bool  `json:"dryRun,omitempty"`                // default true
	OnlyUpdateEmptyFields *bool  `json:"onlyUpdateEmptyFields,omitempty"` // default true
	CabinetID             string `json:"cabinetId"`
	Language              string `json:"language,omitempty"`
}

// IsDryRun resolves the dry-run flag with its safe default.
func (r *BulkUpdateRequest) IsDryRun() bool {
	return r.DryRun == nil || *r.DryRun
}

// IsOnlyEmpty resolves the only-update-empty-fields flag with its default.
func (r *BulkUpdateRequest) IsOnlyEmpty() bool {
	return r.OnlyUpdateEmptyFields == nil || *r.OnlyUpdateEmptyFields
}

// Per-document outcome statuses (terminal states of the document pipeline).
const (
	StatusUpdated   = "Updated"
	StatusFailed    = "Failed"
	StatusSkipped   = "Skipped"
	StatusNoChanges = "NoChanges"
)

// Intermediate per-document stages, recorded for diagnostics.
const (
	StagePending              = "Pending"
	StageOcrFailed            = "OcrFailed"
	StageExtractionIncomplete = "ExtractionIncomplete"
	StageFieldsReady          = "FieldsReady"
)

// DocumentOutcome records what happened to one document during a bulk run.
// Appended to BatchResult.Details in processing order.
type DocumentOutcome struct {
	DocumentID       string            `json:"documentId"`
	Status           string            `json:"status"`
	Stage            string            `json:"stage,omitempty"`
	DetectedFields   map[string]string `json:"detectedFields,omitempty"`
	AppliedFields    map[string]string `json:"appliedFields,omitempty"`
	Confidence       float64           `json:"confidence,omitempty"`
	Warnings         []string          `json:"warnings,omitempty"`
	Errors           []string          `json:"errors,omitempty"`
	ProcessingTimeMs int64             `json:"processingTimeMs"`
}

// BatchPerformance aggregates per-call latencies over one bulk run.
type BatchPerformance struct {
	AvgOcrMs      float64 `json:"avgOcrMs"`
	AvgUpdateMs   float64 `json:"avgUpdateMs"`
	DocsPerSecond float64 `json:"docsPerSecond"`
}

// BatchResult is the output of one bulk run. Owned by that run, returned
// to the caller and then discarded; nothing is persisted.
type BatchResult struct {
	BatchID        string            `json:"batchId"`
	Success        bool              `json:"success"`
	Message        string            `json:"message,omitempty"`
	DryRun         bool              `json:"dryRun"`
	TotalProcessed int               `json:"totalProcessed"`
	Updated        int               `json:"updated"`
	Failed         int               `json:"failed"`
	Skipped        int               `json:"skipped"`
	NoChanges      int               `json:"noChanges"`
	Details        []DocumentOutcome `json:"details"`
	Errors         []string          `json:"errors,omitempty"`
	StartTime      time.Time         `json:"startTime"`
	EndTime        time.Time         `json:"endTime"`
	Performance    BatchPerformance  `json:"performance"`
}
