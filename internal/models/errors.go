package models

import "errors"

// Error taxonomy for the detection/bulk pipeline. Only ErrResolution is
// fatal to a whole batch; everything else stays inside the affected
// document's outcome.
var (
	// ErrResolution: the document id list could not be obtained.
	ErrResolution = errors.New("document id resolution failed")

	// ErrExtraction: OCR produced no usable text for a document.
	ErrExtraction = errors.New("ocr returned no usable text")

	// ErrValidation: the bulk request failed shape or range checks.
	ErrValidation = errors.New("request validation failed")
)
