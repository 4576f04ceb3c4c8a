// Package ocr turns stored document bytes into plain text. Engines are
// external collaborators; the detection core never sees anything but the
// resulting RawDocumentText.
package ocr

import (
	"context"
	"fmt"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
)

// Engine extracts text from document content. Implementations process only
// the first page of multi-page content: the fiscal type marker always
// appears on page one, and skipping the rest keeps bulk runs fast against
// rate-limited providers.
type Engine interface {
	ExtractText(ctx context.Context, content []byte, contentType, language string) (*models.RawDocumentText, error)
}

// transcriptionPrompt asks the vision model for a literal transcription,
// not an interpretation. Field detection happens locally afterwards.
const transcriptionPrompt = `Transcribe TODO el texto visible en la primera página de este documento, ` +
	`carácter por carácter, en el orden de lectura. No interpretes ni resumas: ` +
	`devuelve únicamente el texto tal como aparece, incluyendo números, fechas, ` +
	`CUIT y códigos. Si una zona es ilegible, omítela.`

// NewEngine builds the configured OCR engine. Mirrors a provider switch:
// unknown engine names are an error, not a silent default.
func NewEngine(cfg models.OCRConfig) (Engine, error) {
	switch cfg.Engine {
	case "openai":
		return NewOpenAIEngine(cfg.OpenAI), nil
	case "gemini":
		return NewGeminiEngine(cfg.Gemini), nil
	default:
		return nil, fmt.Errorf("unsupported OCR engine: %q", cfg.Engine)
	}
}
