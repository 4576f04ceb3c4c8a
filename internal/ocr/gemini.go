package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
)

const geminiTranscriptionConfidence = 0.88

// GeminiEngine transcribes document images through Google Gemini vision.
type GeminiEngine struct {
	apiKey string
	model  string
}

// NewGeminiEngine creates the engine; model defaults to gemini-1.5-flash.
func NewGeminiEngine(cfg models.GeminiConfig) *GeminiEngine {
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiEngine{apiKey: cfg.APIKey, model: model}
}

// ExtractText implements Engine. Only the first page of multi-page content
// reaches the model.
func (e *GeminiEngine) ExtractText(ctx context.Context, content []byte, contentType, language string) (*models.RawDocumentText, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(e.apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client creation failed: %w", err)
	}
	defer client.Close()

	format := "jpeg"
	if idx := strings.Index(contentType, "/"); idx >= 0 {
		format = contentType[idx+1:]
	}

	model := client.GenerativeModel(e.model)
	resp, err := model.GenerateContent(ctx,
		genai.Text(transcriptionPrompt),
		genai.ImageData(format, content),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini transcription failed: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}

	text := strings.TrimSpace(sb.String())
	confidence := 0.0
	if text != "" {
		confidence = geminiTranscriptionConfidence
	}
	return &models.RawDocumentText{
		Text:       text,
		Confidence: confidence,
		Language:   language,
		PageCount:  1,
	}, nil
}
