package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
)

// openaiTranscriptionConfidence is reported for non-empty transcriptions;
// vision endpoints do not expose a per-call confidence.
const openaiTranscriptionConfidence = 0.90

// OpenAIEngine transcribes document images through an OpenAI-compatible
// vision endpoint.
type OpenAIEngine struct {
	client *openai.Client
	model  string
}

// NewOpenAIEngine creates the engine. BaseURL may point at a compatible
// proxy; model defaults to gpt-4o-mini.
func NewOpenAIEngine(cfg models.OpenAIConfig) *OpenAIEngine {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIEngine{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// ExtractText implements Engine. Only the first page of multi-page content
// reaches the model.
func (e *OpenAIEngine) ExtractText(ctx context.Context, content []byte, contentType, language string) (*models.RawDocumentText, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(content))

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: transcriptionPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai transcription failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai transcription returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	confidence := 0.0
	if text != "" {
		confidence = openaiTranscriptionConfidence
	}
	return &models.RawDocumentText{
		Text:       text,
		Confidence: confidence,
		Language:   language,
		PageCount:  1,
	}, nil
}
