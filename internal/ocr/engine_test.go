package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
)

func TestNewEngine_KnownProviders(t *testing.T) {
	e, err := NewEngine(models.OCRConfig{Engine: "openai", OpenAI: models.OpenAIConfig{APIKey: "k"}})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIEngine{}, e)

	e, err = NewEngine(models.OCRConfig{Engine: "gemini", Gemini: models.GeminiConfig{APIKey: "k"}})
	require.NoError(t, err)
	assert.IsType(t, &GeminiEngine{}, e)
}

func TestNewEngine_UnknownProvider(t *testing.T) {
	_, err := NewEngine(models.OCRConfig{Engine: "tesseract"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported OCR engine")
}
