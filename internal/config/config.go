// Package config loads the service configuration from YAML and applies
// environment variable overrides. Secrets are expected from the
// environment in real deployments; the YAML values are fallbacks.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "config.yaml"

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*models.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config models.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&config)
	applyDefaults(&config)
	return &config, nil
}

func applyEnvOverrides(config *models.Config) {
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &config.Port)
	}
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if user := os.Getenv("API_USER"); user != "" {
		config.Auth.APIUser = user
	}
	if pass := os.Getenv("API_PASSWORD"); pass != "" {
		config.Auth.APIPassword = pass
	}
	if baseURL := os.Getenv("DOCREPO_BASE_URL"); baseURL != "" {
		config.DocRepo.BaseURL = baseURL
	}
	if username := os.Getenv("DOCREPO_USERNAME"); username != "" {
		config.DocRepo.Username = username
	}
	if password := os.Getenv("DOCREPO_PASSWORD"); password != "" {
		config.DocRepo.Password = password
	}
	if cabinet := os.Getenv("DOCREPO_CABINET_ID"); cabinet != "" {
		config.DocRepo.CabinetID = cabinet
	}
	if engine := os.Getenv("OCR_ENGINE"); engine != "" {
		config.OCR.Engine = engine
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.OCR.OpenAI.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.OCR.OpenAI.BaseURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.OCR.OpenAI.Model = model
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.OCR.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.OCR.Gemini.Model = model
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}
}

func applyDefaults(config *models.Config) {
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.OCR.Language == "" {
		config.OCR.Language = "es"
	}
}
