package models

// Config represents the service configuration, loaded from config.yaml
// with environment overrides applied by the composition root.
type Config struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	Auth    AuthConfig    `yaml:"auth"`
	DocRepo DocRepoConfig `yaml:"document_repository"`
	OCR     OCRConfig     `yaml:"ocr"`
	Audit   AuditConfig   `yaml:"audit"`
	Archive ArchiveConfig `yaml:"archive"`
	Log     LogConfig     `yaml:"log"`
}

// AuthConfig holds the API credential and JWT signing secret.
type AuthConfig struct {
	JWTSecret   string `yaml:"jwt_secret"`
	APIUser     string `yaml:"api_user"`
	APIPassword string `yaml:"api_password"`
}

// DocRepoConfig points at the external document repository.
type DocRepoConfig struct {
	BaseURL        string `yaml:"base_url"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	Organization   string `yaml:"organization"`
	CabinetID      string `yaml:"cabinet_id"` // default cabinet when the request omits one
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// OCRConfig selects and configures the OCR engine.
type OCRConfig struct {
	Engine   string       `yaml:"engine"`   // "openai" or "gemini"
	Language string       `yaml:"language"` // default "es"
	OpenAI   OpenAIConfig `yaml:"openai"`
	Gemini   GeminiConfig `yaml:"gemini"`
}

// OpenAIConfig for OpenAI-compatible vision endpoints.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"` // default "gpt-4o-mini"
}

// GeminiConfig for Google Gemini vision.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // default "gemini-1.5-flash"
}

// AuditConfig controls the flat-file audit sink.
type AuditConfig struct {
	Dir          string `yaml:"dir"`            // default "audit"
	MaxSizeBytes int64  `yaml:"max_size_bytes"` // rotate above this, default 5MB
	MaxAgeDays   int    `yaml:"max_age_days"`   // delete rotated files older than this, default 30
}

// ArchiveConfig configures the optional MinIO copy of fetched documents.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace..panic, default "info"
	Format string `yaml:"format"` // "json" or "console"
	Output string `yaml:"output"` // "stdout", "stderr" or a file path
}
