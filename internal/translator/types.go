package translator

import (
	"context"
	"time"

	"github.com/valpere/i18nsync/internal/glossary"
)

// ServiceConfig selects and configures the translation backend.
type ServiceConfig struct {
	Provider    string        `mapstructure:"provider" json:"provider"`
	Credentials string        `mapstructure:"credentials" json:"credentials"`
	APIKey      string        `mapstructure:"api_key" json:"api_key"`
	Model       string        `mapstructure:"model" json:"model"`
	BaseURL     string        `mapstructure:"base_url" json:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
	ProjectID   string        `mapstructure:"project_id" json:"project_id"`
}

// Request is one destination's worth of translation work.
type Request struct {
	SourceLang string
	TargetLang string
	Items      map[string]string
	Glossary   glossary.Glossary
}

// Payload is the document sent to a service for one batch. Items carry
// masked values; the service must answer with exactly the same keys.
type Payload struct {
	Task           string            `json:"task"`
	SourceLanguage string            `json:"source_language"`
	TargetLanguage string            `json:"target_language"`
	Glossary       map[string]string `json:"glossary"`
	Items          map[string]string `json:"items"`
	Rules          []string          `json:"rules"`
	OutputFormat   string            `json:"output_format"`
}

// TranslationService translates one batch. Implementations return the raw
// mapping they received; shape checks happen in the Executor.
type TranslationService interface {
	Name() string
	Translate(ctx context.Context, p Payload) (map[string]string, error)
	IsAvailable(ctx context.Context) error
}
