package translator

import (
	"fmt"
)

// Providers lists the accepted values of ServiceConfig.Provider.
var Providers = []string{"openai", "openrouter", "ollama", "google"}

// NewService builds the backend named by cfg.Provider.
func NewService(cfg ServiceConfig) (TranslationService, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	switch provider {
	case "google":
		return NewGoogleService(cfg), nil
	case "openai", "openrouter", "ollama":
		return NewOpenAIService(provider, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q (want one of %v)", ErrConfig, provider, Providers)
	}
}
