package translator

import (
	"context"
	"fmt"
	"sort"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleService uses Cloud Translation v2. It translates the items as a
// batch of strings; glossary and rules are enforced after the call only.
type GoogleService struct {
	opts []option.ClientOption
}

func NewGoogleService(cfg ServiceConfig) *GoogleService {
	var opts []option.ClientOption
	if cfg.Credentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Credentials))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	return &GoogleService{opts: opts}
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) Translate(ctx context.Context, p Payload) (map[string]string, error) {
	targetTag, err := language.Parse(p.TargetLanguage)
	if err != nil {
		return nil, Permanent(fmt.Errorf("invalid target language: %w", err))
	}

	opts := &translate.Options{Format: translate.Text}
	if p.SourceLanguage != "" && p.SourceLanguage != "auto" {
		sourceTag, err := language.Parse(p.SourceLanguage)
		if err != nil {
			return nil, Permanent(fmt.Errorf("invalid source language: %w", err))
		}
		opts.Source = sourceTag
	}

	client, err := translate.NewClient(ctx, s.opts...)
	if err != nil {
		return nil, Permanent(fmt.Errorf("%w: failed to create client: %v", ErrConfig, err))
	}
	defer client.Close()

	keys := make([]string, 0, len(p.Items))
	for k := range p.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	inputs := make([]string, len(keys))
	for i, k := range keys {
		inputs[i] = p.Items[k]
	}

	translations, err := client.Translate(ctx, inputs, targetTag, opts)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) != len(keys) {
		return nil, malformed("got %d translations for %d items", len(translations), len(keys))
	}

	out := make(map[string]string, len(keys))
	for i, k := range keys {
		out[k] = translations[i].Text
	}
	return out, nil
}

func (s *GoogleService) IsAvailable(ctx context.Context) error {
	return nil
}
