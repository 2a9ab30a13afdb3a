/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/i18nsync/internal/chunker"
	"github.com/valpere/i18nsync/internal/classify"
	"github.com/valpere/i18nsync/internal/glossary"
	"github.com/valpere/i18nsync/internal/orchestrator"
	"github.com/valpere/i18nsync/internal/translator"
)

// GlossaryTerm is one configured term. Terms are a list rather than a map
// because viper lowercases map keys.
type GlossaryTerm struct {
	Term        string `mapstructure:"term"`
	Translation string `mapstructure:"translation"`
}

type BreakerConfig struct {
	MaxFailures uint32 `mapstructure:"max_failures"`
}

type BatchConfig struct {
	MaxChars int `mapstructure:"max_chars"`
}

// Config is the fully resolved configuration of a run.
type Config struct {
	Dir           string                   `mapstructure:"dir"`
	GeneratedBy   string                   `mapstructure:"generated_by"`
	Primary       orchestrator.Track       `mapstructure:"primary"`
	Secondary     orchestrator.Track       `mapstructure:"secondary"`
	Service       translator.ServiceConfig `mapstructure:"service"`
	Glossary      []GlossaryTerm           `mapstructure:"glossary"`
	ForceCopy     classify.Rules           `mapstructure:"force_copy"`
	Retry         translator.RetryPolicy   `mapstructure:"retry"`
	Breaker       BreakerConfig            `mapstructure:"breaker"`
	Batch         BatchConfig              `mapstructure:"batch"`
	CheckLanguage bool                     `mapstructure:"check_language"`
	DB            string                   `mapstructure:"db"`
	History       bool                     `mapstructure:"history"`
}

// GlossaryMap returns the configured terms; an empty translation keeps the
// term unchanged.
func (c *Config) GlossaryMap() glossary.Glossary {
	g := make(glossary.Glossary, len(c.Glossary))
	for _, t := range c.Glossary {
		if t.Term == "" {
			continue
		}
		if t.Translation == "" {
			g[t.Term] = t.Term
		} else {
			g[t.Term] = t.Translation
		}
	}
	return g
}

// Orchestration returns the two tracks.
func (c *Config) Orchestration() orchestrator.Config {
	return orchestrator.Config{Primary: c.Primary, Secondary: c.Secondary}
}

func setDefaults(v *viper.Viper) {
	defaults := orchestrator.DefaultConfig()
	retry := translator.DefaultRetryPolicy()

	v.SetDefault("dir", "i18n")
	v.SetDefault("generated_by", "i18nsync")
	v.SetDefault("primary.source", defaults.Primary.Source)
	v.SetDefault("primary.source_lang", defaults.Primary.SourceLang)
	v.SetDefault("primary.target", defaults.Primary.Target)
	v.SetDefault("primary.targets", []string{})
	v.SetDefault("secondary.source", defaults.Secondary.Source)
	v.SetDefault("secondary.source_lang", defaults.Secondary.SourceLang)
	v.SetDefault("secondary.target", "")
	v.SetDefault("secondary.targets", []string{})
	v.SetDefault("service.provider", "openai")
	v.SetDefault("service.api_key", "")
	v.SetDefault("service.model", translator.DefaultOpenAIModel)
	v.SetDefault("service.base_url", "")
	v.SetDefault("service.timeout", 2*time.Minute)
	v.SetDefault("service.credentials", "")
	v.SetDefault("service.project_id", "")
	v.SetDefault("glossary", []map[string]string{})
	v.SetDefault("force_copy.keys", []string{})
	v.SetDefault("force_copy.label_prefixes", classify.DefaultLabelPrefixes)
	v.SetDefault("retry.max_attempts", retry.MaxAttempts)
	v.SetDefault("retry.min_backoff", retry.MinBackoff)
	v.SetDefault("retry.max_backoff", retry.MaxBackoff)
	v.SetDefault("retry.factor", retry.Factor)
	v.SetDefault("breaker.max_failures", 5)
	v.SetDefault("batch.max_chars", chunker.DefaultMaxChars)
	v.SetDefault("check_language", false)
	v.SetDefault("db", "./data/i18nsync.db")
	v.SetDefault("history", true)
}

// loadConfig resolves flags, I18NSYNC_* environment variables, the config
// file and defaults, in that order of precedence.
func loadConfig(v *viper.Viper, file string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("I18NSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("service.api_key", "I18NSYNC_SERVICE_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("service.model", "I18NSYNC_SERVICE_MODEL", "OPENAI_I18N_MODEL")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".i18nsync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if c.Dir == "" {
		return nil, fmt.Errorf("dir must not be empty")
	}
	if c.Secondary.Source == "" && c.Primary.Source == "" {
		return nil, fmt.Errorf("at least one of primary.source and secondary.source is required")
	}
	return &c, nil
}
