package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/i18nsync/internal/glossary"
	"github.com/valpere/i18nsync/internal/orchestrator"
	"github.com/valpere/i18nsync/internal/planner"
	"github.com/valpere/i18nsync/internal/reconcile"
	"github.com/valpere/i18nsync/internal/syncer"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "i18nsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_I18N_MODEL", "")
	path := writeConfig(t, "dir: i18n\n")

	c, err := loadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "i18n", c.Dir)
	assert.Equal(t, "zh", c.Primary.Source)
	assert.Equal(t, "zh-Hans", c.Primary.SourceLang)
	assert.Equal(t, "zh-Hant", c.Primary.Target)
	assert.Equal(t, "en", c.Secondary.Source)
	assert.Equal(t, "openai", c.Service.Provider)
	assert.Equal(t, "gpt-4.1-mini", c.Service.Model)
	assert.Equal(t, 2*time.Minute, c.Service.Timeout)
	assert.Equal(t, 3, c.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, c.Retry.MinBackoff)
	assert.Equal(t, []string{"lang.", "lang_"}, c.ForceCopy.LabelPrefixes)
	assert.Equal(t, 6000, c.Batch.MaxChars)
	assert.True(t, c.History)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
dir: web/i18n
secondary:
  source: en
  targets: [fr, de]
service:
  provider: openrouter
  timeout: 30s
glossary:
  - term: WealthX
  - term: Flow
    translation: Flux
force_copy:
  keys: [footer.copyright]
retry:
  max_attempts: 5
  min_backoff: 500ms
`)

	c, err := loadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "web/i18n", c.Dir)
	assert.Equal(t, []string{"fr", "de"}, c.Secondary.Targets)
	assert.Equal(t, "openrouter", c.Service.Provider)
	assert.Equal(t, 30*time.Second, c.Service.Timeout)
	assert.Equal(t, []string{"footer.copyright"}, c.ForceCopy.Keys)
	assert.Equal(t, 5, c.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, c.Retry.MinBackoff)
	assert.Equal(t, glossary.Glossary{"WealthX": "WealthX", "Flow": "Flux"}, c.GlossaryMap())
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("I18NSYNC_DIR", "locales")
	t.Setenv("I18NSYNC_SERVICE_PROVIDER", "ollama")

	c, err := loadConfig(viper.New(), writeConfig(t, "dir: i18n\n"))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", c.Service.APIKey)
	assert.Equal(t, "locales", c.Dir)
	assert.Equal(t, "ollama", c.Service.Provider)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestPrintReport(t *testing.T) {
	report := &orchestrator.Report{
		RunID: "run-1",
		Results: []syncer.Result{{
			Job:     syncer.Job{Locale: "fr", SourceLocale: "en"},
			Plan:    planner.Plan{Translate: map[string]string{"a": "A"}},
			Outcome: reconcile.Outcome{Locale: "fr", Translated: 1, Seeded: 2, Written: true},
		}},
		Failures: map[string]error{"de": errors.New("boom")},
	}

	var buf bytes.Buffer
	printReport(&buf, report, false)
	out := buf.String()

	assert.Contains(t, out, "LOCALE")
	assert.Contains(t, out, "fr")
	assert.Contains(t, out, "de")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "Run run-1: 1 written, 1 failed")
}

func TestPrintPlan(t *testing.T) {
	report := &orchestrator.Report{
		Results: []syncer.Result{{
			Job:     syncer.Job{Locale: "fr", SourceLocale: "en"},
			Plan:    planner.Plan{Translate: map[string]string{"b": "B", "a": "A"}, Seed: []string{"c"}},
			Deleted: []string{"old"},
		}},
		Skipped: []string{"backup"},
	}

	var buf bytes.Buffer
	printPlan(&buf, report, true)
	out := buf.String()

	assert.Contains(t, out, "translate: a, b")
	assert.Contains(t, out, "seed:     c")
	assert.Contains(t, out, "delete:   old")
	assert.Contains(t, out, "Skipped (not a locale name): [backup]")
}

func TestPrintPlan_FailuresSorted(t *testing.T) {
	report := &orchestrator.Report{
		Failures: map[string]error{
			"pl": errors.New("boom"),
			"de": errors.New("boom"),
			"ja": errors.New("boom"),
			"es": errors.New("boom"),
		},
	}

	for i := 0; i < 5; i++ {
		var buf bytes.Buffer
		printPlan(&buf, report, false)
		assert.Contains(t, buf.String(), "de: boom\nes: boom\nja: boom\npl: boom\n")
	}
}
