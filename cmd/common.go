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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/valpere/i18nsync/internal/classify"
	"github.com/valpere/i18nsync/internal/document"
	"github.com/valpere/i18nsync/internal/orchestrator"
	"github.com/valpere/i18nsync/internal/store"
	"github.com/valpere/i18nsync/internal/syncer"
	"github.com/valpere/i18nsync/internal/translator"
	"github.com/valpere/i18nsync/internal/validator"
)

// openDB opens the journal and glossary database, creating its directory.
func openDB(path string) (*store.Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// buildExecutor constructs the translation executor. It fails on a missing
// API key or unknown provider so no document is touched.
func buildExecutor(ctx context.Context, c *Config, log *zap.Logger) (*translator.Executor, error) {
	svc, err := translator.NewService(c.Service)
	if err != nil {
		return nil, err
	}
	if err := svc.IsAvailable(ctx); err != nil {
		return nil, err
	}

	opts := []translator.Option{
		translator.WithRetryPolicy(c.Retry),
		translator.WithMaxChars(c.Batch.MaxChars),
		translator.WithBreaker(translator.NewBreaker(svc.Name(), c.Breaker.MaxFailures, log)),
		translator.WithLogger(log),
	}
	if c.CheckLanguage {
		opts = append(opts, translator.WithLanguageCheck(validator.New()))
	}
	return translator.NewExecutor(svc, opts...), nil
}

// pipeline bundles what a sync or plan run needs.
type pipeline struct {
	orchestrator *orchestrator.Orchestrator
	db           *store.Store
}

func (p *pipeline) Close() {
	if p.db != nil {
		p.db.Close()
	}
}

// buildPipeline wires storage, translation, journal and glossary. With
// dryRun no translation service is built and nothing is journaled.
func buildPipeline(ctx context.Context, c *Config, dryRun, history bool, log *zap.Logger) (*pipeline, error) {
	docs := document.NewStore(afero.NewOsFs(), c.Dir)
	p := &pipeline{}

	var tr syncer.Translator
	service := ""
	if !dryRun {
		exec, err := buildExecutor(ctx, c, log)
		if err != nil {
			return nil, err
		}
		tr = exec
		service = exec.ServiceName()
	}

	syncOpts := []syncer.Option{
		syncer.WithClassifier(classify.New(c.ForceCopy)),
		syncer.WithGlossary(c.GlossaryMap()),
		syncer.WithGeneratedBy(c.GeneratedBy),
		syncer.WithDryRun(dryRun),
		syncer.WithLogger(log),
	}
	orchOpts := []orchestrator.Option{orchestrator.WithLogger(log)}

	// A dry run only reads managed glossary terms and must not create the
	// database.
	journal := history && !dryRun
	if c.DB != "" && (!dryRun || fileExists(c.DB)) {
		db, err := openDB(c.DB)
		switch {
		case err != nil && journal:
			return nil, err
		case err != nil:
			log.Warn("glossary database unavailable", zap.Error(err))
		default:
			p.db = db
			syncOpts = append(syncOpts, syncer.WithGlossarySource(db))
			if journal {
				orchOpts = append(orchOpts, orchestrator.WithJournal(db, service))
			}
		}
	}

	s := syncer.New(docs, tr, syncOpts...)
	p.orchestrator = orchestrator.New(c.Orchestration(), docs, s, orchOpts...)
	return p, nil
}
