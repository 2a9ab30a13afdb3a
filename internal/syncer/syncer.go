// Package syncer runs one synchronization pass for a single destination
// document: classify, prune, plan, translate, reconcile.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/i18nsync/internal/classify"
	"github.com/valpere/i18nsync/internal/document"
	"github.com/valpere/i18nsync/internal/glossary"
	"github.com/valpere/i18nsync/internal/planner"
	"github.com/valpere/i18nsync/internal/reconcile"
	"github.com/valpere/i18nsync/internal/translator"
)

// ErrNoTranslator is returned when a plan needs translation but the Syncer
// was built without a Translator.
var ErrNoTranslator = errors.New("no translation service configured")

// Translator is satisfied by *translator.Executor.
type Translator interface {
	Translate(ctx context.Context, req translator.Request) (map[string]string, error)
}

// GlossarySource supplies managed terms for a language pair; *store.Store
// satisfies it.
type GlossarySource interface {
	GetGlossaryTerms(ctx context.Context, sourceLang, targetLang string) (map[string]string, error)
}

// Job names one destination and the authoritative document feeding it.
type Job struct {
	Locale       string
	TargetLang   string
	SourceLocale string
	SourceLang   string
	Source       *document.Document
}

// Result reports what a pass did, or in dry-run mode would do.
type Result struct {
	Job     Job
	Plan    planner.Plan
	Forced  int
	Deleted []string
	Outcome reconcile.Outcome
}

type Syncer struct {
	store       *document.Store
	translator  Translator
	classifier  *classify.Classifier
	glossary    glossary.Glossary
	terms       GlossarySource
	generatedBy string
	dryRun      bool
	now         func() time.Time
	logger      *zap.Logger
}

type Option func(*Syncer)

func WithClassifier(c *classify.Classifier) Option {
	return func(s *Syncer) { s.classifier = c }
}

func WithGlossary(g glossary.Glossary) Option {
	return func(s *Syncer) { s.glossary = g }
}

// WithGlossarySource merges per-pair managed terms over the configured
// glossary for every job.
func WithGlossarySource(src GlossarySource) Option {
	return func(s *Syncer) { s.terms = src }
}

func WithGeneratedBy(name string) Option {
	return func(s *Syncer) { s.generatedBy = name }
}

// WithDryRun plans and reports without translating or writing.
func WithDryRun(dryRun bool) Option {
	return func(s *Syncer) { s.dryRun = dryRun }
}

func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Syncer) { s.logger = l }
}

// New builds a Syncer. t may be nil for dry runs.
func New(store *document.Store, t Translator, opts ...Option) *Syncer {
	s := &Syncer{
		store:       store,
		translator:  t,
		classifier:  classify.New(classify.Rules{}),
		generatedBy: "i18nsync",
		now:         time.Now,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Syncer) DryRun() bool {
	return s.dryRun
}

// Sync brings job.Locale up to date with job.Source. On a translation
// failure the destination is left untouched.
func (s *Syncer) Sync(ctx context.Context, job Job) (Result, error) {
	if job.TargetLang == "" {
		job.TargetLang = job.Locale
	}
	res := Result{Job: job}
	log := s.logger.With(zap.String("locale", job.Locale), zap.String("source", job.SourceLocale))

	dst, err := s.store.Load(job.Locale)
	if err != nil {
		return res, err
	}

	source := job.Source.Strings()
	forced, translatable := s.classifier.Split(source)

	removed, pruned := planner.SyncDeletions(source, dst)
	res.Deleted = removed
	if len(removed) > 0 {
		log.Info("removed keys no longer in source", zap.Strings("keys", removed))
	}

	plan := planner.BuildPlan(translatable, dst.Entries, dst.Meta.SourceHashes)
	res.Plan = plan

	var translated map[string]string
	switch {
	case len(plan.Translate) == 0:
		log.Debug("nothing to translate")
	case s.dryRun:
		log.Info("would translate", zap.Int("keys", len(plan.Translate)))
	case s.translator == nil:
		return res, ErrNoTranslator
	default:
		g, err := s.glossaryFor(ctx, job)
		if err != nil {
			return res, err
		}
		log.Info("translating", zap.Int("keys", len(plan.Translate)), zap.String("target_lang", job.TargetLang))
		translated, err = s.translator.Translate(ctx, translator.Request{
			SourceLang: job.SourceLang,
			TargetLang: job.TargetLang,
			Items:      plan.Translate,
			Glossary:   g,
		})
		if err != nil {
			return res, fmt.Errorf("failed to translate %s: %w", job.Locale, err)
		}
	}

	writer := reconcile.NewWriter(s.store, reconcile.WithClock(s.now), reconcile.WithDryRun(s.dryRun))
	out, err := writer.Reconcile(job.Locale, dst, reconcile.Input{
		Source:     source,
		Forced:     forced,
		Plan:       plan,
		Translated: translated,
		Deleted:    removed,
		Pruned:     pruned,
		Provenance: reconcile.Provenance{
			GeneratedBy: s.generatedBy,
			SourceLang:  job.SourceLang,
			TargetLang:  job.TargetLang,
		},
	})
	if s.dryRun {
		out.Translated = len(plan.Translate)
		if out.Translated > 0 {
			out.Changed = true
		}
	}
	res.Outcome = out
	res.Forced = out.ForceCopied
	if err != nil {
		return res, err
	}

	if out.Written {
		log.Info("document updated",
			zap.Int("translated", out.Translated),
			zap.Int("seeded", out.Seeded),
			zap.Int("force_copied", out.ForceCopied),
			zap.Int("deleted", out.Deleted))
	} else if !s.dryRun {
		log.Debug("document unchanged")
	}
	return res, nil
}

func (s *Syncer) glossaryFor(ctx context.Context, job Job) (glossary.Glossary, error) {
	if s.terms == nil {
		return s.glossary, nil
	}
	terms, err := s.terms.GetGlossaryTerms(ctx, job.SourceLang, job.TargetLang)
	if err != nil {
		return nil, fmt.Errorf("failed to load glossary for %s: %w", job.Locale, err)
	}
	return s.glossary.Merge(glossary.Glossary(terms)), nil
}
