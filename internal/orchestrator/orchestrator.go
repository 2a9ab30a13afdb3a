// Package orchestrator drives a full synchronization run: a primary source
// feeding one fixed destination and a secondary source feeding every other
// locale document in the directory.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/valpere/i18nsync/internal/document"
	"github.com/valpere/i18nsync/internal/store"
	"github.com/valpere/i18nsync/internal/syncer"
)

// ErrSourceMissing is returned before any document is touched when an
// authoritative document does not exist.
var ErrSourceMissing = errors.New("source document missing")

// Track pairs an authoritative document with its destinations. Target is
// used by the primary track; Targets, when set, replaces discovery for the
// secondary track.
type Track struct {
	Source     string   `mapstructure:"source"`
	SourceLang string   `mapstructure:"source_lang"`
	Target     string   `mapstructure:"target"`
	Targets    []string `mapstructure:"targets"`
}

type Config struct {
	Primary   Track `mapstructure:"primary"`
	Secondary Track `mapstructure:"secondary"`
}

func DefaultConfig() Config {
	return Config{
		Primary:   Track{Source: "zh", SourceLang: "zh-Hans", Target: "zh-Hant"},
		Secondary: Track{Source: "en", SourceLang: "en"},
	}
}

// Journal records runs; *store.Store satisfies it.
type Journal interface {
	StartRun(ctx context.Context, run store.Run) error
	RecordResult(ctx context.Context, r store.Result) error
	FinishRun(ctx context.Context, runID, status string, destinations, failures int, finishedAt time.Time) error
}

// Report is the outcome of one run.
type Report struct {
	RunID    string
	Results  []syncer.Result
	Failures map[string]error
	Skipped  []string
}

func (r *Report) Failed() int {
	return len(r.Failures)
}

// Written counts destinations whose document was saved.
func (r *Report) Written() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome.Written {
			n++
		}
	}
	return n
}

type Orchestrator struct {
	cfg     Config
	docs    *document.Store
	syncer  *syncer.Syncer
	journal Journal
	service string
	newID   func() string
	now     func() time.Time
	logger  *zap.Logger
}

type Option func(*Orchestrator)

// WithJournal records every run under the given service name.
func WithJournal(j Journal, service string) Option {
	return func(o *Orchestrator) {
		o.journal = j
		o.service = service
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

func WithRunID(newID func() string) Option {
	return func(o *Orchestrator) { o.newID = newID }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func New(cfg Config, docs *document.Store, s *syncer.Syncer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		docs:   docs,
		syncer: s,
		newID:  uuid.NewString,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Destinations returns the secondary-track destinations in sorted order and
// the document names skipped because they are not valid BCP 47 tags.
func (o *Orchestrator) Destinations() ([]string, []string, error) {
	candidates := o.cfg.Secondary.Targets
	if len(candidates) == 0 {
		locales, err := o.docs.Locales()
		if err != nil {
			return nil, nil, err
		}
		candidates = locales
	}

	reserved := map[string]bool{
		o.cfg.Primary.Source:   true,
		o.cfg.Primary.Target:   true,
		o.cfg.Secondary.Source: true,
	}

	seen := make(map[string]bool)
	var dests, skipped []string
	for _, loc := range candidates {
		if reserved[loc] || seen[loc] {
			continue
		}
		seen[loc] = true
		if _, err := language.Parse(loc); err != nil {
			skipped = append(skipped, loc)
			continue
		}
		dests = append(dests, loc)
	}
	sort.Strings(dests)
	sort.Strings(skipped)
	return dests, skipped, nil
}

// Jobs loads the authoritative documents and lists the work of one run.
func (o *Orchestrator) Jobs() ([]syncer.Job, []string, error) {
	var jobs []syncer.Job

	if o.cfg.Primary.Source != "" {
		src, err := o.loadSource(o.cfg.Primary.Source)
		if err != nil {
			return nil, nil, err
		}
		if o.cfg.Primary.Target != "" {
			jobs = append(jobs, syncer.Job{
				Locale:       o.cfg.Primary.Target,
				TargetLang:   o.cfg.Primary.Target,
				SourceLocale: o.cfg.Primary.Source,
				SourceLang:   o.cfg.Primary.SourceLang,
				Source:       src,
			})
		}
	}

	var skipped []string
	if o.cfg.Secondary.Source != "" {
		src, err := o.loadSource(o.cfg.Secondary.Source)
		if err != nil {
			return nil, nil, err
		}
		var dests []string
		dests, skipped, err = o.Destinations()
		if err != nil {
			return nil, nil, err
		}
		for _, d := range dests {
			jobs = append(jobs, syncer.Job{
				Locale:       d,
				TargetLang:   d,
				SourceLocale: o.cfg.Secondary.Source,
				SourceLang:   o.cfg.Secondary.SourceLang,
				Source:       src,
			})
		}
	}

	return jobs, skipped, nil
}

func (o *Orchestrator) loadSource(locale string) (*document.Document, error) {
	ok, err := o.docs.Exists(locale)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, o.docs.Path(locale))
	}
	return o.docs.Load(locale)
}

// Run synchronizes every destination sequentially. A failing destination is
// logged, recorded and skipped; the returned error is reserved for problems
// that stop the whole run.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	jobs, skipped, err := o.Jobs()
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:    o.newID(),
		Failures: make(map[string]error),
		Skipped:  skipped,
	}
	log := o.logger.With(zap.String("run_id", report.RunID))

	for _, s := range skipped {
		log.Warn("skipping document with invalid locale name", zap.String("file", o.docs.Path(s)))
	}

	if o.journal != nil {
		if err := o.journal.StartRun(ctx, store.Run{
			ID:        report.RunID,
			Dir:       o.docs.Dir(),
			Service:   o.service,
			DryRun:    o.syncer.DryRun(),
			StartedAt: o.now(),
		}); err != nil {
			log.Warn("journal unavailable", zap.Error(err))
			o.journal = nil
		}
	}

	log.Info("sync started", zap.Int("destinations", len(jobs)), zap.Bool("dry_run", o.syncer.DryRun()))

	status := "ok"
	for _, job := range jobs {
		if ctx.Err() != nil {
			status = "cancelled"
			break
		}

		res, err := o.syncer.Sync(ctx, job)
		if err != nil {
			log.Error("destination failed", zap.String("locale", job.Locale), zap.Error(err))
			report.Failures[job.Locale] = err
		} else {
			report.Results = append(report.Results, res)
		}
		o.record(ctx, report.RunID, job, res, err)
	}

	if status == "ok" && report.Failed() > 0 {
		status = "partial"
	}

	if o.journal != nil {
		if err := o.journal.FinishRun(context.WithoutCancel(ctx), report.RunID, status, len(jobs), report.Failed(), o.now()); err != nil {
			log.Warn("failed to finish journal run", zap.Error(err))
		}
	}

	log.Info("sync finished",
		zap.String("status", status),
		zap.Int("written", report.Written()),
		zap.Int("failed", report.Failed()))

	if status == "cancelled" {
		return report, ctx.Err()
	}
	return report, nil
}

func (o *Orchestrator) record(ctx context.Context, runID string, job syncer.Job, res syncer.Result, err error) {
	if o.journal == nil {
		return
	}
	r := store.Result{
		RunID:       runID,
		Locale:      job.Locale,
		Source:      job.SourceLocale,
		Translated:  res.Outcome.Translated,
		Seeded:      res.Outcome.Seeded,
		ForceCopied: res.Outcome.ForceCopied,
		Deleted:     res.Outcome.Deleted,
		Written:     res.Outcome.Written,
	}
	if err != nil {
		r.Error = err.Error()
	}
	if jerr := o.journal.RecordResult(context.WithoutCancel(ctx), r); jerr != nil {
		o.logger.Warn("failed to record result", zap.String("locale", job.Locale), zap.Error(jerr))
	}
}
