// Package reconcile merges the results of one synchronization pass into a
// destination document and persists it when, and only when, it changed.
package reconcile

import (
	"fmt"
	"time"

	"github.com/valpere/i18nsync/internal/document"
	"github.com/valpere/i18nsync/internal/fingerprint"
	"github.com/valpere/i18nsync/internal/planner"
)

// Provenance is stamped into the metadata of every written document.
type Provenance struct {
	GeneratedBy string
	SourceLang  string
	TargetLang  string
}

// Input is everything a pass produced for one destination.
type Input struct {
	// Source holds the authoritative string values, force-copied keys included.
	Source map[string]string
	// Forced is the force-copied subset of Source.
	Forced     map[string]string
	Plan       planner.Plan
	Translated map[string]string
	// Deleted lists keys already removed by planner.SyncDeletions; Pruned
	// reports whether that step changed the document at all.
	Deleted    []string
	Pruned     bool
	Provenance Provenance
}

// Outcome summarizes a reconciliation.
type Outcome struct {
	Locale      string
	ForceCopied int
	Translated  int
	Seeded      int
	Deleted     int
	Changed     bool
	Written     bool
}

func (o Outcome) String() string {
	return fmt.Sprintf("%s: force-copied=%d translated=%d seeded=%d deleted=%d written=%t",
		o.Locale, o.ForceCopied, o.Translated, o.Seeded, o.Deleted, o.Written)
}

// Apply mutates dst with in and reports what changed. Metadata provenance
// is refreshed only when something changed, so an unchanged document stays
// byte-identical.
func Apply(dst *document.Document, in Input, now time.Time) Outcome {
	out := Outcome{Deleted: len(in.Deleted)}
	changed := in.Pruned

	if dst.Entries == nil {
		dst.Entries = make(map[string]any)
	}
	if dst.Meta.SourceHashes == nil {
		dst.Meta.SourceHashes = make(map[string]string)
	}

	for k, v := range in.Forced {
		if cur, ok := dst.Entries[k].(string); ok && cur == v {
			continue
		}
		dst.Entries[k] = v
		out.ForceCopied++
		changed = true
	}

	for k, v := range in.Translated {
		out.Translated++
		if cur, ok := dst.Entries[k].(string); ok && cur == v {
			continue
		}
		dst.Entries[k] = v
		changed = true
	}

	out.Seeded = len(in.Plan.Seed)

	record := func(k string) {
		text, ok := in.Source[k]
		if !ok {
			return
		}
		h := fingerprint.Of(text)
		if dst.Meta.SourceHashes[k] != h {
			dst.Meta.SourceHashes[k] = h
			changed = true
		}
	}
	for _, k := range in.Plan.Seed {
		record(k)
	}
	for k := range in.Translated {
		record(k)
	}
	for k := range in.Forced {
		record(k)
	}

	if changed {
		dst.Meta.GeneratedBy = in.Provenance.GeneratedBy
		dst.Meta.SourceLang = in.Provenance.SourceLang
		dst.Meta.TargetLang = in.Provenance.TargetLang
		dst.Meta.UpdatedAt = now.UTC().Format(time.RFC3339)
	}

	out.Changed = changed
	return out
}

// Writer applies inputs and persists changed documents.
type Writer struct {
	store  *document.Store
	now    func() time.Time
	dryRun bool
}

type Option func(*Writer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// WithDryRun computes outcomes without writing.
func WithDryRun(dryRun bool) Option {
	return func(w *Writer) { w.dryRun = dryRun }
}

func NewWriter(store *document.Store, opts ...Option) *Writer {
	w := &Writer{store: store, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Reconcile applies in to dst and saves the result under locale if it changed.
func (w *Writer) Reconcile(locale string, dst *document.Document, in Input) (Outcome, error) {
	out := Apply(dst, in, w.now())
	out.Locale = locale

	if !out.Changed || w.dryRun {
		return out, nil
	}

	if err := w.store.Save(locale, dst); err != nil {
		return out, fmt.Errorf("failed to save %s: %w", locale, err)
	}
	out.Written = true
	return out, nil
}
