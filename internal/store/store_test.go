package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_New(t *testing.T) {
	s := newTestStore(t)
	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_RunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := s.StartRun(ctx, Run{ID: "run-1", Dir: "i18n", Service: "openai", StartedAt: started}); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	results := []Result{
		{RunID: "run-1", Locale: "fr", Source: "en", Translated: 2, Seeded: 1, Written: true},
		{RunID: "run-1", Locale: "de", Source: "en", Error: "batch 1/1: boom"},
	}
	for _, r := range results {
		if err := s.RecordResult(ctx, r); err != nil {
			t.Fatalf("RecordResult failed: %v", err)
		}
	}

	if err := s.FinishRun(ctx, "run-1", "partial", 2, 1, started.Add(time.Minute)); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	run, got, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run.Status != "partial" || run.Destinations != 2 || run.Failures != 1 {
		t.Errorf("unexpected run %+v", run)
	}
	if run.FinishedAt == nil {
		t.Error("expected finished_at to be set")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Locale != "de" || got[0].Error != "batch 1/1: boom" {
		t.Errorf("unexpected first result %+v", got[0])
	}
	if got[1].Locale != "fr" || got[1].Translated != 2 || !got[1].Written {
		t.Errorf("unexpected second result %+v", got[1])
	}
}

func TestStore_ListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		if err := s.StartRun(ctx, Run{ID: id, Dir: "i18n", StartedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("StartRun failed: %v", err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "c" || runs[1].ID != "b" {
		t.Errorf("expected newest first, got %s, %s", runs[0].ID, runs[1].ID)
	}
	if runs[0].Status != "running" || runs[0].FinishedAt != nil {
		t.Errorf("expected unfinished run, got %+v", runs[0])
	}
}

func TestStore_GetRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, _, err := s.GetRun(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestStore_Glossary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AddGlossaryTerm(ctx, "", "", "WealthX", ""); err != nil {
		t.Fatalf("AddGlossaryTerm failed: %v", err)
	}
	if _, err := s.AddGlossaryTerm(ctx, "", "", "Flow", "Flow"); err != nil {
		t.Fatalf("AddGlossaryTerm failed: %v", err)
	}
	if _, err := s.AddGlossaryTerm(ctx, "en", "de", "Flow", "Fluss"); err != nil {
		t.Fatalf("AddGlossaryTerm failed: %v", err)
	}

	terms, err := s.GetGlossaryTerms(ctx, "en", "de")
	if err != nil {
		t.Fatalf("GetGlossaryTerms failed: %v", err)
	}
	if terms["WealthX"] != "WealthX" {
		t.Errorf("expected identity mapping for WealthX, got %q", terms["WealthX"])
	}
	if terms["Flow"] != "Fluss" {
		t.Errorf("expected specific entry to win, got %q", terms["Flow"])
	}

	terms, err = s.GetGlossaryTerms(ctx, "en", "fr")
	if err != nil {
		t.Fatalf("GetGlossaryTerms failed: %v", err)
	}
	if terms["Flow"] != "Flow" {
		t.Errorf("expected wildcard entry for fr, got %q", terms["Flow"])
	}

	entries, err := s.ListGlossaryTerms(ctx, "fr")
	if err != nil {
		t.Fatalf("ListGlossaryTerms failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for fr, got %d", len(entries))
	}

	all, err := s.ListGlossaryTerms(ctx, "")
	if err != nil {
		t.Fatalf("ListGlossaryTerms failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}

	if err := s.DeleteGlossaryTerm(ctx, all[0].ID); err != nil {
		t.Fatalf("DeleteGlossaryTerm failed: %v", err)
	}
	if err := s.DeleteGlossaryTerm(ctx, all[0].ID); err == nil {
		t.Error("expected error deleting a missing entry")
	}
}

func TestStore_AddGlossaryTerm_Empty(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.AddGlossaryTerm(context.Background(), "", "", "   ", "x"); err == nil {
		t.Error("expected error for empty term")
	}
}

func TestNormalizeText(t *testing.T) {
	// "é" as e + combining acute accent
	decomposed := "Café"
	if got := normalizeText("  " + decomposed + " "); got != "Café" {
		t.Errorf("normalizeText() = %q, want NFC form", got)
	}
}
