package journal

import (
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), ".ciag", "ciag.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournal_RecordAndQuery(t *testing.T) {
	j := openTemp(t)

	entries := []Entry{
		{Slug: "acme", Step: "seed", ArtifactPath: "docs/triage/TRG-acme/evidence.json",
			SHA256: "deadbeef", Outcome: OutcomeChanged, CreatedAt: "2025-01-02T03:04:05Z"},
		{Slug: "acme", Step: "derive", ArtifactPath: "docs/triage/TRG-acme/risk-register.csv",
			Outcome: OutcomeChanged, CreatedAt: "2025-01-02T03:04:06Z"},
		{Slug: "other", Step: "seed", Outcome: OutcomeUnchanged, CreatedAt: "2025-01-02T03:04:07Z"},
	}
	for _, e := range entries {
		if _, err := j.Record(e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := j.BySlug("acme")
	if err != nil {
		t.Fatalf("BySlug: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("BySlug returned %d entries, want 2", len(got))
	}
	if got[0].Step != "seed" || got[1].Step != "derive" {
		t.Errorf("entries out of insertion order: %+v", got)
	}
	if got[0].SHA256 != "deadbeef" || got[0].CreatedAt != "2025-01-02T03:04:05Z" {
		t.Errorf("entry fields lost: %+v", got[0])
	}

	recent, err := j.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Slug != "other" {
		t.Errorf("Recent: got %+v", recent)
	}
}

func TestJournal_DefaultsCreatedAt(t *testing.T) {
	j := openTemp(t)
	if _, err := j.Record(Entry{Slug: "acme", Step: "manifest", Outcome: OutcomeFailed, Detail: "drift"}); err != nil {
		t.Fatal(err)
	}
	got, err := j.BySlug("acme")
	if err != nil || len(got) != 1 {
		t.Fatalf("BySlug: %v (%d)", err, len(got))
	}
	if got[0].CreatedAt == "" {
		t.Error("CreatedAt must be stamped when omitted")
	}
	if got[0].Detail != "drift" {
		t.Errorf("detail = %q", got[0].Detail)
	}
}

func TestJournal_ReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ciag.db")
	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := j.Record(Entry{Slug: "acme", Step: "seed", Outcome: OutcomeChanged}); err != nil {
		t.Fatal(err)
	}
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}

	j2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j2.Close()
	got, err := j2.BySlug("acme")
	if err != nil || len(got) != 1 {
		t.Fatalf("entries lost across reopen: %v (%d)", err, len(got))
	}
}
