package operator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ciag/internal/pipeline"
)

func writeRecord(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "operator_selected.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeRecord(t, `{
  "rank": 1,
  "operator_name": "Cole Hospitality",
  "operator_slug": "Cole-Hospitality",
  "locations": 12,
  "confidence_score": 10,
  "priority": "Immediate",
  "outreach_status": "simulation-pin",
  "provenance": {"source": "operator_override.json"}
}`)
	sel, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := sel.ResolvedSlug(); got != "cole-hospitality" {
		t.Errorf("slug = %q, want lowercase canonical form", got)
	}
	if sel.DisplayName() != "Cole Hospitality" {
		t.Errorf("name = %q", sel.DisplayName())
	}
	if n, ok := sel.LocationsValue(); !ok || n != 12 {
		t.Errorf("locations = %v ok=%v", n, ok)
	}
}

func TestLoad_LegacyKeys(t *testing.T) {
	path := writeRecord(t, `{"name": "Acme Inns", "slug": "acme-inns"}`)
	sel, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sel.ResolvedSlug() != "acme-inns" || sel.DisplayName() != "Acme Inns" {
		t.Errorf("legacy resolution failed: %+v", sel)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, pipeline.ErrMissingInput) {
		t.Errorf("want ErrMissingInput, got %v", err)
	}
}

func TestLoad_EmptySlug(t *testing.T) {
	path := writeRecord(t, `{"operator_name": "No Slug Inc", "operator_slug": "  "}`)
	_, err := Load(path)
	if !errors.Is(err, pipeline.ErrInvalidIdentity) {
		t.Errorf("want ErrInvalidIdentity, got %v", err)
	}
}

func TestLocationsValue_Null(t *testing.T) {
	path := writeRecord(t, `{"operator_slug": "x", "locations": null}`)
	sel, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := sel.LocationsValue(); ok {
		t.Errorf("null locations should be absent")
	}
}
