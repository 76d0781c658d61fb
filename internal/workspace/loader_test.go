package workspace

import (
	"path/filepath"
	"runtime"
	"testing"
)

func testdataPath(name string) string {
	_, f, _, _ := runtime.Caller(0)
	dir := filepath.Dir(f)
	return filepath.Join(dir, "testdata", name)
}

func TestLoadFromPath_YAML(t *testing.T) {
	l, err := LoadFromPath(testdataPath("layout.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if l.TriageRoot != filepath.FromSlash("governance/triage") {
		t.Errorf("triageRoot: got %q", l.TriageRoot)
	}
	if l.ManifestRoot != filepath.FromSlash("audit/manifests") {
		t.Errorf("manifestRoot: got %q", l.ManifestRoot)
	}
	// Unset fields must pick up defaults and root comes from the file dir.
	if l.SelectionPath != filepath.Join(".ciag", "operator_selected.json") {
		t.Errorf("selectionPath default: got %q", l.SelectionPath)
	}
	if l.Root != filepath.Dir(testdataPath("layout.yaml")) {
		t.Errorf("root: got %q", l.Root)
	}
}

func TestLoadFromPath_JSON(t *testing.T) {
	l, err := LoadFromPath(testdataPath("layout.json"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if l.TriageRoot != "governance/triage" {
		t.Errorf("triageRoot: got %q", l.TriageRoot)
	}
	if l.PolicyPath != "policy/custom_policy.json" {
		t.Errorf("policyPath: got %q", l.PolicyPath)
	}
}

func TestLoad_DetectJSON(t *testing.T) {
	l, err := Load([]byte(`{"triageRoot":"t"}`), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.TriageRoot != "t" {
		t.Errorf("got %+v", l)
	}
}

func TestLoad_DetectYAML(t *testing.T) {
	l, err := Load([]byte("salesRoot: s\n"), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.SalesRoot != "s" {
		t.Errorf("got %+v", l)
	}
}

func TestLayoutPaths(t *testing.T) {
	l := Default("/work")
	slug := "cole-hospitality"

	want := filepath.FromSlash("/work/docs/triage/TRG-cole-hospitality/evidence.json")
	if got := l.EvidencePath(slug); got != want {
		t.Errorf("EvidencePath = %q, want %q", got, want)
	}
	want = filepath.FromSlash("/work/out/manifests/cole-hospitality.run.json")
	if got := l.ManifestPath(slug); got != want {
		t.Errorf("ManifestPath = %q, want %q", got, want)
	}
	if got := l.Rel(l.RiskRegisterPath(slug)); got != "docs/triage/TRG-cole-hospitality/risk-register.csv" {
		t.Errorf("Rel = %q", got)
	}
	if got := l.Abs("docs/triage/TRG-x/evidence.json"); got != filepath.FromSlash("/work/docs/triage/TRG-x/evidence.json") {
		t.Errorf("Abs = %q", got)
	}
}
