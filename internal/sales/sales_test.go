package sales

import (
	"os"
	"strings"
	"testing"

	"ciag/internal/operator"
	"ciag/internal/workspace"
)

func testSelection() *operator.Selection {
	loc := 12.0
	conf := 8.0
	return &operator.Selection{
		Name:           "Acme Resorts",
		Slug:           "acme",
		Locations:      &loc,
		Confidence:     &conf,
		Priority:       "P1",
		OutreachStatus: "letter_sent",
	}
}

func TestRun_WritesAllArtifacts(t *testing.T) {
	ws := workspace.Default(t.TempDir())
	sel := testSelection()

	changed, err := Run(ws, sel, "2025-01-02T03:04:05Z")
	if err != nil {
		t.Fatal(err)
	}
	if changed != 5 {
		t.Errorf("changed = %d, want 5", changed)
	}
	for _, p := range []string{
		ws.PrequalPath("acme"),
		ws.ReachLetterPath("acme"),
		ws.SalesSourcePath("acme"),
		ws.OutreachLetterPath("acme"),
		ws.PipelineStatePath("acme"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing artifact %s", p)
		}
	}
}

func TestRun_SecondRunIsNoOp(t *testing.T) {
	ws := workspace.Default(t.TempDir())
	sel := testSelection()

	if _, err := Run(ws, sel, "2025-01-02T03:04:05Z"); err != nil {
		t.Fatal(err)
	}
	// New timestamp, same selection: nothing should rewrite.
	changed, err := Run(ws, sel, "2025-06-07T08:09:10Z")
	if err != nil {
		t.Fatal(err)
	}
	if changed != 0 {
		t.Errorf("second run changed %d files, want 0", changed)
	}
}

func TestRun_SelectionChangeFlowsThrough(t *testing.T) {
	ws := workspace.Default(t.TempDir())
	sel := testSelection()
	if _, err := Run(ws, sel, "2025-01-02T03:04:05Z"); err != nil {
		t.Fatal(err)
	}
	sel.OutreachStatus = "responded"
	changed, err := Run(ws, sel, "2025-01-03T00:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	if changed == 0 {
		t.Error("selection change must rewrite the derived artifacts")
	}
}

func TestRenderOutreach(t *testing.T) {
	md := RenderOutreach(testSelection(), "2025-01-02T03:04:05Z")
	for _, needle := range []string{
		"# CIAG Outreach Letter (Simulation)",
		"**Operator:** Acme Resorts (acme)",
		"**Locations:** 12",
		"## Purpose",
		"Complete the CIAG Intake Pack",
	} {
		if !strings.Contains(md, needle) {
			t.Errorf("letter missing %q", needle)
		}
	}
}

func TestRenderInvite_NoLocations(t *testing.T) {
	sel := &operator.Selection{Name: "Acme Resorts", Slug: "acme"}
	md := renderInvite(sel)
	if !strings.Contains(md, "Reported locations: N/A") {
		t.Errorf("invite should fall back to N/A:\n%s", md)
	}
}

func TestScaffold_CreateOnce(t *testing.T) {
	ws := workspace.Default(t.TempDir())
	sel := testSelection()

	created, err := Scaffold(ws, sel, "2025-01-02T03:04:05Z")
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 4 {
		t.Errorf("created %d files, want 4: %v", len(created), created)
	}

	csv, err := os.ReadFile(ws.RiskRegisterPath("acme"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(csv), "R-001,Unknown AI usage scope,,Discovery,High,Medium,Open,CIAG,[],Inventory AI-enabled tools and workflows") {
		t.Errorf("starter register missing discovery row:\n%s", csv)
	}

	memo, err := os.ReadFile(ws.MemoPath("acme"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(memo), "# CIAG Governance Triage Memo") {
		t.Error("memo header missing")
	}

	// Later stages own these files; scaffold must never overwrite.
	if err := os.WriteFile(ws.RecommendationPath("acme"), []byte("# generated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	created, err = Scaffold(ws, sel, "2026-01-01T00:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 0 {
		t.Errorf("re-scaffold created %v, want nothing", created)
	}
	rec, _ := os.ReadFile(ws.RecommendationPath("acme"))
	if string(rec) != "# generated\n" {
		t.Error("re-scaffold clobbered a generated document")
	}
}
