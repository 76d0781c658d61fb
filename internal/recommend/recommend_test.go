package recommend

import (
	"fmt"
	"strings"
	"testing"

	"ciag/internal/evidence"
	"ciag/internal/operator"
	"ciag/internal/register"
)

func selection() *operator.Selection {
	loc := 12.0
	conf := 8.0
	return &operator.Selection{
		Name:           "Cole Hospitality",
		Slug:           "cole-hospitality",
		Locations:      &loc,
		Confidence:     &conf,
		Priority:       "P1",
		OutreachStatus: "letter_sent",
	}
}

func mixedRegister() *register.Register {
	return &register.Register{Rows: []register.Row{
		{RiskID: "R-SYS-PMS", Title: "PMS exposure", SystemType: "PMS", Category: "core_systems",
			Severity: "Medium", Likelihood: "Low", Status: "Mitigated", Owner: "CIAG", EvidenceRefs: `["ev1"]`},
		{RiskID: "R-SYS-PAYMENTS", Title: "Payments exposure", SystemType: "Payments", Category: "core_systems",
			Severity: "High", Likelihood: "Medium", Status: "Open", Owner: "CIAG", EvidenceRefs: "[]"},
		{RiskID: "R-010", Title: "Cardholder data in PCI scope", SystemType: "Payments", Category: "pci_scope",
			Severity: "Medium", Likelihood: "Medium", Status: "Open", Owner: "CIAG", EvidenceRefs: "[]"},
	}}
}

func TestRender_SummaryCounts(t *testing.T) {
	doc := &evidence.Document{}
	md, sum := Render(selection(), mixedRegister(), doc, "2025-01-02T03:04:05Z")

	want := Summary{TotalRisks: 3, Mitigated: 1, Open: 2, ClearedSystems: 1, OpenSystems: 1, Blockers: 2}
	if sum != want {
		t.Errorf("summary = %+v, want %+v", sum, want)
	}
	for _, needle := range []string{
		"# CIAG Governance Triage Recommendation",
		"**Operator:** Cole Hospitality (cole-hospitality)",
		"**Locations:** 12",
		"**Generated At:** 2025-01-02T03:04:05Z",
		"- **Total risks:** 3",
		"- **Blocking candidates:** 2",
		"## Systems cleared by evidence",
		"- PMS",
		"### Payments",
		"### Blocking risks (must address)",
		"**Pilot-Safe with Conditions**",
	} {
		if !strings.Contains(md, needle) {
			t.Errorf("document missing %q", needle)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	doc := &evidence.Document{Items: []evidence.Item{
		{ID: "b", SystemType: "Payments", Status: evidence.StatusPartial, Claim: "gateway vendor unknown"},
		{ID: "a", SystemType: "Payments", Status: evidence.StatusMissing, Claim: "tokenization unverified"},
	}}
	first, _ := Render(selection(), mixedRegister(), doc, "2025-01-02T03:04:05Z")
	second, _ := Render(selection(), mixedRegister(), doc, "2025-01-02T03:04:05Z")
	if first != second {
		t.Error("repeated render over identical inputs diverged")
	}
	// Gap listing sorts by id.
	if strings.Index(first, "- a: tokenization unverified") > strings.Index(first, "- b: gateway vendor unknown") {
		t.Error("evidence gaps not sorted by id")
	}
}

func TestRender_GapTruncation(t *testing.T) {
	doc := &evidence.Document{}
	for i := 0; i < 9; i++ {
		doc.Items = append(doc.Items, evidence.Item{
			ID: fmt.Sprintf("gap-%02d", i), SystemType: "Payments",
			Status: evidence.StatusMissing, Claim: fmt.Sprintf("claim %d", i),
		})
	}
	md, _ := Render(selection(), mixedRegister(), doc, "2025-01-02T03:04:05Z")
	if !strings.Contains(md, "- Evidence gaps (9):") {
		t.Error("gap count missing")
	}
	if !strings.Contains(md, "- (+3 more)") {
		t.Error("overflow line missing")
	}
	if strings.Contains(md, "gap-06") {
		t.Error("gaps beyond the cap must not be listed")
	}
}

func TestRender_AllClear(t *testing.T) {
	reg := &register.Register{Rows: []register.Row{
		{RiskID: "R-SYS-PMS", Title: "PMS exposure", SystemType: "PMS",
			Severity: "Medium", Likelihood: "Low", Status: "Mitigated"},
	}}
	md, sum := Render(selection(), reg, &evidence.Document{}, "2025-01-02T03:04:05Z")
	if sum.Blockers != 0 || sum.OpenSystems != 0 {
		t.Errorf("summary = %+v", sum)
	}
	if !strings.Contains(md, "_No open risk areas._") {
		t.Error("missing empty open-areas marker")
	}
	if !strings.Contains(md, "- No actions required.") {
		t.Error("missing empty next-actions marker")
	}
	if strings.Contains(md, "### Blocking risks") {
		t.Error("blocking section rendered with no blockers")
	}
	if !strings.Contains(md, "proceed with monitoring and evidence capture plan") {
		t.Error("no-blocker verdict missing")
	}
}

func TestBlocking(t *testing.T) {
	cases := []struct {
		row  register.Row
		want bool
	}{
		{register.Row{Severity: "High", Status: "Open"}, true},
		{register.Row{Severity: "Critical", Status: "Open"}, true},
		{register.Row{Severity: "Medium", Status: "Open"}, false},
		{register.Row{Severity: "Medium", Category: "compliance_surface PCI", Status: "Open"}, true},
		{register.Row{Severity: "High", Status: "Mitigated"}, false},
	}
	for _, c := range cases {
		if got := Blocking(&c.row); got != c.want {
			t.Errorf("Blocking(%+v) = %v, want %v", c.row, got, c.want)
		}
	}
}
