package sales

import (
	"fmt"
	"os"
	"strings"

	"ciag/internal/operator"
	"ciag/internal/register"
	"ciag/internal/workspace"
)

// discoveryRow is the one risk every triage starts with.
var discoveryRow = register.Row{
	RiskID:       "R-001",
	Title:        "Unknown AI usage scope",
	Category:     "Discovery",
	Severity:     register.SeverityHigh,
	Likelihood:   register.LikelihoodMedium,
	Status:       register.StatusOpen,
	Owner:        "CIAG",
	EvidenceRefs: "[]",
	Notes:        "Inventory AI-enabled tools and workflows",
}

// Scaffold lays down the triage directory for the selected operator: memo,
// draft recommendation, the starter risk register, and an empty evidence
// skeleton. Every file is create-if-missing, so re-scaffolding never
// clobbers documents later stages have generated. Returns the files it
// created.
func Scaffold(ws workspace.Layout, sel *operator.Selection, generatedAt string) ([]string, error) {
	slug := sel.ResolvedSlug()
	if err := os.MkdirAll(ws.TriageDir(slug), 0o755); err != nil {
		return nil, fmt.Errorf("create triage dir: %w", err)
	}

	reg := &register.Register{Rows: []register.Row{discoveryRow}}
	csv, err := reg.Bytes()
	if err != nil {
		return nil, fmt.Errorf("render starter register: %w", err)
	}
	files := []struct {
		path    string
		content string
	}{
		{ws.MemoPath(slug), renderMemo(sel, generatedAt)},
		{ws.RecommendationPath(slug), draftRecommendation},
		{ws.RiskRegisterPath(slug), string(csv)},
		{ws.EvidencePath(slug), evidenceSkeleton},
	}

	var created []string
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			continue
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return created, fmt.Errorf("write %s: %w", f.path, err)
		}
		created = append(created, f.path)
	}
	return created, nil
}

func renderMemo(sel *operator.Selection, generatedAt string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# CIAG Governance Triage Memo\n\n")
	fmt.Fprintf(&b, "**Operator:** %s (%s)\n", sel.DisplayName(), sel.ResolvedSlug())
	if v, ok := sel.LocationsValue(); ok {
		fmt.Fprintf(&b, "**Locations:** %s\n", formatNumber(v))
	}
	if sel.Confidence != nil {
		fmt.Fprintf(&b, "**Confidence Score:** %s\n", formatNumber(*sel.Confidence))
	}
	if sel.Priority != "" {
		fmt.Fprintf(&b, "**Priority:** %s\n", sel.Priority)
	}
	if sel.OutreachStatus != "" {
		fmt.Fprintf(&b, "**Outreach Status:** %s\n", sel.OutreachStatus)
	}
	fmt.Fprintf(&b, "\n## Objective\n")
	b.WriteString("Run a governance-first triage to identify AI/automation exposure, compliance surface area, and the minimum viable control set for a pilot-safe deployment mode.\n\n")
	fmt.Fprintf(&b, "Seed timestamp: %s\n", generatedAt)
	return b.String()
}

const draftRecommendation = `# Recommendations (Draft v1)

## Immediate (0-7 days)
1. Confirm operator's core systems: PMS/POS, HRIS/WFM, scheduling, payments processor(s).
2. Identify any AI-enabled vendor features already active (forecasting, dynamic pricing, fraud tools, hiring/screening).
3. Stand up a pilot governance perimeter: access control, logging, human-approval gating for high-impact actions.
`

const evidenceSkeleton = `{
  "schemaVersion": "evidence.v1",
  "items": []
}
`
