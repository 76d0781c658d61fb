// Package runbook renders the pilot runbook. The body is a fixed operational
// document; only the operator header varies, and the location count is
// resolved through a strict artifact chain so the header never shows a raw
// null.
package runbook

import (
	"fmt"
	"strings"

	"ciag/internal/artifact"
	"ciag/internal/operator"
	"ciag/internal/pipeline"
	"ciag/internal/workspace"
)

// LocationsUnknown is rendered when no artifact in the resolution chain
// carries a numeric location count.
const LocationsUnknown = "unknown"

// prequalRecord covers the key spellings prequalification producers have
// used for the location count.
type prequalRecord struct {
	Locations          *float64 `json:"locations"`
	ReportedLocations  *float64 `json:"reported_locations"`
	ReportedLocationsC *float64 `json:"reportedLocations"`
}

func (p prequalRecord) value() (float64, bool) {
	for _, v := range []*float64{p.Locations, p.ReportedLocations, p.ReportedLocationsC} {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

type pipelineStateRecord struct {
	Locations *float64 `json:"locations"`
}

// ResolveLocations walks the priority chain: selection record, reach prequal
// artifact, sales pipeline state. Returns false when the whole chain is
// silent.
func ResolveLocations(ws workspace.Layout, sel *operator.Selection, slug string) (float64, bool) {
	if v, ok := sel.LocationsValue(); ok {
		return v, true
	}
	var pq prequalRecord
	if err := artifact.ReadJSON(ws.PrequalPath(slug), &pq); err == nil {
		if v, ok := pq.value(); ok {
			return v, true
		}
	}
	var st pipelineStateRecord
	if err := artifact.ReadJSON(ws.PipelineStatePath(slug), &st); err == nil && st.Locations != nil {
		return *st.Locations, true
	}
	return 0, false
}

// LocationsLabel renders the resolved count, or the unknown sentinel.
func LocationsLabel(ws workspace.Layout, sel *operator.Selection, slug string) string {
	v, ok := ResolveLocations(ws, sel, slug)
	if !ok {
		return LocationsUnknown
	}
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// Generate renders pilot-runbook.md for the selected operator. Both the
// recommendation and the risk register must already exist. Returns whether
// the file changed on disk.
func Generate(ws workspace.Layout, sel *operator.Selection, generatedAt string) (bool, error) {
	slug := sel.ResolvedSlug()
	if rec := ws.RecommendationPath(slug); !artifact.Exists(rec) {
		return false, pipeline.MissingInput("recommendation document", rec)
	}
	if risk := ws.RiskRegisterPath(slug); !artifact.Exists(risk) {
		return false, pipeline.MissingInput("risk register", risk)
	}
	md := Render(sel, LocationsLabel(ws, sel, slug), generatedAt)
	return artifact.WriteIfChanged(ws.RunbookPath(slug), []byte(md))
}

// Render produces the runbook markdown. locations must already be resolved
// to a printable label.
func Render(sel *operator.Selection, locations, generatedAt string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# CIAG Pilot Runbook\n\n")
	fmt.Fprintf(&b, "**Operator:** %s (%s)  \n", sel.DisplayName(), sel.ResolvedSlug())
	fmt.Fprintf(&b, "**Locations:** %s  \n", locations)
	fmt.Fprintf(&b, "**Priority:** %s  \n", orUnset(sel.Priority))
	fmt.Fprintf(&b, "**Outreach Status:** %s  \n", orUnset(sel.OutreachStatus))
	fmt.Fprintf(&b, "**Generated At:** %s\n", generatedAt)
	b.WriteString(body)
	return b.String()
}

func orUnset(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unset"
	}
	return strings.TrimSpace(s)
}

const body = `
---

## 1. Pilot Objective

Execute a **governance-observed pilot** to validate AI usage visibility, control readiness, and evidence capture across core hospitality systems.

This pilot is classified as:

> **Pilot-Safe with Conditions**

Proceeding is permitted **only with explicit closure of blocking governance items during the pilot window**.

---

## 2. Pilot Scope

### Included Systems
- PMS
- Payments

### Observed / In-Scope
- POS
- HRIS
- WFM
- Scheduling
- Other AI-enabled vendors

---

## 3. Mandatory Day-0 / Day-14 Actions (Non-Negotiable)

### R-001: AI Usage Inventory (BLOCKER)

**Requirement**
Within the first **14 days**, the operator must complete an AI usage inventory covering:

- AI-enabled vendor features
- Embedded AI in SaaS platforms
- Shadow AI usage (marketing, ops, HR, finance)
- Data classes processed by AI (PII, PCI adjacency, workforce data)

**Evidence Artifacts Required**
- Vendor list + AI features
- Data category mapping
- Responsible owner per system

Failure to complete this action **pauses pilot progression**.

---

## 4. Evidence Capture Rules

- All evidence is captured via CIAG artifacts
- No verbal attestations
- No screenshots without provenance
- All updates are timestamped and attributed

---

## 5. Governance Gates

| Gate | Requirement | Outcome |
|-----|------------|--------|
| Gate 1 | AI inventory complete | Proceed |
| Gate 2 | Evidence linked to risks | Proceed |
| Gate 3 | Policy re-applied | Proceed |
| Gate 4 | Recommendation regenerated | Exit / Expand |

---

## 6. Pilot Exit Criteria

The pilot is considered **successful** when:

- All blocking risks are closed or downgraded
- Remaining open risks have owners and timelines
- A post-pilot governance roadmap is generated

---

## 7. Commercial Boundary

This pilot is:
- Non-production
- Governance-observed
- Non-expansive beyond scoped systems

Any expansion requires **new governance approval**.

---

## 8. Deliverables

- Updated risk register
- Updated recommendation
- Pilot summary memo
- Governance readiness score

---

**End of Runbook**
`
