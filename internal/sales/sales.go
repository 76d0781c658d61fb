// Package sales renders the outreach-side artifacts for the selected
// operator: the reach prequalification record and invite letter, and the
// sales source, outreach letter, and pipeline state files. Rendering is
// local only; nothing is sent anywhere.
package sales

import (
	"fmt"
	"os"
	"strings"

	"ciag/internal/artifact"
	"ciag/internal/operator"
	"ciag/internal/workspace"
)

// StagePrequalified is the pipeline-state status recorded after rendering.
const StagePrequalified = "prequalified"

// SourceRecord is 00_source.json: the provenance snapshot of the selection
// record the run started from.
type SourceRecord struct {
	GeneratedAt      string              `json:"generatedAt"`
	Slug             string              `json:"slug"`
	Source           string              `json:"source"`
	OperatorSelected *operator.Selection `json:"operatorSelected"`
}

// PipelineState is 02_pipeline_state.json.
type PipelineState struct {
	GeneratedAt     string   `json:"generatedAt"`
	Slug            string   `json:"slug"`
	Status          string   `json:"status"`
	ConfidenceScore *float64 `json:"confidence_score"`
	Priority        string   `json:"priority,omitempty"`
	OutreachStatus  string   `json:"outreach_status,omitempty"`
	Locations       *float64 `json:"locations,omitempty"`
}

// Run renders all reach and sales artifacts for the selected operator.
// generatedAt is the caller's document timestamp. Returns how many files
// changed on disk.
func Run(ws workspace.Layout, sel *operator.Selection, generatedAt string) (int, error) {
	slug := sel.ResolvedSlug()
	changed := 0

	// Reach: the prequal record is the selection record itself, plus the
	// invite letter.
	if ch, err := artifact.WriteJSONIfChanged(ws.PrequalPath(slug), sel); err != nil {
		return changed, err
	} else if ch {
		changed++
	}
	if ch, err := artifact.WriteIfChanged(ws.ReachLetterPath(slug), []byte(renderInvite(sel))); err != nil {
		return changed, err
	} else if ch {
		changed++
	}

	src := SourceRecord{
		GeneratedAt:      generatedAt,
		Slug:             slug,
		Source:           "ciag sales",
		OperatorSelected: sel,
	}
	ch, err := writeSourceIfChanged(ws.SalesSourcePath(slug), src)
	if err != nil {
		return changed, err
	}
	if ch {
		changed++
	}

	if ch, err := writeLetterIfChanged(ws.OutreachLetterPath(slug), RenderOutreach(sel, generatedAt)); err != nil {
		return changed, err
	} else if ch {
		changed++
	}

	state := PipelineState{
		GeneratedAt:     generatedAt,
		Slug:            slug,
		Status:          StagePrequalified,
		ConfidenceScore: sel.Confidence,
		Priority:        sel.Priority,
		OutreachStatus:  sel.OutreachStatus,
		Locations:       sel.Locations,
	}
	ch, err = writeStateIfChanged(ws.PipelineStatePath(slug), state)
	if err != nil {
		return changed, err
	}
	if ch {
		changed++
	}
	return changed, nil
}

// writeSourceIfChanged skips the write when only generatedAt differs, so a
// re-run over an unchanged selection leaves the file alone.
func writeSourceIfChanged(path string, next SourceRecord) (bool, error) {
	var prev SourceRecord
	if err := artifact.ReadJSON(path, &prev); err == nil {
		prev.GeneratedAt = next.GeneratedAt
		prevJSON, err1 := artifact.MarshalJSON(prev)
		nextJSON, err2 := artifact.MarshalJSON(next)
		if err1 == nil && err2 == nil && string(prevJSON) == string(nextJSON) {
			return false, nil
		}
	}
	return artifact.WriteJSONIfChanged(path, next)
}

// writeLetterIfChanged skips the write when the letters differ only in
// their Generated At line.
func writeLetterIfChanged(path, next string) (bool, error) {
	prev, err := os.ReadFile(path)
	if err == nil && stripGeneratedAt(string(prev)) == stripGeneratedAt(next) {
		return false, nil
	}
	return artifact.WriteIfChanged(path, []byte(next))
}

func stripGeneratedAt(md string) string {
	lines := strings.Split(md, "\n")
	out := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(l, "**Generated At:**") {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

func writeStateIfChanged(path string, next PipelineState) (bool, error) {
	var prev PipelineState
	if err := artifact.ReadJSON(path, &prev); err == nil {
		prev.GeneratedAt = next.GeneratedAt
		if prev == next {
			return false, nil
		}
	}
	return artifact.WriteJSONIfChanged(path, next)
}

// renderInvite produces the short reach letter.
func renderInvite(sel *operator.Selection) string {
	locs := "N/A"
	if v, ok := sel.LocationsValue(); ok {
		locs = formatNumber(v)
	}
	return strings.Join([]string{
		"# CIAG Governance Triage Pilot Invite",
		"",
		"Hi " + sel.DisplayName() + ",",
		"",
		"We run a governance-first AI compliance triage for multi-location hospitality operators.",
		"",
		"Reported locations: " + locs,
		"",
		"CIAG",
		"",
	}, "\n")
}

// RenderOutreach produces the send-ready outreach letter artifact.
func RenderOutreach(sel *operator.Selection, generatedAt string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# CIAG Outreach Letter (Simulation)\n\n")
	fmt.Fprintf(&b, "**Operator:** %s (%s)\n", sel.DisplayName(), sel.ResolvedSlug())
	if v, ok := sel.LocationsValue(); ok {
		fmt.Fprintf(&b, "**Locations:** %s\n", formatNumber(v))
	}
	fmt.Fprintf(&b, "**Generated At:** %s\n\n", generatedAt)
	b.WriteString(`## Purpose
We are running a governance-first AI exposure and compliance triage to determine pilot readiness and the minimum viable control set for AI-enabled vendor systems.

## What we need from the operator (pilot-safe, non-production)
- Confirmation of core systems (PMS, POS, Payments, HRIS, WFM, Scheduling)
- Inventory of AI-enabled features and workflows in use (including shadow AI)
- PCI adjacency assumptions and scope confirmation (if applicable)

## Next step
Complete the CIAG Intake Pack and return the intake response JSON for deterministic processing.
`)
	return b.String()
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
