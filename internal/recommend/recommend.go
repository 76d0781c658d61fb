// Package recommend renders the governance triage recommendation document
// from the policy-applied risk register and the evidence document. The output
// is a pure function of its inputs, so repeated runs over unchanged state
// produce identical bytes.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"ciag/internal/evidence"
	"ciag/internal/operator"
	"ciag/internal/register"
)

// maxGapLines caps how many evidence gaps are listed per system before the
// remainder collapses into a "(+N more)" line.
const maxGapLines = 6

// Summary carries the counts surfaced after generation, mirroring the
// executive-summary figures in the document itself.
type Summary struct {
	TotalRisks     int `json:"total_risks"`
	Mitigated      int `json:"mitigated"`
	Open           int `json:"open"`
	ClearedSystems int `json:"cleared_systems"`
	OpenSystems    int `json:"open_systems"`
	Blockers       int `json:"blockers"`
}

// Blocking reports whether an open row blocks the pilot: severity High or
// worse, or any category touching PCI.
func Blocking(r *register.Row) bool {
	if r.Mitigated() {
		return false
	}
	return register.SeverityRank(r.Severity) <= 1 ||
		strings.Contains(strings.ToLower(r.Category), "pci")
}

// Render produces the recommendation markdown. generatedAt is the caller's
// document timestamp; the generator itself never consults the clock.
func Render(sel *operator.Selection, reg *register.Register, doc *evidence.Document, generatedAt string) (string, Summary) {
	var sum Summary
	sum.TotalRisks = len(reg.Rows)

	bySystem := map[string][]register.Row{}
	var systems []string
	for _, r := range reg.Rows {
		if r.Mitigated() {
			sum.Mitigated++
		} else {
			sum.Open++
		}
		sys := strings.TrimSpace(r.SystemType)
		if sys == "" {
			sys = "Unknown"
		}
		if _, seen := bySystem[sys]; !seen {
			systems = append(systems, sys)
		}
		bySystem[sys] = append(bySystem[sys], r)
	}
	sort.Strings(systems)

	var cleared, open []string
	for _, sys := range systems {
		allMitigated := true
		for _, r := range bySystem[sys] {
			if !r.Mitigated() {
				allMitigated = false
				break
			}
		}
		if allMitigated {
			cleared = append(cleared, sys)
		} else {
			open = append(open, sys)
		}
	}
	sum.ClearedSystems = len(cleared)
	sum.OpenSystems = len(open)

	var blockers []register.Row
	for _, r := range reg.Rows {
		if Blocking(&r) {
			blockers = append(blockers, r)
		}
	}
	sum.Blockers = len(blockers)

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("# CIAG Governance Triage Recommendation")
	line("")
	line("**Operator:** %s (%s)", sel.DisplayName(), sel.ResolvedSlug())
	if v, ok := sel.LocationsValue(); ok {
		line("**Locations:** %s", formatNumber(v))
	}
	if sel.Confidence != nil {
		line("**Confidence Score:** %s", formatNumber(*sel.Confidence))
	}
	if sel.Priority != "" {
		line("**Priority:** %s", sel.Priority)
	}
	if sel.OutreachStatus != "" {
		line("**Outreach Status:** %s", sel.OutreachStatus)
	}
	line("**Generated At:** %s", generatedAt)
	line("")
	line("## Executive Summary")
	line("")
	line("We ran a governance-first triage for **%s** to determine pilot readiness and the minimum viable control set.", sel.DisplayName())
	line("")
	line("- **Total risks:** %d", sum.TotalRisks)
	line("- **Mitigated:** %d", sum.Mitigated)
	line("- **Open:** %d", sum.Open)
	line("- **Blocking candidates:** %d", sum.Blockers)
	line("")
	line("## Systems cleared by evidence")
	line("")
	if len(cleared) == 0 {
		line("- None")
	} else {
		for _, sys := range cleared {
			line("- %s", sys)
		}
	}
	line("")
	line("## Outstanding risk areas (open)")
	line("")
	if len(open) == 0 {
		line("_No open risk areas._")
	} else {
		for _, sys := range open {
			line("### %s", sys)
			line("")
			var openRows []register.Row
			for _, r := range bySystem[sys] {
				if !r.Mitigated() {
					openRows = append(openRows, r)
				}
			}
			sortBySeverity(openRows)
			for _, r := range openRows {
				line("%s", riskLine(&r, ""))
			}
			line("")
		}
	}
	line("## Immediate next actions (30-60 days)")
	line("")
	if len(open) == 0 {
		line("- No actions required.")
	} else {
		for i, sys := range open {
			if i > 0 {
				line("")
			}
			writeNextActions(&b, sys, doc)
		}
	}
	line("")
	line("## Pilot readiness verdict")
	line("")
	if len(blockers) > 0 {
		line("**Pilot-Safe with Conditions** - proceed only after closing blocking risks and confirming remaining system evidence gaps.")
		line("")
		line("### Blocking risks (must address)")
		line("")
		sortBySeverity(blockers)
		for _, r := range blockers {
			line("%s", riskLine(&r, "  "))
		}
	} else {
		line("**Pilot-Safe with Conditions** - proceed with monitoring and evidence capture plan.")
	}

	return b.String(), sum
}

// sortBySeverity orders rows by severity rank then risk id, in place.
func sortBySeverity(rows []register.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := register.SeverityRank(rows[i].Severity), register.SeverityRank(rows[j].Severity)
		if a != b {
			return a < b
		}
		return rows[i].RiskID < rows[j].RiskID
	})
}

func riskLine(r *register.Row, indent string) string {
	parts := []string{}
	if r.RiskID != "" {
		parts = append(parts, "- **"+r.RiskID+"**")
	} else {
		parts = append(parts, "- **(no id)**")
	}
	title := r.Title
	if title == "" {
		title = "(no title)"
	}
	parts = append(parts, title)
	parts = append(parts, "sev="+orQuestion(r.Severity))
	parts = append(parts, "lik="+orQuestion(r.Likelihood))
	parts = append(parts, "status="+orQuestion(r.Status))
	if strings.TrimSpace(r.EvidenceRefs) != "" {
		parts = append(parts, "evidence="+r.EvidenceRefs)
	}
	out := indent + strings.Join(parts, " / ")
	if strings.TrimSpace(r.Notes) != "" {
		out += "\n" + indent + "  - Notes: " + strings.TrimSpace(r.Notes)
	}
	return out
}

func orQuestion(s string) string {
	if strings.TrimSpace(s) == "" {
		return "?"
	}
	return strings.TrimSpace(s)
}

// writeNextActions lists the open evidence gaps for one system type, capped
// at maxGapLines with a trailing count for the rest.
func writeNextActions(b *strings.Builder, sys string, doc *evidence.Document) {
	fmt.Fprintf(b, "- **%s**: confirm vendor/product, AI-enabled features, and governance surface.\n", sys)

	var gaps []evidence.Item
	for _, it := range doc.Items {
		if !strings.EqualFold(strings.TrimSpace(it.SystemType), sys) {
			continue
		}
		if it.Status != evidence.StatusObserved {
			gaps = append(gaps, it)
		}
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i].ID < gaps[j].ID })

	if len(gaps) == 0 {
		fmt.Fprintf(b, "  - Evidence: no open gaps recorded for this system type.\n")
		return
	}
	fmt.Fprintf(b, "  - Evidence gaps (%d):\n", len(gaps))
	for i, it := range gaps {
		if i == maxGapLines {
			fmt.Fprintf(b, "    - (+%d more)\n", len(gaps)-maxGapLines)
			break
		}
		claim := strings.TrimSpace(it.Claim)
		if claim == "" {
			claim = "(no claim)"
		}
		fmt.Fprintf(b, "    - %s: %s\n", it.ID, claim)
	}
}

// formatNumber renders a float without a trailing .0 for whole values.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
