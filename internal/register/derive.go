package register

import (
	"sort"
	"strings"

	"ciag/internal/evidence"
)

// coreOrder fixes the deterministic ordering of system-type-seeded rows.
var coreOrder = []string{"PMS", "POS", "HRIS", "WFM", "Scheduling", "Payments", "PCI", "PII", "Other"}

// seededRiskPrefix marks rows synthesized from evidence system types.
const seededRiskPrefix = "R-SYS-"

// derivedMarker is appended to notes when evidence closes a row.
const derivedMarker = "derivedFromEvidence"

// defaultOwner owns synthesized discovery rows.
const defaultOwner = "CIAG"

// severityFor is the deterministic default for synthesized rows: payment and
// data surfaces start High, everything else Medium.
func severityFor(systemType string) string {
	switch systemType {
	case "Payments", "PCI", "PII":
		return SeverityHigh
	}
	return SeverityMedium
}

// Derive syncs the register against the evidence document: every evidenced
// system type gets a row (synthesized as R-SYS-<TYPE> when absent), and rows
// whose system type has observed evidence are closed with a notes marker.
// Non-seeded rows keep their insertion order; seeded rows sort after them in
// core order then alphabetically. Returns the number of rows added or
// changed.
func Derive(doc *evidence.Document, reg *Register) int {
	changed := 0

	present := make(map[string]bool)
	for _, row := range reg.Rows {
		if t := strings.TrimSpace(row.SystemType); t != "" {
			present[t] = true
		}
	}

	for _, t := range orderedSystemTypes(doc) {
		if present[t] {
			continue
		}
		reg.Rows = append(reg.Rows, Row{
			RiskID:       seededRiskPrefix + strings.ToUpper(t),
			Title:        t + " governance coverage unknown",
			SystemType:   t,
			Category:     "Discovery",
			Severity:     severityFor(t),
			Likelihood:   LikelihoodMedium,
			Status:       StatusOpen,
			Owner:        defaultOwner,
			EvidenceRefs: "[]",
		})
		present[t] = true
		changed++
	}

	for i := range reg.Rows {
		row := &reg.Rows[i]
		best := doc.BestObserved(row.SystemType)
		if best == nil {
			continue
		}
		rowChanged := false
		if row.Status != StatusMitigated {
			row.Status = StatusMitigated
			rowChanged = true
		}
		if row.Likelihood != LikelihoodLow {
			row.Likelihood = LikelihoodLow
			rowChanged = true
		}
		if !strings.Contains(row.Notes, derivedMarker) {
			if strings.TrimSpace(row.Notes) == "" {
				row.Notes = derivedMarker
			} else {
				row.Notes = strings.TrimSpace(row.Notes) + " | " + derivedMarker
			}
			rowChanged = true
		}
		if rowChanged {
			changed++
		}
	}

	orderIndex := make(map[string]int, len(coreOrder))
	for i, t := range coreOrder {
		orderIndex[t] = i
	}
	sort.SliceStable(reg.Rows, func(a, b int) bool {
		ra, rb := reg.Rows[a], reg.Rows[b]
		aSeed := strings.HasPrefix(ra.RiskID, seededRiskPrefix)
		bSeed := strings.HasPrefix(rb.RiskID, seededRiskPrefix)
		if aSeed != bSeed {
			return !aSeed
		}
		if !aSeed {
			return false
		}
		ai, aok := orderIndex[strings.TrimSpace(ra.SystemType)]
		bi, bok := orderIndex[strings.TrimSpace(rb.SystemType)]
		if !aok {
			ai = len(coreOrder)
		}
		if !bok {
			bi = len(coreOrder)
		}
		if ai != bi {
			return ai < bi
		}
		return strings.TrimSpace(ra.SystemType) < strings.TrimSpace(rb.SystemType)
	})

	return changed
}

// orderedSystemTypes returns the evidence document's distinct system types,
// core systems first in core order, then the rest alphabetically.
func orderedSystemTypes(doc *evidence.Document) []string {
	types := doc.SystemTypes()
	inEvidence := make(map[string]bool, len(types))
	for _, t := range types {
		inEvidence[t] = true
	}

	var out []string
	seen := make(map[string]bool)
	for _, t := range coreOrder {
		if inEvidence[t] {
			out = append(out, t)
			seen[t] = true
		}
	}
	var rest []string
	for _, t := range types {
		if !seen[t] {
			rest = append(rest, t)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
