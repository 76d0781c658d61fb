package evidence

import (
	"reflect"
	"time"

	"ciag/internal/operator"
)

// placeholderSpec is one catalog entry: a structured evidence gap to fill,
// not a claim. Seeded items start at confidence 0, status missing.
type placeholderSpec struct {
	category   string
	systemType string
	claim      string
	notes      string
	tags       []string
}

// catalog is the fixed set of (category, systemType) placeholders every
// operator is seeded with: six core systems, the AI exposure surface, the PCI
// compliance surface, and the PII data categories.
var catalog = []placeholderSpec{
	{"core_systems", "PMS", "PMS vendor/product not yet evidenced",
		"Fill with authoritative vendor evidence (contract, vendor portal, or operator confirmation).", []string{"tier1", "system"}},
	{"core_systems", "POS", "POS vendor/product not yet evidenced",
		"If hotels: confirm POS presence; if limited-service may be minimal.", []string{"tier1", "system"}},
	{"core_systems", "HRIS", "HRIS vendor/product not yet evidenced",
		"Capture HRIS and payroll adjacency.", []string{"workforce", "system"}},
	{"core_systems", "WFM", "Workforce/WFM vendor not yet evidenced",
		"Scheduling/labor optimization is a primary AI surface in hospitality.", []string{"workforce", "system"}},
	{"core_systems", "Scheduling", "Scheduling tool not yet evidenced",
		"Often overlaps with WFM; confirm toolchain.", []string{"workforce", "system"}},
	{"core_systems", "Payments", "Payment processor not yet evidenced",
		"PCI adjacency; confirm processor + gateway + PMS integration.", []string{"pci", "system"}},
	{"ai_exposure", "Other", "AI-enabled vendor features not yet enumerated",
		"Examples: fraud detection, dynamic pricing, resume screening, forecasting.", []string{"ai", "exposure"}},
	{"compliance_surface", "Payments", "PCI scope/adjacency not yet mapped",
		"Determine card data environment boundaries and service providers.", []string{"pci", "compliance"}},
	{"data_categories", "HRIS", "PII categories processed not yet enumerated",
		"Payroll, SSN, contact info, scheduling data, performance notes.", []string{"pii", "data"}},
}

// seedGenerator is recorded in document provenance.
const seedGenerator = "ciag seed"

// Seed creates or merges the evidence document for the selected operator.
// Items are merged by stable id: an id already present is left untouched
// (preserving any intake-filled status and confidence), missing placeholders
// are appended at confidence 0 / status missing. CreatedAt survives re-seeds;
// UpdatedAt refreshes only when content actually changed, so repeated seeding
// with no intake in between is byte-stable.
func Seed(sel *operator.Selection, prev *Document, selectionPath string, now time.Time) (*Document, error) {
	slug := sel.ResolvedSlug()
	if slug == "" {
		return nil, sel.Validate()
	}

	nowISO := now.UTC().Format(time.RFC3339)
	locations, _ := sel.LocationsValue()

	next := &Document{
		SchemaVersion: SchemaVersion,
		Operator:      OperatorRef{Name: sel.DisplayName(), Slug: slug, Locations: locations},
		Meta: Meta{
			CreatedAt:  nowISO,
			UpdatedAt:  nowISO,
			Provenance: Provenance{SelectionPath: selectionPath, Generator: seedGenerator},
		},
	}

	seen := make(map[string]bool)
	if prev != nil {
		next.Meta = prev.Meta
		next.Items = append(next.Items, prev.Items...)
		for _, it := range prev.Items {
			seen[it.ID] = true
		}
	}

	added := 0
	for _, p := range catalog {
		id := StableID(slug, p.category, p.systemType, nil, nil, p.claim)
		if seen[id] {
			continue
		}
		next.Items = append(next.Items, Item{
			ID:           id,
			Category:     p.category,
			SystemType:   p.systemType,
			Claim:        p.claim,
			EvidenceType: "unknown",
			Source:       Source{CapturedAt: nowISO},
			Confidence:   0,
			Status:       StatusMissing,
			Notes:        p.notes,
			Tags:         p.tags,
		})
		seen[id] = true
		added++
	}

	changed := prev == nil || added > 0 ||
		!reflect.DeepEqual(prev.Operator, next.Operator) ||
		prev.SchemaVersion != next.SchemaVersion
	if changed {
		next.Meta.UpdatedAt = nowISO
		if next.Meta.CreatedAt == "" {
			next.Meta.CreatedAt = nowISO
		}
		next.Meta.Provenance = Provenance{SelectionPath: selectionPath, Generator: seedGenerator}
	}
	return next, nil
}
