// Package evidence models the evidence store for one operator: structured
// claims about the operator's systems and vendors, each with a confidence
// score and an observation status. Items are content-addressed so re-seeding
// never duplicates and never regresses an observed claim.
package evidence

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"ciag/internal/pipeline"
)

// SchemaVersion identifies the evidence document schema.
const SchemaVersion = "evidence.v1"

// Status is the observation status of an evidence item. It only strengthens
// over a run: missing → partial → observed, never back.
type Status string

const (
	StatusMissing  Status = "missing"
	StatusPartial  Status = "partial"
	StatusObserved Status = "observed"
)

// Rank orders statuses by strength (missing=0, partial=1, observed=2).
func (s Status) Rank() int {
	switch s {
	case StatusObserved:
		return 2
	case StatusPartial:
		return 1
	default:
		return 0
	}
}

// Source records where a claim was captured from. URL and Ref stay null until
// intake supplies them.
type Source struct {
	URL        *string `json:"url"`
	Ref        *string `json:"ref"`
	CapturedAt string  `json:"capturedAt"`
}

// Item is a single claim about one of the operator's systems.
type Item struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	SystemType   string   `json:"systemType"`
	Vendor       *string  `json:"vendor"`
	Product      *string  `json:"product"`
	Claim        string   `json:"claim"`
	EvidenceType string   `json:"evidenceType"`
	Source       Source   `json:"source"`
	Confidence   float64  `json:"confidence"`
	Status       Status   `json:"status"`
	Notes        string   `json:"notes"`
	Tags         []string `json:"tags"`
}

// OperatorRef is the operator identity embedded in the document.
type OperatorRef struct {
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Locations float64 `json:"locations"`
}

// Provenance records how the document was produced.
type Provenance struct {
	SelectionPath string `json:"selectionPath"`
	Generator     string `json:"generator"`
}

// Meta carries document lifecycle stamps. CreatedAt is preserved across
// re-seeds; UpdatedAt refreshes whenever content actually changes.
type Meta struct {
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
	Provenance      Provenance      `json:"provenance"`
	IntakeAppliedAt string          `json:"intakeAppliedAt,omitempty"`
	IntakeSource    string          `json:"intakeSource,omitempty"`
	AIInventory     json.RawMessage `json:"aiInventory,omitempty"`
}

// Document is the whole evidence store for one operator.
type Document struct {
	SchemaVersion string      `json:"schemaVersion"`
	Operator      OperatorRef `json:"operator"`
	Meta          Meta        `json:"meta"`
	Items         []Item      `json:"items"`
}

// StableID derives the content-addressed item id. The field order
// (slug, category, systemType, vendor, product, claim) and the "|" separator
// are a fixed contract; nil fields contribute empty strings.
func StableID(slug, category, systemType string, vendor, product *string, claim string) string {
	parts := []string{slug, category, systemType, deref(vendor), deref(product), claim}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Load reads the evidence document for an operator. Fails closed when the
// document does not exist (seed must run first).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pipeline.MissingInput("evidence document", path)
		}
		return nil, fmt.Errorf("read evidence: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.SchemaVersion == "" {
		return nil, pipeline.SchemaViolation(fmt.Sprintf("%s: missing required key: schemaVersion", path))
	}
	return &doc, nil
}

// ItemsFor returns the items with the given system type, in document order.
func (d *Document) ItemsFor(systemType string) []Item {
	want := strings.TrimSpace(systemType)
	var out []Item
	for _, it := range d.Items {
		if strings.TrimSpace(it.SystemType) == want {
			out = append(out, it)
		}
	}
	return out
}

// SystemTypes returns the distinct system types present, in document order.
func (d *Document) SystemTypes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range d.Items {
		t := strings.TrimSpace(it.SystemType)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// BestObserved returns the observed item with the highest confidence for a
// system type. Ties keep the earlier item (stable document order).
func (d *Document) BestObserved(systemType string) *Item {
	var best *Item
	for i := range d.Items {
		it := &d.Items[i]
		if strings.TrimSpace(it.SystemType) != strings.TrimSpace(systemType) {
			continue
		}
		if it.Status != StatusObserved {
			continue
		}
		if best == nil || it.Confidence > best.Confidence {
			best = it
		}
	}
	return best
}
