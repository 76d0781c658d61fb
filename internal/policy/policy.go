// Package policy implements the evidence threshold policy: a risk row moves
// to Mitigated only when observed evidence at or above a minimum confidence
// exists for its system type. The promotion is monotonic and one-way: the
// policy step never reopens a row, even if evidence later disappears.
package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"ciag/internal/evidence"
	"ciag/internal/pipeline"
	"ciag/internal/register"
)

// Threshold is the evidence bar a system type must clear.
type Threshold struct {
	MinConfidence  float64 `json:"minConfidence"`
	RequiredStatus string  `json:"requiredStatus"`
}

// OnMitigate maps a threshold match onto row mutations.
type OnMitigate struct {
	Status     string `json:"status"`
	Likelihood string `json:"likelihood"`
	NotesTag   string `json:"notesTag"`
}

// Mapping groups the mutation rules.
type Mapping struct {
	OnMitigate OnMitigate `json:"onMitigate"`
}

// Policy is the declarative governance policy document. Loaded once per run,
// never mutated by the core.
type Policy struct {
	ID          string    `json:"id"`
	Version     string    `json:"version"`
	Type        string    `json:"type,omitempty"`
	Description string    `json:"description,omitempty"`
	Threshold   Threshold `json:"threshold"`
	Mapping     Mapping   `json:"mapping"`
}

// Defaults for keys the policy document omits.
const (
	DefaultMinConfidence  = 7.0
	DefaultRequiredStatus = string(evidence.StatusObserved)
	DefaultNotesTag       = "policy=threshold-v1"
)

// Load reads the policy document at path. Fails closed when absent; missing
// keys fall back to the v1 defaults.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pipeline.MissingInput("governance policy", path)
		}
		return nil, fmt.Errorf("read policy: %w", err)
	}
	var p Policy
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	p.applyDefaults()
	return &p, nil
}

// Default returns the built-in v1 policy.
func Default() *Policy {
	p := &Policy{ID: "governance_policy_threshold_v1", Version: "1.0.0"}
	p.applyDefaults()
	return p
}

func (p *Policy) applyDefaults() {
	if p.Threshold.MinConfidence == 0 {
		p.Threshold.MinConfidence = DefaultMinConfidence
	}
	if p.Threshold.RequiredStatus == "" {
		p.Threshold.RequiredStatus = DefaultRequiredStatus
	}
	if p.Mapping.OnMitigate.Status == "" {
		p.Mapping.OnMitigate.Status = register.StatusMitigated
	}
	if p.Mapping.OnMitigate.Likelihood == "" {
		p.Mapping.OnMitigate.Likelihood = register.LikelihoodLow
	}
	if p.Mapping.OnMitigate.NotesTag == "" {
		p.Mapping.OnMitigate.NotesTag = DefaultNotesTag
	}
}

// BestEvidenceFor returns the highest-confidence evidence item for a system
// type that meets the threshold, or nil when none qualifies.
func (p *Policy) BestEvidenceFor(doc *evidence.Document, systemType string) *evidence.Item {
	want := strings.TrimSpace(systemType)
	if want == "" {
		return nil
	}
	var best *evidence.Item
	for i := range doc.Items {
		it := &doc.Items[i]
		if strings.TrimSpace(it.SystemType) != want {
			continue
		}
		if string(it.Status) != p.Threshold.RequiredStatus {
			continue
		}
		if it.Confidence < p.Threshold.MinConfidence {
			continue
		}
		if best == nil || it.Confidence > best.Confidence {
			best = it
		}
	}
	return best
}

// Apply evaluates every row against the policy and promotes matches:
// status and likelihood from the mitigation mapping, the evidence id appended
// to evidence_refs (append-if-absent), and the notes tag with the derivation
// marker appended once. Pure over the in-memory table; persistence belongs to
// the caller. Returns the number of rows changed.
func Apply(p *Policy, doc *evidence.Document, reg *register.Register) int {
	changed := 0
	for i := range reg.Rows {
		row := &reg.Rows[i]
		best := p.BestEvidenceFor(doc, row.SystemType)
		if best == nil {
			continue
		}

		rowChanged := false
		if row.Status != p.Mapping.OnMitigate.Status {
			row.Status = p.Mapping.OnMitigate.Status
			rowChanged = true
		}
		if row.Likelihood != p.Mapping.OnMitigate.Likelihood {
			row.Likelihood = p.Mapping.OnMitigate.Likelihood
			rowChanged = true
		}
		if next := appendRef(row.EvidenceRefs, best.ID); next != row.EvidenceRefs {
			row.EvidenceRefs = next
			rowChanged = true
		}
		note := p.Mapping.OnMitigate.NotesTag + "; derivedFromEvidence=[" + best.ID + "]"
		if !strings.Contains(row.Notes, note) {
			if strings.TrimSpace(row.Notes) == "" {
				row.Notes = note
			} else {
				row.Notes = strings.TrimSpace(row.Notes) + " | " + note
			}
			rowChanged = true
		}
		if rowChanged {
			changed++
		}
	}
	return changed
}

// appendRef appends id to a bracketed evidence_refs list without
// duplicating. Unrecognized formats pass through untouched.
func appendRef(refs, id string) string {
	if id == "" {
		if strings.TrimSpace(refs) == "" {
			return "[]"
		}
		return refs
	}
	s := strings.TrimSpace(refs)
	if s == "" || s == "[]" {
		return `["` + id + `"]`
	}
	if strings.Contains(s, id) {
		return refs
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		inner := strings.TrimSpace(s[1 : len(s)-1])
		if inner == "" {
			return `["` + id + `"]`
		}
		return "[" + inner + `,"` + id + `"]`
	}
	return refs
}
