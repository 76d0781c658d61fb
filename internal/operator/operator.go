// Package operator loads the Operator Selection Record, the single
// current-operator pointer produced by the upstream selection process. The
// core reads it, validates the slug, and never mutates it.
package operator

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"ciag/internal/pipeline"
)

// Selection is the operator selection record. The slug is the canonical
// identity key; everything else is free-form metadata copied through
// unchanged. Legacy key aliases (name/slug) from older producers are accepted
// on read.
type Selection struct {
	Rank           int             `json:"rank,omitempty"`
	Name           string          `json:"operator_name,omitempty"`
	Slug           string          `json:"operator_slug,omitempty"`
	Locations      *float64        `json:"locations,omitempty"`
	CompositeScore *float64        `json:"composite_score,omitempty"`
	Confidence     *float64        `json:"confidence_score,omitempty"`
	Priority       string          `json:"priority,omitempty"`
	OutreachStatus string          `json:"outreach_status,omitempty"`
	Provenance     json.RawMessage `json:"provenance,omitempty"`

	LegacyName string `json:"name,omitempty"`
	LegacySlug string `json:"slug,omitempty"`
}

// Load reads the selection record at path. Fails closed when the record is
// absent or its slug is unresolvable.
func Load(path string) (*Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pipeline.MissingInput("operator selection record", path)
		}
		return nil, fmt.Errorf("read selection record: %w", err)
	}
	var sel Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &sel, nil
}

// Validate checks that the record carries a usable slug.
func (s *Selection) Validate() error {
	if s.ResolvedSlug() == "" {
		return pipeline.InvalidIdentity("selection record missing operator_slug/slug")
	}
	return nil
}

// ResolvedSlug returns the canonical lowercase slug, resolving legacy keys.
func (s *Selection) ResolvedSlug() string {
	slug := s.Slug
	if slug == "" {
		slug = s.LegacySlug
	}
	return strings.ToLower(strings.TrimSpace(slug))
}

// DisplayName returns the operator name for rendering, resolving legacy keys.
func (s *Selection) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.LegacyName != "" {
		return s.LegacyName
	}
	return "UNKNOWN_OPERATOR"
}

// LocationsValue returns the reported location count, if the record has one.
func (s *Selection) LocationsValue() (float64, bool) {
	if s.Locations == nil {
		return 0, false
	}
	return *s.Locations, true
}
