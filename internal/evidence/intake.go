package evidence

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"ciag/internal/pipeline"
)

// SystemResponse is one system's answers from the intake questionnaire.
// Nil fields mean "no update"; any concrete intake for a system marks its
// evidence observed.
type SystemResponse struct {
	Vendor            *string      `json:"vendor"`
	Product           *string      `json:"product"`
	EvidenceURL       *string      `json:"evidenceUrl"`
	Notes             *string      `json:"notes"`
	Confidence        *float64     `json:"confidence"`
	PCI               *PCIResponse `json:"pci,omitempty"`
	AIEnabledFeatures []string     `json:"aiEnabledFeatures,omitempty"`
}

// PCIResponse captures PCI scope answers for the Payments system.
type PCIResponse struct {
	SAQ          *string `json:"saq"`
	Tokenization *bool   `json:"tokenization"`
	ScopeNotes   *string `json:"scopeNotes"`
}

// IntakeResponse is the intake questionnaire response document, keyed by
// system type.
type IntakeResponse struct {
	Operator *struct {
		Name      string   `json:"name,omitempty"`
		Slug      string   `json:"slug,omitempty"`
		Locations *float64 `json:"locations,omitempty"`
	} `json:"operator,omitempty"`
	Locations   *float64                  `json:"locations,omitempty"`
	CapturedAt  string                    `json:"capturedAt,omitempty"`
	Systems     map[string]SystemResponse `json:"systems"`
	AIInventory json.RawMessage           `json:"aiInventory,omitempty"`
}

// LoadIntake reads an intake response document. Fails closed when absent.
func LoadIntake(path string) (*IntakeResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pipeline.MissingInput("intake response", path)
		}
		return nil, fmt.Errorf("read intake: %w", err)
	}
	var resp IntakeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &resp, nil
}

// ApplyIntake folds an intake response into the evidence document. For every
// system key present, all evidence items with a matching systemType get
// vendor/product/notes/confidence overwritten where the intake supplies a
// non-null value, are always promoted to observed, and have their source
// capture time restamped. Returns the number of items touched. The document's
// meta records when and from where the intake was applied.
func ApplyIntake(doc *Document, resp *IntakeResponse, sourcePath string, now time.Time) int {
	nowISO := now.UTC().Format(time.RFC3339)

	keys := make([]string, 0, len(resp.Systems))
	for k := range resp.Systems {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	touched := 0
	for _, key := range keys {
		sys := resp.Systems[key]
		for i := range doc.Items {
			it := &doc.Items[i]
			if strings.TrimSpace(it.SystemType) != strings.TrimSpace(key) {
				continue
			}
			if sys.Vendor != nil {
				it.Vendor = sys.Vendor
			}
			if sys.Product != nil {
				it.Product = sys.Product
			}
			if sys.EvidenceURL != nil {
				it.Source.URL = sys.EvidenceURL
			}
			if sys.Notes != nil {
				it.Notes = *sys.Notes
			}
			if sys.Confidence != nil {
				it.Confidence = *sys.Confidence
			}
			it.Status = StatusObserved
			it.Source.CapturedAt = nowISO
			touched++
		}
	}

	doc.Meta.IntakeAppliedAt = nowISO
	doc.Meta.IntakeSource = sourcePath
	if len(resp.AIInventory) > 0 {
		doc.Meta.AIInventory = resp.AIInventory
	}
	doc.Meta.UpdatedAt = nowISO
	return touched
}

// intakeSystems is the fixed key set of the intake template.
var intakeSystems = []string{"PMS", "POS", "HRIS", "WFM", "Scheduling", "Payments", "Other"}

// Template returns an empty intake response for the operator: seven system
// blocks with null answers and the default per-system confidence, plus the
// AI-inventory closure block.
func Template(now time.Time) *IntakeResponse {
	defaultConfidence := 7.0
	systems := make(map[string]SystemResponse, len(intakeSystems))
	for _, name := range intakeSystems {
		sys := SystemResponse{Confidence: &defaultConfidence}
		switch name {
		case "Payments":
			sys.PCI = &PCIResponse{}
		case "Other":
			sys.AIEnabledFeatures = []string{}
		}
		systems[name] = sys
	}
	return &IntakeResponse{
		CapturedAt: now.UTC().Format(time.RFC3339),
		Systems:    systems,
		AIInventory: json.RawMessage(`{
      "blocker_R001_closed": false,
      "aiEnabledTools": [],
      "shadowAI": [],
      "dataClasses": { "PII": [], "PCI": [], "Workforce": [], "Other": [] },
      "owner": null,
      "notes": null,
      "confidence": 7
    }`),
	}
}
