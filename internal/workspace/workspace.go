// Package workspace resolves the on-disk artifact layout for a triage run.
// Every path the pipeline reads or writes is derived from one Layout value
// threaded through every stage.
package workspace

import (
	"path/filepath"
	"strings"
)

// Layout describes the artifact tree rooted at a working directory. All
// fields except Root are root-relative; zero values get the canonical
// defaults via WithDefaults.
type Layout struct {
	Root          string `json:"root,omitempty" yaml:"root,omitempty"`
	TriageRoot    string `json:"triageRoot,omitempty" yaml:"triageRoot,omitempty"`       // default docs/triage
	ManifestRoot  string `json:"manifestRoot,omitempty" yaml:"manifestRoot,omitempty"`   // default out/manifests
	ReachRoot     string `json:"reachRoot,omitempty" yaml:"reachRoot,omitempty"`         // default out/reach
	SalesRoot     string `json:"salesRoot,omitempty" yaml:"salesRoot,omitempty"`         // default out/sales
	IntakeRoot    string `json:"intakeRoot,omitempty" yaml:"intakeRoot,omitempty"`       // default fixtures/intake
	PolicyPath    string `json:"policyPath,omitempty" yaml:"policyPath,omitempty"`       // default docs/policy/governance_policy_v1.json
	SelectionPath string `json:"selectionPath,omitempty" yaml:"selectionPath,omitempty"` // default .ciag/operator_selected.json
	JournalPath   string `json:"journalPath,omitempty" yaml:"journalPath,omitempty"`     // default .ciag/ciag.db
}

// Default returns the canonical layout under root.
func Default(root string) Layout {
	return Layout{Root: root}.WithDefaults()
}

// WithDefaults fills every empty field with its canonical value.
func (l Layout) WithDefaults() Layout {
	if l.Root == "" {
		l.Root = "."
	}
	if l.TriageRoot == "" {
		l.TriageRoot = filepath.Join("docs", "triage")
	}
	if l.ManifestRoot == "" {
		l.ManifestRoot = filepath.Join("out", "manifests")
	}
	if l.ReachRoot == "" {
		l.ReachRoot = filepath.Join("out", "reach")
	}
	if l.SalesRoot == "" {
		l.SalesRoot = filepath.Join("out", "sales")
	}
	if l.IntakeRoot == "" {
		l.IntakeRoot = filepath.Join("fixtures", "intake")
	}
	if l.PolicyPath == "" {
		l.PolicyPath = filepath.Join("docs", "policy", "governance_policy_v1.json")
	}
	if l.SelectionPath == "" {
		l.SelectionPath = filepath.Join(".ciag", "operator_selected.json")
	}
	if l.JournalPath == "" {
		l.JournalPath = filepath.Join(".ciag", "ciag.db")
	}
	return l
}

// Abs resolves a root-relative artifact path against the layout root.
func (l Layout) Abs(rel string) string {
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}

// Rel converts an absolute (or root-joined) path back to the root-relative
// slash form recorded in manifests. Paths outside the root pass through.
func (l Layout) Rel(path string) string {
	r, err := filepath.Rel(l.Root, path)
	if err != nil || strings.HasPrefix(r, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(r)
}

// Selection returns the path of the operator selection record.
func (l Layout) Selection() string { return l.Abs(l.SelectionPath) }

// Policy returns the path of the governance policy document.
func (l Layout) Policy() string { return l.Abs(l.PolicyPath) }

// Journal returns the path of the SQLite run journal.
func (l Layout) Journal() string { return l.Abs(l.JournalPath) }

// TriageDir returns the per-operator triage directory (TRG-<slug>).
func (l Layout) TriageDir(slug string) string {
	return filepath.Join(l.Abs(l.TriageRoot), "TRG-"+slug)
}

// Per-operator triage artifacts.
func (l Layout) MemoPath(slug string) string {
	return filepath.Join(l.TriageDir(slug), "memo.md")
}
func (l Layout) EvidencePath(slug string) string {
	return filepath.Join(l.TriageDir(slug), "evidence.json")
}
func (l Layout) RiskRegisterPath(slug string) string {
	return filepath.Join(l.TriageDir(slug), "risk-register.csv")
}
func (l Layout) RecommendationPath(slug string) string {
	return filepath.Join(l.TriageDir(slug), "recommendation.md")
}
func (l Layout) RunbookPath(slug string) string {
	return filepath.Join(l.TriageDir(slug), "pilot-runbook.md")
}

// ManifestPath returns the run manifest path for slug.
func (l Layout) ManifestPath(slug string) string {
	return filepath.Join(l.Abs(l.ManifestRoot), slug+".run.json")
}

// Reach (prequalification) artifacts for slug.
func (l Layout) PrequalPath(slug string) string {
	return filepath.Join(l.Abs(l.ReachRoot), slug, "prequal.json")
}
func (l Layout) ReachLetterPath(slug string) string {
	return filepath.Join(l.Abs(l.ReachRoot), slug, "letter.md")
}

// Sales pipeline artifacts for slug.
func (l Layout) SalesSourcePath(slug string) string {
	return filepath.Join(l.Abs(l.SalesRoot), slug, "00_source.json")
}
func (l Layout) OutreachLetterPath(slug string) string {
	return filepath.Join(l.Abs(l.SalesRoot), slug, "01_outreach_letter.md")
}
func (l Layout) PipelineStatePath(slug string) string {
	return filepath.Join(l.Abs(l.SalesRoot), slug, "02_pipeline_state.json")
}

// IntakePath returns the default intake response path for slug.
func (l Layout) IntakePath(slug string) string {
	return filepath.Join(l.Abs(l.IntakeRoot), slug+".intake-response.json")
}
