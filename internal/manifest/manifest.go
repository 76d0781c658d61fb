// Package manifest builds and validates the per-run artifact manifest:
// an audit record pairing every produced artifact with its SHA-256 content
// hash. The validator is the drift detector for a finished run.
package manifest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"ciag/internal/artifact"
	"ciag/internal/pipeline"
	"ciag/internal/workspace"
)

// Artifact kinds. The validator treats the full set as required.
const (
	KindInputTier1          = "input:tier1"
	KindInputIntake         = "input:intake"
	KindReachPrequal        = "reach:prequal"
	KindReachLetter         = "reach:letter"
	KindSalesSource         = "sales:source"
	KindSalesOutreachLetter = "sales:outreach_letter"
	KindSalesPipelineState  = "sales:pipeline_state"
	KindTriageEvidence      = "triage:evidence"
	KindTriageRiskRegister  = "triage:risk_register"
	KindTriageRecommend     = "triage:recommendation"
	KindTriageRunbook       = "triage:pilot_runbook"
)

// RequiredKinds is the closed set a valid run manifest must cover.
var RequiredKinds = []string{
	KindInputTier1,
	KindInputIntake,
	KindReachPrequal,
	KindReachLetter,
	KindSalesSource,
	KindSalesOutreachLetter,
	KindSalesPipelineState,
	KindTriageEvidence,
	KindTriageRiskRegister,
	KindTriageRecommend,
	KindTriageRunbook,
}

// Entry records one artifact: its kind, workspace-relative path, and the
// content hash taken at build time.
type Entry struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
}

// Manifest is the persisted run record for one operator slug.
type Manifest struct {
	Slug        string  `json:"slug"`
	GeneratedAt string  `json:"generatedAt"`
	Artifacts   []Entry `json:"artifacts"`
}

// candidate is a (kind, path) pair considered for inclusion.
type candidate struct {
	kind string
	path string
}

// Build assembles the manifest for slug from the fixed, ordered candidate
// list. tier1 and intake are optional external input paths; empty means not
// provided. Only candidates whose path exists are included, each hashed at
// inclusion time.
func Build(ws workspace.Layout, slug, tier1, intake string, now time.Time) (*Manifest, error) {
	var candidates []candidate
	if tier1 != "" {
		candidates = append(candidates, candidate{KindInputTier1, tier1})
	}
	if intake != "" {
		candidates = append(candidates, candidate{KindInputIntake, intake})
	}
	candidates = append(candidates,
		candidate{KindReachPrequal, ws.PrequalPath(slug)},
		candidate{KindReachLetter, ws.ReachLetterPath(slug)},
		candidate{KindSalesSource, ws.SalesSourcePath(slug)},
		candidate{KindSalesOutreachLetter, ws.OutreachLetterPath(slug)},
		candidate{KindSalesPipelineState, ws.PipelineStatePath(slug)},
		candidate{KindTriageEvidence, ws.EvidencePath(slug)},
		candidate{KindTriageRiskRegister, ws.RiskRegisterPath(slug)},
		candidate{KindTriageRecommend, ws.RecommendationPath(slug)},
		candidate{KindTriageRunbook, ws.RunbookPath(slug)},
	)

	m := &Manifest{
		Slug:        slug,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Artifacts:   []Entry{},
	}
	for _, c := range candidates {
		if !artifact.Exists(c.path) {
			continue
		}
		sum, err := artifact.SHA256File(c.path)
		if err != nil {
			return nil, fmt.Errorf("hash %s: %w", c.path, err)
		}
		m.Artifacts = append(m.Artifacts, Entry{Kind: c.kind, Path: ws.Rel(c.path), SHA256: sum})
	}
	return m, nil
}

// Write persists the manifest. GeneratedAt is excluded from the change
// check, so rebuilding over unchanged artifacts leaves the file alone.
func Write(ws workspace.Layout, m *Manifest) (bool, error) {
	path := ws.ManifestPath(m.Slug)
	if prev, err := load(path); err == nil && prev.Slug == m.Slug && sameArtifacts(prev.Artifacts, m.Artifacts) {
		return false, nil
	}
	return artifact.WriteJSONIfChanged(path, m)
}

func sameArtifacts(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Load reads the manifest for slug. Fails closed when absent.
func Load(ws workspace.Layout, slug string) (*Manifest, error) {
	return load(ws.ManifestPath(slug))
}

func load(path string) (*Manifest, error) {
	var m Manifest
	if err := artifact.ReadJSON(path, &m); err != nil {
		if !artifact.Exists(path) {
			return nil, pipeline.MissingInput("run manifest", path)
		}
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// Validate loads the manifest for slug and fails closed when any required
// kind is absent or any recorded path no longer resolves on disk. Returns
// the artifact count on success.
func Validate(ws workspace.Layout, slug string) (int, error) {
	m, err := Load(ws, slug)
	if err != nil {
		return 0, err
	}

	kinds := map[string]bool{}
	for _, a := range m.Artifacts {
		kinds[a.Kind] = true
	}
	var missingKinds []string
	for _, k := range RequiredKinds {
		if !kinds[k] {
			missingKinds = append(missingKinds, k)
		}
	}
	if len(missingKinds) > 0 {
		return 0, fmt.Errorf("%w: manifest missing required kinds: %s",
			pipeline.ErrSchemaViolation, strings.Join(missingKinds, ", "))
	}

	var missingPaths []string
	for _, a := range m.Artifacts {
		if a.Path == "" {
			continue
		}
		if !artifact.Exists(ws.Abs(a.Path)) {
			missingPaths = append(missingPaths, a.Path)
		}
	}
	if len(missingPaths) > 0 {
		sort.Strings(missingPaths)
		return 0, fmt.Errorf("%w: manifest references missing paths: %s",
			pipeline.ErrDrift, strings.Join(missingPaths, ", "))
	}
	return len(m.Artifacts), nil
}

// Verify re-hashes every recorded artifact and reports the first mismatch.
// A deleted file reports as drift, same as Validate.
func Verify(ws workspace.Layout, slug string) error {
	m, err := Load(ws, slug)
	if err != nil {
		return err
	}
	for _, a := range m.Artifacts {
		abs := ws.Abs(a.Path)
		if !artifact.Exists(abs) {
			return fmt.Errorf("%w: manifest references missing path: %s", pipeline.ErrDrift, a.Path)
		}
		sum, err := artifact.SHA256File(abs)
		if err != nil {
			return fmt.Errorf("hash %s: %w", a.Path, err)
		}
		if sum != a.SHA256 {
			return fmt.Errorf("%w: %s content changed since manifest build", pipeline.ErrDrift, a.Path)
		}
	}
	return nil
}
