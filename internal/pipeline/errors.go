// Package pipeline defines the shared vocabulary of the triage pipeline:
// stage names and the fail-closed error taxonomy every stage reports through.
package pipeline

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every fail-closed condition wraps exactly one of these so
// callers (and tests) can classify failures with errors.Is.
var (
	// ErrMissingInput marks a required upstream file or record as absent.
	ErrMissingInput = errors.New("missing input")
	// ErrInvalidIdentity marks an unresolved or empty operator slug.
	ErrInvalidIdentity = errors.New("invalid operator identity")
	// ErrSchemaViolation marks a CSV missing a required column or a JSON
	// document missing a required key.
	ErrSchemaViolation = errors.New("schema violation")
	// ErrUnresolvedReference marks a manifest path or evidence id that does
	// not resolve.
	ErrUnresolvedReference = errors.New("unresolved reference")
	// ErrDrift marks a manifest-recorded path that no longer exists on disk.
	ErrDrift = errors.New("artifact drift")
)

// MissingInput reports an absent required artifact with its expected path.
func MissingInput(what, path string) error {
	return fmt.Errorf("%w: %s (expected at %s)", ErrMissingInput, what, path)
}

// InvalidIdentity reports an unusable operator identity.
func InvalidIdentity(detail string) error {
	return fmt.Errorf("%w: %s", ErrInvalidIdentity, detail)
}

// SchemaViolation reports a structural defect in an input document.
func SchemaViolation(detail string) error {
	return fmt.Errorf("%w: %s", ErrSchemaViolation, detail)
}

// Stage names, used for journal records and step-scoped logging.
const (
	StageScaffold  = "scaffold"
	StageSeed      = "seed"
	StageIntake    = "intake"
	StageDerive    = "derive"
	StagePolicy    = "policy"
	StageRecommend = "recommend"
	StageRunbook   = "runbook"
	StageSales     = "sales"
	StageManifest  = "manifest"
	StageValidate  = "validate"
)
