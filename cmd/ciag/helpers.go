package main

import (
	"time"

	"ciag/internal/artifact"
	"ciag/internal/evidence"
	"ciag/internal/journal"
	"ciag/internal/logging"
	"ciag/internal/operator"
)

// loadSelection reads the operator selection record from the workspace.
func loadSelection() (*operator.Selection, error) {
	return operator.Load(ws.Selection())
}

// loadEvidenceIfPresent returns nil without error when no evidence document
// exists yet (first seed).
func loadEvidenceIfPresent(path string) (*evidence.Document, error) {
	if !artifact.Exists(path) {
		return nil, nil
	}
	return evidence.Load(path)
}

func nowUTC() time.Time { return time.Now().UTC() }

// docTimestamp is the deterministic timestamp for generated documents: the
// evidence document's last update, so regenerating over unchanged evidence
// yields identical bytes.
func docTimestamp(doc *evidence.Document) string {
	if doc != nil && doc.Meta.UpdatedAt != "" {
		return doc.Meta.UpdatedAt
	}
	return nowUTC().Format(time.RFC3339)
}

func outcomeFor(changed bool) string {
	if changed {
		return journal.OutcomeChanged
	}
	return journal.OutcomeUnchanged
}

// recordRun appends a step outcome to the run journal. The journal is audit
// support: failures are logged and never abort the step.
func recordRun(step, slug, artifactPath, outcome, detail string) {
	log := logging.Stage(step, slug)
	j, err := journal.Open(ws.Journal())
	if err != nil {
		log.Warn("journal unavailable", "error", err)
		return
	}
	defer j.Close()

	e := journal.Entry{
		Slug:         slug,
		Step:         step,
		ArtifactPath: ws.Rel(artifactPath),
		Outcome:      outcome,
		Detail:       detail,
	}
	if artifactPath != "" && artifact.Exists(artifactPath) {
		if sum, err := artifact.SHA256File(artifactPath); err == nil {
			e.SHA256 = sum
		}
	}
	if _, err := j.Record(e); err != nil {
		log.Warn("journal write failed", "error", err)
	}
}
