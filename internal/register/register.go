// Package register models the risk register: a tabular ledger of named
// risks, one row per risk, tied to a system type. The on-disk form is CSV
// with a fixed, versioned column schema; schema mismatch is a first-class
// error, never a silent repair.
package register

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"ciag/internal/pipeline"
)

// Columns is schema v1, in canonical serialization order.
var Columns = []string{
	"risk_id", "title", "system_type", "category", "severity",
	"likelihood", "status", "owner", "evidence_refs", "notes",
}

// Row statuses and severity/likelihood levels.
const (
	StatusOpen      = "Open"
	StatusMitigated = "Mitigated"

	SeverityCritical = "Critical"
	SeverityHigh     = "High"
	SeverityMedium   = "Medium"
	SeverityLow      = "Low"

	LikelihoodHigh   = "High"
	LikelihoodMedium = "Medium"
	LikelihoodLow    = "Low"
)

// Row is one risk register entry.
type Row struct {
	RiskID       string
	Title        string
	SystemType   string
	Category     string
	Severity     string
	Likelihood   string
	Status       string
	Owner        string
	EvidenceRefs string
	Notes        string
}

// Mitigated reports whether the row's status is Mitigated (case-insensitive).
func (r *Row) Mitigated() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), StatusMitigated)
}

// SeverityRank orders severities for sorting and the blocking heuristic:
// Critical=0, High=1, Medium=2, Low=3; unknown ranks last.
func SeverityRank(severity string) int {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "critical":
		return 0
	case "high":
		return 1
	case "medium":
		return 2
	case "low":
		return 3
	default:
		return 9
	}
}

// Register is the in-memory risk register.
type Register struct {
	Rows []Row
}

// Load reads and parses the register at path. Fails closed when absent.
func Load(path string) (*Register, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pipeline.MissingInput("risk register", path)
		}
		return nil, fmt.Errorf("read risk register: %w", err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse decodes CSV into typed rows. The header must contain every schema v1
// column (any order) and nothing else; a missing column is a schema
// violation naming the column, an unknown column is a schema violation
// naming the stray header.
func Parse(data []byte) (*Register, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, pipeline.SchemaViolation("risk register has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("parse risk register header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			return nil, pipeline.SchemaViolation("missing required column: " + col)
		}
	}
	if len(index) > len(Columns) {
		for _, h := range header {
			known := false
			for _, col := range Columns {
				if strings.EqualFold(strings.TrimSpace(h), col) {
					known = true
					break
				}
			}
			if !known {
				return nil, pipeline.SchemaViolation("unrecognized column: " + strings.TrimSpace(h))
			}
		}
	}

	cell := func(rec []string, col string) string {
		i := index[col]
		if i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	reg := &Register{}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse risk register row: %w", err)
		}
		reg.Rows = append(reg.Rows, Row{
			RiskID:       cell(rec, "risk_id"),
			Title:        cell(rec, "title"),
			SystemType:   cell(rec, "system_type"),
			Category:     cell(rec, "category"),
			Severity:     cell(rec, "severity"),
			Likelihood:   cell(rec, "likelihood"),
			Status:       cell(rec, "status"),
			Owner:        cell(rec, "owner"),
			EvidenceRefs: cell(rec, "evidence_refs"),
			Notes:        cell(rec, "notes"),
		})
	}
	return reg, nil
}

// Bytes serializes the register in canonical column order with RFC-4180
// quoting (fields containing comma/quote/newline are quote-wrapped, embedded
// quotes doubled).
func (g *Register) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	for _, row := range g.Rows {
		rec := []string{
			row.RiskID, row.Title, row.SystemType, row.Category, row.Severity,
			row.Likelihood, row.Status, row.Owner, row.EvidenceRefs, row.Notes,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FindBySystem returns pointers to the rows with the given system type.
func (g *Register) FindBySystem(systemType string) []*Row {
	want := strings.TrimSpace(systemType)
	var out []*Row
	for i := range g.Rows {
		if strings.TrimSpace(g.Rows[i].SystemType) == want {
			out = append(out, &g.Rows[i])
		}
	}
	return out
}
