package register

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ciag/internal/pipeline"
)

const headerLine = "risk_id,title,system_type,category,severity,likelihood,status,owner,evidence_refs,notes\n"

func TestParse_RoundTripQuotedFields(t *testing.T) {
	in := headerLine +
		"R-001,\"Unknown AI usage, scope unclear\",,Discovery,High,Medium,Open,CIAG,[],\"Inventory \"\"shadow\"\" tools\"\n" +
		"R-SYS-PMS,PMS governance coverage unknown,PMS,Discovery,Medium,Medium,Open,CIAG,[],\n"

	reg, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(reg.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(reg.Rows))
	}
	if reg.Rows[0].Title != "Unknown AI usage, scope unclear" {
		t.Errorf("quoted comma field: %q", reg.Rows[0].Title)
	}
	if reg.Rows[0].Notes != `Inventory "shadow" tools` {
		t.Errorf("doubled quotes: %q", reg.Rows[0].Notes)
	}

	out, err := reg.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if string(out) != in {
		t.Errorf("round trip not byte-identical:\n got: %q\nwant: %q", out, in)
	}
}

func TestParse_MissingColumn(t *testing.T) {
	in := "risk_id,title,category,severity,likelihood,status,owner,evidence_refs,notes\nR-001,x,Discovery,High,Medium,Open,CIAG,[],\n"
	_, err := Parse([]byte(in))
	if !errors.Is(err, pipeline.ErrSchemaViolation) {
		t.Fatalf("want ErrSchemaViolation, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing required column: system_type") {
		t.Errorf("error should name the column: %v", err)
	}
}

func TestParse_UnrecognizedColumn(t *testing.T) {
	in := strings.TrimSuffix(headerLine, "\n") + ",extra\n"
	_, err := Parse([]byte(in))
	if !errors.Is(err, pipeline.ErrSchemaViolation) {
		t.Fatalf("want ErrSchemaViolation, got %v", err)
	}
	if !strings.Contains(err.Error(), "unrecognized column: extra") {
		t.Errorf("error should name the stray header: %v", err)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	if _, err := Parse(nil); !errors.Is(err, pipeline.ErrSchemaViolation) {
		t.Errorf("empty input: want ErrSchemaViolation, got %v", err)
	}
}

func TestParse_ColumnOrderTolerantReadCanonicalWrite(t *testing.T) {
	in := "title,risk_id,system_type,category,severity,likelihood,status,owner,evidence_refs,notes\n" +
		"Some risk,R-001,PMS,Discovery,High,Medium,Open,CIAG,[],note\n"
	reg, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Row{
		RiskID: "R-001", Title: "Some risk", SystemType: "PMS", Category: "Discovery",
		Severity: "High", Likelihood: "Medium", Status: "Open", Owner: "CIAG",
		EvidenceRefs: "[]", Notes: "note",
	}
	if diff := cmp.Diff(want, reg.Rows[0]); diff != "" {
		t.Errorf("row (-want +got):\n%s", diff)
	}
	out, _ := reg.Bytes()
	if !strings.HasPrefix(string(out), headerLine) {
		t.Errorf("serialization must use canonical column order, got %q", strings.SplitN(string(out), "\n", 2)[0])
	}
}

func TestSeverityRank(t *testing.T) {
	cases := map[string]int{
		"Critical": 0, "critical": 0, "High": 1, "Medium": 2, "Low": 3, "weird": 9, "": 9,
	}
	for in, want := range cases {
		if got := SeverityRank(in); got != want {
			t.Errorf("SeverityRank(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir() + "/absent.csv")
	if !errors.Is(err, pipeline.ErrMissingInput) {
		t.Errorf("want ErrMissingInput, got %v", err)
	}
}
