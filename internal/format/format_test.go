package format_test

import (
	"strings"
	"testing"

	"ciag/internal/format"
)

func TestASCII_BasicTable(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Artifact", "Present", "SHA256")
	tb.Row("evidence.json", "✓", "4cdd35ee")
	tb.Row("risk-register.csv", "✓", "80c56547")
	out := tb.String()

	if !strings.Contains(out, "Artifact") {
		t.Errorf("expected header 'Artifact' in output:\n%s", out)
	}
	if !strings.Contains(out, "evidence.json") {
		t.Errorf("expected 'evidence.json' in output:\n%s", out)
	}
	// ASCII uses box-drawing characters from StyleLight
	if !strings.Contains(out, "───") {
		t.Errorf("expected box-drawing characters in ASCII output:\n%s", out)
	}
}

func TestMarkdown_BasicTable(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Step", "Outcome")
	tb.Row("seed", "changed")
	tb.Row("derive", "unchanged")
	out := tb.String()

	if !strings.Contains(out, "| Step") {
		t.Errorf("expected markdown header with '| Step':\n%s", out)
	}
	if !strings.Contains(out, "---") {
		t.Errorf("expected markdown separator '---':\n%s", out)
	}
}

func TestMarkdown_WithFooter(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Status", "Rows")
	tb.Row("Open", 7)
	tb.Row("Mitigated", 3)
	tb.Footer("TOTAL", 10)
	out := tb.String()

	if !strings.Contains(out, "TOTAL") || !strings.Contains(out, "10") {
		t.Errorf("expected footer totals in output:\n%s", out)
	}
}

func TestColumns_RightAlign(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Name", "Count")
	tb.Row("risks", 12345)
	tb.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	out := tb.String()

	if !strings.Contains(out, "12345") {
		t.Errorf("expected '12345' in output:\n%s", out)
	}
}

func TestFmtScore(t *testing.T) {
	if got := format.FmtScore(nil); got != "-" {
		t.Errorf("FmtScore(nil) = %q", got)
	}
	whole := 8.0
	if got := format.FmtScore(&whole); got != "8" {
		t.Errorf("FmtScore(8.0) = %q", got)
	}
	frac := 7.5
	if got := format.FmtScore(&frac); got != "7.5" {
		t.Errorf("FmtScore(7.5) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"abcdef", 3, "abc"},
	}
	for _, tc := range tests {
		if got := format.Truncate(tc.in, tc.maxLen); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
		}
	}
}

func TestBoolMark(t *testing.T) {
	if format.BoolMark(true) != "✓" || format.BoolMark(false) != "✗" {
		t.Error("BoolMark marks wrong")
	}
}
