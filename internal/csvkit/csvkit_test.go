package csvkit

import (
	"errors"
	"strings"
	"testing"

	"github.com/insightdelivered/disclosure-workbench/internal/models"
)

func TestParse(t *testing.T) {
	text := "Date,Description,Amount\n15/03/2024,Shop,-1.00\n16/03/2024,Other,2.00\n"

	table, err := Parse(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Headers) != 3 {
		t.Fatalf("headers: got %d, want 3", len(table.Headers))
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(table.Rows))
	}
	if table.Rows[0]["Description"] != "Shop" {
		t.Errorf("row value: got %q, want %q", table.Rows[0]["Description"], "Shop")
	}
}

func TestParse_ShortRowsPadded(t *testing.T) {
	table, err := Parse("A,B,C\n1,2\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Rows[0]["C"] != "" {
		t.Errorf("missing cell should read empty, got %q", table.Rows[0]["C"])
	}
}

func TestParse_RowCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("Date,Amount\n")
	for i := 0; i < MaxRows+50; i++ {
		b.WriteString("2024-01-01,-1.00\n")
	}

	table, err := Parse(b.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Rows) != MaxRows {
		t.Errorf("rows: got %d, want %d", len(table.Rows), MaxRows)
	}
	if table.Truncated != 50 {
		t.Errorf("truncated: got %d, want 50", table.Truncated)
	}
}

func TestColumn_AliasesCaseInsensitive(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		semantic string
		expected string
	}{
		{"exact", "Date,Description,Amount", ColDate, "Date"},
		{"upper", "DATE,DESC,AMOUNT", ColDate, "DATE"},
		{"alias narrative", "Date,Narrative,Amount", ColDescription, "Narrative"},
		{"alias txn date", "Txn Date,Details,Value", ColDate, "Txn Date"},
		{"alias sub-category", "Date,Amount,Sub-Category", ColSubcategory, "Sub-Category"},
		{"priority order", "Reference,Description,Amount", ColDescription, "Description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Parse(tt.header + "\n")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, ok := table.Column(tt.semantic)
			if !ok {
				t.Fatalf("Column(%q): not found", tt.semantic)
			}
			if got != tt.expected {
				t.Errorf("Column(%q): got %q, want %q", tt.semantic, got, tt.expected)
			}
		})
	}
}

func TestRequireColumn(t *testing.T) {
	table, err := Parse("Description,Amount\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = table.RequireColumn(ColDate, "statement.csv")
	if err == nil {
		t.Fatal("expected error for missing date column")
	}
	var missing *models.MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %T", err)
	}
	if missing.File != "statement.csv" {
		t.Errorf("File: got %q, want %q", missing.File, "statement.csv")
	}
}
