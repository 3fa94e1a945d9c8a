package casefile

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/insightdelivered/disclosure-workbench/internal/models"
)

func TestCaseFileRoundTrip(t *testing.T) {
	c := New("smith-v-smith", time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC))
	c.Transactions = append(c.Transactions, models.Transaction{
		ID:     "t1",
		Date:   "2024-03-15",
		Clean:  "Pick n Pay",
		Amount: -450,
		Cat:    "Groceries",
		Status: models.StatusConfirmed,
	})
	c.Claims = append(c.Claims, models.Claim{
		ID:       "c1",
		Category: "Groceries",
		Claimed:  3500,
		Source:   "imported",
	})

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if got.Version != SchemaVersion {
		t.Errorf("version: got %d, want %d", got.Version, SchemaVersion)
	}
	if got.CaseName != "smith-v-smith" {
		t.Errorf("case name: got %q", got.CaseName)
	}
	if len(got.Transactions) != 1 || got.Transactions[0].Status != models.StatusConfirmed {
		t.Errorf("transactions did not survive round trip: %+v", got.Transactions)
	}
	if len(got.Claims) != 1 || got.Claims[0].Claimed != 3500 {
		t.Errorf("claims did not survive round trip: %+v", got.Claims)
	}
}

func TestNewNormalizesSlices(t *testing.T) {
	var buf bytes.Buffer
	if err := New("empty", time.Now()).Write(&buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "null") {
		t.Errorf("empty case file should carry arrays, not null:\n%s", out)
	}
}

func TestReadLegacyStatusAliases(t *testing.T) {
	legacy := `{
		"version": 2,
		"caseName": "old-export",
		"transactions": [
			{"id": "t1", "date": "2023-11-01", "amount": -100, "status": "proven"},
			{"id": "t2", "date": "2023-11-02", "amount": -200, "status": "flagged"}
		]
	}`

	c, err := Read(strings.NewReader(legacy))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if c.Transactions[0].Status != models.StatusConfirmed {
		t.Errorf("proven should map to %q, got %q", models.StatusConfirmed, c.Transactions[0].Status)
	}
	if c.Transactions[1].Status != models.StatusRejected {
		t.Errorf("flagged should map to %q, got %q", models.StatusRejected, c.Transactions[1].Status)
	}
}

func TestTransactionCSVWriter(t *testing.T) {
	txns := []models.Transaction{
		{Date: "2024-03-15", Clean: "Pick n Pay", Entity: models.EntityPersonal, Cat: "Groceries", Amount: -450, Status: models.StatusConfirmed},
		{Date: "2024-03-20", Clean: "Salary", Cat: "Income", Amount: 25000.5, Status: models.StatusPending},
	}

	var buf bytes.Buffer
	w := &TransactionCSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, txns); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Date,Description,Entity,Category,Amount,Status" {
		t.Errorf("header: got %q", lines[0])
	}
	if lines[1] != "2024-03-15,Pick n Pay,PERSONAL,Groceries,-450.00,confirmed" {
		t.Errorf("row 1: got %q", lines[1])
	}
	if !strings.Contains(lines[2], "25000.50") {
		t.Errorf("row 2 amount: got %q", lines[2])
	}
}
