package claims

import (
	"testing"
)

func TestExtract_Segmented(t *testing.T) {
	text := "Accommodation: Rent (inclusive of utilities) 9000 KPR5\nGroceries: Basic food 3500 KPR8"

	drafts := Extract(text)
	if len(drafts) != 2 {
		t.Fatalf("drafts: got %d, want 2", len(drafts))
	}

	tests := []struct {
		idx      int
		category string
		amount   float64
		desc     string
		ref      string
	}{
		{0, "Accommodation", 9000, "Rent (inclusive of utilities)", "KPR5"},
		{1, "Groceries", 3500, "Basic food", "KPR8"},
	}

	for _, tt := range tests {
		d := drafts[tt.idx]
		if d.Category != tt.category {
			t.Errorf("drafts[%d].Category: got %q, want %q", tt.idx, d.Category, tt.category)
		}
		if d.Amount != tt.amount {
			t.Errorf("drafts[%d].Amount: got %f, want %f", tt.idx, d.Amount, tt.amount)
		}
		if d.Desc != tt.desc {
			t.Errorf("drafts[%d].Desc: got %q, want %q", tt.idx, d.Desc, tt.desc)
		}
		if d.Reference != tt.ref {
			t.Errorf("drafts[%d].Reference: got %q, want %q", tt.idx, d.Reference, tt.ref)
		}
		if d.Amount < MinAmount || d.Amount >= MaxAmount {
			t.Errorf("drafts[%d].Amount %f outside [%d,%d)", tt.idx, d.Amount, MinAmount, MaxAmount)
		}
	}
}

func TestExtract_DeduplicatesByCategory(t *testing.T) {
	// The same category appearing to several strategies must come through
	// once, with the highest-priority strategy's match kept.
	text := "Groceries: Monthly food and cleaning 4500 REF1\nGroceries: 3000"

	drafts := Extract(text)
	if len(drafts) != 1 {
		t.Fatalf("drafts: got %d, want 1", len(drafts))
	}
	if drafts[0].Amount != 4500 {
		t.Errorf("Amount: got %f, want 4500 (first match wins)", drafts[0].Amount)
	}
	if drafts[0].Method != "segmented" {
		t.Errorf("Method: got %q, want %q", drafts[0].Method, "segmented")
	}
}

func TestExtract_Stoplist(t *testing.T) {
	text := "Total: 15000\nIncome: 30000\nSchedule: 4000\nGroceries: 3500"

	drafts := Extract(text)
	if len(drafts) != 1 {
		t.Fatalf("drafts: got %d, want 1 (stoplist categories discarded)", len(drafts))
	}
	if drafts[0].Category != "Groceries" {
		t.Errorf("Category: got %q, want %q", drafts[0].Category, "Groceries")
	}
}

func TestExtract_AmountBounds(t *testing.T) {
	// Page numbers and over-limit digit runs must not become claims.
	text := "Clothing: winter wardrobe 99\nGroceries: food 3500"

	drafts := Extract(text)
	for _, d := range drafts {
		if d.Category == "Clothing" {
			t.Errorf("amount below %d accepted: %+v", MinAmount, d)
		}
	}
}

func TestExtract_ColonAmount(t *testing.T) {
	text := "monthly spend on Electricity: R1500 as per municipal bill"

	drafts := Extract(text)
	if len(drafts) != 1 {
		t.Fatalf("drafts: got %d, want 1", len(drafts))
	}
	if drafts[0].Amount != 1500 {
		t.Errorf("Amount: got %f, want 1500", drafts[0].Amount)
	}
	if drafts[0].Method != "colon-amount" {
		t.Errorf("Method: got %q, want %q", drafts[0].Method, "colon-amount")
	}
}

func TestExtract_HeaderBlocks(t *testing.T) {
	text := `Medical Expenses
R 2,500
850

---
Travel Costs
1200`

	drafts := Extract(text)
	if len(drafts) != 2 {
		t.Fatalf("drafts: got %d, want 2 (dedup by header)", len(drafts))
	}
	if drafts[0].Category != "Medical Expenses" || drafts[0].Amount != 2500 {
		t.Errorf("drafts[0]: got %q/%f, want Medical Expenses/2500", drafts[0].Category, drafts[0].Amount)
	}
	if drafts[1].Category != "Travel Costs" || drafts[1].Amount != 1200 {
		t.Errorf("drafts[1]: got %q/%f, want Travel Costs/1200", drafts[1].Category, drafts[1].Amount)
	}
}

func TestExtract_TableRows(t *testing.T) {
	text := "| Insurance | car and household cover 2200 PLN9 |"

	drafts := Extract(text)
	if len(drafts) != 1 {
		t.Fatalf("drafts: got %d, want 1", len(drafts))
	}
	if drafts[0].Category != "Insurance" {
		t.Errorf("Category: got %q, want %q", drafts[0].Category, "Insurance")
	}
	if drafts[0].Amount != 2200 {
		t.Errorf("Amount: got %f, want 2200", drafts[0].Amount)
	}
}

func TestNew_RejectsNonPositive(t *testing.T) {
	if _, err := New(Draft{Category: "Groceries", Amount: 0}, "", ""); err == nil {
		t.Error("expected error for zero amount")
	}
	if _, err := New(Draft{Category: "Groceries", Amount: -5}, "", ""); err == nil {
		t.Error("expected error for negative amount")
	}

	claim, err := New(Draft{Category: "Groceries", Amount: 3500}, "f1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claim.ID == "" {
		t.Error("expected generated id")
	}
	if claim.Source != "imported" {
		t.Errorf("Source: got %q, want %q", claim.Source, "imported")
	}
	if claim.FileID != "f1" {
		t.Errorf("FileID: got %q, want %q", claim.FileID, "f1")
	}
}
