package parser

import (
	"fmt"
	"strings"

	"github.com/insightdelivered/disclosure-workbench/internal/models"
)

// Parser defines the interface for bank CSV parsers.
type Parser interface {
	// Parse takes raw CSV text and returns normalized transactions.
	Parse(csvText string) (*Result, error)
	// FormatName returns the human-readable format name.
	FormatName() string
}

// Options carries caller-supplied context for a parse: which entity the
// file was declared under, the owning file record, and its statement cycle.
type Options struct {
	Entity   models.Entity
	FileID   string
	CycleDay models.CycleDay
}

// Result is the outcome of parsing one CSV file.
type Result struct {
	Format       models.BankFormat    `json:"format"`
	Transactions []models.Transaction `json:"transactions"`
	Stats        Stats                `json:"stats"`
}

// Stats counts what happened to each input row. Dropped rows are a quality
// signal, not an error: the keep rule silently discards rows without a date
// or without either a description or a non-zero amount.
type Stats struct {
	Rows    int `json:"rows"`
	Kept    int `json:"kept"`
	Dropped int `json:"dropped"`
}

// New returns the parser for the given bank format.
func New(format models.BankFormat, opts Options) (Parser, error) {
	switch format {
	case models.FormatFNB:
		return &FNBParser{opts: opts}, nil
	case models.FormatStandardBank:
		return &StandardBankParser{opts: opts}, nil
	case models.FormatGeneric, "":
		return &GenericParser{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unsupported bank format: %q", format)
	}
}

// AutoDetect identifies the bank format from the CSV content. Unknown
// content falls back to the generic header-driven parser rather than
// failing, since the generic parser carries its own hard requirement
// (a date column) and reports a precise error if that is missing.
func AutoDetect(csvText string) models.BankFormat {
	if containsAny(csvText, []string{"FNB", "First National Bank", "fnb.co.za"}) {
		return models.FormatFNB
	}
	if containsAny(csvText, []string{"Standard Bank", "STANDARD BANK", "standardbank.co.za"}) {
		return models.FormatStandardBank
	}
	return models.FormatGeneric
}

func containsAny(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, needle := range needles {
		if strings.Contains(lower, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
