// Package casefile assembles and writes the exported case-file document.
package casefile

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/insightdelivered/disclosure-workbench/internal/models"
)

// SchemaVersion identifies the case-file layout. Bumped only by the
// serialization owner; readers of older versions rely on the legacy status
// aliases in models.
const SchemaVersion = 3

// CaseFile is the persisted case document.
type CaseFile struct {
	Version      int                  `json:"version"`
	CaseName     string               `json:"caseName"`
	ExportedAt   time.Time            `json:"exportedAt"`
	Accounts     map[string][]string  `json:"accounts,omitempty"`
	Categories   []string             `json:"categories"`
	Files        []models.FileRecord  `json:"files"`
	Transactions []models.Transaction `json:"transactions"`
	Claims       []models.Claim       `json:"claims"`
	Notes        string               `json:"notes,omitempty"`
	Charts       []json.RawMessage    `json:"charts"`
	Alerts       []string             `json:"alerts"`
}

// New builds an empty case file with the export timestamp set and nil
// slices normalized so the JSON always carries arrays, not nulls.
func New(caseName string, now time.Time) *CaseFile {
	return &CaseFile{
		Version:      SchemaVersion,
		CaseName:     caseName,
		ExportedAt:   now,
		Categories:   []string{},
		Files:        []models.FileRecord{},
		Transactions: []models.Transaction{},
		Claims:       []models.Claim{},
		Charts:       []json.RawMessage{},
		Alerts:       []string{},
	}
}

// Write writes the case file as indented JSON.
func (c *CaseFile) Write(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode case file: %w", err)
	}
	return nil
}

// WriteToFile writes the case file to the given path.
func (c *CaseFile) WriteToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return c.Write(f)
}

// Read loads a case file, accepting legacy status aliases on transactions.
func Read(r io.Reader) (*CaseFile, error) {
	var c CaseFile
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode case file: %w", err)
	}
	return &c, nil
}

// TransactionCSVWriter writes transactions to CSV for spreadsheet review.
type TransactionCSVWriter struct {
	IncludeHeader bool
}

// Write writes transactions in CSV format to the given writer.
func (w *TransactionCSVWriter) Write(out io.Writer, txns []models.Transaction) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		header := []string{"Date", "Description", "Entity", "Category", "Amount", "Status"}
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	for _, txn := range txns {
		row := []string{
			txn.Date,
			txn.Clean,
			string(txn.Entity),
			txn.Cat,
			strconv.FormatFloat(txn.Amount, 'f', 2, 64),
			string(txn.Status),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return writer.Error()
}
