// Package csvkit turns raw CSV text into ordered row records with
// case-insensitive semantic column lookup, tolerant of the header variation
// seen across bank export formats.
package csvkit

import (
	"encoding/csv"
	"strings"

	"github.com/insightdelivered/disclosure-workbench/internal/models"
)

// MaxRows is the hard cap on data rows per file. Excess rows are dropped
// and counted, not treated as an error.
const MaxRows = 100000

// Semantic column names recognized by Column.
const (
	ColDate        = "date"
	ColDescription = "description"
	ColAmount      = "amount"
	ColAccount     = "account"
	ColCategory    = "category"
	ColSubcategory = "subcategory"
)

// columnAliases maps each semantic column to its header aliases, in
// priority order. Lookup is case-insensitive; the first header present wins.
var columnAliases = map[string][]string{
	ColDate:        {"date", "transaction date", "txn date", "posting date", "value date"},
	ColDescription: {"description", "narrative", "details", "transaction details", "reference"},
	ColAmount:      {"amount", "transaction amount", "value", "debit/credit"},
	ColAccount:     {"account", "account name", "account number", "acc"},
	ColCategory:    {"category", "cat"},
	ColSubcategory: {"sub-category", "subcategory", "sub category", "subcat"},
}

// Row is one CSV data row keyed by the original header names.
type Row map[string]string

// Table is the normalized form of a CSV file: the header row as written,
// plus every data row as a header→value record.
type Table struct {
	Headers   []string
	Rows      []Row
	Truncated int // rows dropped past MaxRows
}

// Parse reads CSV text into a Table. Short or ragged rows are padded/kept
// rather than rejected; only a completely unreadable file is an error.
func Parse(text string) (*Table, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimLeft(text, "\uFEFF")))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	t := &Table{Headers: headers}
	for _, rec := range records[1:] {
		if len(t.Rows) >= MaxRows {
			t.Truncated++
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Column resolves a semantic column name to the actual header in this
// table, case-insensitively, following the alias priority order.
func (t *Table) Column(semantic string) (string, bool) {
	for _, alias := range columnAliases[semantic] {
		for _, h := range t.Headers {
			if strings.EqualFold(strings.TrimSpace(h), alias) {
				return h, true
			}
		}
	}
	return "", false
}

// RequireColumn is Column, but a miss is a MissingColumnError. Used for the
// date column, which anchors all rolling-window analysis.
func (t *Table) RequireColumn(semantic, file string) (string, error) {
	h, ok := t.Column(semantic)
	if !ok {
		return "", &models.MissingColumnError{File: file, Column: semantic}
	}
	return h, nil
}
