package parser

import (
	"encoding/csv"
	"strings"

	"github.com/google/uuid"

	"github.com/insightdelivered/disclosure-workbench/internal/csvkit"
	"github.com/insightdelivered/disclosure-workbench/internal/models"
)

// FNBParser handles FNB (First National Bank) CSV exports.
//
// FNB statements carry a metadata preamble (account name, number, statement
// period) before the actual header row:
//
//	Date,Description,Amount,Balance
//	15/03/2024,PICK N PAY CRESTA,-450.00,12345.67
//
// Dates are DD/MM/YYYY. Amounts are signed, sometimes prefixed with "R".
type FNBParser struct {
	opts Options
}

func (p *FNBParser) FormatName() string {
	return "FNB"
}

func (p *FNBParser) Parse(csvText string) (*Result, error) {
	r := csv.NewReader(strings.NewReader(csvText))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	res := &Result{Format: models.FormatFNB}

	// Locate the header row past the preamble.
	dateIdx, descIdx, amountIdx, accIdx := -1, -1, -1, -1
	sawDate := false
	start := 0
	for i, rec := range records {
		for j, cell := range rec {
			switch strings.ToLower(strings.TrimSpace(cell)) {
			case "date":
				dateIdx = j
			case "description", "details":
				descIdx = j
			case "amount":
				amountIdx = j
			case "account", "account number":
				accIdx = j
			}
		}
		if dateIdx >= 0 && amountIdx >= 0 {
			start = i + 1
			break
		}
		if dateIdx >= 0 {
			sawDate = true
		}
		dateIdx, descIdx, amountIdx, accIdx = -1, -1, -1, -1
	}
	if dateIdx < 0 || amountIdx < 0 {
		col := "date"
		if sawDate {
			col = "amount"
		}
		return nil, &models.MissingColumnError{Column: col}
	}

	for _, rec := range records[start:] {
		if res.Stats.Rows >= csvkit.MaxRows {
			break
		}
		res.Stats.Rows++

		date := normalizeDate(cell(rec, dateIdx))
		desc := strings.TrimSpace(cell(rec, descIdx))
		amount := parseAmount(cell(rec, amountIdx))

		// FNB rows without a date or a description are balance carry-overs
		// and section dividers; drop them without complaint.
		if date == "" || desc == "" {
			res.Stats.Dropped++
			continue
		}

		acc := sanitizeAccount(cell(rec, accIdx))
		if acc == "" {
			acc = string(p.opts.Entity)
		}

		res.Transactions = append(res.Transactions, models.Transaction{
			ID:       uuid.NewString(),
			Date:     date,
			Desc:     desc,
			Clean:    cleanText(desc),
			Amount:   amount,
			Acc:      acc,
			Entity:   p.opts.Entity,
			Cat:      DefaultCategory,
			Type:     txnType(amount),
			Status:   models.StatusPending,
			FileID:   p.opts.FileID,
			CycleDay: p.opts.CycleDay,
		})
		res.Stats.Kept++
	}

	return res, nil
}

// cell reads a record column defensively; absent columns read as empty.
func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}
