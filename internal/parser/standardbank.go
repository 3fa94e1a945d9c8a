package parser

import (
	"encoding/csv"
	"strings"

	"github.com/google/uuid"

	"github.com/insightdelivered/disclosure-workbench/internal/csvkit"
	"github.com/insightdelivered/disclosure-workbench/internal/models"
)

// StandardBankParser handles Standard Bank CSV exports.
//
// Standard Bank internet-banking exports are already ISO-dated, sometimes
// with a time component:
//
//	Date,Narrative,Amount,Balance
//	2024-03-15T00:00:00,IB PAYMENT TO J SMITH,-1200.00,8450.33
//
// Zero-amount rows (fee reversals netted to nothing, information lines)
// carry no evidentiary weight and are dropped.
type StandardBankParser struct {
	opts Options
}

func (p *StandardBankParser) FormatName() string {
	return "Standard Bank"
}

func (p *StandardBankParser) Parse(csvText string) (*Result, error) {
	r := csv.NewReader(strings.NewReader(csvText))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	res := &Result{Format: models.FormatStandardBank}

	dateIdx, descIdx, amountIdx, accIdx := -1, -1, -1, -1
	sawDate := false
	start := 0
	for i, rec := range records {
		for j, c := range rec {
			switch strings.ToLower(strings.TrimSpace(c)) {
			case "date", "transaction date":
				dateIdx = j
			case "narrative", "description":
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

		if date == "" || amount == 0 {
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
