package parser

import (
	"github.com/google/uuid"

	"github.com/insightdelivered/disclosure-workbench/internal/csvkit"
	"github.com/insightdelivered/disclosure-workbench/internal/models"
)

// GenericParser handles unknown-vendor CSV exports via header aliases.
//
// It resolves semantic columns (date, description, amount, account,
// category, sub-category) case-insensitively against a priority-ordered
// alias list. A date-equivalent column is a hard requirement: without it
// there is nothing to anchor rolling-window analysis to, so the parse
// fails with a MissingColumnError instead of guessing.
type GenericParser struct {
	opts Options
}

func (p *GenericParser) FormatName() string {
	return "Generic CSV"
}

func (p *GenericParser) Parse(csvText string) (*Result, error) {
	table, err := csvkit.Parse(csvText)
	if err != nil {
		return nil, err
	}

	dateCol, err := table.RequireColumn(csvkit.ColDate, "")
	if err != nil {
		return nil, err
	}
	descCol, _ := table.Column(csvkit.ColDescription)
	amountCol, _ := table.Column(csvkit.ColAmount)
	accCol, _ := table.Column(csvkit.ColAccount)
	catCol, hasCat := table.Column(csvkit.ColCategory)
	subcatCol, hasSubcat := table.Column(csvkit.ColSubcategory)

	res := &Result{Format: models.FormatGeneric}
	res.Stats.Rows = len(table.Rows)

	for _, row := range table.Rows {
		date := normalizeDate(row[dateCol])
		desc := row[descCol]
		amount := parseAmount(row[amountCol])

		if date == "" || (desc == "" && amount == 0) {
			res.Stats.Dropped++
			continue
		}

		acc := sanitizeAccount(row[accCol])
		if acc == "" {
			acc = string(p.opts.Entity)
		}

		txn := models.Transaction{
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
		}
		if hasCat {
			txn.Cat = sanitizeCategory(row[catCol])
		}
		if hasSubcat {
			if sub := sanitizeCategory(row[subcatCol]); sub != DefaultCategory {
				txn.Subcat = sub
			}
		}

		res.Transactions = append(res.Transactions, txn)
		res.Stats.Kept++
	}

	return res, nil
}
