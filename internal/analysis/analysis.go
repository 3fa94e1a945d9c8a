// Package analysis computes the verification metrics that drive
// reconciliation: rolling proven averages per category, claim
// classification against exact evidentiary thresholds, and
// missing-statement-cycle detection per account.
package analysis

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/disclosure-workbench/internal/models"
)

// Classification labels. The 0.95 / 1.05 breakpoints define pass/fail for
// evidentiary purposes and must not drift.
const (
	LabelNoClaim   = "No Claim"
	LabelShortfall = "Shortfall"
	LabelVerified  = "Verified"
	LabelOver      = "Over"
)

var (
	shortfallBelow = decimal.RequireFromString("0.95")
	overAbove      = decimal.RequireFromString("1.05")
)

const dateLayout = "2006-01-02"

// Verdict is the outcome of checking one claim against proven activity.
type Verdict struct {
	Category  string          `json:"category"`
	Claimed   float64         `json:"claimed"`
	ProvenAvg decimal.Decimal `json:"provenAvg"`
	Ratio     decimal.Decimal `json:"ratio"`
	Label     string          `json:"label"`
}

// ProvenAvg computes the rolling monthly average of expense outflows in a
// category over the given window. The window end anchors at the latest
// transaction date in the dataset (or the supplied anchor when non-zero),
// truncated to the first of that month, stepping back months-1 months for
// the start. The sum of absolute negative amounts in the window divides by
// the full month count: months with zero activity stay in the divisor, so
// a genuine gap lowers the proven average.
func ProvenAvg(txns []models.Transaction, cat string, months int, anchor time.Time) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	if anchor.IsZero() {
		anchor = latestDate(txns)
		if anchor.IsZero() {
			return decimal.Zero
		}
	}

	monthStart := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	windowStart := monthStart.AddDate(0, -(months - 1), 0)

	sum := decimal.Zero
	for _, txn := range txns {
		if txn.Amount >= 0 || !strings.EqualFold(txn.Cat, cat) {
			continue
		}
		d, err := time.Parse(dateLayout, txn.Date)
		if err != nil {
			continue
		}
		if d.Before(windowStart) {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(txn.Amount).Abs())
	}

	return sum.Div(decimal.NewFromInt(int64(months)))
}

// Classify compares a proven average against a claimed amount.
func Classify(cat string, proven decimal.Decimal, claimed float64) Verdict {
	v := Verdict{
		Category:  cat,
		Claimed:   claimed,
		ProvenAvg: proven,
		Ratio:     decimal.Zero,
		Label:     LabelNoClaim,
	}
	if claimed <= 0 {
		return v
	}

	v.Ratio = proven.Div(decimal.NewFromFloat(claimed))
	switch {
	case v.Ratio.LessThan(shortfallBelow):
		v.Label = LabelShortfall
	case v.Ratio.GreaterThan(overAbove):
		v.Label = LabelOver
	default:
		v.Label = LabelVerified
	}
	return v
}

// Report joins each claim to its rolling proven average. Claims are
// matched to transactions by category, case-insensitively.
func Report(txns []models.Transaction, cls []models.Claim, months int, anchor time.Time) []Verdict {
	verdicts := make([]Verdict, 0, len(cls))
	for _, c := range cls {
		proven := ProvenAvg(txns, c.Category, months, anchor)
		verdicts = append(verdicts, Classify(c.Category, proven, c.Claimed))
	}
	return verdicts
}

// latestDate is the most recent parseable transaction date in the dataset.
func latestDate(txns []models.Transaction) time.Time {
	var latest time.Time
	for _, txn := range txns {
		d, err := time.Parse(dateLayout, txn.Date)
		if err != nil {
			continue
		}
		if d.After(latest) {
			latest = d
		}
	}
	return latest
}

// CycleWindow is one statement cycle for an account.
type CycleWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Label renders the window in the form shown to the user.
func (w CycleWindow) Label() string {
	return w.Start.Format(dateLayout) + " to " + w.End.Format(dateLayout)
}

// MissingStatements finds statement cycles with zero transactions for the
// given account. Cycles anchor to the current wall-clock time, not the
// latest transaction date: a cycle that has not ended yet is not missing,
// it simply does not exist, and is never reported. The walk covers the 6
// most recent completed cycles; missing ones return oldest first.
func MissingStatements(txns []models.Transaction, account string, cycle models.CycleDay, now time.Time) []CycleWindow {
	if !cycle.Set() {
		cycle = models.CycleLast
	}

	var missing []CycleWindow
	checked := 0
	for back := 0; checked < 6 && back < 24; back++ {
		w := cycleWindow(cycle, now, back)
		if w.End.After(now) {
			continue
		}
		checked++

		if countInWindow(txns, account, w) == 0 {
			// prepend: walking backward, reporting oldest first
			missing = append([]CycleWindow{w}, missing...)
		}
	}
	return missing
}

// cycleWindow derives the cycle window `back` cycles before now. A "last"
// cycle is the calendar month; a custom day d runs from d+1 of the prior
// month through d, crossing the month boundary. Day values past the end of
// a short month clamp to its final day.
func cycleWindow(cycle models.CycleDay, now time.Time, back int) CycleWindow {
	y, m, _ := now.Date()
	base := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -back, 0)

	if cycle.Last {
		start := base
		end := base.AddDate(0, 1, -1)
		return CycleWindow{Start: start, End: end}
	}

	end := clampToMonth(base.Year(), base.Month(), cycle.Day)
	prev := base.AddDate(0, -1, 0)
	start := clampToMonth(prev.Year(), prev.Month(), cycle.Day).AddDate(0, 0, 1)
	return CycleWindow{Start: start, End: end}
}

func clampToMonth(year int, month time.Month, day int) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	if day > last.Day() {
		return last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func countInWindow(txns []models.Transaction, account string, w CycleWindow) int {
	n := 0
	for _, txn := range txns {
		if account != "" && !strings.EqualFold(txn.Acc, account) {
			continue
		}
		d, err := time.Parse(dateLayout, txn.Date)
		if err != nil {
			continue
		}
		if d.Before(w.Start) || d.After(w.End) {
			continue
		}
		n++
	}
	return n
}
