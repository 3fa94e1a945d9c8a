// Package claims extracts category/amount/description triples from
// unstructured affidavit text. No single pattern survives contact with
// real documents, so several independent strategies run in a fixed
// priority order and their results merge with first-match-wins
// deduplication by category.
package claims

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/insightdelivered/disclosure-workbench/internal/models"
)

// Amount acceptance bounds. Anything outside is treated as a page number,
// date, or other spurious digit run, not a monthly expense claim.
const (
	MinAmount = 100
	MaxAmount = 1000000
)

// stoplist holds section labels that look like categories but never are.
var stoplist = map[string]bool{
	"total":       true,
	"income":      true,
	"shortfall":   true,
	"schedule":    true,
	"description": true,
	"amount":      true,
	"reference":   true,
}

// Draft is an extracted claim candidate before validation and category
// canonicalization.
type Draft struct {
	Category  string  `json:"category"`
	Desc      string  `json:"desc"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference,omitempty"`
	Method    string  `json:"method,omitempty"` // debug: which strategy matched
}

var (
	// categoryAnchorPattern finds "Category:" anchor points. The char class
	// deliberately excludes digits: amounts and references never start a
	// category label.
	categoryAnchorPattern = regexp.MustCompile(`([A-Za-z][A-Za-z /&'-]{1,39}):`)

	// amountTokenPattern matches a 3-6 digit amount optionally followed by
	// a short reference code (e.g. "9000 KPR5").
	amountTokenPattern = regexp.MustCompile(`\b(\d{3,6})(?:\.\d{2})?(?:\s+([A-Z]{2,6}\d{0,5}))?\b`)

	// tableRowPattern matches one physical line of the form
	// "Category: description amount [reference]", with optional pipe framing.
	tableRowPattern = regexp.MustCompile(`^\s*\|?\s*([A-Za-z][A-Za-z /&'-]{1,39})\s*[:|]\s*(.+?)\s+(\d{3,6})(?:\.\d{2})?(?:\s+([A-Z]{2,6}\d{0,5}))?\s*\|?\s*$`)

	// colonAmountPattern matches "Category: [R]amount" anywhere in the text.
	// Lowest specificity: only contributes categories nothing else found.
	colonAmountPattern = regexp.MustCompile(`([A-Za-z][A-Za-z /&'-]{1,39}):\s*R?\s*(\d{3,6})\b`)

	// bareAmountPattern matches a line holding nothing but an amount.
	bareAmountPattern = regexp.MustCompile(`^\s*R?\s*(\d{1,3}(?:,\d{3})*|\d+)(?:\.\d{2})?\s*$`)

	// headerLinePattern matches a short title line with no digits.
	headerLinePattern = regexp.MustCompile(`^[A-Z][A-Za-z /&'-]{1,39}$`)

	dividerPattern = regexp.MustCompile(`^[-=_*]{3,}$`)
)

// Extract runs every strategy over the text and merges results. Strategies
// run in priority order: segmented extraction, table-row extraction, simple
// colon-amount pairs, header-block attribution. The first strategy to claim
// a category (case-insensitive) keeps it.
func Extract(text string) []Draft {
	merged := make(map[string]bool)
	var out []Draft

	add := func(drafts []Draft) {
		for _, d := range drafts {
			key := strings.ToLower(strings.TrimSpace(d.Category))
			if key == "" || stoplist[key] || merged[key] {
				continue
			}
			if d.Amount < MinAmount || d.Amount >= MaxAmount {
				continue
			}
			merged[key] = true
			out = append(out, d)
		}
	}

	add(extractSegmented(text))
	add(extractTableRows(text))
	add(extractColonAmounts(text))
	add(extractHeaderBlocks(text))

	return out
}

// extractSegmented treats the span between consecutive "Category:" anchors
// as one segment and looks for an amount token inside it. Everything before
// the amount is the description.
func extractSegmented(text string) []Draft {
	anchors := categoryAnchorPattern.FindAllStringSubmatchIndex(text, -1)
	var drafts []Draft

	for i, anchor := range anchors {
		category := strings.TrimSpace(text[anchor[2]:anchor[3]])
		segStart := anchor[1]
		segEnd := len(text)
		if i+1 < len(anchors) {
			segEnd = anchors[i+1][0]
		}
		segment := text[segStart:segEnd]

		m := amountTokenPattern.FindStringSubmatchIndex(segment)
		if m == nil {
			continue
		}
		amount := parseAmountToken(segment[m[2]:m[3]])
		ref := ""
		if m[4] >= 0 {
			ref = segment[m[4]:m[5]]
		}

		drafts = append(drafts, Draft{
			Category:  category,
			Desc:      cleanDesc(segment[:m[0]]),
			Amount:    amount,
			Reference: ref,
			Method:    "segmented",
		})
	}

	return drafts
}

// extractTableRows matches whole lines shaped like a schedule table row.
func extractTableRows(text string) []Draft {
	var drafts []Draft
	for _, line := range strings.Split(text, "\n") {
		m := tableRowPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		drafts = append(drafts, Draft{
			Category:  strings.TrimSpace(m[1]),
			Desc:      cleanDesc(m[2]),
			Amount:    parseAmountToken(m[3]),
			Reference: m[4],
			Method:    "table-row",
		})
	}
	return drafts
}

// extractColonAmounts catches loose "Category: R1500" pairs anywhere.
func extractColonAmounts(text string) []Draft {
	var drafts []Draft
	for _, m := range colonAmountPattern.FindAllStringSubmatch(text, -1) {
		drafts = append(drafts, Draft{
			Category: strings.TrimSpace(m[1]),
			Amount:   parseAmountToken(m[2]),
			Method:   "colon-amount",
		})
	}
	return drafts
}

// extractHeaderBlocks handles documents laid out as a category header line
// followed by bare amount lines. A blank line or divider resets the
// current header.
func extractHeaderBlocks(text string) []Draft {
	var drafts []Draft
	header := ""

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || dividerPattern.MatchString(trimmed) {
			header = ""
			continue
		}

		if m := bareAmountPattern.FindStringSubmatch(trimmed); m != nil && header != "" {
			amount := parseAmountToken(m[1])
			if amount >= MinAmount && amount < MaxAmount {
				drafts = append(drafts, Draft{
					Category: header,
					Desc:     header,
					Amount:   amount,
					Method:   "header-block",
				})
			}
			continue
		}

		if headerLinePattern.MatchString(trimmed) {
			header = trimmed
		}
	}

	return drafts
}

// New validates a draft and mints a Claim. Claims with non-positive
// amounts are rejected at creation, never silently zeroed.
func New(d Draft, fileID, source string) (models.Claim, error) {
	if d.Amount <= 0 {
		return models.Claim{}, &InvalidAmountError{Category: d.Category, Amount: d.Amount}
	}
	if source == "" {
		source = "imported"
	}
	return models.Claim{
		ID:        uuid.NewString(),
		Category:  strings.TrimSpace(d.Category),
		Desc:      d.Desc,
		Claimed:   d.Amount,
		Reference: d.Reference,
		FileID:    fileID,
		Source:    source,
	}, nil
}

// InvalidAmountError reports a claim rejected for a non-positive amount.
type InvalidAmountError struct {
	Category string
	Amount   float64
}

func (e *InvalidAmountError) Error() string {
	return "claim amount must be positive"
}

func parseAmountToken(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	var v float64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		v = v*10 + float64(c-'0')
	}
	return v
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func cleanDesc(s string) string {
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.Trim(s, " \t-–|:")
}
