// Package category maps arbitrary extracted or user-entered category
// strings onto the canonical category taxonomy.
package category

import (
	"strings"
)

// Uncategorized is the fallback for empty or blank input.
const Uncategorized = "Uncategorized"

// Synonym maps one raw label onto a canonical category name.
type Synonym struct {
	Raw       string
	Canonical string
}

// Taxonomy is the immutable category configuration a Mapper is built from.
// It is passed in explicitly so tests and parallel callers can use their
// own without sharing state. Synonym order is fuzzy-match priority order.
type Taxonomy struct {
	Canonical []string
	Synonyms  []Synonym
}

// DefaultTaxonomy returns the built-in canonical list and synonym table
// for financial-affidavit expense categories.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Canonical: []string{
			"Accommodation/Rent",
			"Bank Charges",
			"Clothing",
			"Communication",
			"Education",
			"Entertainment",
			"Groceries",
			"Insurance",
			"Legal Fees",
			"Maintenance",
			"Medical",
			"Personal Care",
			"Savings/Investments",
			"Transport/Fuel",
			"Utilities",
			Uncategorized,
		},
		Synonyms: []Synonym{
			{"rent", "Accommodation/Rent"},
			{"bond", "Accommodation/Rent"},
			{"accommodation", "Accommodation/Rent"},
			{"housing", "Accommodation/Rent"},
			{"levies", "Accommodation/Rent"},
			{"groceries", "Groceries"},
			{"food", "Groceries"},
			{"household food", "Groceries"},
			{"petrol", "Transport/Fuel"},
			{"fuel", "Transport/Fuel"},
			{"transport", "Transport/Fuel"},
			{"vehicle", "Transport/Fuel"},
			{"electricity", "Utilities"},
			{"water", "Utilities"},
			{"rates", "Utilities"},
			{"municipal", "Utilities"},
			{"school fees", "Education"},
			{"school", "Education"},
			{"tuition", "Education"},
			{"medical aid", "Medical"},
			{"doctor", "Medical"},
			{"pharmacy", "Medical"},
			{"cellphone", "Communication"},
			{"phone", "Communication"},
			{"airtime", "Communication"},
			{"internet", "Communication"},
			{"dstv", "Entertainment"},
			{"subscriptions", "Entertainment"},
			{"clothes", "Clothing"},
			{"toiletries", "Personal Care"},
			{"grooming", "Personal Care"},
			{"legal", "Legal Fees"},
			{"attorney", "Legal Fees"},
			{"bank fees", "Bank Charges"},
			{"repairs", "Maintenance"},
			{"savings", "Savings/Investments"},
			{"investment", "Savings/Investments"},
		},
	}
}

// Mapper resolves raw category strings to canonical names. Resolution
// order: exact synonym lookup, fuzzy match against synonym keys in table
// order, fuzzy match against the canonical list, title-cased passthrough.
// The synonym table always wins over a direct canonical match.
type Mapper struct {
	exact     map[string]string
	synonyms  []Synonym // raw keys lowercased, in priority order
	canonical []string
}

// NewMapper builds a Mapper from the given taxonomy.
func NewMapper(tax Taxonomy) *Mapper {
	m := &Mapper{
		exact:     make(map[string]string, len(tax.Synonyms)),
		synonyms:  make([]Synonym, 0, len(tax.Synonyms)),
		canonical: append([]string(nil), tax.Canonical...),
	}
	for _, syn := range tax.Synonyms {
		key := strings.ToLower(strings.TrimSpace(syn.Raw))
		m.exact[key] = syn.Canonical
		m.synonyms = append(m.synonyms, Synonym{Raw: key, Canonical: syn.Canonical})
	}
	return m
}

// Map returns the canonical category for a raw input. Never returns empty:
// blank input maps to Uncategorized, and unknown input comes back
// title-cased as a new category name.
func (m *Mapper) Map(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Uncategorized
	}
	lower := strings.ToLower(raw)

	if canon, ok := m.exact[lower]; ok {
		return canon
	}

	for _, syn := range m.synonyms {
		if fuzzyMatch(lower, syn.Raw) {
			return syn.Canonical
		}
	}

	for _, canon := range m.canonical {
		if fuzzyMatch(lower, strings.ToLower(canon)) {
			return canon
		}
	}

	return titleCase(raw)
}

// fuzzyMatch accepts equal strings, containment in either direction, or at
// least half of the whitespace-split words overlapping.
func fuzzyMatch(a, b string) bool {
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	aw := strings.Fields(a)
	bw := strings.Fields(b)
	if len(aw) == 0 || len(bw) == 0 {
		return false
	}
	set := make(map[string]bool, len(bw))
	for _, w := range bw {
		set[w] = true
	}
	shared := 0
	for _, w := range aw {
		if set[w] {
			shared++
		}
	}
	smaller := len(aw)
	if len(bw) < smaller {
		smaller = len(bw)
	}
	return shared > 0 && shared*2 >= smaller
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
