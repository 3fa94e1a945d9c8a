// Package entity attributes transactions and files to a legal entity
// (personal, business, trust, credit, spouse) from inconsistent
// account-name strings.
package entity

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/disclosure-workbench/internal/models"
)

// AccountsConfig maps each entity to its known account labels (primary
// name first, aliases after).
type AccountsConfig map[models.Entity][]string

// entityGroups widens each entity to the set of entities whose accounts it
// claims. PERSONAL deliberately also claims TRUST-labeled accounts: trust
// accounts are treated as personal-adjacent for filtering. Kept in one
// table so the mapping can be corrected without touching resolver logic.
var entityGroups = map[models.Entity][]models.Entity{
	models.EntityPersonal: {models.EntityPersonal, models.EntityTrust},
	models.EntityBusiness: {models.EntityBusiness},
	models.EntityTrust:    {models.EntityTrust},
	models.EntityCredit:   {models.EntityCredit},
	models.EntitySpouse:   {models.EntitySpouse},
}

// fallbackKeywords drives attribution when no AccountsConfig is supplied.
var fallbackKeywords = map[models.Entity][]string{
	models.EntityPersonal: {"personal", "cheque", "private"},
	models.EntityBusiness: {"business", "mymobiz", "biz"},
	models.EntityTrust:    {"trust"},
	models.EntityCredit:   {"credit", "card"},
	models.EntitySpouse:   {"spouse"},
}

var digitRun = regexp.MustCompile(`\d+`)

// Resolve determines whether a record with the given raw account string
// belongs to the target entity. An explicit tag short-circuits all
// heuristics: it is normalized and returned as-is. Otherwise the account
// string is matched against the known labels of the target's entity group,
// or against fixed keywords when no config exists. Empty result means
// unresolved.
func Resolve(explicit string, account string, target models.Entity, cfg AccountsConfig) models.Entity {
	if strings.TrimSpace(explicit) != "" {
		return models.NormalizeEntity(explicit)
	}

	account = strings.TrimSpace(account)
	if account == "" {
		return ""
	}

	if cfg != nil {
		for _, member := range entityGroups[target] {
			for _, label := range cfg[member] {
				if labelMatches(account, label) {
					return target
				}
			}
		}
		return ""
	}

	for _, member := range entityGroups[target] {
		for _, kw := range fallbackKeywords[member] {
			if strings.Contains(strings.ToLower(account), kw) {
				return target
			}
		}
	}
	return ""
}

// detectOrder fixes the precedence when an account could attribute to more
// than one entity. PERSONAL goes last so its widened group (which also
// claims TRUST accounts) does not shadow a more specific match.
var detectOrder = []models.Entity{
	models.EntityBusiness,
	models.EntityTrust,
	models.EntityCredit,
	models.EntitySpouse,
	models.EntityPersonal,
}

// Detect attributes an account string with no declared entity by trying
// each entity in precedence order. Empty result means unresolved.
func Detect(account string, cfg AccountsConfig) models.Entity {
	for _, target := range detectOrder {
		if got := Resolve("", account, target, cfg); got != "" {
			return got
		}
	}
	return ""
}

// labelMatches compares a raw account string against one known label,
// trying in order: substring containment either direction, a shared
// numeric token, a shared word token longer than 2 characters.
func labelMatches(account, label string) bool {
	a := strings.ToLower(strings.TrimSpace(account))
	l := strings.ToLower(strings.TrimSpace(label))
	if a == "" || l == "" {
		return false
	}

	if strings.Contains(a, l) || strings.Contains(l, a) {
		return true
	}

	aDigits := digitRun.FindAllString(a, -1)
	lDigits := digitRun.FindAllString(l, -1)
	for _, d := range aDigits {
		for _, e := range lDigits {
			if d == e {
				return true
			}
		}
	}

	for _, w := range strings.Fields(a) {
		if len(w) <= 2 {
			continue
		}
		for _, v := range strings.Fields(l) {
			if w == v {
				return true
			}
		}
	}

	return false
}
