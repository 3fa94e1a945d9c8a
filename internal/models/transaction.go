package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Transaction is a single normalized bank transaction produced by a parser.
type Transaction struct {
	ID       string   `json:"id"`
	Date     string   `json:"date"`   // ISO 8601 YYYY-MM-DD after normalization
	Desc     string   `json:"desc"`   // description as extracted
	Clean    string   `json:"clean"`  // whitespace-normalized description
	Amount   float64  `json:"amount"` // negative = outflow/expense, positive = inflow/income
	Acc      string   `json:"acc"`
	Entity   Entity   `json:"entity,omitempty"`
	Cat      string   `json:"cat"`
	Subcat   string   `json:"subcat,omitempty"`
	Type     string   `json:"type"` // "expense" or "income", derived from Amount
	Status   Status   `json:"status"`
	FileID   string   `json:"fileId,omitempty"`
	Flagged  bool     `json:"flagged,omitempty"`
	CycleDay CycleDay `json:"cycleDay,omitempty"`
}

// Claim is a claimed recurring monthly expense under a category, to be
// verified against bank activity.
type Claim struct {
	ID        string  `json:"id"`
	Category  string  `json:"category"`
	Desc      string  `json:"desc"`
	Claimed   float64 `json:"claimed"` // always > 0
	Reference string  `json:"reference,omitempty"`
	FileID    string  `json:"fileId,omitempty"`
	Source    string  `json:"source"` // "manual" or "imported"
}

// FileRecord identifies an uploaded source file. Transactions and claims
// reference it by ID only; the record itself is owned by the caller.
type FileRecord struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Entity   Entity   `json:"entity,omitempty"`
	Type     string   `json:"type"` // "Bank Statement" or "Financial Affidavit"
	CycleDay CycleDay `json:"cycleDay,omitempty"`
}

// Entity is the canonical legal/financial grouping tag.
type Entity string

const (
	EntityPersonal Entity = "PERSONAL"
	EntityBusiness Entity = "BUSINESS"
	EntityTrust    Entity = "TRUST"
	EntityCredit   Entity = "CREDIT"
	EntitySpouse   Entity = "SPOUSE"
)

// NormalizeEntity uppercases and trims a raw entity label. Unknown labels
// come back uppercased as-is so the caller can decide what to do with them.
func NormalizeEntity(raw string) Entity {
	return Entity(strings.ToUpper(strings.TrimSpace(raw)))
}

// Known reports whether e is one of the canonical entity tags.
func (e Entity) Known() bool {
	switch e {
	case EntityPersonal, EntityBusiness, EntityTrust, EntityCredit, EntitySpouse:
		return true
	}
	return false
}

// Status is the transaction lifecycle tag.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// UnmarshalJSON accepts the legacy aliases still present in older case
// files: "proven" reads as confirmed, "flagged" as rejected.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "proven":
		*s = StatusConfirmed
	case "flagged":
		*s = StatusRejected
	case "":
		*s = StatusPending
	default:
		*s = Status(raw)
	}
	return nil
}

// BankFormat selects a transaction parser strategy.
type BankFormat string

const (
	FormatFNB          BankFormat = "fnb"
	FormatStandardBank BankFormat = "standardbank"
	FormatGeneric      BankFormat = "generic"
)

// CycleDay is the statement cycle anchor: a day of month, or the last day
// of the calendar month. The zero value means "not set".
type CycleDay struct {
	Day  int
	Last bool
}

// CycleLast is the calendar month-end cycle.
var CycleLast = CycleDay{Last: true}

// Set reports whether the cycle day carries a value.
func (c CycleDay) Set() bool {
	return c.Last || c.Day > 0
}

func (c CycleDay) String() string {
	if c.Last {
		return "last"
	}
	if c.Day > 0 {
		return strconv.Itoa(c.Day)
	}
	return ""
}

// ParseCycleDay reads a cycle day from its wire form: the sentinel "last"
// or a day-of-month number.
func ParseCycleDay(raw string) (CycleDay, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return CycleDay{}, nil
	}
	if raw == "last" {
		return CycleLast, nil
	}
	day, err := strconv.Atoi(raw)
	if err != nil || day < 1 || day > 31 {
		return CycleDay{}, fmt.Errorf("invalid cycle day %q", raw)
	}
	return CycleDay{Day: day}, nil
}

// MarshalJSON writes "last" or the bare day number, matching the case-file
// schema where cycleDay is number|"last".
func (c CycleDay) MarshalJSON() ([]byte, error) {
	if c.Last {
		return json.Marshal("last")
	}
	if c.Day > 0 {
		return json.Marshal(c.Day)
	}
	return json.Marshal(nil)
}

func (c *CycleDay) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = CycleDay{}
		return nil
	}
	var day int
	if err := json.Unmarshal(b, &day); err == nil {
		*c = CycleDay{Day: day}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("cycleDay must be a number or \"last\"")
	}
	parsed, err := ParseCycleDay(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
