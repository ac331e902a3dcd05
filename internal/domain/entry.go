package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType tells whether an entry adds to or takes from the balance.
type EntryType string

const (
	EntryTypeIncome  EntryType = "INCOME"
	EntryTypeExpense EntryType = "EXPENSE"
)

// IsValid reports whether t is a known entry type.
func (t EntryType) IsValid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// ParseEntryType parses a case-insensitive entry type.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidEntryType
	}

	return t, nil
}

// EntryTypeForDelta maps a signed delta onto an entry type and a positive amount.
func EntryTypeForDelta(delta decimal.Decimal) (EntryType, decimal.Decimal) {
	if delta.IsNegative() {
		return EntryTypeExpense, delta.Abs()
	}

	return EntryTypeIncome, delta
}

// Entry is an immutable, dated movement on a budget.
type Entry struct {
	ID            string
	OwnerBudgetID string
	Type          EntryType
	Amount        decimal.Decimal
	OccurredAt    time.Time
	Description   *string
	Version       int64
	CreatedAt     time.Time
}

// SignedAmount is +Amount for income and -Amount for expenses.
func (e *Entry) SignedAmount() decimal.Decimal {
	if e.Type == EntryTypeExpense {
		return e.Amount.Neg()
	}

	return e.Amount
}

// View projects the entry into the value returned to callers.
func (e *Entry) View() *EntryView {
	return &EntryView{
		ID:          e.ID,
		Type:        e.Type,
		Amount:      e.Amount,
		OccurredAt:  e.OccurredAt,
		Description: e.Description,
	}
}

// EntryView is the read shape of an entry.
type EntryView struct {
	ID          string
	Type        EntryType
	Amount      decimal.Decimal
	OccurredAt  time.Time
	Description *string
}
