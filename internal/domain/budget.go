package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is the running balance owned by exactly one user.
type Budget struct {
	ID              string
	OwnerUserID     string
	AvailableAmount decimal.Decimal
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBudget returns an empty budget for a user that has none yet.
func NewBudget(id, ownerUserID string, now time.Time) *Budget {
	return &Budget{
		ID:              id,
		OwnerUserID:     ownerUserID,
		AvailableAmount: decimal.Zero,
		Version:         0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Apply moves the balance by the signed amount of the entry.
func (b *Budget) Apply(entry *Entry) error {
	updated := b.AvailableAmount.Add(entry.SignedAmount())
	if err := ValidateBalance(updated); err != nil {
		return err
	}

	b.AvailableAmount = updated

	return nil
}

// Overwrite sets the balance directly without any entry.
func (b *Budget) Overwrite(amount decimal.Decimal) error {
	if err := ValidateBalance(amount); err != nil {
		return err
	}

	b.AvailableAmount = amount

	return nil
}

// View projects the budget into the value returned to callers.
func (b *Budget) View() *BalanceView {
	return &BalanceView{
		UserID: b.OwnerUserID,
		Amount: b.AvailableAmount,
	}
}

// BalanceView is the read shape of a budget.
type BalanceView struct {
	UserID string
	Amount decimal.Decimal
}
