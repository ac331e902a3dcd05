package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewBudget(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBudget("b-1", "u-1", now)

	if !b.AvailableAmount.IsZero() {
		t.Fatalf("expected zero balance, got %s", b.AvailableAmount)
	}
	if b.Version != 0 {
		t.Fatalf("expected version 0, got %d", b.Version)
	}
	if !b.CreatedAt.Equal(now) || !b.UpdatedAt.Equal(now) {
		t.Fatalf("expected timestamps to be %v", now)
	}
}

func TestBudget_Apply(t *testing.T) {
	tests := []struct {
		name     string
		balance  decimal.Decimal
		entry    Entry
		expected decimal.Decimal
		err      error
	}{
		{
			name:     "income adds",
			balance:  decimal.NewFromInt(100),
			entry:    Entry{Type: EntryTypeIncome, Amount: decimal.RequireFromString("25.50")},
			expected: decimal.RequireFromString("125.50"),
		},
		{
			name:     "expense subtracts",
			balance:  decimal.NewFromInt(100),
			entry:    Entry{Type: EntryTypeExpense, Amount: decimal.NewFromInt(30)},
			expected: decimal.NewFromInt(70),
		},
		{
			name:     "expense may drive balance negative",
			balance:  decimal.NewFromInt(10),
			entry:    Entry{Type: EntryTypeExpense, Amount: decimal.NewFromInt(30)},
			expected: decimal.NewFromInt(-20),
		},
		{
			name:     "overflow rejected",
			balance:  decimal.RequireFromString("99999999999999999.99"),
			entry:    Entry{Type: EntryTypeIncome, Amount: decimal.RequireFromString("0.01")},
			expected: decimal.RequireFromString("99999999999999999.99"),
			err:      ErrAmountTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Budget{AvailableAmount: tt.balance}
			err := b.Apply(&tt.entry)

			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected %v, got %v", tt.err, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !b.AvailableAmount.Equal(tt.expected) {
				t.Fatalf("expected balance %s, got %s", tt.expected, b.AvailableAmount)
			}
		})
	}
}

func TestBudget_Overwrite(t *testing.T) {
	b := &Budget{AvailableAmount: decimal.NewFromInt(5)}

	if err := b.Overwrite(decimal.NewFromInt(-42)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.AvailableAmount.Equal(decimal.NewFromInt(-42)) {
		t.Fatalf("expected -42, got %s", b.AvailableAmount)
	}

	if err := b.Overwrite(decimal.RequireFromString("1.001")); !errors.Is(err, ErrAmountScale) {
		t.Fatalf("expected ErrAmountScale, got %v", err)
	}
}

func TestBudget_View(t *testing.T) {
	b := &Budget{ID: "b-1", OwnerUserID: "u-1", AvailableAmount: decimal.NewFromInt(800)}
	v := b.View()

	if v.UserID != "u-1" || !v.Amount.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("unexpected view %+v", v)
	}
}
