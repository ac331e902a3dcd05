package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobudget/internal/domain"
)

func TestBalanceFromDomain_FormatsTwoDecimals(t *testing.T) {
	resp := BalanceFromDomain(&domain.BalanceView{UserID: "u1", Amount: decimal.NewFromInt(800)})
	assert.Equal(t, "800.00", resp.Amount)

	resp = BalanceFromDomain(&domain.BalanceView{UserID: "u1", Amount: decimal.RequireFromString("-0.5")})
	assert.Equal(t, "-0.50", resp.Amount)
}

func TestEntryPageFromDomain_EmptyItemsEncodeAsArray(t *testing.T) {
	page := domain.NewPage[*domain.EntryView](nil, 3, 20, 0)

	body, err := json.Marshal(EntryPageFromDomain(page))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"items":[]`)
}

func TestEntryFromDomain(t *testing.T) {
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	desc := "Groceries"

	resp := EntryFromDomain(&domain.EntryView{
		ID: "e1", Type: domain.EntryTypeExpense, Amount: decimal.NewFromInt(200), OccurredAt: at, Description: &desc,
	})

	assert.Equal(t, "EXPENSE", resp.Type)
	assert.Equal(t, "200.00", resp.Amount)
	assert.Equal(t, at, resp.OccurredAt)
	assert.Equal(t, &desc, resp.Description)
}
