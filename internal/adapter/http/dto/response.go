package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// formatAmount renders money with exactly two decimals.
func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(domain.AmountScale)
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// BalanceResponse represents a budget balance.
type BalanceResponse struct {
	UserID string `json:"user_id"`
	Amount string `json:"amount"`
}

// BalanceFromDomain converts a balance view to a response.
func BalanceFromDomain(v *domain.BalanceView) *BalanceResponse {
	return &BalanceResponse{
		UserID: v.UserID,
		Amount: formatAmount(v.Amount),
	}
}

// EntryResponse represents a budget entry.
type EntryResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	OccurredAt  time.Time `json:"occurred_at"`
	Description *string   `json:"description,omitempty"`
}

// EntryFromDomain converts an entry view to a response.
func EntryFromDomain(v *domain.EntryView) *EntryResponse {
	return &EntryResponse{
		ID:          v.ID,
		Type:        string(v.Type),
		Amount:      formatAmount(v.Amount),
		OccurredAt:  v.OccurredAt,
		Description: v.Description,
	}
}

// RecordEntryResponse carries the stored entry and the resulting balance.
type RecordEntryResponse struct {
	Entry  *EntryResponse   `json:"entry"`
	Budget *BalanceResponse `json:"budget"`
}

// EntryPageResponse is one page of entries.
type EntryPageResponse struct {
	Items      []*EntryResponse `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalItems int64            `json:"total_items"`
	TotalPages int              `json:"total_pages"`
}

// EntryPageFromDomain converts a page of entry views.
func EntryPageFromDomain(p *domain.Page[*domain.EntryView]) *EntryPageResponse {
	items := make([]*EntryResponse, len(p.Items))
	for i, v := range p.Items {
		items[i] = EntryFromDomain(v)
	}

	return &EntryPageResponse{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
}

// ReconciliationResponse reports drift between balance and entries.
type ReconciliationResponse struct {
	UserID          string    `json:"user_id"`
	RecordedBalance string    `json:"recorded_balance"`
	EntrySum        string    `json:"entry_sum"`
	Difference      string    `json:"difference"`
	EntryCount      int64     `json:"entry_count"`
	Reconciled      bool      `json:"reconciled"`
	CheckedAt       time.Time `json:"checked_at"`
}

// ReconciliationFromUseCase converts a reconciliation result.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		UserID:          r.UserID,
		RecordedBalance: formatAmount(r.RecordedBalance),
		EntrySum:        formatAmount(r.EntrySum),
		Difference:      formatAmount(r.Difference),
		EntryCount:      r.EntryCount,
		Reconciled:      r.Reconciled,
		CheckedAt:       r.CheckedAt,
	}
}

// UserResponse represents a user without credentials.
type UserResponse struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
}

// UserFromDomain converts a domain user.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}

// TokenResponse is returned by registration.
type TokenResponse struct {
	Token string `json:"token"`
}

// LoginResponse is returned by login.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}
