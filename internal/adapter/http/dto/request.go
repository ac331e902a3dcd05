package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// RegisterRequest represents a request to create a user.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.AuthenticateInput {
	return usecase.AuthenticateInput{
		Email:    r.Email,
		Password: r.Password,
	}
}

// SetAmountRequest overwrites the balance. Amount may be a JSON number or
// a numeric string; a missing or null amount is rejected.
type SetAmountRequest struct {
	Amount decimal.NullDecimal `json:"amount"`
}

// ApplyDeltaRequest moves the balance by a signed delta.
type ApplyDeltaRequest struct {
	Delta       decimal.NullDecimal `json:"delta"`
	Description *string             `json:"description,omitempty"`
}

// DeltaValue returns the delta, treating a missing one as zero so that it
// is rejected like an explicit zero.
func (r *ApplyDeltaRequest) DeltaValue() decimal.Decimal {
	if !r.Delta.Valid {
		return decimal.Zero
	}
	return r.Delta.Decimal
}

// RecordEntryRequest represents a request to record an income or expense.
type RecordEntryRequest struct {
	Type        string              `json:"type"`
	Amount      decimal.NullDecimal `json:"amount"`
	OccurredAt  *time.Time          `json:"occurred_at,omitempty"`
	Description *string             `json:"description,omitempty"`
}

// ToUseCaseInput validates the request shape and converts it for userID.
func (r *RecordEntryRequest) ToUseCaseInput(userID string) (usecase.RecordEntryInput, error) {
	entryType, err := domain.ParseEntryType(r.Type)
	if err != nil {
		return usecase.RecordEntryInput{}, err
	}

	if !r.Amount.Valid {
		return usecase.RecordEntryInput{}, domain.ErrMissingAmount
	}

	return usecase.RecordEntryInput{
		UserID:      userID,
		Type:        entryType,
		Amount:      r.Amount.Decimal,
		OccurredAt:  r.OccurredAt,
		Description: r.Description,
	}, nil
}
