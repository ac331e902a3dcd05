package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrPasswordTooWeak = errors.New("password does not meet requirements")
)

// Validation constants
const (
	// AmountScale is the number of fractional digits stored for money.
	AmountScale          = 2
	MaxDescriptionLength = 512
	MinPasswordLength    = 8
	MaxPasswordLength    = 128

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// maxAmount is the largest magnitude a NUMERIC(19,2) column holds.
var maxAmount = decimal.New(1, 17).Sub(decimal.New(1, -AmountScale))

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEntryAmount validates the amount of an income or expense entry.
func ValidateEntryAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return validateMoney(amount)
}

// ValidateBalance validates a balance, which may have any sign.
func ValidateBalance(amount decimal.Decimal) error {
	return validateMoney(amount)
}

func validateMoney(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: at most %d decimal places allowed", ErrAmountScale, AmountScale)
	}

	if amount.Abs().GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum magnitude is %s", ErrAmountTooLarge, maxAmount.StringFixed(AmountScale))
	}

	return nil
}

// ValidateDescription validates an optional entry description.
func ValidateDescription(description *string) error {
	if description == nil {
		return nil
	}

	if n := utf8.RuneCountInString(*description); n > MaxDescriptionLength {
		return fmt.Errorf("%w: %d characters, maximum is %d", ErrDescriptionTooLong, n, MaxDescriptionLength)
	}

	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password length
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	return nil
}

// ClampPagination clamps page to >= 0 and size to [1, MaxPageSize].
func ClampPagination(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}

	if page > math.MaxInt/MaxPageSize {
		page = math.MaxInt / MaxPageSize
	}

	if size < 1 {
		size = 1
	}

	if size > MaxPageSize {
		size = MaxPageSize
	}

	return page, size
}
