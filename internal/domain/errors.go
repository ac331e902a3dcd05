package domain

import "errors"

var (
	// Budget errors
	ErrBudgetNotFound  = errors.New("budget not found")
	ErrVersionConflict = errors.New("budget was modified concurrently")

	// Entry errors
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidDelta       = errors.New("delta must be non-zero")
	ErrMissingAmount      = errors.New("amount is required")
	ErrInvalidEntryType   = errors.New("entry type must be INCOME or EXPENSE")
	ErrDescriptionTooLong = errors.New("description is too long")
	ErrAmountScale        = errors.New("amount has too many decimal places")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user with this email already exists")
)

// Kind groups errors the way callers need to react to them.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidArgument
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrBudgetNotFound, KindNotFound},
	{ErrUserNotFound, KindNotFound},
	{ErrInvalidAmount, KindInvalidArgument},
	{ErrInvalidDelta, KindInvalidArgument},
	{ErrMissingAmount, KindInvalidArgument},
	{ErrInvalidEntryType, KindInvalidArgument},
	{ErrDescriptionTooLong, KindInvalidArgument},
	{ErrAmountScale, KindInvalidArgument},
	{ErrAmountTooLarge, KindInvalidArgument},
	{ErrInvalidEmail, KindInvalidArgument},
	{ErrPasswordTooWeak, KindInvalidArgument},
	{ErrVersionConflict, KindConflict},
	{ErrUserExists, KindConflict},
	{ErrUnauthorized, KindUnauthorized},
	{ErrInvalidToken, KindUnauthorized},
	{ErrExpiredToken, KindUnauthorized},
}

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return KindInternal
}
