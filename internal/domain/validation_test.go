package domain

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateEntryAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount decimal.Decimal
		err    error
	}{
		{"positive", decimal.RequireFromString("100.25"), nil},
		{"trailing zeros", decimal.RequireFromString("1.500"), nil},
		{"zero", decimal.Zero, ErrInvalidAmount},
		{"negative", decimal.NewFromInt(-1), ErrInvalidAmount},
		{"too many decimals", decimal.RequireFromString("0.005"), ErrAmountScale},
		{"too large", decimal.New(1, 17), ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntryAmount(tt.amount)
			if tt.err == nil && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestValidateBalance(t *testing.T) {
	t.Parallel()

	if err := ValidateBalance(decimal.NewFromInt(-500)); err != nil {
		t.Fatalf("negative balance should be allowed, got %v", err)
	}

	if err := ValidateBalance(decimal.Zero); err != nil {
		t.Fatalf("zero balance should be allowed, got %v", err)
	}
}

func TestValidateDescription(t *testing.T) {
	t.Parallel()

	if err := ValidateDescription(nil); err != nil {
		t.Fatalf("nil description should be valid, got %v", err)
	}

	ok := strings.Repeat("é", MaxDescriptionLength)
	if err := ValidateDescription(&ok); err != nil {
		t.Fatalf("expected %d runes to be accepted, got %v", MaxDescriptionLength, err)
	}

	tooLong := strings.Repeat("a", MaxDescriptionLength+1)
	if err := ValidateDescription(&tooLong); !errors.Is(err, ErrDescriptionTooLong) {
		t.Fatalf("expected ErrDescriptionTooLong, got %v", err)
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	if err := ValidateEmail("budgeter@example.com"); err != nil {
		t.Fatalf("expected valid email, got %v", err)
	}

	if err := ValidateEmail("not-an-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	if err := ValidatePassword("password123"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}

	if err := ValidatePassword("short"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak, got %v", err)
	}

	if err := ValidatePassword(strings.Repeat("x", MaxPasswordLength+1)); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for long password, got %v", err)
	}
}

func TestClampPagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 20, 0, 20},
		{-3, 20, 0, 20},
		{2, 0, 2, 1},
		{2, -5, 2, 1},
		{1, 1000, 1, MaxPageSize},
		{math.MaxInt, 100, math.MaxInt / MaxPageSize, 100},
	}

	for _, tt := range tests {
		page, size := ClampPagination(tt.page, tt.size)
		if page != tt.wantPage || size != tt.wantSize {
			t.Fatalf("ClampPagination(%d, %d) = (%d, %d), want (%d, %d)",
				tt.page, tt.size, page, size, tt.wantPage, tt.wantSize)
		}
	}
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	p := NewPage([]int{1, 2}, 0, 2, 5)
	if p.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", p.TotalPages)
	}

	empty := NewPage[int](nil, 4, 20, 0)
	if empty.Items == nil || len(empty.Items) != 0 || empty.TotalPages != 0 {
		t.Fatalf("unexpected empty page %+v", empty)
	}
}
