package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/budget/entries?size=50", nil)
	if got := parseIntQuery(req, "size", 10); got != 50 {
		t.Fatalf("expected size=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/budget/entries?size=invalid", nil)
	if got := parseIntQuery(req, "size", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "size", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"budget not found", domain.ErrBudgetNotFound, http.StatusNotFound},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"wrapped scale error", fmt.Errorf("%w: 1.234", domain.ErrAmountScale), http.StatusBadRequest},
		{"version conflict", domain.ErrVersionConflict, http.StatusConflict},
		{"duplicate user", domain.ErrUserExists, http.StatusConflict},
		{"bad credentials", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/budget", nil)
	rec := httptest.NewRecorder()

	respondError(rec, req, "failed to get balance", errors.New("connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "" {
		t.Fatalf("internal error detail leaked: %q", resp.Message)
	}
}
