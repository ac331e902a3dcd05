package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRecoveryReturnsJSON500(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req = req.WithContext(log.WithContext(req.Context()))
	rr := httptest.NewRecorder()

	Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
	if !strings.Contains(buf.String(), "kaboom") {
		t.Fatalf("expected panic value in log, got %q", buf.String())
	}
}
