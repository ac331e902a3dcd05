package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobudget/internal/infrastructure/metrics"
	"github.com/iho/gobudget/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	maxIdempotencyKeyLength = 255
	processingMarker        = "processing"

	// Larger bodies are rejected by the handlers anyway.
	maxFingerprintBody = 1 << 20
)

// storedResponse is what is kept for a completed request.
type storedResponse struct {
	Status      int    `json:"status"`
	Body        []byte `json:"body"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// IdempotencyMiddleware replays the first successful response for a
// repeated Idempotency-Key. Keys are scoped to the authenticated user.
type IdempotencyMiddleware struct {
	store   usecase.IdempotencyStore
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, m *metrics.Metrics) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}

	return &IdempotencyMiddleware{store: store, ttl: ttl, metrics: m}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		if len(key) > maxIdempotencyKeyLength {
			writeError(w, http.StatusBadRequest, "invalid idempotency key", "key is too long")
			return
		}

		scope := "anonymous"
		if userID, ok := UserIDFromContext(r.Context()); ok {
			scope = userID
		}
		storeKey := scope + ":" + r.Method + ":" + r.URL.Path + ":" + key

		ctx := r.Context()
		log := zerolog.Ctx(ctx)

		fingerprint, err := fingerprintBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", "")
			return
		}

		exists, cached, err := m.store.CheckAndSet(ctx, storeKey, nil, m.ttl)
		if err != nil {
			log.Error().Err(err).Msg("idempotency check failed")
			writeError(w, http.StatusInternalServerError, "idempotency check failed", "")
			return
		}

		if exists {
			var stored storedResponse
			if cached == nil || string(cached) == processingMarker || json.Unmarshal(cached, &stored) != nil || stored.Status == 0 {
				writeError(w, http.StatusConflict, "request in progress", "a request with this idempotency key is still being processed")
				return
			}

			if stored.Fingerprint != "" && stored.Fingerprint != fingerprint {
				writeError(w, http.StatusUnprocessableEntity, "idempotency key reused", "the key was already used with a different request body")
				return
			}

			m.metrics.IdempotencyReplays.Inc()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(IdempotencyReplayHeader, "true")
			w.WriteHeader(stored.Status)
			_, _ = w.Write(stored.Body)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}

		// Runs on panics too; only a stored response keeps the key.
		completed := false
		defer func() {
			if completed {
				return
			}
			if err := m.store.Release(context.WithoutCancel(ctx), storeKey); err != nil {
				log.Warn().Err(err).Msg("failed to release idempotency key")
			}
		}()

		next.ServeHTTP(recorder, r)

		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			return
		}

		payload, err := json.Marshal(storedResponse{
			Status:      recorder.statusCode,
			Body:        recorder.body.Bytes(),
			Fingerprint: fingerprint,
		})
		if err == nil {
			err = m.store.Update(ctx, storeKey, payload, m.ttl)
		}
		if err != nil {
			log.Warn().Err(err).Msg("failed to store idempotent response")
			return
		}
		completed = true
	})
}

// fingerprintBody hashes the request body and leaves it readable for the
// next handler.
func fingerprintBody(r *http.Request) (string, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return "", nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxFingerprintBody))
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(data), r.Body))

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

type responseRecorder struct {
	http.ResponseWriter

	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
