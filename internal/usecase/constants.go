package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds one read-compute-write attempt.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long a replayable response is kept when the
	// server is not configured otherwise.
	IdempotencyKeyTTL = 24 * time.Hour

	// timestampPrecision matches TIMESTAMPTZ, so stored and returned times agree.
	timestampPrecision = time.Microsecond
)
