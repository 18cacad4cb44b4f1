// utils/retry.go
package utils

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	writeRetryAttempts = 3
	writeRetryDelay    = 200 * time.Millisecond
)

// RetryWrite runs a database write up to three times with a short delay
// between attempts. It is reserved for idempotent writes (the status update
// and trial assignment paths), where replaying the operation cannot corrupt
// state. Not-found outcomes are never retried; only transient failures are.
func RetryWrite(ctx context.Context, op func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < writeRetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(writeRetryDelay):
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsTransientError(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// IsTransientError distinguishes retryable failures (network, timeout) from
// definitive outcomes like a missing document
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	// Server selection errors surface as generic errors with no sentinel;
	// treat deadline expiry as transient so the next attempt gets a chance
	return errors.Is(err, context.DeadlineExceeded)
}
