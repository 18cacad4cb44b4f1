package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestRetryWriteSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := RetryWrite(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWriteRetriesTransientFailure(t *testing.T) {
	calls := 0
	err := RetryWrite(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return context.DeadlineExceeded
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWriteDoesNotRetryNotFound(t *testing.T) {
	calls := 0
	err := RetryWrite(context.Background(), func(ctx context.Context) error {
		calls++
		return mongo.ErrNoDocuments
	})
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	assert.Equal(t, 1, calls)
}

func TestRetryWriteGivesUpAfterAttempts(t *testing.T) {
	calls := 0
	err := RetryWrite(context.Background(), func(ctx context.Context) error {
		calls++
		return context.DeadlineExceeded
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWriteStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := RetryWrite(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return context.DeadlineExceeded
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsTransientError(t *testing.T) {
	assert.False(t, IsTransientError(nil))
	assert.False(t, IsTransientError(mongo.ErrNoDocuments))
	assert.False(t, IsTransientError(context.Canceled))
	assert.False(t, IsTransientError(errors.New("validation failed")))
	assert.True(t, IsTransientError(context.DeadlineExceeded))
}
