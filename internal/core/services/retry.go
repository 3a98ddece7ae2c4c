package services

import (
	"context"
	"errors"
	"time"

	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
)

// readRetryAttempts bounds retries of idempotent reads against a flaky store.
const readRetryAttempts = 3

var readRetryBaseDelay = 25 * time.Millisecond

// retryRead runs an idempotent read, retrying with exponential backoff while it fails
// with apperrors.ErrUnavailable. Mutations must never go through here.
func retryRead[T any](ctx context.Context, read func(ctx context.Context) (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	delay := readRetryBaseDelay
	for attempt := 1; attempt <= readRetryAttempts; attempt++ {
		result, err = read(ctx)
		if err == nil || !errors.Is(err, apperrors.ErrUnavailable) || attempt == readRetryAttempts {
			return result, err
		}
		select {
		case <-ctx.Done():
			return result, err
		case <-time.After(delay):
		}
		delay *= 2
	}
	return result, err
}
