package services

import (
	"context"
	"testing"
	"time"

	"github.com/mafujur-rahman/cash-plus-server/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestRetryRead(t *testing.T) {
	readRetryBaseDelay = time.Millisecond

	tests := []struct {
		name      string
		errs      []error
		wantErr   error
		wantCalls int
	}{
		{"first try", []error{nil}, nil, 1},
		{"recovers", []error{apperrors.ErrUnavailable, apperrors.ErrUnavailable, nil}, nil, 3},
		{"gives up", []error{apperrors.ErrUnavailable, apperrors.ErrUnavailable, apperrors.ErrUnavailable}, apperrors.ErrUnavailable, 3},
		{"not found is final", []error{apperrors.ErrNotFound}, apperrors.ErrNotFound, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := retryRead(context.Background(), func(ctx context.Context) (int, error) {
				err := tt.errs[calls]
				calls++
				return calls, err
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantCalls, got)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRetryRead_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0

	_, err := retryRead(ctx, func(ctx context.Context) (struct{}, error) {
		calls++
		return struct{}{}, apperrors.ErrUnavailable
	})

	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	assert.Equal(t, 1, calls)
}
