package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	errBusy := errors.New("too many connections")

	tests := []struct {
		name         string
		maxAttempts  int
		failures     int
		wantAttempts int
		wantErr      error
	}{
		{name: "first try", maxAttempts: 3, failures: 0, wantAttempts: 1},
		{name: "eventual success", maxAttempts: 5, failures: 2, wantAttempts: 3},
		{name: "exhausted", maxAttempts: 3, failures: 10, wantAttempts: 3, wantErr: errBusy},
		{name: "zero attempts", maxAttempts: 0, wantAttempts: 0, wantErr: ErrInvalidMaxAttempts},
		{name: "negative attempts", maxAttempts: -1, wantAttempts: 0, wantErr: ErrInvalidMaxAttempts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := RetryWithBackoff(context.Background(), tt.maxAttempts, time.Millisecond, func(context.Context) error {
				attempts++
				if attempts <= tt.failures {
					return errBusy
				}
				return nil
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantAttempts, attempts)
		})
	}
}

func TestRetryWithBackoff_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := RetryWithBackoff(ctx, 10, time.Millisecond, func(context.Context) error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("refused")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts)
}

func TestRetryWithBackoff_DoublesDelay(t *testing.T) {
	var stamps []time.Time
	err := RetryWithBackoff(context.Background(), 4, 20*time.Millisecond, func(context.Context) error {
		stamps = append(stamps, time.Now())
		if len(stamps) < 4 {
			return errors.New("refused")
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, stamps, 4)

	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 40*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[3].Sub(stamps[2]), 80*time.Millisecond)
}
