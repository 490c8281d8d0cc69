package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(retries int) Policy {
	return Policy{
		MaxRetries:   retries,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
		Jitter:       0,
	}
}

func TestExecutor_SucceedsFirstAttempt(t *testing.T) {
	executor := NewExecutor(NewPostgreSQLErrorClassifier(), fastPolicy(3))

	calls := 0
	err := executor.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecutor_RetriesTransientUntilSuccess(t *testing.T) {
	var retries []int
	executor := NewExecutor(NewPostgreSQLErrorClassifier(), fastPolicy(3)).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			retries = append(retries, attempt)
		})

	calls := 0
	err := executor.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("dial tcp 127.0.0.1:5432: connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{0, 1}, retries)
}

func TestExecutor_StopsOnFatalError(t *testing.T) {
	executor := NewExecutor(NewPostgreSQLErrorClassifier(), fastPolicy(3))

	fatal := &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}
	calls := 0
	err := executor.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return fatal
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "28P01", pgErr.Code)
}

func TestExecutor_ExhaustsRetries(t *testing.T) {
	executor := NewExecutor(NewPostgreSQLErrorClassifier(), fastPolicy(2))

	calls := 0
	err := executor.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("connection reset by peer")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 3, calls, "first attempt plus two retries")
}

func TestExecutor_ContextCancelled(t *testing.T) {
	policy := fastPolicy(10)
	policy.InitialDelay = time.Second
	policy.MaxDelay = time.Second
	executor := NewExecutor(NewPostgreSQLErrorClassifier(), policy)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := executor.Execute(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestNewExecutor_NilClassifierPanics(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, DefaultPolicy()) })
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 3, p.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, p.InitialDelay)
	assert.Equal(t, time.Minute, p.MaxDelay)
}
