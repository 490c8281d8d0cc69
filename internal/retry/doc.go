// Package retry retries database connection attempts that fail for transient
// reasons, using exponential backoff from cenkalti/backoff.
//
// # Example Usage
//
//	executor := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), retry.DefaultPolicy())
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
//
// Only connection establishment goes through the executor. Statements issued
// while loading a survey are never retried.
package retry
