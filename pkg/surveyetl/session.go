package surveyetl

import "context"

// SessionProvider abstracts session acquisition for testability.
type SessionProvider interface {
	Acquire(ctx context.Context) (Session, error)
}

// Session is one scoped unit of database work for a survey load: a single
// pooled connection with an explicit transaction that is begun lazily by the
// first statement and ended by Commit.
//
// Thread-Safety: NOT safe for concurrent use.
//
// Lifecycle:
//  1. Created by SessionProvider.Acquire()
//  2. Statements run inside the current transaction
//  3. Release() rolls back uncommitted work and returns the connection (idempotent)
//
// Example usage:
//
//	session, err := provider.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer session.Release(ctx)
type Session interface {
	// EnsureSurvey registers the survey in the survey dimension if absent.
	// A zero year is stored as NULL.
	EnsureSurvey(ctx context.Context, surveyNumber, year int) error

	// DeleteSurvey removes every fact row of the survey and returns the count.
	DeleteSurvey(ctx context.Context, surveyNumber int) (int64, error)

	// InsertAnswers bulk-inserts fact rows and returns the count written.
	InsertAnswers(ctx context.Context, answers []Answer) (int64, error)

	// RecordRun writes the load log entry of a finished load.
	RecordRun(ctx context.Context, result LoadResult) error

	// Commit makes the current transaction durable. The next statement begins a new one.
	Commit(ctx context.Context) error

	// Release rolls back any uncommitted work and returns the connection.
	Release(ctx context.Context)
}
