// Package store implements surveyetl.Session on a pgx connection pool.
//
// Each session holds one pooled connection for its whole lifetime. Statements
// run in an explicit transaction that is begun lazily, so a load commits its
// purge together with the first batch and every later batch on its own.
// Fact rows are written with the COPY protocol; the remaining statements are
// built with squirrel.
//
// # Example Usage
//
//	provider := store.NewProvider(pool, logger)
//	session, err := provider.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer session.Release(ctx)
//
//	purged, err := session.DeleteSurvey(ctx, 1523)
//	n, err := session.InsertAnswers(ctx, answers)
//	err = session.Commit(ctx)
package store
