// Package loader replaces the fact rows of a survey with the rows of its CSV export.
//
// A load resolves the survey's column mapping and opens its CSV file before
// any database work, so configuration and source problems leave the database
// untouched. It then purges the survey's existing rows and streams the file,
// committing every BatchSize rows. The purge shares the first transaction, so
// a failure before the first commit leaves the previous load in place; a
// failure later keeps the batches already committed.
//
// # Example Usage
//
//	svc, err := loader.NewService(registry, cfg, filesystem.NewOSFileSystem(), store.NewProvider(pool, logger), logger)
//	if err != nil {
//	    return err
//	}
//	result, err := svc.Load(ctx, 1523)
package loader
