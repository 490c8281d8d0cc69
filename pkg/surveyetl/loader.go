package surveyetl

import "context"

// Loader replaces the fact rows of surveys with the contents of their CSV exports.
//
// A Loader is not safe for concurrent use: loads run one after another on the
// caller's goroutine.
type Loader interface {
	// Load purges the survey's fact rows and reloads them from its CSV file.
	// Batches committed before a failure stay committed.
	Load(ctx context.Context, surveyNumber int) (*LoadResult, error)

	// LoadAll runs Load for every registered survey in registration order.
	// The first failure stops the run; results of completed surveys are returned with it.
	LoadAll(ctx context.Context) ([]LoadResult, error)
}
