package surveyetl

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Command completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or mapping file
	ExitConnectionError = 11 // Failed to connect to database
	ExitDatabaseError   = 13 // Statement, constraint or commit failure
	ExitMappingMissing  = 14 // No column mapping registered for the survey
	ExitSourceError     = 15 // CSV source absent, unreadable or malformed
	ExitMissingField    = 16 // A CSV row lacks a mapped column
)

const (
	// DefaultBatchSize is the number of fact rows written and committed together.
	DefaultBatchSize = 1000

	// DefaultCSVPattern builds a survey's CSV file name from its number.
	DefaultCSVPattern = "%d.csv"

	// DefaultTimeout bounds a whole command run.
	DefaultTimeout = 30 * time.Minute

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultManagementDB is the database used when none is configured.
	DefaultManagementDB = "postgres"

	// AnswerKeyMaxLength mirrors the answer_key column width.
	AnswerKeyMaxLength = 25
)
