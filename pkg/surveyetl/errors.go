package surveyetl

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error kinds using errors.Is().
//
// Example usage:
//
//	_, err := loader.Load(ctx, 1523)
//	if errors.Is(err, surveyetl.ErrConfiguration) {
//	    // no column mapping registered for 1523
//	}
var (
	// ErrInvalidConfig indicates the provided configuration or mapping file is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConfiguration indicates no column mapping is registered for a survey.
	ErrConfiguration = errors.New("survey not configured")

	// ErrIO indicates the CSV source is absent, unreadable or malformed.
	ErrIO = errors.New("source i/o error")

	// ErrMissingField indicates a row lacks a column required by the mapping.
	ErrMissingField = errors.New("missing field")

	// ErrDatabase indicates a statement, constraint or commit failure.
	ErrDatabase = errors.New("database error")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")
)

// ConfigurationError reports a survey number with no registered column mapping.
type ConfigurationError struct {
	SurveyNumber int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no column mapping registered for survey %d", e.SurveyNumber)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// MissingFieldError reports a CSV row that lacks a column the mapping requires.
// Row is 1-based and counts data rows only.
type MissingFieldError struct {
	SurveyNumber int
	Row          int
	Field        string
	Column       string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("survey %d row %d: column %q for field %q not present",
		e.SurveyNumber, e.Row, e.Column, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

var usagePatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"required flag",
	"invalid argument",
	"missing required argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConfiguration):
		return ExitMappingMissing
	case errors.Is(err, ErrMissingField):
		return ExitMissingField
	case errors.Is(err, ErrIO):
		return ExitSourceError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrDatabase):
		return ExitDatabaseError
	}

	// Cobra reports argument problems as plain errors
	errStr := err.Error()
	for _, pattern := range usagePatterns {
		if strings.Contains(errStr, pattern) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
