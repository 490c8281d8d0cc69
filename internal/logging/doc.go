// Package logging provides concrete implementations of the surveyetl.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: slog records rendered by tint on stderr
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
