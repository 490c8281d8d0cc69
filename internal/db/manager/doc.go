// Package manager creates the target database of a load when it is missing.
//
// Statements run against a maintenance database connection (usually
// "postgres"), since a database cannot create itself. Names are quoted with
// pgx.Identifier.Sanitize(), so names with spaces, quotes or other special
// characters are safe.
//
// # Example Usage
//
//	mgr := manager.New()
//	created, err := mgr.EnsureExists(ctx, maintenancePool, "surveys")
package manager
