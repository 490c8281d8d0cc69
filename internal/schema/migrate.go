package schema

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"

	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

func newProvider(db *sql.DB) (*goose.Provider, error) {
	migrations, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(database.DialectPostgres, db, migrations)
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, db *sql.DB, logger surveyetl.Logger) error {
	provider, err := newProvider(db)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w: %w", surveyetl.ErrDatabase, err)
	}
	for _, r := range results {
		logger.Verbose("applied migration %d (%s) in %v", r.Source.Version, r.Source.Path, r.Duration)
	}
	if len(results) == 0 {
		logger.Verbose("schema is up to date")
	}
	return nil
}

// Version returns the latest applied migration version, 0 for an empty database.
func Version(ctx context.Context, db *sql.DB) (int64, error) {
	provider, err := newProvider(db)
	if err != nil {
		return 0, fmt.Errorf("load migrations: %w", err)
	}
	v, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w: %w", surveyetl.ErrDatabase, err)
	}
	return v, nil
}

// LatestVersion returns the highest embedded migration version.
func LatestVersion() (int64, error) {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return 0, err
	}
	var latest int64
	for _, name := range names {
		v, err := goose.NumericComponent(name)
		if err != nil {
			return 0, err
		}
		latest = max(latest, v)
	}
	return latest, nil
}

// RequireCurrent fails with surveyetl.ErrDatabase unless every embedded
// migration has been applied.
func RequireCurrent(ctx context.Context, db *sql.DB) error {
	current, err := Version(ctx, db)
	if err != nil {
		return err
	}
	latest, err := LatestVersion()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	if current < latest {
		return fmt.Errorf("schema is at version %d, want %d (run: surveyetl setup): %w",
			current, latest, surveyetl.ErrDatabase)
	}
	return nil
}
