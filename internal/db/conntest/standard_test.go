//go:build conntest

package conntest

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/surveyetl/internal/db"
	"github.com/vvka-141/surveyetl/internal/db/manager"
	"github.com/vvka-141/surveyetl/internal/files/filesystem"
	"github.com/vvka-141/surveyetl/internal/loader"
	"github.com/vvka-141/surveyetl/internal/logging"
	"github.com/vvka-141/surveyetl/internal/mapping"
	"github.com/vvka-141/surveyetl/internal/schema"
	"github.com/vvka-141/surveyetl/internal/store"
	testhelpers "github.com/vvka-141/surveyetl/internal/testing"
	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

func TestStandardConnection_UserPassword(t *testing.T) {
	pool := connectWithConfig(t, parseStdConnString(t))
	pingSucceeds(t, pool)

	var version string
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT version()").Scan(&version))
	assert.Contains(t, version, "PostgreSQL")
}

func TestStandardConnection_WrongPassword(t *testing.T) {
	config := parseStdConnString(t)
	config.Password = "definitely-wrong-password"

	connector, err := db.NewConnector(config, logging.NewNullLogger())
	require.NoError(t, err)

	_, err = connector.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, surveyetl.ErrConnectionFailed)
	assert.Contains(t, err.Error(), "password authentication failed")
}

func TestStandardConnection_CreateSetupAndLoad(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewNullLogger()

	maintenance := connectWithConfig(t, parseStdConnString(t))
	created, err := manager.New().EnsureExists(ctx, maintenance, "surveyetl_conntest")
	require.NoError(t, err)
	require.True(t, created)
	t.Cleanup(func() { testhelpers.CleanupTestDB(t, stdContainer.ConnString, "surveyetl_conntest") })

	target := parseStdConnString(t)
	target.Database = "surveyetl_conntest"
	pool := connectWithConfig(t, target)

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()
	require.NoError(t, schema.Migrate(ctx, sqlDB, logger))
	dims, err := schema.Dimensions()
	require.NoError(t, err)
	_, err = schema.Seed(ctx, pool, append(dims, schema.SurveyDimension(mapping.Default())))
	require.NoError(t, err)

	fs := filesystem.NewMemoryFileSystem("/data")
	fs.AddFile("1523.csv", testhelpers.CSV(testhelpers.SurveyHeader1523, testhelpers.GeneratedRows(2500)...))
	svc, err := loader.NewService(mapping.Default(), surveyetl.LoadConfig{CSVDir: "/data"}, fs,
		store.NewProvider(pool, logger), logger)
	require.NoError(t, err)

	result, err := svc.Load(ctx, 1523)
	require.NoError(t, err)
	assert.Equal(t, 2500, result.Rows)
	assert.Equal(t, 3, result.Batches)
}
