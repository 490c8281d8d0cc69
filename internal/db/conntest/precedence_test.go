//go:build conntest

package conntest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/surveyetl/internal/db"
)

func TestPrecedence_FlagOverridesEnv(t *testing.T) {
	config := parseStdConnString(t)

	t.Setenv("PGPASSWORD", config.Password)
	t.Setenv("PGHOST", "unreachable.invalid")
	t.Setenv("PGDATABASE", "missing_db")

	resolved, err := db.ResolveConnectionParams(
		&db.ConnFlags{
			Host:     config.Host,
			Port:     config.Port,
			Username: config.Username,
			Database: config.Database,
			SSLMode:  "disable",
		},
		nil,
		db.LoadFromEnvironment(),
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, config.Host, resolved.Host)

	pingSucceeds(t, connectWithConfig(t, resolved))
}

func TestPrecedence_ConnectionStringFromEnv(t *testing.T) {
	t.Setenv("SURVEYETL_CONNECTION_STRING", stdContainer.ConnString)
	t.Setenv("DATABASE_URL", "postgresql://nobody@unreachable.invalid/none")

	resolved, err := db.ResolveConnectionParams(nil, nil, db.LoadFromEnvironment(), nil)
	require.NoError(t, err)

	pingSucceeds(t, connectWithConfig(t, resolved))
}
