package cli

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/surveyetl/internal/db"
	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

// connect opens a pool for connConfig. The returned cleanup closes the pool
// and any dialer the connector holds.
func connect(ctx context.Context, connConfig *surveyetl.ConnectionConfig, logger surveyetl.Logger) (*pgxpool.Pool, func(), error) {
	connector, err := db.NewConnector(connConfig, logger)
	if err != nil {
		return nil, nil, err
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		if c, ok := connector.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, nil, err
	}

	return pool, func() {
		pool.Close()
		if c, ok := connector.(io.Closer); ok {
			_ = c.Close()
		}
	}, nil
}
