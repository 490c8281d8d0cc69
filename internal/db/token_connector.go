package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/surveyetl/internal/retry"
	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

// TokenProvider acquires a short-lived token used as the PostgreSQL password.
type TokenProvider interface {
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String describes the provider for logs. It must not include secrets.
	String() string
}

// tokenExpiryWarning is the remaining lifetime below which a warning is logged.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector connects with a fresh token from a TokenProvider on every attempt.
type TokenBasedConnector struct {
	config       *surveyetl.ConnectionConfig
	provider     TokenProvider
	providerName string
	logger       surveyetl.Logger
	executor     *retry.Executor
}

// NewTokenBasedConnector creates a connector for token authentication.
// providerName appears in log and error messages.
func NewTokenBasedConnector(config *surveyetl.ConnectionConfig, provider TokenProvider, providerName string, logger surveyetl.Logger) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:       config,
		provider:     provider,
		providerName: providerName,
		logger:       logger,
		executor:     newExecutor(logger),
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := c.executor.Execute(ctx, func(ctx context.Context) error {
		token, expiresOn, err := c.provider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
		}
		c.logger.Verbose("acquired token from %s", c.provider)
		if left := time.Until(expiresOn); left < tokenExpiryWarning {
			c.logger.Info("%s token expires in %v", c.providerName, left.Round(time.Second))
		}

		withToken := *c.config
		withToken.Password = token
		pool, err = openPool(ctx, &withToken, c.logger)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}
