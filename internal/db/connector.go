package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/surveyetl/internal/retry"
	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

const (
	// DefaultMaxConns covers one load session plus setup queries.
	DefaultMaxConns = 4

	DefaultMinConns = 1

	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, logger surveyetl.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("postgres %s: %s", strings.ToLower(notice.Severity), notice.Message)
	}
}

func newExecutor(logger surveyetl.Logger) *retry.Executor {
	return retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), retry.DefaultPolicy()).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Info("connection attempt %d failed, retrying in %v: %v", attempt+1, delay.Round(time.Millisecond), err)
		})
}

// StandardConnector connects with username/password authentication,
// retrying transient failures.
type StandardConnector struct {
	config   *surveyetl.ConnectionConfig
	logger   surveyetl.Logger
	executor *retry.Executor
}

// NewStandardConnector creates a StandardConnector using the default retry policy.
func NewStandardConnector(config *surveyetl.ConnectionConfig, logger surveyetl.Logger) *StandardConnector {
	return &StandardConnector{config: config, logger: logger, executor: newExecutor(logger)}
}

// Connect establishes a connection pool and pings it.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := c.executor.Execute(ctx, func(ctx context.Context) error {
		var err error
		pool, err = openPool(ctx, c.config, c.logger)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// openPool opens and pings a pool for cfg as-is.
func openPool(ctx context.Context, cfg *surveyetl.ConnectionConfig, logger surveyetl.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	configurePool(poolConfig, logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, cfg)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, cfg)
	}
	logger.Verbose("connected to %s", Redacted(cfg))
	return pool, nil
}

// NewConnector returns the Connector matching config.AuthMethod.
func NewConnector(config *surveyetl.ConnectionConfig, logger surveyetl.Logger) (surveyetl.Connector, error) {
	switch config.AuthMethod {
	case surveyetl.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case surveyetl.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case surveyetl.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case surveyetl.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, surveyetl.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError adds a hint for the common failure causes.
// The result always wraps both ErrConnectionFailed and err.
func wrapConnectionError(err error, cfg *surveyetl.ConnectionConfig) error {
	msg := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	var hint string
	switch {
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "actively refused"):
		hint = fmt.Sprintf("connection refused to %s (is PostgreSQL running? check: pg_isready -h %s -p %d)", addr, cfg.Host, cfg.Port)
	case strings.Contains(msg, "no such host") || strings.Contains(msg, "no host"):
		hint = fmt.Sprintf("cannot resolve host %q", cfg.Host)
	case strings.Contains(msg, "password authentication failed"):
		hint = fmt.Sprintf("password authentication failed for user %q (check $PGPASSWORD or ~/.pgpass)", cfg.Username)
	case strings.Contains(msg, "does not exist"):
		hint = fmt.Sprintf("database %q does not exist (create it with: surveyetl setup --create-database)", cfg.Database)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		hint = fmt.Sprintf("connection timed out to %s", addr)
	case strings.Contains(msg, "ssl") || strings.Contains(msg, "tls"):
		hint = "SSL/TLS negotiation failed (check --sslmode)"
	case strings.Contains(msg, "too many connections"):
		hint = fmt.Sprintf("too many connections to database %q", cfg.Database)
	default:
		hint = fmt.Sprintf("cannot connect to %s", addr)
	}
	return fmt.Errorf("%s: %w: %w", hint, surveyetl.ErrConnectionFailed, err)
}

func newAWSConnector(config *surveyetl.ConnectionConfig, logger surveyetl.Logger) (surveyetl.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)
	provider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}
	return NewTokenBasedConnector(config, provider, "AWS IAM", logger), nil
}

func newGoogleConnector(config *surveyetl.ConnectionConfig, logger surveyetl.Logger) (surveyetl.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", surveyetl.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires username (-U): %w", surveyetl.ErrInvalidConfig)
	}
	return NewGoogleCloudSQLConnector(config, logger), nil
}

// newAzureConnector uses a service principal when tenant, client and secret
// are all known, otherwise the DefaultAzureCredential chain.
func newAzureConnector(config *surveyetl.ConnectionConfig, logger surveyetl.Logger) (surveyetl.Connector, error) {
	var provider TokenProvider
	var err error
	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		provider, err = NewAzureServicePrincipalProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	} else {
		provider, err = NewAzureDefaultCredentialProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure token provider: %w", err)
	}
	return NewTokenBasedConnector(config, provider, "Azure", logger), nil
}
