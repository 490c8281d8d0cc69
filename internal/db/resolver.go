package db

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vvka-141/surveyetl/internal/config"
	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

// ConnFlags holds the connection flags given on the command line.
// Passwords have no flag; use $PGPASSWORD, ~/.pgpass or a connection string.
type ConnFlags struct {
	Connection string
	Host       string
	Port       int
	Username   string
	Database   string
	SSLMode    string
}

// hasGranular reports whether any server-selecting granular flag is set.
// Database is excluded: -d may narrow a connection string to another database.
func (f *ConnFlags) hasGranular() bool {
	return f.Host != "" || f.Port != 0 || f.Username != "" || f.SSLMode != ""
}

// CloudFlags selects a cloud authentication method.
// The Azure client secret is only read from $AZURE_CLIENT_SECRET.
type CloudFlags struct {
	AWS       bool
	AWSRegion string

	Azure         bool
	AzureTenantID string
	AzureClientID string

	Google         bool
	GoogleInstance string
}

func (c *CloudFlags) selected() int {
	n := 0
	for _, on := range []bool{c.AWS, c.Azure, c.Google} {
		if on {
			n++
		}
	}
	return n
}

// EnvVars captures the environment consulted during resolution.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	ConnectionString string // SURVEYETL_CONNECTION_STRING
	DatabaseURL      string // DATABASE_URL

	PGHOST     string
	PGPORT     string
	PGUSER     string
	PGPASSWORD string
	PGDATABASE string
	PGSSLMODE  string

	AWSRegion string // AWS_REGION, falling back to AWS_DEFAULT_REGION

	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// LoadFromEnvironment reads EnvVars from the process environment.
func LoadFromEnvironment() *EnvVars {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	return &EnvVars{
		ConnectionString:  os.Getenv("SURVEYETL_CONNECTION_STRING"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		PGHOST:            os.Getenv("PGHOST"),
		PGPORT:            os.Getenv("PGPORT"),
		PGUSER:            os.Getenv("PGUSER"),
		PGPASSWORD:        os.Getenv("PGPASSWORD"),
		PGDATABASE:        os.Getenv("PGDATABASE"),
		PGSSLMODE:         os.Getenv("PGSSLMODE"),
		AWSRegion:         region,
		AzureTenantID:     os.Getenv("AZURE_TENANT_ID"),
		AzureClientID:     os.Getenv("AZURE_CLIENT_ID"),
		AzureClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveConnectionParams merges flags, environment and surveyetl.yaml into one
// ConnectionConfig.
//
// Server selection, first match wins:
//  1. --connection
//  2. $SURVEYETL_CONNECTION_STRING, then $DATABASE_URL, unless granular flags are set
//  3. granular values, each resolved as flag > PG* variable > surveyetl.yaml > default
//
// -d always overrides the database of a connection string. Giving both
// --connection and granular flags is an error.
func ResolveConnectionParams(
	flags *ConnFlags,
	cloud *CloudFlags,
	env *EnvVars,
	project *config.ProjectConfig,
) (*surveyetl.ConnectionConfig, error) {
	if flags == nil {
		flags = &ConnFlags{}
	}
	if cloud == nil {
		cloud = &CloudFlags{}
	}
	if env == nil {
		env = &EnvVars{}
	}
	var pc config.ConnectionConfig
	if project != nil {
		pc = project.Connection
	}

	if flags.Connection != "" && flags.hasGranular() {
		return nil, fmt.Errorf("cannot specify both --connection and granular flags (-h, -p, -U, --sslmode): %w",
			surveyetl.ErrInvalidConfig)
	}

	connStr := flags.Connection
	if connStr == "" && !flags.hasGranular() {
		connStr = firstNonEmpty(env.ConnectionString, env.DatabaseURL)
	}

	var cfg *surveyetl.ConnectionConfig
	var err error
	if connStr != "" {
		cfg, err = ParseConnectionString(connStr)
		if err != nil {
			return nil, fmt.Errorf("invalid connection string: %w", err)
		}
		if flags.Database != "" {
			cfg.Database = flags.Database
		}
		if cfg.SSLMode == "" {
			cfg.SSLMode = firstNonEmpty(env.PGSSLMODE, "prefer")
		}
	} else {
		cfg, err = resolveGranular(flags, env, pc)
		if err != nil {
			return nil, err
		}
	}

	if err := applyAuth(cfg, cloud, env, pc); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveGranular(flags *ConnFlags, env *EnvVars, pc config.ConnectionConfig) (*surveyetl.ConnectionConfig, error) {
	cfg := &surveyetl.ConnectionConfig{
		Host:             firstNonEmpty(flags.Host, env.PGHOST, pc.Host, "localhost"),
		Username:         firstNonEmpty(flags.Username, env.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME")),
		Password:         env.PGPASSWORD,
		Database:         firstNonEmpty(flags.Database, env.PGDATABASE, pc.Database, surveyetl.DefaultManagementDB),
		SSLMode:          firstNonEmpty(flags.SSLMode, env.PGSSLMODE, pc.SSLMode, "prefer"),
		AuthMethod:       surveyetl.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.PGPORT != "":
		port, err := strconv.Atoi(env.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value %q: must be an integer: %w", env.PGPORT, surveyetl.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}
	return cfg, nil
}

// applyAuth picks the auth method: an explicit cloud flag, then Azure
// credentials in the environment, then auth_method from surveyetl.yaml.
func applyAuth(cfg *surveyetl.ConnectionConfig, cloud *CloudFlags, env *EnvVars, pc config.ConnectionConfig) error {
	if cloud.selected() > 1 {
		return fmt.Errorf("--aws, --azure and --google are mutually exclusive: %w", surveyetl.ErrInvalidConfig)
	}

	method := surveyetl.AuthMethodStandard
	switch {
	case cloud.AWS:
		method = surveyetl.AuthMethodAWSIAM
	case cloud.Azure:
		method = surveyetl.AuthMethodAzureEntraID
	case cloud.Google:
		method = surveyetl.AuthMethodGoogleIAM
	case cloud.AzureTenantID != "" || cloud.AzureClientID != "" ||
		env.AzureTenantID != "" || env.AzureClientID != "":
		method = surveyetl.AuthMethodAzureEntraID
	case pc.AuthMethod != "":
		m, err := parseAuthMethod(pc.AuthMethod)
		if err != nil {
			return err
		}
		method = m
	}

	cfg.AuthMethod = method
	switch method {
	case surveyetl.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(cloud.AWSRegion, env.AWSRegion, pc.AWSRegion)
	case surveyetl.AuthMethodAzureEntraID:
		cfg.AzureTenantID = firstNonEmpty(cloud.AzureTenantID, env.AzureTenantID, pc.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(cloud.AzureClientID, env.AzureClientID, pc.AzureClientID)
		cfg.AzureClientSecret = env.AzureClientSecret
	case surveyetl.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(cloud.GoogleInstance, pc.GoogleInstance)
	}
	return nil
}

func parseAuthMethod(s string) (surveyetl.AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "password":
		return surveyetl.AuthMethodStandard, nil
	case "aws", "aws_iam":
		return surveyetl.AuthMethodAWSIAM, nil
	case "azure", "azure_entra_id", "entra":
		return surveyetl.AuthMethodAzureEntraID, nil
	case "google", "google_iam", "gcp":
		return surveyetl.AuthMethodGoogleIAM, nil
	default:
		return 0, fmt.Errorf("auth_method %q: %w", s, surveyetl.ErrUnsupportedAuthMethod)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
