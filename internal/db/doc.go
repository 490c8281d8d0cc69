// Package db resolves connection parameters and opens pgx connection pools.
//
// Connection parameters come from, in order of precedence, CLI flags, the
// environment (SURVEYETL_CONNECTION_STRING, DATABASE_URL, PG* and cloud
// provider variables) and surveyetl.yaml. NewConnector picks the connector
// matching the resolved auth method: plain credentials, AWS RDS IAM tokens,
// Azure Entra ID tokens or the Cloud SQL IAM dialer.
package db
