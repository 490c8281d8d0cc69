package surveyetl

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LoadConfig contains all parameters needed by a loader run.
type LoadConfig struct {
	// CSVDir holds one CSV file per survey, named by CSVPattern
	CSVDir string

	// CSVPattern is a fmt pattern taking the survey number (default "%d.csv")
	CSVPattern string

	// CSVPath is a single source file used for single-survey loads; it wins over CSVDir
	CSVPath string

	// BatchSize is the number of rows written and committed together
	BatchSize int

	// FixedColumns treats CSV headers as canonical field names and skips the mapping registry
	FixedColumns bool
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.CSVDir == "" && c.CSVPath == "" {
		errs = append(errs, fmt.Errorf("CSVDir or CSVPath is required: %w", ErrInvalidConfig))
	}

	if c.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("batch size cannot be negative: %w", ErrInvalidConfig))
	}

	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}

	if c.CSVPattern == "" {
		c.CSVPattern = DefaultCSVPattern
	}

	return errors.Join(errs...)
}

// SourcePath returns the CSV file for a survey. A survey-specific override wins,
// then the single configured file, then the directory plus pattern.
func (c *LoadConfig) SourcePath(surveyNumber int, override string) string {
	if override != "" {
		if c.CSVDir != "" && !filepath.IsAbs(override) {
			return filepath.Join(c.CSVDir, override)
		}
		return override
	}
	if c.CSVPath != "" {
		return c.CSVPath
	}
	pattern := c.CSVPattern
	if pattern == "" {
		pattern = DefaultCSVPattern
	}
	return filepath.Join(c.CSVDir, fmt.Sprintf(pattern, surveyNumber))
}

// Answer is one fact row: a respondent's answers within one survey.
// Nil pointers are stored as NULL; they mark fields the survey does not supply
// or empty source cells of nullable fields.
type Answer struct {
	SurveyNumber int32
	AnswerKey    string

	UserID                *int64
	Age                   *int32
	Gender                *int32
	EducationalAttainment *int32
	MainJobIncome         *int32
	Occupation            *int32
	Industry              *int32
	Degree                *int32
	SelfLearning          *bool
	PlaceOfResidence      *int32
	HasSpouse             *bool
	HasChildren           *bool
	ChildrenCount         *int32
	Major                 *int32
	WorkingSituation      *int32
	WorkingStatus         *int32
	EmploymentStatus      *int32
}

// LoadResult summarizes one survey load.
type LoadResult struct {
	RunID        uuid.UUID
	SurveyNumber int
	SourcePath   string
	Checksum     string
	Rows         int
	Batches      int
	Purged       int64
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration returns how long the load took.
func (r LoadResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID parameters. With all three set a service principal is used,
	// otherwise the DefaultAzureCredential chain.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AWS IAM authentication
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance)
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}
