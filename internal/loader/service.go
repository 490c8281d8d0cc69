package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/surveyetl/internal/csvsource"
	"github.com/vvka-141/surveyetl/internal/files/filesystem"
	"github.com/vvka-141/surveyetl/internal/mapping"
	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

// Service implements surveyetl.Loader.
// Not safe for concurrent use.
type Service struct {
	registry *mapping.Registry
	config   surveyetl.LoadConfig
	fs       filesystem.FileSystemProvider
	sessions surveyetl.SessionProvider
	logger   surveyetl.Logger

	now   func() time.Time
	runID func() uuid.UUID
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRunIDs replaces uuid.New for run identifiers.
func WithRunIDs(next func() uuid.UUID) Option {
	return func(s *Service) { s.runID = next }
}

// NewService creates a Service. The configuration is validated and defaults
// are applied. Panics if a dependency is nil.
func NewService(
	registry *mapping.Registry,
	config surveyetl.LoadConfig,
	fs filesystem.FileSystemProvider,
	sessions surveyetl.SessionProvider,
	logger surveyetl.Logger,
	opts ...Option,
) (*Service, error) {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if fs == nil {
		panic("fs cannot be nil")
	}
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		registry: registry,
		config:   config,
		fs:       fs,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
		runID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load purges and reloads one survey.
func (s *Service) Load(ctx context.Context, surveyNumber int) (*surveyetl.LoadResult, error) {
	started := s.now()

	m, err := s.resolveMapping(surveyNumber)
	if err != nil {
		return nil, err
	}

	path := s.config.SourcePath(surveyNumber, m.File)
	src, err := csvsource.Open(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("survey %d: %w", surveyNumber, err)
	}
	defer src.Close()

	if s.config.FixedColumns {
		year := m.Year
		m = mapping.Canonical(surveyNumber, src.Header())
		m.Year = year
	}
	s.logger.Verbose("Survey %d: reading %s (%d mapped fields)", surveyNumber, path, len(m.Columns))

	session, err := s.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Release(ctx)

	result := surveyetl.LoadResult{
		RunID:        s.runID(),
		SurveyNumber: surveyNumber,
		SourcePath:   src.Path(),
		StartedAt:    started,
	}

	if err := session.EnsureSurvey(ctx, surveyNumber, m.Year); err != nil {
		return nil, err
	}
	if result.Purged, err = session.DeleteSurvey(ctx, surveyNumber); err != nil {
		return nil, err
	}
	s.logger.Verbose("Survey %d: purged %d rows", surveyNumber, result.Purged)

	if err := s.stream(ctx, session, src, newProjector(m), &result); err != nil {
		return nil, err
	}

	result.Checksum = src.Checksum()
	s.logger.Verbose("Survey %d: read %d rows from %s (sha256 %s)",
		surveyNumber, src.Rows(), src.Path(), result.Checksum)
	result.FinishedAt = s.now()
	if err := session.RecordRun(ctx, result); err != nil {
		return nil, err
	}
	if err := session.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Survey %d loaded: %d rows in %d batches (%s)",
		surveyNumber, result.Rows, result.Batches, result.Duration().Round(time.Millisecond))
	return &result, nil
}

// stream projects every row and writes full batches as they fill. The trailing
// partial batch is written but left for the caller to commit.
func (s *Service) stream(
	ctx context.Context,
	session surveyetl.Session,
	src *csvsource.Source,
	p *projector,
	result *surveyetl.LoadResult,
) error {
	batch := make([]surveyetl.Answer, 0, s.config.BatchSize)

	write := func() error {
		n, err := session.InsertAnswers(ctx, batch)
		if err != nil {
			return err
		}
		result.Rows += int(n)
		result.Batches++
		batch = batch[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("survey %d: %w", p.surveyNumber, err)
		}

		answer, err := p.project(row)
		if err != nil {
			return err
		}
		batch = append(batch, answer)

		if len(batch) == s.config.BatchSize {
			if err := write(); err != nil {
				return err
			}
			if err := session.Commit(ctx); err != nil {
				return err
			}
			s.logger.Verbose("Survey %d: committed batch %d (%d rows so far)",
				p.surveyNumber, result.Batches, result.Rows)
		}
	}

	if len(batch) > 0 {
		return write()
	}
	return nil
}

// LoadAll loads every registered survey in registration order and stops at the first failure.
func (s *Service) LoadAll(ctx context.Context) ([]surveyetl.LoadResult, error) {
	surveys := s.registry.Surveys()
	results := make([]surveyetl.LoadResult, 0, len(surveys))

	for _, n := range surveys {
		result, err := s.Load(ctx, n)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
	}
	return results, nil
}

func (s *Service) resolveMapping(surveyNumber int) (mapping.Mapping, error) {
	if !s.config.FixedColumns {
		return s.registry.Lookup(surveyNumber)
	}
	// Headers decide the columns; the registry may still name the file and year.
	m, err := s.registry.Lookup(surveyNumber)
	if err != nil {
		return mapping.Mapping{SurveyNumber: surveyNumber}, nil
	}
	return m, nil
}

var _ surveyetl.Loader = (*Service)(nil)
