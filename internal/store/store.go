package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

const (
	tableAnswers = "answers_fact"
	tableSurveys = "surveys_dim"
	tableRuns    = "load_runs"

	releaseTimeout = 5 * time.Second
)

// AnswerColumns are the answers_fact columns in COPY order.
var AnswerColumns = []string{
	"survey_number",
	"answer_key",
	"user_id",
	"age",
	"gender",
	"educational_attainment",
	"main_job_income",
	"occupation",
	"industry",
	"degree",
	"self_learning",
	"place_of_residence",
	"has_spouse",
	"has_children",
	"children_count",
	"major",
	"working_situation",
	"working_status",
	"employment_status",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Provider hands out sessions backed by a connection pool.
type Provider struct {
	pool   *pgxpool.Pool
	logger surveyetl.Logger
}

// NewProvider creates a Provider. Panics if pool or logger is nil.
func NewProvider(pool *pgxpool.Pool, logger surveyetl.Logger) *Provider {
	if pool == nil {
		panic("pool cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Provider{pool: pool, logger: logger}
}

// Acquire reserves a pooled connection for a new session.
func (p *Provider) Acquire(ctx context.Context) (surveyetl.Session, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w: %w", surveyetl.ErrConnectionFailed, err)
	}
	p.logger.Verbose("Acquired session connection (pid %d)", conn.Conn().PgConn().PID())
	return &Session{conn: conn, logger: p.logger}, nil
}

// Session is a pgx-backed surveyetl.Session.
type Session struct {
	conn     *pgxpool.Conn
	tx       pgx.Tx
	logger   surveyetl.Logger
	released bool
}

func (s *Session) begin(ctx context.Context) (pgx.Tx, error) {
	if s.released {
		return nil, fmt.Errorf("session already released: %w", surveyetl.ErrDatabase)
	}
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, dbError("begin transaction", err)
	}
	s.tx = tx
	return tx, nil
}

// EnsureSurvey inserts the survey dimension row unless it exists.
func (s *Session) EnsureSurvey(ctx context.Context, surveyNumber, year int) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	var yearValue any
	if year != 0 {
		yearValue = year
	}
	query, args, err := psql.Insert(tableSurveys).
		Columns("survey_number", "year").
		Values(surveyNumber, yearValue).
		Suffix("ON CONFLICT (survey_number) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build survey insert: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return dbError(fmt.Sprintf("register survey %d", surveyNumber), err)
	}
	return nil
}

// DeleteSurvey purges the survey's fact rows.
func (s *Session) DeleteSurvey(ctx context.Context, surveyNumber int) (int64, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return 0, err
	}

	query, args, err := psql.Delete(tableAnswers).Where(sq.Eq{"survey_number": surveyNumber}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build survey delete: %w", err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, dbError(fmt.Sprintf("delete survey %d", surveyNumber), err)
	}
	return tag.RowsAffected(), nil
}

// InsertAnswers copies answers into the fact table.
func (s *Session) InsertAnswers(ctx context.Context, answers []surveyetl.Answer) (int64, error) {
	if len(answers) == 0 {
		return 0, nil
	}
	tx, err := s.begin(ctx)
	if err != nil {
		return 0, err
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{tableAnswers}, AnswerColumns,
		pgx.CopyFromSlice(len(answers), func(i int) ([]any, error) {
			return answerValues(&answers[i]), nil
		}))
	if err != nil {
		return n, dbError(fmt.Sprintf("copy %d answers", len(answers)), err)
	}
	return n, nil
}

// RecordRun inserts the load_runs entry for result.
func (s *Session) RecordRun(ctx context.Context, result surveyetl.LoadResult) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	query, args, err := psql.Insert(tableRuns).
		Columns("run_id", "survey_number", "source_path", "source_sha256",
			"row_count", "batch_count", "purged_count", "started_at", "finished_at").
		Values(result.RunID, result.SurveyNumber, result.SourcePath, result.Checksum,
			result.Rows, result.Batches, result.Purged, result.StartedAt, result.FinishedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build run insert: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return dbError(fmt.Sprintf("record run %s", result.RunID), err)
	}
	return nil
}

// Commit commits the open transaction, if any.
func (s *Session) Commit(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx = nil
	if err := tx.Commit(ctx); err != nil {
		return dbError("commit", err)
	}
	return nil
}

// Release rolls back uncommitted work and returns the connection to the pool.
func (s *Session) Release(ctx context.Context) {
	if s.released {
		return
	}
	s.released = true

	if s.tx != nil {
		// The caller's context may already be cancelled.
		rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		if note := rollbackNote(s.tx.Rollback(rbCtx)); note != "" {
			s.logger.Verbose("%s", note)
		}
		cancel()
		s.tx = nil
	}
	s.conn.Release()
}

func answerValues(a *surveyetl.Answer) []any {
	return []any{
		a.SurveyNumber,
		a.AnswerKey,
		a.UserID,
		a.Age,
		a.Gender,
		a.EducationalAttainment,
		a.MainJobIncome,
		a.Occupation,
		a.Industry,
		a.Degree,
		a.SelfLearning,
		a.PlaceOfResidence,
		a.HasSpouse,
		a.HasChildren,
		a.ChildrenCount,
		a.Major,
		a.WorkingSituation,
		a.WorkingStatus,
		a.EmploymentStatus,
	}
}

// rollbackNote describes a release-time rollback. It is empty when the
// transaction was already closed and nothing was rolled back.
func rollbackNote(err error) string {
	switch {
	case err == nil:
		return "Rolled back uncommitted work"
	case errors.Is(err, pgx.ErrTxClosed):
		return ""
	default:
		return fmt.Sprintf("Rollback failed: %v", err)
	}
}

func dbError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, surveyetl.ErrDatabase, err)
}

var (
	_ surveyetl.SessionProvider = (*Provider)(nil)
	_ surveyetl.Session         = (*Session)(nil)
)
