package schema

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/surveyetl/internal/mapping"
	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

//go:embed seed/*.yaml
var seedFS embed.FS

// Execer runs a statement; satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Dimension is the reference data of one dimension table.
// The first column is the conflict key.
type Dimension struct {
	Table   string            `yaml:"table"`
	Columns []string          `yaml:"columns"`
	Casts   map[string]string `yaml:"casts"`
	Rows    [][]any           `yaml:"rows"`
}

func (d Dimension) validate() error {
	if d.Table == "" || len(d.Columns) == 0 {
		return fmt.Errorf("dimension needs a table and columns")
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return fmt.Errorf("%s row %d: %d values for %d columns", d.Table, i+1, len(row), len(d.Columns))
		}
	}
	return nil
}

// Dimensions returns the embedded reference data ordered by table name.
func Dimensions() ([]Dimension, error) {
	names, err := fs.Glob(seedFS, "seed/*.yaml")
	if err != nil {
		return nil, err
	}

	dims := make([]Dimension, 0, len(names))
	for _, name := range names {
		data, err := seedFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		var d Dimension
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path.Base(name), err)
		}
		if err := d.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(name), err)
		}
		dims = append(dims, d)
	}
	return dims, nil
}

// SurveyDimension builds surveys_dim rows from the mapping registry.
func SurveyDimension(registry *mapping.Registry) Dimension {
	d := Dimension{Table: "surveys_dim", Columns: []string{"survey_number", "year"}}
	for _, n := range registry.Surveys() {
		m, _ := registry.Lookup(n)
		var year any
		if m.Year != 0 {
			year = m.Year
		}
		d.Rows = append(d.Rows, []any{n, year})
	}
	return d
}

// UpsertSQL builds one multi-row INSERT that overwrites existing rows by key.
func (d Dimension) UpsertSQL() (string, []any, error) {
	if err := d.validate(); err != nil {
		return "", nil, err
	}
	if len(d.Rows) == 0 {
		return "", nil, fmt.Errorf("%s: no rows", d.Table)
	}

	b := sq.Insert(d.Table).Columns(d.Columns...).PlaceholderFormat(sq.Dollar)
	for _, row := range d.Rows {
		values := make([]any, len(row))
		for i, v := range row {
			if cast, ok := d.Casts[d.Columns[i]]; ok && v != nil {
				values[i] = sq.Expr("?::"+cast, v)
			} else {
				values[i] = v
			}
		}
		b = b.Values(values...)
	}

	set := make([]string, 0, len(d.Columns)-1)
	for _, c := range d.Columns[1:] {
		set = append(set, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	suffix := fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", d.Columns[0])
	if len(set) > 0 {
		suffix = fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", d.Columns[0], strings.Join(set, ", "))
	}
	return b.Suffix(suffix).ToSql()
}

// Seed upserts every dimension and returns the row count written per table.
// Dimensions without rows are skipped.
func Seed(ctx context.Context, exec Execer, dims []Dimension) (map[string]int, error) {
	counts := make(map[string]int, len(dims))
	for _, d := range dims {
		if len(d.Rows) == 0 {
			continue
		}
		query, args, err := d.UpsertSQL()
		if err != nil {
			return counts, err
		}
		tag, err := exec.Exec(ctx, query, args...)
		if err != nil {
			return counts, fmt.Errorf("seed %s: %w: %w", d.Table, surveyetl.ErrDatabase, err)
		}
		counts[d.Table] = int(tag.RowsAffected())
	}
	return counts, nil
}
