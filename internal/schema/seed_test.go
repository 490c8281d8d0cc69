package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/surveyetl/internal/mapping"
)

func TestDimensions(t *testing.T) {
	dims, err := Dimensions()
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, d := range dims {
		counts[d.Table] = len(d.Rows)
	}

	assert.Equal(t, map[string]int{
		"age_classes_dim":             7,
		"degrees_dim":                 8,
		"educational_attainments_dim": 15,
		"employment_statuses_dim":     7,
		"industries_dim":              20,
		"majors_dim":                  20,
		"occupations_dim":             224,
		"residences_dim":              48,
		"working_situations_dim":      8,
		"working_statuses_dim":        7,
	}, counts)
}

func TestDimensions_KeysAreUnique(t *testing.T) {
	dims, err := Dimensions()
	require.NoError(t, err)

	for _, d := range dims {
		seen := make(map[any]bool)
		for _, row := range d.Rows {
			assert.False(t, seen[row[0]], "%s: duplicate key %v", d.Table, row[0])
			seen[row[0]] = true
		}
	}
}

func TestUpsertSQL(t *testing.T) {
	d := Dimension{
		Table:   "degrees_dim",
		Columns: []string{"key", "area"},
		Rows:    [][]any{{1, "人文科学"}, {2, "社会科学"}},
	}

	query, args, err := d.UpsertSQL()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO degrees_dim (key,area) VALUES ($1,$2),($3,$4) ON CONFLICT (key) DO UPDATE SET area = EXCLUDED.area",
		query)
	assert.Equal(t, []any{1, "人文科学", 2, "社会科学"}, args)
}

func TestUpsertSQL_Casts(t *testing.T) {
	d := Dimension{
		Table:   "age_classes_dim",
		Columns: []string{"key", "name", "age_range"},
		Casts:   map[string]string{"age_range": "int4range"},
		Rows:    [][]any{{2, "20s", "[20,30)"}},
	}

	query, args, err := d.UpsertSQL()
	require.NoError(t, err)
	assert.Contains(t, query, "VALUES ($1,$2,$3::int4range)")
	assert.Contains(t, query, "name = EXCLUDED.name, age_range = EXCLUDED.age_range")
	assert.Equal(t, []any{2, "20s", "[20,30)"}, args)
}

func TestUpsertSQL_Invalid(t *testing.T) {
	_, _, err := Dimension{Table: "t", Columns: []string{"key", "title"}, Rows: [][]any{{1}}}.UpsertSQL()
	assert.ErrorContains(t, err, "1 values for 2 columns")

	_, _, err = Dimension{Table: "t", Columns: []string{"key"}}.UpsertSQL()
	assert.ErrorContains(t, err, "no rows")
}

func TestSurveyDimension(t *testing.T) {
	registry, err := mapping.New(
		mapping.Mapping{SurveyNumber: 1523, Year: 2022, Columns: requiredColumns()},
		mapping.Mapping{SurveyNumber: 1400, Columns: requiredColumns()},
	)
	require.NoError(t, err)

	d := SurveyDimension(registry)
	assert.Equal(t, "surveys_dim", d.Table)
	assert.Equal(t, [][]any{{1523, 2022}, {1400, nil}}, d.Rows)

	query, _, err := d.UpsertSQL()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(query, "ON CONFLICT (survey_number) DO UPDATE SET year = EXCLUDED.year"))
}

func TestLatestVersion(t *testing.T) {
	v, err := LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)
}

func requiredColumns() map[string]string {
	return map[string]string{
		mapping.Age:                   "a",
		mapping.Gender:                "g",
		mapping.EducationalAttainment: "e",
		mapping.MainJobIncome:         "i",
	}
}
