package mapping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/surveyetl/internal/files/filesystem"
	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

func TestDefault(t *testing.T) {
	r := Default()

	assert.Equal(t, []int{1523}, r.Surveys())

	m, err := r.Lookup(1523)
	require.NoError(t, err)
	assert.Equal(t, 2022, m.Year)
	assert.Equal(t, map[string]string{
		Age:                   "y22_q2",
		Gender:                "y22_q1",
		EducationalAttainment: "y22_q5",
		MainJobIncome:         "y22_q100_1",
	}, m.Columns)
}

func TestRegistry_LookupUnregistered(t *testing.T) {
	_, err := Default().Lookup(9999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, surveyetl.ErrConfiguration))

	var cfgErr *surveyetl.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 9999, cfgErr.SurveyNumber)
}

func TestParse_RegistrationOrder(t *testing.T) {
	data := `
surveys:
  - number: 1600
    year: 2023
    file: answers_2023.csv
    columns: {age: y23_q3, gender: y23_q1, educational_attainment: y23_q6, main_job_income: y23_q90, has_spouse: y23_q40}
  - number: 1523
    year: 2022
    columns: {age: y22_q2, gender: y22_q1, educational_attainment: y22_q5, main_job_income: y22_q100_1}
  - number: 1400
    columns: {age: a, gender: g, educational_attainment: e, main_job_income: i}
`
	r, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, []int{1600, 1523, 1400}, r.Surveys())
	assert.Equal(t, 3, r.Len())

	m, err := r.Lookup(1600)
	require.NoError(t, err)
	assert.Equal(t, "answers_2023.csv", m.File)
	col, ok := m.Column(HasSpouse)
	assert.True(t, ok)
	assert.Equal(t, "y23_q40", col)
	_, ok = m.Column(Major)
	assert.False(t, ok, "unmapped fields are not supplied")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		contains string
	}{
		{
			name:     "malformed yaml",
			data:     "surveys: [",
			contains: "parse survey mapping",
		},
		{
			name: "unknown field",
			data: `surveys:
  - number: 1
    columns: {age: a, gender: g, educational_attainment: e, main_job_income: i, shoe_size: q9}`,
			contains: `unknown canonical field "shoe_size"`,
		},
		{
			name: "missing required field",
			data: `surveys:
  - number: 1
    columns: {age: a, gender: g, educational_attainment: e}`,
			contains: `required field "main_job_income" is not mapped`,
		},
		{
			name: "empty column",
			data: `surveys:
  - number: 1
    columns: {age: "", gender: g, educational_attainment: e, main_job_income: i}`,
			contains: `empty source column for field "age"`,
		},
		{
			name: "duplicate survey",
			data: `surveys:
  - number: 1
    columns: {age: a, gender: g, educational_attainment: e, main_job_income: i}
  - number: 1
    columns: {age: a, gender: g, educational_attainment: e, main_job_income: i}`,
			contains: "survey 1 registered twice",
		},
		{
			name: "non-positive number",
			data: `surveys:
  - number: 0
    columns: {age: a, gender: g, educational_attainment: e, main_job_income: i}`,
			contains: "survey number must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Nil(t, r)
			assert.ErrorIs(t, err, surveyetl.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParse_ReportsEveryProblem(t *testing.T) {
	data := `surveys:
  - number: 1
    columns: {age: a, typo: x}`
	_, err := Parse([]byte(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown canonical field "typo"`)
	assert.Contains(t, err.Error(), `required field "gender"`)
	assert.Contains(t, err.Error(), `required field "main_job_income"`)
}

func TestLoad(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem("/etc/surveyetl")
	mfs.AddFile("mapping.yaml", `surveys:
  - number: 1523
    columns: {age: y22_q2, gender: y22_q1, educational_attainment: y22_q5, main_job_income: y22_q100_1}`)

	r, err := Load(mfs, "/etc/surveyetl/mapping.yaml")
	require.NoError(t, err)
	assert.Equal(t, []int{1523}, r.Surveys())

	_, err = Load(mfs, "/etc/surveyetl/missing.yaml")
	assert.ErrorIs(t, err, surveyetl.ErrInvalidConfig)
}

func TestSurveys_ReturnsCopy(t *testing.T) {
	r := Default()
	s := r.Surveys()
	s[0] = 42
	assert.Equal(t, []int{1523}, r.Surveys())
}
