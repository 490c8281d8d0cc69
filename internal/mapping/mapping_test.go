package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFields_RequiredSet(t *testing.T) {
	var required []string
	for _, f := range Fields {
		if f.Required {
			required = append(required, f.Name)
		}
	}
	assert.Equal(t, []string{Age, Gender, EducationalAttainment, MainJobIncome}, required)
	assert.Len(t, Fields, 16)
}

func TestLookupField(t *testing.T) {
	f, ok := LookupField(SelfLearning)
	assert.True(t, ok)
	assert.Equal(t, Flag, f.Kind)

	f, ok = LookupField(MainJobIncome)
	assert.True(t, ok)
	assert.True(t, f.ZeroWhenEmpty)

	_, ok = LookupField("y22_q2")
	assert.False(t, ok)
}

func TestCanonical(t *testing.T) {
	m := Canonical(1523, []string{"key", "pkey", "age", "gender", "has_children", "unrelated"})

	assert.Equal(t, 1523, m.SurveyNumber)
	assert.Equal(t, map[string]string{
		Age:                   Age,
		Gender:                Gender,
		EducationalAttainment: EducationalAttainment,
		MainJobIncome:         MainJobIncome,
		HasChildren:           HasChildren,
	}, m.Columns, "required fields are always mapped, optional ones only when present")
}

func TestMapping_Supplied(t *testing.T) {
	m := Mapping{Columns: map[string]string{MainJobIncome: "q", Age: "a", Major: "m"}}

	var names []string
	for _, f := range m.Supplied() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{Age, MainJobIncome, Major}, names)
}
