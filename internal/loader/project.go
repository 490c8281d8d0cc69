package loader

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vvka-141/surveyetl/internal/csvsource"
	"github.com/vvka-141/surveyetl/internal/mapping"
	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

var intTargets = map[string]func(*surveyetl.Answer) **int32{
	mapping.Age:                   func(a *surveyetl.Answer) **int32 { return &a.Age },
	mapping.Gender:                func(a *surveyetl.Answer) **int32 { return &a.Gender },
	mapping.EducationalAttainment: func(a *surveyetl.Answer) **int32 { return &a.EducationalAttainment },
	mapping.MainJobIncome:         func(a *surveyetl.Answer) **int32 { return &a.MainJobIncome },
	mapping.Occupation:            func(a *surveyetl.Answer) **int32 { return &a.Occupation },
	mapping.Industry:              func(a *surveyetl.Answer) **int32 { return &a.Industry },
	mapping.Degree:                func(a *surveyetl.Answer) **int32 { return &a.Degree },
	mapping.PlaceOfResidence:      func(a *surveyetl.Answer) **int32 { return &a.PlaceOfResidence },
	mapping.ChildrenCount:         func(a *surveyetl.Answer) **int32 { return &a.ChildrenCount },
	mapping.Major:                 func(a *surveyetl.Answer) **int32 { return &a.Major },
	mapping.WorkingSituation:      func(a *surveyetl.Answer) **int32 { return &a.WorkingSituation },
	mapping.WorkingStatus:         func(a *surveyetl.Answer) **int32 { return &a.WorkingStatus },
	mapping.EmploymentStatus:      func(a *surveyetl.Answer) **int32 { return &a.EmploymentStatus },
}

var flagTargets = map[string]func(*surveyetl.Answer) **bool{
	mapping.SelfLearning: func(a *surveyetl.Answer) **bool { return &a.SelfLearning },
	mapping.HasSpouse:    func(a *surveyetl.Answer) **bool { return &a.HasSpouse },
	mapping.HasChildren:  func(a *surveyetl.Answer) **bool { return &a.HasChildren },
}

// projector turns CSV rows into fact rows for one survey.
type projector struct {
	surveyNumber int
	fields       []mapping.Field
	columns      []string
}

func newProjector(m mapping.Mapping) *projector {
	fields := m.Supplied()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i], _ = m.Column(f.Name)
	}
	return &projector{surveyNumber: m.SurveyNumber, fields: fields, columns: columns}
}

// project builds the Answer of one row. Fields the mapping does not supply stay nil.
func (p *projector) project(row csvsource.Row) (surveyetl.Answer, error) {
	a := surveyetl.Answer{
		SurveyNumber: int32(p.surveyNumber),
		AnswerKey:    row.Key,
	}

	if utf8.RuneCountInString(row.Key) > surveyetl.AnswerKeyMaxLength {
		return a, p.malformed(row, csvsource.KeyColumn, row.Key,
			fmt.Errorf("longer than %d characters", surveyetl.AnswerKeyMaxLength))
	}

	if pkey := strings.TrimSpace(row.PKey); pkey != "" {
		id, err := strconv.ParseInt(pkey, 10, 64)
		if err != nil {
			return a, p.malformed(row, csvsource.PKeyColumn, row.PKey, err)
		}
		a.UserID = &id
	}

	for i, f := range p.fields {
		column := p.columns[i]
		raw, ok := row.Get(column)
		if !ok {
			return a, &surveyetl.MissingFieldError{
				SurveyNumber: p.surveyNumber,
				Row:          row.Line,
				Field:        f.Name,
				Column:       column,
			}
		}

		switch f.Kind {
		case mapping.Flag:
			v := raw == "1"
			*flagTargets[f.Name](&a) = &v
		case mapping.Integer:
			v, err := parseInt(raw, f.ZeroWhenEmpty)
			if err != nil {
				return a, p.malformed(row, column, raw, err)
			}
			*intTargets[f.Name](&a) = v
		}
	}
	return a, nil
}

func (p *projector) malformed(row csvsource.Row, column, raw string, err error) error {
	return fmt.Errorf("survey %d row %d: column %q value %q: %w: %w",
		p.surveyNumber, row.Line, column, raw, surveyetl.ErrIO, err)
}

// parseInt maps an empty cell to NULL, or to 0 when zeroWhenEmpty is set.
func parseInt(raw string, zeroWhenEmpty bool) (*int32, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		if zeroWhenEmpty {
			var zero int32
			return &zero, nil
		}
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return nil, err
	}
	v := int32(n)
	return &v, nil
}
