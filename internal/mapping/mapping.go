package mapping

import (
	"fmt"
	"sort"
)

// Mapping maps canonical field names to a survey's source CSV columns.
// Canonical fields without an entry are not supplied by the survey.
type Mapping struct {
	SurveyNumber int
	Year         int

	// File optionally names the survey's CSV, relative to the CSV directory.
	File string

	Columns map[string]string
}

// Column returns the source column for a canonical field.
func (m Mapping) Column(field string) (string, bool) {
	c, ok := m.Columns[field]
	return c, ok
}

// Supplied returns the mapped canonical fields in canonical order.
func (m Mapping) Supplied() []Field {
	out := make([]Field, 0, len(m.Columns))
	for _, f := range Fields {
		if _, ok := m.Columns[f.Name]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Canonical returns the mapping used when CSV headers already carry canonical
// names. Required fields are always mapped so that their absence is reported;
// optional fields are mapped only when present in header.
func Canonical(surveyNumber int, header []string) Mapping {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	cols := make(map[string]string)
	for _, f := range Fields {
		if f.Required || present[f.Name] {
			cols[f.Name] = f.Name
		}
	}
	return Mapping{SurveyNumber: surveyNumber, Columns: cols}
}

func (m Mapping) validate() []error {
	var errs []error
	if m.SurveyNumber <= 0 {
		errs = append(errs, fmt.Errorf("survey number must be positive, got %d", m.SurveyNumber))
	}

	names := make([]string, 0, len(m.Columns))
	for name := range m.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := LookupField(name); !ok {
			errs = append(errs, fmt.Errorf("survey %d: unknown canonical field %q", m.SurveyNumber, name))
		}
		if m.Columns[name] == "" {
			errs = append(errs, fmt.Errorf("survey %d: empty source column for field %q", m.SurveyNumber, name))
		}
	}

	for _, f := range Fields {
		if _, ok := m.Columns[f.Name]; f.Required && !ok {
			errs = append(errs, fmt.Errorf("survey %d: required field %q is not mapped", m.SurveyNumber, f.Name))
		}
	}
	return errs
}
