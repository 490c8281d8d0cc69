package mapping

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/surveyetl/internal/files/filesystem"
	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

//go:embed surveys.yaml
var defaultMappings []byte

// Registry holds the column mappings of all registered surveys in
// registration order. It is immutable once built.
type Registry struct {
	order    []int
	byNumber map[int]Mapping
}

type fileFormat struct {
	Surveys []struct {
		Number  int               `yaml:"number"`
		Year    int               `yaml:"year"`
		File    string            `yaml:"file"`
		Columns map[string]string `yaml:"columns"`
	} `yaml:"surveys"`
}

// Parse builds a Registry from YAML. Every problem found is reported,
// each wrapping surveyetl.ErrInvalidConfig.
func Parse(data []byte) (*Registry, error) {
	var ff fileFormat
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parse survey mapping: %w: %w", surveyetl.ErrInvalidConfig, err)
	}

	mappings := make([]Mapping, 0, len(ff.Surveys))
	for _, s := range ff.Surveys {
		mappings = append(mappings, Mapping{
			SurveyNumber: s.Number,
			Year:         s.Year,
			File:         s.File,
			Columns:      s.Columns,
		})
	}
	return New(mappings...)
}

// New builds a Registry from mappings in the given order.
func New(mappings ...Mapping) (*Registry, error) {
	r := &Registry{byNumber: make(map[int]Mapping, len(mappings))}

	var errs []error
	for _, m := range mappings {
		for _, err := range m.validate() {
			errs = append(errs, fmt.Errorf("%w: %w", surveyetl.ErrInvalidConfig, err))
		}
		if _, dup := r.byNumber[m.SurveyNumber]; dup {
			errs = append(errs, fmt.Errorf("%w: survey %d registered twice", surveyetl.ErrInvalidConfig, m.SurveyNumber))
			continue
		}
		r.order = append(r.order, m.SurveyNumber)
		r.byNumber[m.SurveyNumber] = m
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// Load reads a mapping file through fs.
func Load(fs filesystem.FileSystemProvider, path string) (*Registry, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read survey mapping %s: %w: %w", path, surveyetl.ErrInvalidConfig, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := Parse(defaultMappings)
	if err != nil {
		panic(fmt.Sprintf("embedded survey mapping is invalid: %v", err))
	}
	return r
}

// Lookup returns the mapping of a survey, or a *surveyetl.ConfigurationError.
func (r *Registry) Lookup(surveyNumber int) (Mapping, error) {
	m, ok := r.byNumber[surveyNumber]
	if !ok {
		return Mapping{}, &surveyetl.ConfigurationError{SurveyNumber: surveyNumber}
	}
	return m, nil
}

// Surveys returns the registered survey numbers in registration order.
func (r *Registry) Surveys() []int {
	return append([]int(nil), r.order...)
}

// Len returns the number of registered surveys.
func (r *Registry) Len() int {
	return len(r.order)
}
