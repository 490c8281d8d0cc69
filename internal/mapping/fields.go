package mapping

// Kind is how a canonical field's raw value is interpreted.
type Kind int

const (
	// Integer values are parsed as base-10 int32.
	Integer Kind = iota
	// Flag values are true exactly when the raw value is "1".
	Flag
)

// Canonical field names.
const (
	Age                   = "age"
	Gender                = "gender"
	EducationalAttainment = "educational_attainment"
	MainJobIncome         = "main_job_income"
	Occupation            = "occupation"
	Industry              = "industry"
	Degree                = "degree"
	SelfLearning          = "self_learning"
	PlaceOfResidence      = "place_of_residence"
	HasSpouse             = "has_spouse"
	HasChildren           = "has_children"
	ChildrenCount         = "children_count"
	Major                 = "major"
	WorkingSituation      = "working_situation"
	WorkingStatus         = "working_status"
	EmploymentStatus      = "employment_status"
)

// Field describes one canonical attribute of an answer.
type Field struct {
	Name string
	Kind Kind

	// Required fields must be mapped by every survey.
	Required bool

	// ZeroWhenEmpty stores 0 instead of NULL for an empty source cell.
	ZeroWhenEmpty bool
}

// Fields is the canonical field set in its stable order.
var Fields = []Field{
	{Name: Age, Kind: Integer, Required: true},
	{Name: Gender, Kind: Integer, Required: true},
	{Name: EducationalAttainment, Kind: Integer, Required: true},
	{Name: MainJobIncome, Kind: Integer, Required: true, ZeroWhenEmpty: true},
	{Name: Occupation, Kind: Integer},
	{Name: Industry, Kind: Integer},
	{Name: Degree, Kind: Integer},
	{Name: SelfLearning, Kind: Flag},
	{Name: PlaceOfResidence, Kind: Integer},
	{Name: HasSpouse, Kind: Flag},
	{Name: HasChildren, Kind: Flag},
	{Name: ChildrenCount, Kind: Integer},
	{Name: Major, Kind: Integer},
	{Name: WorkingSituation, Kind: Integer},
	{Name: WorkingStatus, Kind: Integer},
	{Name: EmploymentStatus, Kind: Integer},
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, len(Fields))
	for _, f := range Fields {
		m[f.Name] = f
	}
	return m
}()

// LookupField returns the canonical field with the given name.
func LookupField(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}
