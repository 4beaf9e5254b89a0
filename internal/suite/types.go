// Package suite loads test-case templates from suite files. Three formats
// are supported: CSV (the historical format), Excel workbooks, and CUE files
// validated against an embedded schema.
package suite

// CaseTemplate is one input row of a suite. Immutable once read; expansion
// never mutates the template.
type CaseTemplate struct {
	UseCaseID    string
	TestCaseID   string
	BaseMessage  string // FieldMap literal in the suite-file delimiter
	UpdateSpec   string // raw update DSL text
	ValidateSpec string // raw validation DSL text
	Expected     bool   // expected validation outcome, default true
}

// column names shared by the CSV and Excel loaders.
const (
	colUseCaseID  = "UseCaseID"
	colTestCaseID = "TestCaseID"
	colBase       = "BaseMessage"
	colUpdate     = "TagsToUpdate"
	colValidate   = "TagsToValidate"
	colExpected   = "ExpectedValidationResult"
)

// expectedFromCell maps the optional ExpectedValidationResult column to a
// boolean. Anything other than an explicit "false" counts as true.
func expectedFromCell(v string) bool {
	return v != "false"
}
