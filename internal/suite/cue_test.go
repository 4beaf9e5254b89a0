package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCUE(t *testing.T) {
	path := writeSuiteFile(t, "suite.cue", `
cases: [
	{
		useCase:  "UC1"
		testCase: "TC1"
		base:     "8=FIX.4.2|35=D|55=IBM"
		update:   "44=10"
		validate: "39=0"
	},
	{
		useCase:  "UC1"
		testCase: "TC2"
		base:     "8=FIX.4.2|35=F"
		validate: "39=0"
		expected: false
	},
]
`)

	templates, err := LoadCUE(path)
	require.NoError(t, err)
	require.Len(t, templates, 2)

	assert.Equal(t, CaseTemplate{
		UseCaseID:    "UC1",
		TestCaseID:   "TC1",
		BaseMessage:  "8=FIX.4.2|35=D|55=IBM",
		UpdateSpec:   "44=10",
		ValidateSpec: "39=0",
		Expected:     true,
	}, templates[0])

	// Omitted fields take the schema defaults.
	assert.Empty(t, templates[1].UpdateSpec)
	assert.False(t, templates[1].Expected)
}

func TestLoadCUERejectsEmptyBase(t *testing.T) {
	path := writeSuiteFile(t, "suite.cue", `
cases: [{
	useCase:  "UC1"
	testCase: "TC1"
	base:     ""
}]
`)

	_, err := LoadCUE(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")
}

func TestLoadCUERejectsUnknownField(t *testing.T) {
	path := writeSuiteFile(t, "suite.cue", `
cases: [{
	useCase:  "UC1"
	testCase: "TC1"
	base:     "8=FIX.4.2|35=D"
	priority: 3
}]
`)

	_, err := LoadCUE(path)
	require.Error(t, err)
}

func TestLoadCUEEmptySuite(t *testing.T) {
	path := writeSuiteFile(t, "suite.cue", `cases: []`)

	templates, err := LoadCUE(path)
	require.NoError(t, err)
	assert.Empty(t, templates)
}
