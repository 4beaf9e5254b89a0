package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixprobe/fixprobe/internal/config"
)

func newTestExpander(suffixes ...string) *Expander {
	return NewExpander(config.Default(), NewFixedGenerator(suffixes...))
}

func TestExpand_NoAxis_SingleCase(t *testing.T) {
	e := newTestExpander("aaaa")

	cases, err := e.Expand(Template{
		UseCaseID:    "UC1",
		TestCaseID:   "TC1",
		BaseMessage:  "8=FIX.4.2|35=D",
		UpdateSpec:   "55=IBM|54=1",
		ValidateSpec: "55=IBM",
		Expected:     true,
	})
	require.NoError(t, err)
	require.Len(t, cases, 1)

	c := cases[0]
	assert.Equal(t, "TC1", c.TestCaseID, "single case keeps the template id")
	assert.Equal(t, "IBM", c.Update.Value("55"))
	assert.Equal(t, "1", c.Update.Value("54"))
	assert.Equal(t, "TC1_aaaa", c.CorrelationID)
	assert.Equal(t, "TC1_aaaa", c.Update.Value("11"))
	assert.Equal(t, "IBM", c.Validate.Value("55"))
	assert.False(t, c.Chained)
}

func TestExpand_OrdinaryAxis_FansOut(t *testing.T) {
	e := newTestExpander("a1", "a2", "a3")

	cases, err := e.Expand(Template{
		UseCaseID:   "UC1",
		TestCaseID:  "TC1",
		BaseMessage: "8=X|35=D",
		UpdateSpec:  "1001=A~B~C|35=D",
	})
	require.NoError(t, err)
	require.Len(t, cases, 3)

	wantAxis := []string{"A", "B", "C"}
	wantIDs := []string{"TC1_1", "TC1_2", "TC1_3"}
	for i, c := range cases {
		assert.Equal(t, wantAxis[i], c.Update.Value("1001"), "axis value in listed order")
		assert.Equal(t, wantIDs[i], c.TestCaseID, "ordinal suffix keeps ids unique")
		assert.Equal(t, "D", c.Update.Value("35"), "non-axis fields held constant")
	}

	// Fresh identifier per case.
	seen := map[string]bool{}
	for _, c := range cases {
		assert.False(t, seen[c.CorrelationID], "correlation ids must be unique")
		seen[c.CorrelationID] = true
	}
}

func TestExpand_GroupShorthand(t *testing.T) {
	e := newTestExpander("aaaa")

	cases, err := e.Expand(Template{
		TestCaseID: "TC1",
		UpdateSpec: "[60~61~62]=9|55=IBM",
	})
	require.NoError(t, err)
	require.Len(t, cases, 1)

	c := cases[0]
	assert.Equal(t, "9", c.Update.Value("60"))
	assert.Equal(t, "9", c.Update.Value("61"))
	assert.Equal(t, "9", c.Update.Value("62"))
	assert.Equal(t, "IBM", c.Update.Value("55"))
}

func TestExpand_GroupShorthand_FeedsAxisDetection(t *testing.T) {
	// Group expansion runs before axis detection, so a group value that
	// carries a multi-value list would introduce several axes.
	e := newTestExpander()

	_, err := e.Expand(Template{
		TestCaseID: "TC1",
		UpdateSpec: "[60~61]=A~B",
	})
	require.Error(t, err)
	var ee *ExpansionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrCodeMultipleAxes, ee.Code)
}

func TestExpand_TypeAxis_ChainsSecondary(t *testing.T) {
	e := newTestExpander("p1", "s1")

	cases, err := e.Expand(Template{
		UseCaseID:    "UC2",
		TestCaseID:   "TC9",
		BaseMessage:  "8=X|55=IBM",
		UpdateSpec:   "35=D~F|54=1",
		ValidateSpec: "39=0",
	})
	require.NoError(t, err)
	require.Len(t, cases, 2)

	primary, secondary := cases[0], cases[1]

	assert.Equal(t, "D", primary.Update.Value("35"))
	assert.False(t, primary.Chained)
	assert.Equal(t, "TC9_p1", primary.CorrelationID)

	assert.Equal(t, "F", secondary.Update.Value("35"))
	assert.True(t, secondary.Chained)
	assert.Equal(t, primary.CorrelationID, secondary.Update.Value("41"),
		"parent reference must equal the primary's correlation identifier")
	assert.NotEqual(t, primary.CorrelationID, secondary.CorrelationID)
	assert.Equal(t, "0", secondary.Validate.Value("39"))
}

func TestExpand_TypeAxisComposesWithOrdinaryAxis(t *testing.T) {
	// Each primary spawns its own chained secondary, emitted immediately
	// after it.
	e := newTestExpander()

	cases, err := e.Expand(Template{
		TestCaseID: "TC3",
		UpdateSpec: "1001=A~B|35=D~F",
	})
	require.NoError(t, err)
	require.Len(t, cases, 4)

	assert.Equal(t, "A", cases[0].Update.Value("1001"))
	assert.Equal(t, "D", cases[0].Update.Value("35"))
	assert.False(t, cases[0].Chained)

	assert.Equal(t, "A", cases[1].Update.Value("1001"))
	assert.Equal(t, "F", cases[1].Update.Value("35"))
	assert.True(t, cases[1].Chained)
	assert.Equal(t, cases[0].CorrelationID, cases[1].Update.Value("41"))

	assert.Equal(t, "B", cases[2].Update.Value("1001"))
	assert.Equal(t, "D", cases[2].Update.Value("35"))
	assert.Equal(t, "B", cases[3].Update.Value("1001"))
	assert.Equal(t, "F", cases[3].Update.Value("35"))
	assert.Equal(t, cases[2].CorrelationID, cases[3].Update.Value("41"))
}

func TestExpand_MultipleOrdinaryAxes_IsFatal(t *testing.T) {
	e := newTestExpander()

	_, err := e.Expand(Template{
		TestCaseID: "TC1",
		UpdateSpec: "54=1~2|55=A~B",
	})
	require.Error(t, err)
	var ee *ExpansionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrCodeMultipleAxes, ee.Code)
	assert.Equal(t, "TC1", ee.TestCaseID)
}

func TestExpand_TypeAxisArity(t *testing.T) {
	e := newTestExpander()

	_, err := e.Expand(Template{
		TestCaseID: "TC1",
		UpdateSpec: "35=D~F~G",
	})
	require.Error(t, err)
	var ee *ExpansionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrCodeTypeAxisArity, ee.Code)
}

func TestExpand_ValidationPairsPositionally(t *testing.T) {
	e := newTestExpander()

	cases, err := e.Expand(Template{
		TestCaseID:   "TC1",
		UpdateSpec:   "1001=A~B~C",
		ValidateSpec: "1001=X~Y~Z|39=0",
	})
	require.NoError(t, err)
	require.Len(t, cases, 3)

	want := []string{"X", "Y", "Z"}
	for i, c := range cases {
		assert.Equal(t, want[i], c.Validate.Value("1001"))
		assert.Equal(t, "0", c.Validate.Value("39"), "single-value lists clamp")
	}
}

func TestExpand_ValidationClampsToLastValue(t *testing.T) {
	e := newTestExpander()

	cases, err := e.Expand(Template{
		TestCaseID:   "TC1",
		UpdateSpec:   "1001=A~B~C",
		ValidateSpec: "1001=X~Y",
	})
	require.NoError(t, err)
	require.Len(t, cases, 3)

	assert.Equal(t, "X", cases[0].Validate.Value("1001"))
	assert.Equal(t, "Y", cases[1].Validate.Value("1001"))
	assert.Equal(t, "Y", cases[2].Validate.Value("1001"), "out-of-range index clamps to final value")
}

func TestExpand_PinnedIdentifierIsKept(t *testing.T) {
	e := newTestExpander("unused")

	cases, err := e.Expand(Template{
		TestCaseID: "TC1",
		UpdateSpec: "11=MY-ID|35=D",
	})
	require.NoError(t, err)
	require.Len(t, cases, 1)

	assert.Equal(t, "MY-ID", cases[0].CorrelationID)
	assert.Equal(t, "MY-ID", cases[0].Update.Value("11"))
}

func TestExpand_ChainedCaseIgnoresPin(t *testing.T) {
	e := newTestExpander("s1")

	cases, err := e.Expand(Template{
		TestCaseID: "TC1",
		UpdateSpec: "11=MY-ID|35=D~F",
	})
	require.NoError(t, err)
	require.Len(t, cases, 2)

	assert.Equal(t, "MY-ID", cases[0].CorrelationID)
	assert.NotEqual(t, "MY-ID", cases[1].CorrelationID,
		"chained case needs a fresh identifier to keep the correlation key unique")
	assert.Equal(t, "MY-ID", cases[1].Update.Value("41"))
}

func TestExpand_MalformedTokensDropSilently(t *testing.T) {
	e := newTestExpander("aaaa")

	cases, err := e.Expand(Template{
		TestCaseID:   "TC1",
		UpdateSpec:   "55=IBM|garbage|54=1",
		ValidateSpec: "alsogarbage|39=0",
	})
	require.NoError(t, err)
	require.Len(t, cases, 1)

	assert.Equal(t, "IBM", cases[0].Update.Value("55"))
	assert.Equal(t, "1", cases[0].Update.Value("54"))
	assert.Equal(t, "0", cases[0].Validate.Value("39"))
}

func TestExpand_EmptyValueIsDeletionSentinel(t *testing.T) {
	e := newTestExpander("aaaa")

	cases, err := e.Expand(Template{
		TestCaseID: "TC1",
		UpdateSpec: "55=|35=D",
	})
	require.NoError(t, err)
	require.Len(t, cases, 1)

	v, ok := cases[0].Update.Get("55")
	assert.True(t, ok, "deletion sentinel travels in the update map")
	assert.Equal(t, "", v)
}

func TestFixedGenerator_SequenceAndOverflow(t *testing.T) {
	g := NewFixedGenerator("x", "y")
	assert.Equal(t, "x", g.Suffix())
	assert.Equal(t, "y", g.Suffix())
	assert.Equal(t, "s3", g.Suffix(), "keeps counting after listed suffixes run out")
}

func TestUUIDGenerator_SuffixShape(t *testing.T) {
	g := UUIDGenerator{}
	a, b := g.Suffix(), g.Suffix()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}
