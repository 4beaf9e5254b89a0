// Package dsl implements the case-expansion engine: it turns one compact
// suite row into an ordered sequence of concrete, executable cases.
//
// The grammar, per update/validation spec:
//
//   - fields separated by the field delimiter: "55=IBM|54=1"
//   - group shorthand: "[60~61~62]=9" assigns 9 to every listed tag
//   - multi-value axis: "1001=A~B~C" on one non-type tag fans the row out
//     into one case per value
//   - type-field axis: "35=D~F" chains a secondary case (type F, parent
//     reference pointing at the primary's correlation identifier) after
//     each primary (type D)
//
// Expansion order is deterministic: axis values in listed order, chained
// secondaries immediately after their primary.
package dsl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fixprobe/fixprobe/internal/config"
	"github.com/fixprobe/fixprobe/internal/tag"
)

// Case is one concrete, executable case produced by expansion.
// Created here, consumed exactly once by the runner, never mutated after.
type Case struct {
	UseCaseID   string
	TestCaseID  string // template ID, ordinal-suffixed when the row fanned out
	BaseMessage string

	// Update holds literal or placeholder-bearing values to apply to the
	// base message. An empty value means "delete this field". The
	// correlation identifier and, for chained cases, the parent reference
	// are already present.
	Update *tag.FieldMap

	// Validate holds expected patterns per tag. An empty value means
	// "this field must be absent from the reply".
	Validate *tag.FieldMap

	Expected      bool   // expected validation outcome
	CorrelationID string // value of the identifier field in Update
	Chained       bool   // secondary case of a type-field axis
}

// Expander expands CaseTemplates into Cases. Construct with NewExpander;
// the zero value is not usable.
type Expander struct {
	cfg        config.Config
	idGen      IDGenerator
	groupShort *regexp.Regexp
}

// NewExpander creates an Expander using cfg's delimiters and field
// conventions. idGen supplies correlation-identifier suffixes; pass a
// FixedGenerator in tests for deterministic output.
func NewExpander(cfg config.Config, idGen IDGenerator) *Expander {
	// [t1~t2~...]=value, where value runs to the next field delimiter.
	pattern := `\[([^\]]+)\]=([^` + regexp.QuoteMeta(cfg.FieldDelim) + `]*)`
	return &Expander{
		cfg:        cfg,
		idGen:      idGen,
		groupShort: regexp.MustCompile(pattern),
	}
}

// Expand produces the ordered concrete cases for one template.
// An *ExpansionError aborts this row only.
func (e *Expander) Expand(t Template) ([]Case, error) {
	updateSpec := e.expandGroups(t.UpdateSpec)
	validateSpec := e.expandGroups(t.ValidateSpec)

	fixed, axis, typeAxis, err := e.parseUpdate(t.TestCaseID, updateSpec)
	if err != nil {
		return nil, err
	}
	patterns := e.parseValidate(validateSpec)

	axisValues := axis.values
	if axisValues == nil {
		axisValues = []string{""} // single case, no fan-out
	}

	var cases []Case
	for idx, axisVal := range axisValues {
		update := fixed.Clone()
		if axis.field != "" {
			update.Set(axis.field, axisVal)
		}
		if typeAxis != nil {
			update.Set(e.cfg.TypeField, typeAxis[0])
		}

		primary := Case{
			UseCaseID:   t.UseCaseID,
			TestCaseID:  t.TestCaseID,
			BaseMessage: t.BaseMessage,
			Update:      update,
			Validate:    e.validateAt(patterns, idx),
			Expected:    t.Expected,
		}
		e.assignCorrelationID(&primary)
		cases = append(cases, primary)

		if typeAxis != nil {
			secondary := Case{
				UseCaseID:   t.UseCaseID,
				TestCaseID:  t.TestCaseID,
				BaseMessage: t.BaseMessage,
				Update:      update.Clone(),
				Validate:    primary.Validate.Clone(),
				Expected:    t.Expected,
				Chained:     true,
			}
			secondary.Update.Set(e.cfg.TypeField, typeAxis[1])
			secondary.Update.Set(e.cfg.ParentField, primary.CorrelationID)
			// Chained cases always get a fresh identifier, pinned or not:
			// the correlation key must stay unique across in-flight cases.
			secondary.Update.Delete(e.cfg.IDField)
			e.assignCorrelationID(&secondary)
			cases = append(cases, secondary)
		}
	}

	if len(cases) > 1 {
		for i := range cases {
			cases[i].TestCaseID = fmt.Sprintf("%s_%d", cases[i].TestCaseID, i+1)
		}
	}
	return cases, nil
}

// Template is the input row shape the expander needs. It is satisfied by
// suite.CaseTemplate; declared here so dsl does not depend on the loaders.
type Template struct {
	UseCaseID    string
	TestCaseID   string
	BaseMessage  string
	UpdateSpec   string
	ValidateSpec string
	Expected     bool
}

// expandGroups rewrites group shorthand textually before the normal split:
// "[60~61~62]=9" becomes "60=9|61=9|62=9".
func (e *Expander) expandGroups(spec string) string {
	return e.groupShort.ReplaceAllStringFunc(spec, func(match string) string {
		sub := e.groupShort.FindStringSubmatch(match)
		tags := strings.Split(sub[1], e.cfg.MultiDelim)
		parts := make([]string, len(tags))
		for i, tg := range tags {
			parts[i] = tg + "=" + sub[2]
		}
		return strings.Join(parts, e.cfg.FieldDelim)
	})
}

// updateAxis is the single ordinary multi-value axis of an update spec.
type updateAxis struct {
	field  string
	values []string
}

// parseUpdate splits the update spec into fixed assignments, at most one
// ordinary axis, and an optional type-field axis. Tokens without "=" are
// dropped silently.
func (e *Expander) parseUpdate(testCaseID, spec string) (*tag.FieldMap, updateAxis, []string, error) {
	fixed := tag.NewFieldMap()
	var axis updateAxis
	var typeAxis []string

	if spec == "" {
		return fixed, axis, nil, nil
	}
	for _, part := range strings.Split(spec, e.cfg.FieldDelim) {
		field, value, ok := strings.Cut(part, "=")
		if !ok || field == "" {
			continue
		}
		switch {
		case field == e.cfg.TypeField && strings.Contains(value, e.cfg.MultiDelim):
			vals := strings.Split(value, e.cfg.MultiDelim)
			if len(vals) != 2 {
				return nil, axis, nil, &ExpansionError{
					Code:       ErrCodeTypeAxisArity,
					TestCaseID: testCaseID,
					Message:    fmt.Sprintf("type-field axis must list exactly two values, got %d (%q)", len(vals), value),
				}
			}
			typeAxis = vals
		case strings.Contains(value, e.cfg.MultiDelim):
			if axis.field != "" && axis.field != field {
				return nil, axis, nil, &ExpansionError{
					Code:       ErrCodeMultipleAxes,
					TestCaseID: testCaseID,
					Message:    fmt.Sprintf("only one multi-value axis allowed, found %s after %s", field, axis.field),
				}
			}
			axis.field = field
			axis.values = strings.Split(value, e.cfg.MultiDelim)
		default:
			fixed.Set(field, value)
		}
	}
	return fixed, axis, typeAxis, nil
}

// valuePattern is one validation tag with its positional value list.
type valuePattern struct {
	field  string
	values []string
}

func (e *Expander) parseValidate(spec string) []valuePattern {
	if spec == "" {
		return nil
	}
	var patterns []valuePattern
	for _, part := range strings.Split(spec, e.cfg.FieldDelim) {
		field, value, ok := strings.Cut(part, "=")
		if !ok || field == "" {
			continue
		}
		patterns = append(patterns, valuePattern{
			field:  field,
			values: strings.Split(value, e.cfg.MultiDelim),
		})
	}
	return patterns
}

// validateAt builds the validation map for expansion index idx. Lists
// shorter than the axis clamp to their last value rather than erroring.
func (e *Expander) validateAt(patterns []valuePattern, idx int) *tag.FieldMap {
	m := tag.NewFieldMap()
	for _, p := range patterns {
		i := idx
		if i >= len(p.values) {
			i = len(p.values) - 1
		}
		m.Set(p.field, p.values[i])
	}
	return m
}

// assignCorrelationID ensures c's update map carries the identifier field.
// A non-empty identifier already in the spec is a pin and is kept; otherwise
// a fresh "<TestCaseID>_<suffix>" identifier is generated.
func (e *Expander) assignCorrelationID(c *Case) {
	if pinned, ok := c.Update.Get(e.cfg.IDField); ok && pinned != "" {
		c.CorrelationID = pinned
		return
	}
	c.CorrelationID = c.TestCaseID + "_" + e.idGen.Suffix()
	c.Update.Set(e.cfg.IDField, c.CorrelationID)
}
