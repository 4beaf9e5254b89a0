// Package validate compares expected field patterns against a received
// message's actual fields.
package validate

import (
	"fmt"
	"regexp"

	"github.com/fixprobe/fixprobe/internal/tag"
)

// Validator judges received messages against expected patterns. Compiled
// patterns are cached by pattern text, so a pattern shared by every case a
// template expands to compiles once.
type Validator struct {
	patterns map[string]*regexp.Regexp
}

// New creates a Validator with an empty pattern cache.
func New() *Validator {
	return &Validator{patterns: make(map[string]*regexp.Regexp)}
}

// Validate checks each tag of expected against actual:
//
//   - empty expected value: pass iff the tag is absent from actual
//     (the deletion sentinel)
//   - otherwise: pass iff the tag is present and its entire value matches
//     the expected pattern (full-match, not substring)
//
// One reason string per expected tag is always produced, pass or fail.
// Overall passed is the conjunction over all tags.
func (v *Validator) Validate(expected, actual *tag.FieldMap) (bool, []string) {
	passed := true
	reasons := make([]string, 0, expected.Len())

	for _, field := range expected.Fields() {
		pattern := expected.Value(field)
		actVal, present := actual.Get(field)

		if pattern == "" {
			if present {
				passed = false
				reasons = append(reasons, fmt.Sprintf("FAIL: tag %s expected absent but found %q", field, actVal))
			} else {
				reasons = append(reasons, fmt.Sprintf("PASS: tag %s correctly absent", field))
			}
			continue
		}

		re, err := v.compile(pattern)
		if err != nil {
			passed = false
			reasons = append(reasons, fmt.Sprintf("FAIL: tag %s has invalid pattern %q: %v", field, pattern, err))
			continue
		}
		if !present {
			passed = false
			reasons = append(reasons, fmt.Sprintf("FAIL: tag %s missing, expected match for %q", field, pattern))
			continue
		}
		if !re.MatchString(actVal) {
			passed = false
			reasons = append(reasons, fmt.Sprintf("FAIL: tag %s value %q does not match %q", field, actVal, pattern))
			continue
		}
		reasons = append(reasons, fmt.Sprintf("PASS: tag %s matches %q", field, pattern))
	}

	return passed, reasons
}

// compile returns the cached full-match regexp for pattern, anchoring it so
// the entire actual value must match.
func (v *Validator) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := v.patterns[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return nil, err
	}
	v.patterns[pattern] = re
	return re, nil
}
