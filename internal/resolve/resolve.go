package resolve

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fixprobe/fixprobe/internal/tag"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// PlaceholderError is an unresolvable ${...} reference. It aborts the
// current case only and is recorded as a FAIL; the run continues.
type PlaceholderError struct {
	Token  string // the unresolved reference, without the ${} wrapper
	Reason string // what was missing: the case, or the field
}

func (e *PlaceholderError) Error() string {
	return fmt.Sprintf("ERR_PLACEHOLDER: ${%s}: %s", e.Token, e.Reason)
}

// IsPlaceholderError reports whether err is (or wraps) a PlaceholderError.
func IsPlaceholderError(err error) bool {
	var pe *PlaceholderError
	return errors.As(err, &pe)
}

// Resolve replaces every ${name} occurrence in text. A bare field number
// ("${11}") resolves against local, the current case's own field map as it
// is being built. A dotted reference ("${TC1.11}") resolves against the
// registry entry for that test case. Any miss fails with a PlaceholderError
// naming the token.
func Resolve(text string, local *tag.FieldMap, registry *Registry) (string, error) {
	var resolveErr error
	out := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		if resolveErr != nil {
			return match
		}
		token := match[2 : len(match)-1]
		val, err := lookup(token, local, registry)
		if err != nil {
			resolveErr = err
			return match
		}
		return val
	})
	if resolveErr != nil {
		return "", resolveErr
	}
	return out, nil
}

// ResolveMap resolves every value of m, returning a new map in the same
// field order. The first unresolvable token aborts with its error.
func ResolveMap(m *tag.FieldMap, local *tag.FieldMap, registry *Registry) (*tag.FieldMap, error) {
	resolved := tag.NewFieldMap()
	for _, field := range m.Fields() {
		val, err := Resolve(m.Value(field), local, registry)
		if err != nil {
			return nil, err
		}
		resolved.Set(field, val)
	}
	return resolved, nil
}

func lookup(token string, local *tag.FieldMap, registry *Registry) (string, error) {
	if caseID, field, ok := strings.Cut(token, "."); ok {
		sent, found := registry.Get(caseID)
		if !found {
			return "", &PlaceholderError{Token: token, Reason: fmt.Sprintf("case %q has not executed (unknown or forward reference)", caseID)}
		}
		val, has := sent.Get(field)
		if !has {
			return "", &PlaceholderError{Token: token, Reason: fmt.Sprintf("case %q was sent without field %s", caseID, field)}
		}
		return val, nil
	}

	val, has := local.Get(token)
	if !has {
		return "", &PlaceholderError{Token: token, Reason: fmt.Sprintf("field %s not present in current message", token)}
	}
	return val, nil
}
