// Package tag implements the tagged key/value wire codec.
//
// A message is a sequence of "field=value" tokens joined by a delimiter.
// Two delimiters are in play: the human-edited suite files use a printable
// delimiter (default "|"), while the wire and the counterparty's record log
// use SOH (0x01). Decode tolerates both.
package tag

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SOH is the wire field delimiter.
const SOH = "\x01"

// Decode splits text on delim and each token on the first "=". Tokens
// without "=" are dropped silently; counterparty logs routinely carry
// truncated trailing tokens and they must not fail a case.
//
// Values are NFC-normalized so that unicode variance in the counterparty's
// log encoding cannot break later pattern matching.
func Decode(text, delim string) *FieldMap {
	m := NewFieldMap()
	if text == "" {
		return m
	}
	for _, token := range strings.Split(text, delim) {
		field, value, ok := strings.Cut(token, "=")
		if !ok || field == "" {
			continue
		}
		m.Set(field, norm.NFC.String(value))
	}
	return m
}

// Encode joins "field=value" pairs with delim in map insertion order.
// Decode(Encode(m, d), d) reproduces m for any map whose values contain
// neither d nor "=" at a position that would split a token.
func Encode(m *FieldMap, delim string) string {
	var b strings.Builder
	for i, k := range m.keys {
		if i > 0 {
			b.WriteString(delim)
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m.vals[k])
	}
	return b.String()
}

// Rewire re-delimits an encoded message from one delimiter to another
// without decoding it. Used when echoing wire messages into reports.
func Rewire(text, from, to string) string {
	return strings.ReplaceAll(text, from, to)
}
