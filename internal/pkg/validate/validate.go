// Package validate provides the structural validation primitives used by the
// public-facing endpoints, where errors must be reported per field instead of
// as a single binding failure.
package validate

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// FieldErrors maps a request field name to its violation message. An empty
// map means the input passed validation.
type FieldErrors map[string]string

// Error joins all field messages deterministically.
func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// Add records a violation for a field, keeping the first message on repeats.
func (e FieldErrors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// OK reports whether no violations were recorded.
func (e FieldErrors) OK() bool { return len(e) == 0 }

// IsEmail reports whether s is syntactically a valid email address.
func IsEmail(s string) bool {
	return v.Var(s, "required,email") == nil
}

// NormalizeEmail lowercases and trims an address for storage and comparison.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RuneLen counts characters, not bytes, so length bounds treat accented
// names the same as ASCII ones.
func RuneLen(s string) int { return len([]rune(s)) }
