package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxTermLength caps the number of runes accepted in a search term.
const MaxTermLength = 200

// Code classifies a validation failure.
type Code string

const (
	CodeEmpty       Code = "empty"
	CodeTooLong     Code = "too_long"
	CodeControl     Code = "control_characters"
	CodeUnknownKind Code = "unknown_kind"
)

// Error reports user input that must be fixed before a query can be built.
type Error struct {
	Field  string
	Code   Code
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NormalizeTerm trims and lower-cases a search term.
func NormalizeTerm(term string) string {
	// Casers keep state, so one is built per call.
	return cases.Lower(language.Und).String(strings.TrimSpace(term))
}

// SearchTerm normalizes term and checks that it can be embedded in a query.
// It returns the normalized term.
func SearchTerm(field, term string) (string, error) {
	normalized := NormalizeTerm(term)

	if normalized == "" {
		return "", &Error{Field: field, Code: CodeEmpty, Reason: "search term is empty"}
	}

	if utf8.RuneCountInString(normalized) > MaxTermLength {
		return "", &Error{Field: field, Code: CodeTooLong, Reason: fmt.Sprintf("search term is longer than %d characters", MaxTermLength)}
	}

	if hasForbiddenControl(normalized) {
		return "", &Error{Field: field, Code: CodeControl, Reason: "search term contains control characters"}
	}

	return normalized, nil
}

// Identifier checks an exact-match key such as an ICO. It is trimmed but not case-folded.
func Identifier(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &Error{Field: field, Code: CodeEmpty, Reason: "identifier is empty"}
	}
	if utf8.RuneCountInString(trimmed) > MaxTermLength {
		return "", &Error{Field: field, Code: CodeTooLong, Reason: fmt.Sprintf("identifier is longer than %d characters", MaxTermLength)}
	}
	if hasForbiddenControl(trimmed) {
		return "", &Error{Field: field, Code: CodeControl, Reason: "identifier contains control characters"}
	}
	return trimmed, nil
}

// hasForbiddenControl reports control characters that have no SPARQL string escape.
func hasForbiddenControl(s string) bool {
	for _, r := range s {
		if !unicode.IsControl(r) {
			continue
		}
		switch r {
		case '\t', '\n', '\r', '\b', '\f':
			continue
		}
		return true
	}
	return false
}
