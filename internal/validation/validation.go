// Package validation checks request fields before a write reaches storage.
package validation

import (
	"net/mail"
	"strings"
)

// Fields is a field name to submitted value mapping. A missing key and an
// empty value are treated the same.
type Fields map[string]string

// Rule names a required field and the message reported when it is blank.
type Rule struct {
	Field   string
	Message string
}

// Violation is a single failed rule.
type Violation struct {
	Field   string
	Message string
}

// Required evaluates every rule, in order, and returns all violations. It
// never stops at the first failure.
func Required(fields Fields, rules []Rule) []Violation {
	var violations []Violation
	for _, rule := range rules {
		if strings.TrimSpace(fields[rule.Field]) == "" {
			violations = append(violations, Violation{Field: rule.Field, Message: rule.Message})
		}
	}
	return violations
}

// Email reports a violation when a non-blank value is not a bare email
// address. Blank values are left to Required.
func Email(field, value, message string) []Violation {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return []Violation{{Field: field, Message: message}}
	}
	return nil
}

// Messages flattens violations into their caller-facing messages.
func Messages(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Message)
	}
	return out
}
