package common

import (
	"sort"
	"strings"
)

// FieldErrors aggregates per-field validation messages. Failures on
// independent fields (for example client_id and created_by) are collected
// together so the caller sees all of them in one response.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return strings.Join(parts, "; ")
}

// Add records a message for a field, keeping the first message when a
// field fails more than one check.
func (fe FieldErrors) Add(field, message string) {
	if _, exists := fe[field]; !exists {
		fe[field] = message
	}
}

// OrNil returns the collected errors as an error value, or nil when empty.
func (fe FieldErrors) OrNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
