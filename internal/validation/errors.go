package validation

import (
	"sort"
	"strings"
)

// Errors maps form field names to a message for that field.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

// Err returns nil when no field failed so callers can return it directly.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
