package errs

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrUnauthorized   = errors.New("admin session required")
	ErrPersistence    = errors.New("ticket storage failure")
)

// ValidationErrors — сообщения об ошибках по имени поля формы (first_name, title, description).
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field failed validation.
func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}
