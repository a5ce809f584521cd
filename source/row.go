package source

import (
	"errors"
	"fmt"
)

// ErrMissingField is returned when a required column is absent from a row or
// holds an empty value.
var ErrMissingField = errors.New("missing required field")

// Row is one table row keyed by column name.
type Row map[string]string

// Required returns the value of column, or ErrMissingField when the column is
// absent or empty.
func (r Row) Required(column string) (string, error) {
	v, ok := r[column]
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingField, column)
	}
	return v, nil
}

// Optional returns the value of column and whether it is present and
// non-empty.
func (r Row) Optional(column string) (string, bool) {
	v, ok := r[column]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
