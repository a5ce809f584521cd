package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoInput is returned when an input pattern matches no file.
var ErrNoInput = errors.New("no input file matched")

// ErrAmbiguousInput is returned when an input pattern matches more than one
// file. A term set is built from exactly one source file.
var ErrAmbiguousInput = errors.New("input pattern matched multiple files")

// Resolve expands an input path that may contain glob patterns (including **)
// to exactly one absolute file path.
//
// Examples:
//   - "source-data/UBERON_Terminology.xls" → that file
//   - "source-data/UBERON_*.xlsx" → the single matching workbook
func Resolve(pattern string) (string, error) {
	abs, err := filepath.Abs(pattern)
	if err != nil {
		return "", err
	}

	if !containsGlob(pattern) {
		return abs, nil
	}

	matches, err := doublestar.FilepathGlob(abs, doublestar.WithFilesOnly())
	if err != nil {
		return "", fmt.Errorf("glob %q: %w", pattern, err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrNoInput, pattern)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q (%s)", ErrAmbiguousInput, pattern, strings.Join(matches, ", "))
	}
}

// containsGlob checks if a path contains glob metacharacters.
func containsGlob(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
