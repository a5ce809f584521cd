package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrUnsupportedFormat is returned when no reader handles a file extension.
var ErrUnsupportedFormat = errors.New("unsupported source format")

// utf8BOM is prepended to the first header cell by some spreadsheet exports.
const utf8BOM = "\ufeff"

// Table is a tabular file read into memory.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the header contains column.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Reader reads a tabular file.
type Reader interface {
	// Read reads the file at path into a table.
	Read(path string) (*Table, error)

	// Extensions lists the file extensions this reader handles, with the
	// leading dot.
	Extensions() []string
}

// Registry manages readers keyed by file extension.
type Registry struct {
	mu      sync.RWMutex
	readers map[string]Reader
}

// NewRegistry creates a registry with the default readers.
// sheet selects the workbook sheet for spreadsheet files; empty means the
// first sheet.
func NewRegistry(sheet string) *Registry {
	r := &Registry{
		readers: make(map[string]Reader),
	}

	r.Register(NewDelimitedReader(',', ".csv"))
	r.Register(NewDelimitedReader('\t', ".tsv"))
	r.Register(NewSpreadsheetReader(sheet))
	r.Register(NewLegacyWorkbookReader(sheet))

	return r
}

// Register adds a reader for each of its extensions, replacing any existing
// reader for the same extension.
func (r *Registry) Register(reader Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range reader.Extensions() {
		r.readers[strings.ToLower(ext)] = reader
	}
}

// ForPath returns the reader for a file based on its extension.
func (r *Registry) ForPath(path string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(path))

	r.mu.RLock()
	defer r.mu.RUnlock()

	reader, ok := r.readers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return reader, nil
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.readers))
	for ext := range r.readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// newTable builds a table from raw records, the first being the header.
// Short records are padded with empty values and blank records are skipped.
func newTable(records [][]string) *Table {
	if len(records) == 0 {
		return &Table{}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	table := &Table{Columns: header}
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
