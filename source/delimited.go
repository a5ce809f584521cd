package source

import (
	"encoding/csv"
	"fmt"
	"os"

	errs "github.com/c360studio/semstreams/errors"
)

// DelimitedReader reads character-separated text files.
type DelimitedReader struct {
	comma      rune
	extensions []string
}

// NewDelimitedReader creates a reader splitting fields on comma for files
// with the given extensions.
func NewDelimitedReader(comma rune, extensions ...string) *DelimitedReader {
	return &DelimitedReader{comma: comma, extensions: extensions}
}

// Extensions implements Reader.
func (r *DelimitedReader) Extensions() []string {
	return r.extensions
}

// Read implements Reader.
func (r *DelimitedReader) Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.WrapFatal(err, "source", "DelimitedReader.Read", "open "+path)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = r.comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = r.comma == '\t'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errs.WrapFatal(fmt.Errorf("%w: %w", errs.ErrParsingFailed, err),
			"source", "DelimitedReader.Read", "parse "+path)
	}

	return newTable(records), nil
}
