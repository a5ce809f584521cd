package source

import (
	"fmt"

	errs "github.com/c360studio/semstreams/errors"
	"github.com/xuri/excelize/v2"
)

// SpreadsheetReader reads Excel workbooks.
type SpreadsheetReader struct {
	sheet string
}

// NewSpreadsheetReader creates a workbook reader for the named sheet. An
// empty name selects the first sheet.
func NewSpreadsheetReader(sheet string) *SpreadsheetReader {
	return &SpreadsheetReader{sheet: sheet}
}

// Extensions implements Reader.
func (r *SpreadsheetReader) Extensions() []string {
	return []string{".xlsx", ".xlsm"}
}

// Read implements Reader.
func (r *SpreadsheetReader) Read(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errs.WrapFatal(fmt.Errorf("%w: %w", errs.ErrParsingFailed, err),
			"source", "SpreadsheetReader.Read", "open "+path)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return &Table{}, nil
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, errs.WrapFatal(fmt.Errorf("%w: %w", errs.ErrParsingFailed, err),
			"source", "SpreadsheetReader.Read", fmt.Sprintf("read sheet %q of %s", sheet, path))
	}

	return newTable(records), nil
}
