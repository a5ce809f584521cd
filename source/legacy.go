package source

import (
	"fmt"

	errs "github.com/c360studio/semstreams/errors"
	"github.com/extrame/xls"
)

// legacyCharset decodes the byte strings of pre-Unicode BIFF records.
const legacyCharset = "utf-8"

// LegacyWorkbookReader reads Excel 97-2003 (BIFF) workbooks, the format the
// NCI EVS terminology downloads are published in.
type LegacyWorkbookReader struct {
	sheet string
}

// NewLegacyWorkbookReader creates a .xls reader for the named sheet. An empty
// name selects the first sheet.
func NewLegacyWorkbookReader(sheet string) *LegacyWorkbookReader {
	return &LegacyWorkbookReader{sheet: sheet}
}

// Extensions implements Reader.
func (r *LegacyWorkbookReader) Extensions() []string {
	return []string{".xls"}
}

// Read implements Reader.
func (r *LegacyWorkbookReader) Read(path string) (table *Table, err error) {
	// The BIFF decoder panics on some truncated files.
	defer func() {
		if p := recover(); p != nil {
			table = nil
			err = errs.WrapFatal(fmt.Errorf("%w: %v", errs.ErrParsingFailed, p),
				"source", "LegacyWorkbookReader.Read", "decode "+path)
		}
	}()

	wb, err := xls.Open(path, legacyCharset)
	if err != nil {
		return nil, errs.WrapFatal(fmt.Errorf("%w: %w", errs.ErrParsingFailed, err),
			"source", "LegacyWorkbookReader.Read", "open "+path)
	}

	ws, err := r.worksheet(wb)
	if err != nil {
		return nil, errs.WrapFatal(fmt.Errorf("%w: %w", errs.ErrParsingFailed, err),
			"source", "LegacyWorkbookReader.Read", "select sheet of "+path)
	}
	if ws == nil {
		return &Table{}, nil
	}

	var records [][]string
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		rec := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			rec[j] = row.Col(j)
		}
		records = append(records, rec)
	}

	// A workbook whose sheet has no header row yields an empty table.
	for len(records) > 0 && isBlank(records[0]) {
		records = records[1:]
	}
	return newTable(records), nil
}

// worksheet returns the configured sheet, or the first one. A workbook with
// no sheets returns nil.
func (r *LegacyWorkbookReader) worksheet(wb *xls.WorkBook) (*xls.WorkSheet, error) {
	if wb.NumSheets() == 0 {
		return nil, nil
	}
	if r.sheet == "" {
		return wb.GetSheet(0), nil
	}
	for i := 0; i < wb.NumSheets(); i++ {
		if ws := wb.GetSheet(i); ws != nil && ws.Name == r.sheet {
			return ws, nil
		}
	}
	return nil, fmt.Errorf("sheet %q not found", r.sheet)
}
