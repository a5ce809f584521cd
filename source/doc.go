// Package source reads tabular terminology files into rows.
//
// A file is read whole into a Table: the header row names the columns and
// every following non-blank row becomes a Row keyed by column name. Readers
// are selected by file extension through a Registry:
//
//	.csv          comma separated
//	.tsv          tab separated
//	.xlsx, .xlsm  Excel workbook (first sheet unless one is named)
//	.xls          Excel 97-2003 workbook (same sheet selection)
//
// Read failures are classified fatal; a missing required column in a row is
// classified invalid.
package source
