// Package uberon names the columns of the NCI EVS UBERON terminology
// spreadsheet and the defaults used when loading it.
//
// Source: https://evs.nci.nih.gov/ftp1/UBERON/About.html
package uberon

// Handle is the origin name recorded on UBERON terms.
const Handle = "UBERON"

// Spreadsheet columns.
const (
	ColumnPreferredTerm = "UBERON Preferred Term"
	ColumnCode          = "UBERON Code"
	ColumnDefinition    = "UBERON Definition"
	ColumnSynonyms      = "UBERON Synonyms(s)"
)

// SynonymSeparator splits the synonyms column into labels.
const SynonymSeparator = " || "

// Default file locations, relative to the project directory.
const (
	DefaultInputFile  = "source-data/UBERON_Terminology.xls"
	DefaultOutputFile = "model-desc/uberon_terms.yml"
)
