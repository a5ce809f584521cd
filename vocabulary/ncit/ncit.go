// Package ncit names the NCI Thesaurus cross-mapping columns carried by EVS
// terminology spreadsheets.
package ncit

// Handle is the origin name recorded on NCIt terms and in mapping_source tags.
const Handle = "NCIt"

// Spreadsheet columns.
const (
	ColumnPreferredTerm = "NCIt Preferred Term"
	ColumnCode          = "NCIt Concept Code"
	ColumnDefinition    = "NCIt Definition"
)

// ConceptNamespace is the base IRI of NCIt concepts, used when exporting
// cross-mappings as RDF.
const ConceptNamespace = "http://ncicb.nci.nih.gov/xml/owl/EVS/Thesaurus.owl#"
