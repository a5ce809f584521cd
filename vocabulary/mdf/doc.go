// Package mdf provides the YAML keys and marker strings of the Model
// Description Format (MDF) Terms section.
//
// Marker strings are the tag keys and values that record term provenance:
//
//	origin_preferred_term: origin_preferred_term   (on a preferred term)
//	mapping_source: NCIt                           (on a concept)
package mdf
