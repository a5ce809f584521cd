package mdf

// Tag markers.
const (
	// TagMappingSource is the concept tag key naming the vocabulary that
	// supplied a cross-mapping.
	TagMappingSource = "mapping_source"

	// TagOriginPreferredTerm marks a term as the preferred term of its origin
	// vocabulary. It is used as both key and value.
	TagOriginPreferredTerm = "origin_preferred_term"
)

// Document section keys.
const (
	SectionHandle          = "Handle"
	SectionNodes           = "Nodes"
	SectionPropDefinitions = "PropDefinitions"
	SectionTerms           = "Terms"
)

// Term and entity field keys.
const (
	FieldValue      = "Value"
	FieldOrigin     = "Origin"
	FieldCode       = "Code"
	FieldDefinition = "Definition"
	FieldTags       = "Tags"
	FieldConcept    = "Concept"
	FieldTerms      = "Terms"
	FieldKey        = "Key"
	FieldProps      = "Props"
	FieldType       = "Type"
	FieldEnum       = "Enum"
)
