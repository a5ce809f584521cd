// Package skos provides the SKOS and Dublin Core IRIs used when a term set
// is exported as RDF.
package skos

// Namespace is the SKOS core namespace.
const Namespace = "http://www.w3.org/2004/02/skos/core#"

// Class IRIs.
const (
	ClassConcept       = Namespace + "Concept"
	ClassConceptScheme = Namespace + "ConceptScheme"
)

// Predicate IRIs.
const (
	PrefLabel  = Namespace + "prefLabel"
	AltLabel   = Namespace + "altLabel"
	Definition = Namespace + "definition"
	Notation   = Namespace + "notation"
	InScheme   = Namespace + "inScheme"
	ExactMatch = Namespace + "exactMatch"
)

// DcSource is the Dublin Core source property, used for tag provenance.
const DcSource = "http://purl.org/dc/terms/source"

// EntityNamespace is the base IRI for exported term set entities.
const EntityNamespace = "https://termset.c360.studio/entity/"
