package export

import (
	"fmt"
	"sort"
	"strings"
)

// Format specifies an RDF serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat resolves a format name, accepting file extensions as aliases
// ("ttl", ".nt").
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := FormatRegistry[Format(name)]; ok {
		return Format(name), nil
	}
	ext := "." + strings.TrimPrefix(name, ".")
	for f, info := range FormatRegistry {
		if info.Extension == ext {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format: %q", name)
}

// Object is the object of a triple: an IRI or a plain literal.
type Object struct {
	IRI     string
	Literal string
}

// IRIObject returns an IRI object.
func IRIObject(iri string) Object { return Object{IRI: iri} }

// LiteralObject returns a literal object.
func LiteralObject(s string) Object { return Object{Literal: s} }

// Triple is one predicate/object pair of a subject.
type Triple struct {
	Predicate string
	Object    Object
}

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// writeTurtle writes subjects in order with sorted prefix declarations.
func writeTurtle(prefixes map[string]string, subjects []subject) string {
	var sb strings.Builder

	keys := make([]string, 0, len(prefixes))
	for k := range prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, prefix := range keys {
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, prefixes[prefix]))
	}
	sb.WriteString("\n")

	for _, s := range subjects {
		sb.WriteString(fmt.Sprintf("<%s>\n", s.iri))
		sb.WriteString(fmt.Sprintf("    a <%s>", s.typeIRI))
		for _, t := range s.triples {
			sb.WriteString(" ;\n")
			sb.WriteString(fmt.Sprintf("    <%s> %s", t.Predicate, formatObject(t.Object)))
		}
		sb.WriteString(" .\n\n")
	}

	return sb.String()
}

// writeNTriples writes one line per triple.
func writeNTriples(subjects []subject) string {
	var sb strings.Builder
	for _, s := range subjects {
		sb.WriteString(fmt.Sprintf("<%s> <%s> <%s> .\n", s.iri, rdfType, s.typeIRI))
		for _, t := range s.triples {
			sb.WriteString(fmt.Sprintf("<%s> <%s> %s .\n", s.iri, t.Predicate, formatObject(t.Object)))
		}
	}
	return sb.String()
}

// formatObject formats an object for Turtle and N-Triples.
func formatObject(o Object) string {
	if o.IRI != "" {
		return fmt.Sprintf("<%s>", o.IRI)
	}
	return fmt.Sprintf("\"%s\"", escapeString(o.Literal))
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
