// Package export serializes term graphs.
//
// The primary output is the Terms section of an MDF (Model Description
// Format) YAML file:
//
//	Terms:
//	    left_kidney:
//	        Code: U001
//	        Concept:
//	            Tags:
//	                - Key: mapping_source
//	                  Value: NCIt
//	            Terms:
//	                kidney,_left:
//	                    Code: C1234
//	                    ...
//	        Definition: ...
//	        Origin: UBERON
//	        Tags:
//	            - Key: origin_preferred_term
//	              Value: origin_preferred_term
//	        Value: Left Kidney
//
// Documents are built as nested maps so that a file written from a model and
// a file re-read and rewritten by the generic YAML codec are byte-identical.
// The package also exports term sets as SKOS RDF.
package export

import (
	"sort"

	"github.com/c360studio/termset/graph"
	"github.com/c360studio/termset/vocabulary/mdf"
)

// TermsKey is the top-level key of the Terms section.
const TermsKey = mdf.SectionTerms

// TermsDocument builds the Terms section for terms, keyed by handle. When two
// terms share a handle the later one wins.
func TermsDocument(terms []*graph.Term) map[string]any {
	doc := make(map[string]any, len(terms))
	for _, t := range terms {
		if t == nil {
			continue
		}
		doc[t.Handle] = termRecord(t, true)
	}
	return doc
}

// MDFDocument builds the full document for a model: handle, nodes, property
// definitions and terms.
func MDFDocument(m *graph.Model) map[string]any {
	nodes := make(map[string]any, len(m.Nodes))
	for h, n := range m.Nodes {
		props := make([]any, 0, len(n.Props))
		for _, p := range n.Props {
			props = append(props, p)
		}
		nodes[h] = map[string]any{mdf.FieldProps: props}
	}

	propDefs := make(map[string]any, len(m.Props))
	for h, p := range m.Props {
		enum := make([]string, 0, len(p.Terms))
		for th := range p.Terms {
			enum = append(enum, th)
		}
		sort.Strings(enum)

		values := make([]any, 0, len(enum))
		for _, e := range enum {
			values = append(values, e)
		}
		propDefs[h] = map[string]any{
			mdf.FieldType: p.ValueDomain,
			mdf.FieldEnum: values,
		}
	}

	return map[string]any{
		mdf.SectionHandle:          m.Handle,
		mdf.SectionNodes:           nodes,
		mdf.SectionPropDefinitions: propDefs,
		mdf.SectionTerms:           TermsDocument(m.TermList()),
	}
}

// termRecord builds the record for one term. Concepts are only embedded one
// level deep.
func termRecord(t *graph.Term, withConcept bool) map[string]any {
	rec := map[string]any{
		mdf.FieldValue:      t.Value,
		mdf.FieldOrigin:     t.OriginName,
		mdf.FieldCode:       t.OriginID,
		mdf.FieldDefinition: t.OriginDefinition,
		mdf.FieldTags:       tagList(&t.Tags),
	}

	if withConcept && t.Concept != nil {
		synonyms := make(map[string]any, t.Concept.Len())
		for _, syn := range t.Concept.Terms() {
			synonyms[syn.Handle] = termRecord(syn, false)
		}
		rec[mdf.FieldConcept] = map[string]any{
			mdf.FieldTags:  tagList(&t.Concept.Tags),
			mdf.FieldTerms: synonyms,
		}
	}

	return rec
}

func tagList(tags *graph.Tags) []any {
	list := tags.List()
	out := make([]any, 0, len(list))
	for _, tag := range list {
		out = append(out, map[string]any{
			mdf.FieldKey:   tag.Key,
			mdf.FieldValue: tag.Value,
		})
	}
	return out
}
