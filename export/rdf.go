package export

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	errs "github.com/c360studio/semstreams/errors"

	"github.com/c360studio/termset/graph"
	"github.com/c360studio/termset/vocabulary/skos"
)

type subject struct {
	iri     string
	typeIRI string
	triples []Triple
}

// SKOSExporter exports preferred terms as a SKOS concept scheme.
//
// Each preferred term becomes a skos:Concept with its value as prefLabel and
// its code as notation. Concept members from the same origin become
// altLabels; members from another vocabulary become exactMatch links to that
// vocabulary's concept IRI.
type SKOSExporter struct {
	scheme     string
	namespaces map[string]string
	order      []string
	subjects   map[string]subject
}

// NewSKOSExporter creates an exporter for the named scheme (the primary
// vocabulary handle).
func NewSKOSExporter(scheme string) *SKOSExporter {
	return &SKOSExporter{
		scheme:     scheme,
		namespaces: make(map[string]string),
		subjects:   make(map[string]subject),
	}
}

// SetNamespace sets the concept IRI base for terms from origin. Codes from
// origins without a namespace are placed under the exporter's entity
// namespace.
func (e *SKOSExporter) SetNamespace(origin, iri string) {
	e.namespaces[origin] = iri
}

// SchemeIRI returns the IRI of the concept scheme.
func (e *SKOSExporter) SchemeIRI() string {
	return skos.EntityNamespace + url.PathEscape(strings.ToLower(e.scheme))
}

// TermIRI returns the IRI of a preferred term.
func (e *SKOSExporter) TermIRI(handle string) string {
	return e.SchemeIRI() + "/" + url.PathEscape(handle)
}

// AddTerms adds preferred terms. A later term with an already added handle
// replaces the earlier one.
func (e *SKOSExporter) AddTerms(terms ...*graph.Term) {
	for _, t := range terms {
		if t == nil {
			continue
		}
		if _, ok := e.subjects[t.Handle]; !ok {
			e.order = append(e.order, t.Handle)
		}
		e.subjects[t.Handle] = e.conceptSubject(t)
	}
}

// Len returns the number of exported concepts.
func (e *SKOSExporter) Len() int {
	return len(e.order)
}

func (e *SKOSExporter) conceptSubject(t *graph.Term) subject {
	triples := []Triple{
		{Predicate: skos.InScheme, Object: IRIObject(e.SchemeIRI())},
		{Predicate: skos.PrefLabel, Object: LiteralObject(t.Value)},
		{Predicate: skos.Notation, Object: LiteralObject(t.OriginID)},
	}
	if t.OriginDefinition != "" {
		triples = append(triples, Triple{Predicate: skos.Definition, Object: LiteralObject(t.OriginDefinition)})
	}
	triples = append(triples, Triple{Predicate: skos.DcSource, Object: LiteralObject(t.OriginName)})

	if t.Concept != nil {
		for _, syn := range t.Concept.Terms() {
			if syn.OriginName == t.OriginName {
				triples = append(triples, Triple{Predicate: skos.AltLabel, Object: LiteralObject(syn.Value)})
				continue
			}
			triples = append(triples, Triple{Predicate: skos.ExactMatch, Object: IRIObject(e.externalIRI(syn))})
		}
	}

	return subject{iri: e.TermIRI(t.Handle), typeIRI: skos.ClassConcept, triples: triples}
}

func (e *SKOSExporter) externalIRI(t *graph.Term) string {
	if ns, ok := e.namespaces[t.OriginName]; ok {
		return ns + url.PathEscape(t.OriginID)
	}
	return skos.EntityNamespace + url.PathEscape(strings.ToLower(t.OriginName)) + "/" + url.PathEscape(t.OriginID)
}

func (e *SKOSExporter) ordered() []subject {
	out := make([]subject, 0, len(e.order)+1)
	out = append(out, subject{
		iri:     e.SchemeIRI(),
		typeIRI: skos.ClassConceptScheme,
		triples: []Triple{{Predicate: skos.PrefLabel, Object: LiteralObject(e.scheme)}},
	})
	for _, h := range e.order {
		out = append(out, e.subjects[h])
	}
	return out
}

func (e *SKOSExporter) prefixes() map[string]string {
	p := map[string]string{
		"rdf":  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"skos": skos.Namespace,
		"dc":   "http://purl.org/dc/terms/",
	}
	for origin, ns := range e.namespaces {
		p[strings.ToLower(origin)] = ns
	}
	return p
}

// Export serializes the scheme in the given format.
func (e *SKOSExporter) Export(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return writeTurtle(e.prefixes(), e.ordered()), nil
	case FormatNTriples:
		return writeNTriples(e.ordered()), nil
	case FormatJSONLD:
		return e.toJSONLD()
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteFile exports the scheme to dir as <scheme>_terms<ext> and returns the
// written path.
func (e *SKOSExporter) WriteFile(format Format, dir string) (string, error) {
	info, ok := GetFormatInfo(format)
	if !ok {
		return "", fmt.Errorf("unsupported format: %s", format)
	}

	out, err := e.Export(format)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, strings.ToLower(e.scheme)+"_terms"+info.Extension)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errs.WrapFatal(err, "export", "SKOSExporter.WriteFile", "create export directory")
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return "", errs.WrapFatal(err, "export", "SKOSExporter.WriteFile", "write "+path)
	}
	return path, nil
}

// jsonldDocument represents a JSON-LD document structure.
type jsonldDocument struct {
	Context map[string]string `json:"@context"`
	Graph   []map[string]any  `json:"@graph"`
}

// toJSONLD serializes to JSON-LD. Repeated predicates become arrays.
func (e *SKOSExporter) toJSONLD() (string, error) {
	doc := jsonldDocument{
		Context: e.prefixes(),
		Graph:   make([]map[string]any, 0, len(e.order)+1),
	}

	for _, s := range e.ordered() {
		node := map[string]any{
			"@id":   s.iri,
			"@type": s.typeIRI,
		}
		for _, t := range s.triples {
			var v any = t.Object.Literal
			if t.Object.IRI != "" {
				v = map[string]string{"@id": t.Object.IRI}
			}
			switch existing := node[t.Predicate].(type) {
			case nil:
				node[t.Predicate] = v
			case []any:
				node[t.Predicate] = append(existing, v)
			default:
				node[t.Predicate] = []any{existing, v}
			}
		}
		doc.Graph = append(doc.Graph, node)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json-ld: %w", err)
	}
	return string(data) + "\n", nil
}
