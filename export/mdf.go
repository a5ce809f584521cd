package export

import (
	"github.com/c360studio/termset/graph"
)

// WriteModel writes the full MDF document for m to path.
func WriteModel(m *graph.Model, path string) error {
	return WriteYAML(MDFDocument(m), path)
}

// WriteTerms writes a document holding only the Terms section for terms.
func WriteTerms(terms []*graph.Term, path string) error {
	return WriteYAML(map[string]any{TermsKey: TermsDocument(terms)}, path)
}

// FilterTerms rewrites the MDF file at path keeping only its Terms section.
// A file without Terms is rewritten with an empty one.
func FilterTerms(path string) error {
	full, err := LoadYAML(path)
	if err != nil {
		return err
	}

	terms, ok := full[TermsKey]
	if !ok || terms == nil {
		terms = map[string]any{}
	}

	return WriteYAML(map[string]any{TermsKey: terms}, path)
}
