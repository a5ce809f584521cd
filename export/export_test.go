package export_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/c360studio/semstreams/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/termset/export"
	"github.com/c360studio/termset/graph"
	"github.com/c360studio/termset/vocabulary/ncit"
)

func leftKidney() *graph.Term {
	t := graph.NewTerm("left_kidney", "Left Kidney", "UBERON", "U001", "The left kidney.")
	t.Tags.Set("origin_preferred_term", "origin_preferred_term")

	c := graph.NewConcept()
	c.Add(graph.NewTerm("kidney,_left", "Left Kidney", "NCIt", "C1234", "NCIt kidney."))
	c.Tags.Set("mapping_source", "NCIt")
	c.Add(graph.NewTerm("renal_body,_left", "Renal Body, Left", "UBERON", "U001", "The left kidney."))
	t.Concept = c
	return t
}

func brain() *graph.Term {
	t := graph.NewTerm("brain", "Brain", "UBERON", "U002", "Neural organ.\nSecond line.")
	t.Tags.Set("origin_preferred_term", "origin_preferred_term")
	t.Concept = graph.NewConcept()
	return t
}

func TestTermsDocument(t *testing.T) {
	doc := export.TermsDocument([]*graph.Term{leftKidney(), brain(), nil})

	require.Len(t, doc, 2)
	rec := doc["left_kidney"].(map[string]any)
	assert.Equal(t, "Left Kidney", rec["Value"])
	assert.Equal(t, "UBERON", rec["Origin"])
	assert.Equal(t, "U001", rec["Code"])
	assert.Equal(t, "The left kidney.", rec["Definition"])
	assert.Equal(t, []any{map[string]any{"Key": "origin_preferred_term", "Value": "origin_preferred_term"}}, rec["Tags"])

	concept := rec["Concept"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"Key": "mapping_source", "Value": "NCIt"}}, concept["Tags"])

	synonyms := concept["Terms"].(map[string]any)
	require.Len(t, synonyms, 2)
	mapped := synonyms["kidney,_left"].(map[string]any)
	assert.Equal(t, "Left Kidney", mapped["Value"])
	assert.Equal(t, "NCIt", mapped["Origin"])
	assert.NotContains(t, mapped, "Concept")
}

func TestTermsDocument_DuplicateHandleLaterWins(t *testing.T) {
	first := graph.NewTerm("left_kidney", "Left Kidney", "UBERON", "U001", "")
	second := graph.NewTerm("left_kidney", "Left kidney", "UBERON", "U009", "")

	doc := export.TermsDocument([]*graph.Term{first, second})
	require.Len(t, doc, 1)
	assert.Equal(t, "U009", doc["left_kidney"].(map[string]any)["Code"])
}

func TestWriteTerms_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "terms.yml")
	require.NoError(t, export.WriteTerms([]*graph.Term{brain()}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := `Terms:
    brain:
        Code: U002
        Concept:
            Tags: []
            Terms: {}
        Definition: |-
            Neural organ.
            Second line.
        Origin: UBERON
        Tags:
            - Key: origin_preferred_term
              Value: origin_preferred_term
        Value: Brain
`
	assert.Equal(t, want, string(data))
}

func TestFilterTerms_MatchesDirectWrite(t *testing.T) {
	dir := t.TempDir()
	terms := []*graph.Term{leftKidney(), brain()}

	direct := filepath.Join(dir, "direct.yml")
	require.NoError(t, export.WriteTerms(terms, direct))

	m := graph.NewModel("UBERON")
	node := &graph.Node{Handle: "TEMP_NODE"}
	prop := graph.NewProperty("TEMP_PROP", graph.ValueDomainValueSet)
	require.NoError(t, m.AddNode(node))
	require.NoError(t, m.AddProp(node, prop))
	require.NoError(t, m.AddTerms(prop, terms...))

	legacy := filepath.Join(dir, "legacy.yml")
	require.NoError(t, export.WriteModel(m, legacy))

	full, err := export.LoadYAML(legacy)
	require.NoError(t, err)
	assert.Contains(t, full, "Nodes")
	assert.Contains(t, full, "PropDefinitions")
	assert.Equal(t, "UBERON", full["Handle"])

	require.NoError(t, export.FilterTerms(legacy))

	a, err := os.ReadFile(direct)
	require.NoError(t, err)
	b, err := os.ReadFile(legacy)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	filtered, err := export.LoadYAML(legacy)
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
	assert.Contains(t, filtered, export.TermsKey)
}

func TestFilterTerms_NoTermsSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yml")
	require.NoError(t, os.WriteFile(path, []byte("Nodes:\n    a: {}\n"), 0644))

	require.NoError(t, export.FilterTerms(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Terms: {}\n", string(data))
}

func TestFilterTerms_Unreadable(t *testing.T) {
	dir := t.TempDir()

	err := export.FilterTerms(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
	assert.True(t, errs.IsFatal(err))

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("Terms: [unclosed\n"), 0644))
	err = export.FilterTerms(bad)
	require.Error(t, err)
	assert.True(t, errs.IsFatal(err))
	assert.ErrorIs(t, err, errs.ErrParsingFailed)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want export.Format
	}{
		{"turtle", export.FormatTurtle},
		{"TTL", export.FormatTurtle},
		{".nt", export.FormatNTriples},
		{"ntriples", export.FormatNTriples},
		{"jsonld", export.FormatJSONLD},
	}
	for _, tt := range tests {
		got, err := export.ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := export.ParseFormat("rdfxml")
	assert.Error(t, err)
}

func newSKOS() *export.SKOSExporter {
	e := export.NewSKOSExporter("UBERON")
	e.SetNamespace(ncit.Handle, ncit.ConceptNamespace)
	e.AddTerms(leftKidney(), brain())
	return e
}

func TestSKOSExporter_Turtle(t *testing.T) {
	out, err := newSKOS().Export(export.FormatTurtle)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "@prefix dc: <http://purl.org/dc/terms/> ."))
	assert.Contains(t, out, "<https://termset.c360.studio/entity/uberon/left_kidney>")
	assert.Contains(t, out, `<http://www.w3.org/2004/02/skos/core#prefLabel> "Left Kidney"`)
	assert.Contains(t, out, `<http://www.w3.org/2004/02/skos/core#altLabel> "Renal Body, Left"`)
	assert.Contains(t, out, "<http://www.w3.org/2004/02/skos/core#exactMatch> <"+ncit.ConceptNamespace+"C1234>")
	assert.Contains(t, out, `"Neural organ.\nSecond line."`)
	assert.Contains(t, out, "a <http://www.w3.org/2004/02/skos/core#ConceptScheme>")
}

func TestSKOSExporter_NTriples(t *testing.T) {
	out, err := newSKOS().Export(export.FormatNTriples)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, " ."), line)
	}
	assert.Contains(t, out, "<https://termset.c360.studio/entity/uberon/brain> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2004/02/skos/core#Concept> .")
}

func TestSKOSExporter_JSONLD(t *testing.T) {
	out, err := newSKOS().Export(export.FormatJSONLD)
	require.NoError(t, err)

	var doc struct {
		Context map[string]string `json:"@context"`
		Graph   []map[string]any  `json:"@graph"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, ncit.ConceptNamespace, doc.Context["ncit"])
	require.Len(t, doc.Graph, 3)
	assert.Equal(t, "https://termset.c360.studio/entity/uberon/left_kidney", doc.Graph[1]["@id"])
	assert.Equal(t, "Left Kidney", doc.Graph[1]["http://www.w3.org/2004/02/skos/core#prefLabel"])
}

func TestSKOSExporter_UnknownOriginNamespace(t *testing.T) {
	e := export.NewSKOSExporter("UBERON")
	e.AddTerms(leftKidney())

	out, err := e.Export(export.FormatNTriples)
	require.NoError(t, err)
	assert.Contains(t, out, "<https://termset.c360.studio/entity/ncit/C1234>")
}

func TestSKOSExporter_WriteFile(t *testing.T) {
	dir := t.TempDir()
	e := newSKOS()

	for format, info := range export.FormatRegistry {
		path, err := e.WriteFile(format, dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "uberon_terms"+info.Extension), path)
		assert.FileExists(t, path)
	}

	_, err := e.Export(export.Format("rdfxml"))
	assert.Error(t, err)
}

func TestSKOSExporter_DuplicateHandle(t *testing.T) {
	e := export.NewSKOSExporter("UBERON")
	e.AddTerms(brain(), graph.NewTerm("brain", "Brain", "UBERON", "U999", ""))
	assert.Equal(t, 1, e.Len())

	out, err := e.Export(export.FormatNTriples)
	require.NoError(t, err)
	assert.Contains(t, out, `"U999"`)
	assert.NotContains(t, out, `"U002"`)
}
