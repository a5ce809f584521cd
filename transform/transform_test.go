package transform

import (
	"testing"

	errs "github.com/c360studio/semstreams/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/termset/source"
)

func newTransformer(t *testing.T) *Transformer {
	t.Helper()
	tr, err := New(DefaultConfig())
	require.NoError(t, err)
	return tr
}

func leftKidneyRow() source.Row {
	return source.Row{
		"UBERON Preferred Term": "Left Kidney",
		"UBERON Code":           "U001",
		"UBERON Definition":     "The kidney on the left side.",
		"UBERON Synonyms(s)":    "Kidney, Left || Renal Body, Left",
		"NCIt Preferred Term":   "",
		"NCIt Concept Code":     "",
		"NCIt Definition":       "",
	}
}

func TestRowToTerm_PreferredTerm(t *testing.T) {
	term, err := newTransformer(t).RowToTerm(leftKidneyRow())
	require.NoError(t, err)

	assert.Equal(t, "left_kidney", term.Handle)
	assert.Equal(t, "Left Kidney", term.Value)
	assert.Equal(t, "UBERON", term.OriginName)
	assert.Equal(t, "U001", term.OriginID)
	assert.Equal(t, "The kidney on the left side.", term.OriginDefinition)

	v, ok := term.Tags.Get("origin_preferred_term")
	require.True(t, ok)
	assert.Equal(t, "origin_preferred_term", v)
	assert.Equal(t, 1, term.Tags.Len())
}

func TestRowToTerm_Synonyms(t *testing.T) {
	term, err := newTransformer(t).RowToTerm(leftKidneyRow())
	require.NoError(t, err)
	require.NotNil(t, term.Concept)

	terms := term.Concept.Terms()
	require.Len(t, terms, 2)
	assert.Equal(t, "Kidney, Left", terms[0].Value)
	assert.Equal(t, "kidney,_left", terms[0].Handle)
	assert.Equal(t, "Renal Body, Left", terms[1].Value)
	assert.Equal(t, "renal_body,_left", terms[1].Handle)

	for _, syn := range terms {
		assert.Equal(t, term.OriginName, syn.OriginName)
		assert.Equal(t, term.OriginID, syn.OriginID)
		assert.Equal(t, term.OriginDefinition, syn.OriginDefinition)
		assert.Zero(t, syn.Tags.Len())
		assert.Nil(t, syn.Concept)
	}
	assert.Zero(t, term.Concept.Tags.Len(), "no mapping, no mapping_source tag")
}

func TestRowToTerm_NoSynonyms(t *testing.T) {
	tests := []struct {
		name string
		row  func() source.Row
	}{
		{
			name: "empty synonyms",
			row: func() source.Row {
				r := leftKidneyRow()
				r["UBERON Synonyms(s)"] = ""
				return r
			},
		},
		{
			name: "synonym column absent",
			row: func() source.Row {
				r := leftKidneyRow()
				delete(r, "UBERON Synonyms(s)")
				return r
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, err := newTransformer(t).RowToTerm(tt.row())
			require.NoError(t, err)
			require.NotNil(t, term.Concept)
			assert.Zero(t, term.Concept.Len())
		})
	}
}

func TestRowToTerm_SynonymValueCollision(t *testing.T) {
	row := leftKidneyRow()
	row["UBERON Synonyms(s)"] = "Kidney || Renal Body || Kidney"

	term, err := newTransformer(t).RowToTerm(row)
	require.NoError(t, err)
	assert.Equal(t, 2, term.Concept.Len())
}

func TestRowToTerm_ExternalMapping(t *testing.T) {
	row := leftKidneyRow()
	row["NCIt Preferred Term"] = "Kidney, Left"
	row["NCIt Concept Code"] = "C1234"
	row["NCIt Definition"] = "One of the two kidneys."

	term, err := newTransformer(t).RowToTerm(row)
	require.NoError(t, err)

	concept := term.Concept
	require.Equal(t, 3, concept.Len())

	mapped, ok := concept.Get("Left Kidney")
	require.True(t, ok, "mapped term is keyed by the row's own preferred term")
	assert.Equal(t, "kidney,_left", mapped.Handle)
	assert.Equal(t, "Left Kidney", mapped.Value)
	assert.Equal(t, "NCIt", mapped.OriginName)
	assert.Equal(t, "C1234", mapped.OriginID)
	assert.Equal(t, "One of the two kidneys.", mapped.OriginDefinition)

	src, ok := concept.Tags.Get("mapping_source")
	require.True(t, ok)
	assert.Equal(t, "NCIt", src)
	_, ok = mapped.Tags.Get("mapping_source")
	assert.False(t, ok, "the tag sits on the concept, not the term")

	// The mapped term is inserted first, synonyms after.
	terms := concept.Terms()
	assert.Equal(t, "NCIt", terms[0].OriginName)
	assert.Equal(t, "Kidney, Left", terms[1].Value)
	assert.Equal(t, "UBERON", terms[1].OriginName)
}

func TestRowToTerm_MappingWithoutSynonyms(t *testing.T) {
	row := leftKidneyRow()
	row["UBERON Synonyms(s)"] = ""
	row["NCIt Preferred Term"] = "Kidney, Left"
	row["NCIt Concept Code"] = "C1234"

	term, err := newTransformer(t).RowToTerm(row)
	require.NoError(t, err)
	require.Equal(t, 1, term.Concept.Len())

	mapped := term.Concept.Terms()[0]
	assert.Equal(t, "NCIt", mapped.OriginName)
	assert.Empty(t, mapped.OriginDefinition)
}

func TestRowToTerm_MappingMissingCode(t *testing.T) {
	row := leftKidneyRow()
	row["NCIt Preferred Term"] = "Kidney, Left"

	_, err := newTransformer(t).RowToTerm(row)
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrMissingField)
	assert.Contains(t, err.Error(), "NCIt Concept Code")
}

func TestRowToTerm_MissingRequired(t *testing.T) {
	columns := []string{"UBERON Preferred Term", "UBERON Code", "UBERON Definition"}

	for _, col := range columns {
		t.Run(col, func(t *testing.T) {
			row := leftKidneyRow()
			delete(row, col)

			term, err := newTransformer(t).RowToTerm(row)
			require.Error(t, err)
			assert.Nil(t, term)
			assert.ErrorIs(t, err, source.ErrMissingField)
			assert.True(t, errs.IsInvalid(err))
			assert.Contains(t, err.Error(), col)
		})
	}
}

func TestRowToTerm_MappingDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mapping = MappedVocabulary{}
	tr, err := New(cfg)
	require.NoError(t, err)

	row := leftKidneyRow()
	row["NCIt Preferred Term"] = "Kidney, Left"

	term, err := tr.RowToTerm(row)
	require.NoError(t, err)
	assert.Equal(t, 2, term.Concept.Len())
	assert.Zero(t, term.Concept.Tags.Len())
}

func TestRowToTerm_AlternateSchema(t *testing.T) {
	cfg := Config{
		Primary: PrimaryVocabulary{
			Handle:           "FMA",
			PreferredTerm:    "label",
			Code:             "id",
			Definition:       "def",
			Synonyms:         "alt",
			SynonymSeparator: ";",
		},
		Markers: Markers{
			PreferredTermKey:   "preferred",
			PreferredTermValue: "yes",
		},
	}
	tr, err := New(cfg)
	require.NoError(t, err)

	term, err := tr.RowToTerm(source.Row{"label": "cellNucleus", "id": "FMA:1", "def": "d", "alt": "nucleus;karyon"})
	require.NoError(t, err)
	assert.Equal(t, "cell_nucleus", term.Handle)
	assert.Equal(t, "FMA", term.OriginName)
	v, _ := term.Tags.Get("preferred")
	assert.Equal(t, "yes", v)
	assert.Equal(t, 2, term.Concept.Len())
}

func TestTerms(t *testing.T) {
	mapped := leftKidneyRow()
	mapped["NCIt Preferred Term"] = "Kidney, Left"
	mapped["NCIt Concept Code"] = "C1234"

	brain := source.Row{
		"UBERON Preferred Term": "Brain",
		"UBERON Code":           "U002",
		"UBERON Definition":     "Neural organ.",
	}

	terms, stats, err := newTransformer(t).Terms([]source.Row{mapped, brain})
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "left_kidney", terms[0].Handle)
	assert.Equal(t, "brain", terms[1].Handle)
	assert.Equal(t, Stats{Rows: 2, SynonymTerms: 2, MappedTerms: 1}, stats)
}

func TestTerms_AbortsOnMissingField(t *testing.T) {
	bad := source.Row{"UBERON Preferred Term": "Brain", "UBERON Code": "U002"}

	terms, stats, err := newTransformer(t).Terms([]source.Row{leftKidneyRow(), bad, leftKidneyRow()})
	require.Error(t, err)
	assert.Nil(t, terms)
	assert.Equal(t, 1, stats.Rows)
	assert.ErrorIs(t, err, source.ErrMissingField)
	assert.True(t, errs.IsInvalid(err))
	assert.Contains(t, err.Error(), "row 2")
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "no handle", modify: func(c *Config) { c.Primary.Handle = "" }},
		{name: "no preferred column", modify: func(c *Config) { c.Primary.PreferredTerm = "" }},
		{name: "no code column", modify: func(c *Config) { c.Primary.Code = "" }},
		{name: "no definition column", modify: func(c *Config) { c.Primary.Definition = "" }},
		{name: "no separator", modify: func(c *Config) { c.Primary.SynonymSeparator = "" }},
		{name: "no mapping handle", modify: func(c *Config) { c.Mapping.Handle = "" }},
		{name: "no mapping code", modify: func(c *Config) { c.Mapping.Code = "" }},
		{name: "no marker key", modify: func(c *Config) { c.Markers.PreferredTermKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			_, err := New(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrInvalidConfig)
		})
	}
}
