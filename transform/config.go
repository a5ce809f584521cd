package transform

import (
	"fmt"

	"github.com/c360studio/termset/vocabulary/mdf"
	"github.com/c360studio/termset/vocabulary/ncit"
	"github.com/c360studio/termset/vocabulary/uberon"
)

// Config binds spreadsheet columns and marker strings for one run.
type Config struct {
	// Primary is the vocabulary the preferred terms and synonyms come from.
	Primary PrimaryVocabulary `yaml:"vocabulary"`

	// Mapping is the external vocabulary cross-mapped onto preferred terms.
	Mapping MappedVocabulary `yaml:"mapping"`

	// Markers are the tag keys and values recording provenance.
	Markers Markers `yaml:"markers"`
}

// PrimaryVocabulary names the primary vocabulary and its columns.
type PrimaryVocabulary struct {
	Handle           string `yaml:"handle"`
	PreferredTerm    string `yaml:"preferred_term_column"`
	Code             string `yaml:"code_column"`
	Definition       string `yaml:"definition_column"`
	Synonyms         string `yaml:"synonyms_column"`
	SynonymSeparator string `yaml:"synonym_separator"`
}

// MappedVocabulary names an external vocabulary and its columns. An empty
// PreferredTerm column or Disabled turns cross-mapping off. Disabled is a
// pointer so a later config layer can set it back to false.
type MappedVocabulary struct {
	Disabled      *bool  `yaml:"disabled,omitempty"`
	Handle        string `yaml:"handle"`
	PreferredTerm string `yaml:"preferred_term_column"`
	Code          string `yaml:"code_column"`
	Definition    string `yaml:"definition_column"`
}

// Markers are the provenance tags written by the transformer.
type Markers struct {
	// PreferredTermKey and PreferredTermValue tag every preferred term.
	PreferredTermKey   string `yaml:"preferred_term_key"`
	PreferredTermValue string `yaml:"preferred_term_value"`

	// MappingSourceKey tags a concept with the vocabulary that supplied its
	// cross-mapping.
	MappingSourceKey string `yaml:"mapping_source_key"`
}

// DefaultConfig returns the bindings for the EVS UBERON spreadsheet with its
// NCIt cross-mapping columns.
func DefaultConfig() Config {
	return Config{
		Primary: PrimaryVocabulary{
			Handle:           uberon.Handle,
			PreferredTerm:    uberon.ColumnPreferredTerm,
			Code:             uberon.ColumnCode,
			Definition:       uberon.ColumnDefinition,
			Synonyms:         uberon.ColumnSynonyms,
			SynonymSeparator: uberon.SynonymSeparator,
		},
		Mapping: MappedVocabulary{
			Handle:        ncit.Handle,
			PreferredTerm: ncit.ColumnPreferredTerm,
			Code:          ncit.ColumnCode,
			Definition:    ncit.ColumnDefinition,
		},
		Markers: Markers{
			PreferredTermKey:   mdf.TagOriginPreferredTerm,
			PreferredTermValue: mdf.TagOriginPreferredTerm,
			MappingSourceKey:   mdf.TagMappingSource,
		},
	}
}

// IsDisabled reports whether cross-mapping was switched off.
func (m MappedVocabulary) IsDisabled() bool {
	return m.Disabled != nil && *m.Disabled
}

// MappingEnabled reports whether cross-mapping columns are configured.
func (c Config) MappingEnabled() bool {
	return !c.Mapping.IsDisabled() && c.Mapping.PreferredTerm != ""
}

// Validate checks that the bindings are complete.
func (c Config) Validate() error {
	switch {
	case c.Primary.Handle == "":
		return fmt.Errorf("vocabulary.handle is required")
	case c.Primary.PreferredTerm == "":
		return fmt.Errorf("vocabulary.preferred_term_column is required")
	case c.Primary.Code == "":
		return fmt.Errorf("vocabulary.code_column is required")
	case c.Primary.Definition == "":
		return fmt.Errorf("vocabulary.definition_column is required")
	case c.Primary.Synonyms != "" && c.Primary.SynonymSeparator == "":
		return fmt.Errorf("vocabulary.synonym_separator is required when synonyms_column is set")
	case c.Markers.PreferredTermKey == "":
		return fmt.Errorf("markers.preferred_term_key is required")
	}

	if c.MappingEnabled() {
		if c.Mapping.Handle == "" {
			return fmt.Errorf("mapping.handle is required when mapping.preferred_term_column is set")
		}
		if c.Mapping.Code == "" {
			return fmt.Errorf("mapping.code_column is required when mapping.preferred_term_column is set")
		}
		if c.Markers.MappingSourceKey == "" {
			return fmt.Errorf("markers.mapping_source_key is required when mapping is enabled")
		}
	}
	return nil
}
