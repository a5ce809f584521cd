// Package transform turns terminology table rows into preferred terms.
//
// Each row yields exactly one preferred term. The term owns a concept that
// collects its synonyms: at most one cross-mapped term from the external
// vocabulary, and one term per label in the row's synonym list.
package transform

import (
	"fmt"
	"strings"

	errs "github.com/c360studio/semstreams/errors"

	"github.com/c360studio/termset/graph"
	"github.com/c360studio/termset/handle"
	"github.com/c360studio/termset/source"
)

// Stats counts what a transformation produced.
type Stats struct {
	Rows         int
	SynonymTerms int
	MappedTerms  int
}

// Transformer converts rows using a fixed column binding.
type Transformer struct {
	cfg       Config
	normalize handle.Func
}

// New creates a transformer for cfg.
func New(cfg Config) (*Transformer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errs.WrapInvalid(fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err),
			"transform", "New", "validate column bindings")
	}
	return &Transformer{cfg: cfg, normalize: handle.Normalize}, nil
}

// RowToTerm builds the preferred term for one row.
func (t *Transformer) RowToTerm(row source.Row) (*graph.Term, error) {
	term, _, err := t.rowToTerm(row)
	if err != nil {
		return nil, errs.WrapInvalid(err, "transform", "RowToTerm", "build preferred term")
	}
	return term, nil
}

// Terms transforms rows in order. It stops at the first row that fails and
// reports its 1-based position.
func (t *Transformer) Terms(rows []source.Row) ([]*graph.Term, Stats, error) {
	var stats Stats
	terms := make([]*graph.Term, 0, len(rows))

	for i, row := range rows {
		term, rs, err := t.rowToTerm(row)
		if err != nil {
			return nil, stats, errs.WrapInvalid(err, "transform", "Terms", fmt.Sprintf("transform row %d", i+1))
		}
		stats.Rows++
		stats.SynonymTerms += rs.SynonymTerms
		stats.MappedTerms += rs.MappedTerms
		terms = append(terms, term)
	}

	return terms, stats, nil
}

func (t *Transformer) rowToTerm(row source.Row) (*graph.Term, Stats, error) {
	var stats Stats
	p := t.cfg.Primary

	prefTerm, err := row.Required(p.PreferredTerm)
	if err != nil {
		return nil, stats, err
	}
	code, err := row.Required(p.Code)
	if err != nil {
		return nil, stats, err
	}
	definition, err := row.Required(p.Definition)
	if err != nil {
		return nil, stats, err
	}

	term := graph.NewTerm(t.normalize(prefTerm), prefTerm, p.Handle, code, definition)
	term.Tags.Set(t.cfg.Markers.PreferredTermKey, t.cfg.Markers.PreferredTermValue)

	concept := graph.NewConcept()
	term.Concept = concept

	if t.cfg.MappingEnabled() {
		mapped, err := t.mappedTerm(row, prefTerm)
		if err != nil {
			return nil, stats, err
		}
		if mapped != nil {
			concept.Add(mapped)
			concept.Tags.Set(t.cfg.Markers.MappingSourceKey, t.cfg.Mapping.Handle)
			stats.MappedTerms++
		}
	}

	for _, syn := range t.synonymTerms(row, code, definition) {
		concept.Add(syn)
		stats.SynonymTerms++
	}

	return term, stats, nil
}

// mappedTerm builds the cross-mapped synonym. Its handle comes from the
// external preferred term while its value is the row's own preferred term.
// Returns nil when the row carries no mapping.
func (t *Transformer) mappedTerm(row source.Row, prefTerm string) (*graph.Term, error) {
	m := t.cfg.Mapping

	extPref, ok := row.Optional(m.PreferredTerm)
	if !ok {
		return nil, nil
	}
	extCode, err := row.Required(m.Code)
	if err != nil {
		return nil, err
	}
	extDefinition, _ := row.Optional(m.Definition)

	return graph.NewTerm(t.normalize(extPref), prefTerm, m.Handle, extCode, extDefinition), nil
}

// synonymTerms splits the synonym column. Synonyms carry the row's code and
// definition.
func (t *Transformer) synonymTerms(row source.Row, code, definition string) []*graph.Term {
	p := t.cfg.Primary
	if p.Synonyms == "" {
		return nil
	}

	raw, ok := row.Optional(p.Synonyms)
	if !ok {
		return nil
	}

	labels := strings.Split(raw, p.SynonymSeparator)
	terms := make([]*graph.Term, 0, len(labels))
	for _, label := range labels {
		terms = append(terms, graph.NewTerm(t.normalize(label), label, p.Handle, code, definition))
	}
	return terms
}
