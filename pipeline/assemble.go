// Package pipeline builds a Terms file from a terminology table.
//
// A build reads the source table, transforms each row into a preferred term
// with its concept, and writes the Terms section. Optional stages export the
// term set as SKOS, write Prometheus metrics, and announce the build on NATS.
package pipeline

import (
	"github.com/c360studio/termset/config"
	"github.com/c360studio/termset/export"
	"github.com/c360studio/termset/graph"
)

// Mode selects how the Terms file is written.
type Mode = config.OutputMode

const (
	// ModeTerms serializes the Terms section directly.
	ModeTerms = config.OutputModeTerms
	// ModeLegacy writes a full model and then filters it down to Terms.
	ModeLegacy = config.OutputModeLegacy
)

// Placeholder entities that carry the value set in legacy mode.
const (
	PlaceholderNode = "TEMP_NODE"
	PlaceholderProp = "TEMP_PROP"
)

// Assembler writes terms to an MDF Terms file.
type Assembler struct {
	handle string
	mode   Mode
}

// NewAssembler creates an assembler for the model named handle. An empty
// mode means ModeTerms.
func NewAssembler(handle string, mode Mode) *Assembler {
	if mode == "" {
		mode = ModeTerms
	}
	return &Assembler{handle: handle, mode: mode}
}

// Mode returns the assembler's write mode.
func (a *Assembler) Mode() Mode {
	return a.mode
}

// Write writes terms to path. Both modes produce the same bytes.
func (a *Assembler) Write(terms []*graph.Term, path string) error {
	if a.mode != ModeLegacy {
		return export.WriteTerms(terms, path)
	}

	m, err := a.Model(terms)
	if err != nil {
		return err
	}
	if err := export.WriteModel(m, path); err != nil {
		return err
	}
	return export.FilterTerms(path)
}

// Model builds the legacy model: one placeholder node holding one value_set
// property whose value set is terms.
func (a *Assembler) Model(terms []*graph.Term) (*graph.Model, error) {
	m := graph.NewModel(a.handle)
	node := &graph.Node{Handle: PlaceholderNode}
	prop := graph.NewProperty(PlaceholderProp, graph.ValueDomainValueSet)

	if err := m.AddNode(node); err != nil {
		return nil, err
	}
	if err := m.AddProp(node, prop); err != nil {
		return nil, err
	}
	if err := m.AddTerms(prop, terms...); err != nil {
		return nil, err
	}
	return m, nil
}

// distinctHandles counts the entries the Terms section will hold.
func distinctHandles(terms []*graph.Term) int {
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if t != nil {
			seen[t.Handle] = struct{}{}
		}
	}
	return len(seen)
}
