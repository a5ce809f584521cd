package graph

import "fmt"

// ValueDomainValueSet marks a property whose values come from a term set.
const ValueDomainValueSet = "value_set"

// Node is a model node. Props holds the handles of the properties registered
// under it.
type Node struct {
	Handle string
	Props  []string
}

// Property is a model property. For value_set properties Terms is the
// controlled value set, keyed by term handle.
type Property struct {
	Handle      string
	ValueDomain string
	Terms       map[string]*Term
}

// NewProperty creates a property with an empty value set.
func NewProperty(handle, valueDomain string) *Property {
	return &Property{
		Handle:      handle,
		ValueDomain: valueDomain,
		Terms:       make(map[string]*Term),
	}
}

// Model is the container an MDF document is written from.
type Model struct {
	Handle string
	Nodes  map[string]*Node
	Props  map[string]*Property

	// Terms holds every registered term keyed by handle.
	Terms map[string]*Term

	termOrder []string
}

// NewModel creates an empty model.
func NewModel(handle string) *Model {
	return &Model{
		Handle: handle,
		Nodes:  make(map[string]*Node),
		Props:  make(map[string]*Property),
		Terms:  make(map[string]*Term),
	}
}

// AddNode registers a node by handle.
func (m *Model) AddNode(n *Node) error {
	if n == nil {
		return ErrNilEntity
	}
	m.Nodes[n.Handle] = n
	return nil
}

// AddProp registers prop under node. The node must already be in the model.
func (m *Model) AddProp(n *Node, p *Property) error {
	if n == nil || p == nil {
		return ErrNilEntity
	}
	if m.Nodes[n.Handle] != n {
		return fmt.Errorf("add property %q: %w: %q", p.Handle, ErrNodeNotFound, n.Handle)
	}
	if p.Terms == nil {
		p.Terms = make(map[string]*Term)
	}
	if _, ok := m.Props[p.Handle]; !ok {
		n.Props = append(n.Props, p.Handle)
	}
	m.Props[p.Handle] = p
	return nil
}

// AddTerms registers terms in prop's value set and in the model. Terms are
// keyed by handle; registering a handle twice keeps the later term.
func (m *Model) AddTerms(p *Property, terms ...*Term) error {
	if p == nil {
		return ErrNilEntity
	}
	if m.Props[p.Handle] != p {
		return fmt.Errorf("add terms: %w: %q", ErrPropertyNotFound, p.Handle)
	}
	for _, t := range terms {
		if t == nil {
			return ErrNilEntity
		}
		if _, ok := m.Terms[t.Handle]; !ok {
			m.termOrder = append(m.termOrder, t.Handle)
		}
		m.Terms[t.Handle] = t
		p.Terms[t.Handle] = t
	}
	return nil
}

// TermList returns the registered terms in first-registration order.
func (m *Model) TermList() []*Term {
	out := make([]*Term, 0, len(m.termOrder))
	for _, h := range m.termOrder {
		out = append(out, m.Terms[h])
	}
	return out
}
