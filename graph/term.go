// Package graph is the in-memory vocabulary object graph: terms, the concepts
// that group synonymous terms, tags, and the model/node/property structure an
// MDF document is organised around.
//
// Objects are plain values built by the row transformer and handed to the
// export codec. Nothing here performs I/O.
package graph

// Term is one named concept instance from one vocabulary source.
type Term struct {
	Handle           string
	Value            string
	OriginName       string
	OriginID         string
	OriginDefinition string
	Tags             Tags

	// Concept groups the terms considered equivalent to this one. Nil when
	// the term carries no synonyms.
	Concept *Concept
}

// NewTerm creates a term with its identity and origin fields set.
func NewTerm(handle, value, originName, originID, originDefinition string) *Term {
	return &Term{
		Handle:           handle,
		Value:            value,
		OriginName:       originName,
		OriginID:         originID,
		OriginDefinition: originDefinition,
	}
}

// Concept is a set of synonymous terms keyed by term value.
type Concept struct {
	Tags Tags

	order []string
	terms map[string]*Term
}

// NewConcept creates an empty concept.
func NewConcept() *Concept {
	return &Concept{terms: make(map[string]*Term)}
}

// Add inserts a term keyed by its value. A later term with the same value
// replaces the earlier one and keeps its position.
func (c *Concept) Add(t *Term) {
	if t == nil {
		return
	}
	if c.terms == nil {
		c.terms = make(map[string]*Term)
	}
	if _, ok := c.terms[t.Value]; !ok {
		c.order = append(c.order, t.Value)
	}
	c.terms[t.Value] = t
}

// Get returns the term with the given value.
func (c *Concept) Get(value string) (*Term, bool) {
	t, ok := c.terms[value]
	return t, ok
}

// Len returns the number of terms in the concept.
func (c *Concept) Len() int {
	return len(c.order)
}

// Terms returns the concept's terms in insertion order.
func (c *Concept) Terms() []*Term {
	out := make([]*Term, 0, len(c.order))
	for _, v := range c.order {
		out = append(out, c.terms[v])
	}
	return out
}
