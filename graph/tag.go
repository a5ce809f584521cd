package graph

// Tag is a key/value annotation on a term or concept.
type Tag struct {
	Key   string
	Value string
}

// Tags is an ordered tag collection with one entry per key.
// Setting an existing key replaces its value in place.
type Tags struct {
	keys   []string
	values map[string]string
}

// Set adds or replaces the tag with the given key.
func (t *Tags) Set(key, value string) {
	if t.values == nil {
		t.values = make(map[string]string)
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the value for key.
func (t *Tags) Get(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Len returns the number of tags.
func (t *Tags) Len() int {
	return len(t.keys)
}

// List returns the tags in first-insertion order.
func (t *Tags) List() []Tag {
	out := make([]Tag, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, Tag{Key: k, Value: t.values[k]})
	}
	return out
}
