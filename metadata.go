package reactor

// Metadata is opaque ambient context captured when an operator is subscribed
// and propagated unchanged to every Window it creates. Treat values as
// immutable: With copies on write, so a Metadata already handed to an operator
// is never mutated in place.
type Metadata map[string]interface{}

// With returns a new Metadata with the key-value pair added.
// The receiver is left unchanged; empty keys are ignored.
func (m Metadata) With(key string, value interface{}) Metadata {
	if key == "" {
		return m
	}

	next := make(Metadata, len(m)+1)
	for k, v := range m {
		next[k] = v
	}
	next[key] = value
	return next
}

// Get retrieves a value by key.
// Returns the value and true if the key exists, nil and false otherwise.
func (m Metadata) Get(key string) (interface{}, bool) {
	value, exists := m[key]
	return value, exists
}

// Keys returns all metadata keys. Returns an empty slice if none are present.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}
