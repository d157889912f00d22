package search

import (
	"fmt"
	"strings"
)

// Registry indexes backends by lowercase name.
type Registry struct {
	byName map[string]Backend
}

// NewRegistry rejects nil backends, empty names and duplicates.
func NewRegistry(backends ...Backend) (Registry, error) {
	byName := make(map[string]Backend, len(backends))
	for _, b := range backends {
		if b == nil {
			return Registry{}, fmt.Errorf("backend must not be nil")
		}
		name := normalizeName(b.Name())
		if name == "" {
			return Registry{}, fmt.Errorf("backend name must not be empty")
		}
		if _, ok := byName[name]; ok {
			return Registry{}, fmt.Errorf("duplicate backend %q", name)
		}
		byName[name] = b
	}
	return Registry{byName: byName}, nil
}

// Get looks a backend up by name.
func (r Registry) Get(name string) (Backend, bool) {
	if r.byName == nil {
		return nil, false
	}
	b, ok := r.byName[normalizeName(name)]
	return b, ok
}

// Ordered returns the named backends in the given priority order.
func (r Registry) Ordered(names []string) ([]Backend, error) {
	out := make([]Backend, 0, len(names))
	for _, name := range names {
		b, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown backend %q", name)
		}
		out = append(out, b)
	}
	return out, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
