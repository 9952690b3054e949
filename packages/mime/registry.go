package mime

import (
	"sort"
	"strings"
	"sync"
)

// DefaultType is used for extensions that have no entry in a registry.
const DefaultType = "text/plain"

// Registry is an immutable extension to media type table.
type Registry struct {
	types map[string]string
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return New(builtinTypes)
})

// Default returns the process-wide registry holding the built-in table.
// It is safe to call from multiple goroutines.
func Default() *Registry {
	return defaultRegistry()
}

// New returns a registry holding a copy of entries. Keys are taken as given,
// with any leading dot removed.
func New(entries map[string]string) *Registry {
	types := make(map[string]string, len(entries))
	for ext, typ := range entries {
		types[strings.TrimPrefix(ext, ".")] = typ
	}
	return &Registry{types: types}
}

// Lookup returns the media type registered for ext.
func (r *Registry) Lookup(ext string) (string, bool) {
	if r == nil {
		return "", false
	}
	typ, ok := r.types[ext]
	return typ, ok
}

// TypeByExtension returns the media type registered for ext, or DefaultType
// when there is none.
func (r *Registry) TypeByExtension(ext string) string {
	if typ, ok := r.Lookup(ext); ok {
		return typ
	}
	return DefaultType
}

// Len returns the number of registered extensions.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.types)
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	if r == nil {
		return nil
	}
	exts := make([]string, 0, len(r.types))
	for ext := range r.types {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Lookup is shorthand for Default().Lookup.
func Lookup(ext string) (string, bool) {
	return Default().Lookup(ext)
}

// TypeByExtension is shorthand for Default().TypeByExtension.
func TypeByExtension(ext string) string {
	return Default().TypeByExtension(ext)
}
