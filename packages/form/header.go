package form

import (
	"net/textproto"
)

// HeaderField is a single raw request header.
type HeaderField struct {
	Name  string
	Value string
}

// Header is an ordered set of request headers. Names are matched
// case-insensitively; setting an existing name replaces its value in place.
type Header struct {
	fields []HeaderField
}

func headerKey(name string) string {
	return textproto.CanonicalMIMEHeaderKey(name)
}

func (h Header) indexOf(name string) int {
	key := headerKey(name)
	for i, f := range h.fields {
		if headerKey(f.Name) == key {
			return i
		}
	}
	return -1
}

// Set inserts or overwrites the header called name.
func (h *Header) Set(name, value string) {
	if i := h.indexOf(name); i >= 0 {
		h.fields[i] = HeaderField{Name: name, Value: value}
		return
	}
	h.fields = append(h.fields, HeaderField{Name: name, Value: value})
}

// Get returns the value of the header called name, or "" when unset.
func (h Header) Get(name string) string {
	v, _ := h.Lookup(name)
	return v
}

// Lookup reports the value of the header called name and whether it is set.
func (h Header) Lookup(name string) (string, bool) {
	if i := h.indexOf(name); i >= 0 {
		return h.fields[i].Value, true
	}
	return "", false
}

// Del removes the header called name.
func (h *Header) Del(name string) {
	if i := h.indexOf(name); i >= 0 {
		h.fields = append(h.fields[:i], h.fields[i+1:]...)
	}
}

// Len returns the number of headers.
func (h Header) Len() int {
	return len(h.fields)
}

// Fields returns a copy of the headers in insertion order.
func (h Header) Fields() []HeaderField {
	out := make([]HeaderField, len(h.fields))
	copy(out, h.fields)
	return out
}

// Clone returns an independent copy of h.
func (h Header) Clone() Header {
	return Header{fields: h.Fields()}
}
