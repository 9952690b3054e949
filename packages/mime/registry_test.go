package mime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeByExtension(t *testing.T) {
	tests := []struct {
		ext      string
		expected string
	}{
		{"jpg", "image/jpeg"},
		{"jpeg", "image/jpeg"},
		{"txt", "text/plain"},
		{"png", "image/png"},
		{"pdf", "application/pdf"},
		{"svg", "image/svg+xml"},
		{"zip", "application/zip"},
		{"323", "text/h323"},
		{"unknownext123", DefaultType},
		{"", DefaultType},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeByExtension(tt.ext))
		})
	}
}

func TestLookup_CaseSensitive(t *testing.T) {
	typ, ok := Lookup("jpg")
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", typ)

	_, ok = Lookup("JPG")
	assert.False(t, ok)
	assert.Equal(t, DefaultType, TypeByExtension("JPG"))
}

func TestDefault_SameInstance(t *testing.T) {
	var wg sync.WaitGroup
	regs := make([]*Registry, 16)
	for i := range regs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			regs[i] = Default()
		}(i)
	}
	wg.Wait()

	for _, r := range regs {
		assert.Same(t, regs[0], r)
	}
	assert.Equal(t, len(builtinTypes), Default().Len())
}

func TestNew_CopiesEntries(t *testing.T) {
	entries := map[string]string{".webp": "image/webp", "heic": "image/heic"}
	r := New(entries)
	entries["webp"] = "changed"

	typ, ok := r.Lookup("webp")
	require.True(t, ok)
	assert.Equal(t, "image/webp", typ)
	assert.Equal(t, []string{"heic", "webp"}, r.Extensions())

	_, ok = r.Lookup("jpg")
	assert.False(t, ok)
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	assert.Equal(t, DefaultType, r.TypeByExtension("jpg"))
	assert.Zero(t, r.Len())
	assert.Nil(t, r.Extensions())
}

func TestExtensions_Sorted(t *testing.T) {
	exts := Default().Extensions()
	require.NotEmpty(t, exts)
	assert.IsNonDecreasing(t, exts)
}
