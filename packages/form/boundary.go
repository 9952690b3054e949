package form

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

const (
	// BoundaryLength is the length of generated boundaries. RFC 2046 allows
	// up to 70 characters.
	BoundaryLength = 60

	// BoundaryAlphabet holds the characters generated boundaries are drawn
	// from: the RFC 2046 boundary characters, excluding space.
	BoundaryAlphabet = "0123456789AZERTYUIOPQSDFGHJKLMWXCVBNazertyuiopqsdfghjklmwxcvbn'()+_,-./:=?"

	maxBoundaryLength = 70
)

// The generator is seeded once per process and only ever advances, so two
// boundaries generated in the same clock tick still differ.
var boundaryRand = struct {
	sync.Mutex
	r *rand.Rand
}{
	r: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(time.Now().Unix()))),
}

// Boundary returns a new random multipart boundary of BoundaryLength
// characters. It is not suitable for anything security sensitive.
func Boundary() string {
	var b strings.Builder
	b.Grow(BoundaryLength)

	boundaryRand.Lock()
	defer boundaryRand.Unlock()
	for i := 0; i < BoundaryLength; i++ {
		b.WriteByte(BoundaryAlphabet[boundaryRand.r.IntN(len(BoundaryAlphabet))])
	}
	return b.String()
}

// ValidBoundary reports whether s can be used as a multipart boundary: 1 to
// 70 characters, all from BoundaryAlphabet.
func ValidBoundary(s string) bool {
	if len(s) == 0 || len(s) > maxBoundaryLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(BoundaryAlphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}

// contentTypeFor builds the multipart Content-Type value, quoting the
// boundary when it holds characters that are not allowed in a bare token.
func contentTypeFor(boundary string) string {
	if strings.ContainsAny(boundary, `()<>@,;:\"/[]?= `) {
		boundary = `"` + boundary + `"`
	}
	return "multipart/form-data; boundary=" + boundary
}
