// Package form assembles HTML form submissions from named text fields and
// named local files.
//
// A Form encodes as application/x-www-form-urlencoded when it has no files,
// and as multipart/form-data when it has at least one file or when multipart
// encoding has been forced. The mode is decided every time the form is
// encoded, so the same Form can be edited and submitted again.
//
// File contents are read from disk at encode time and held in memory, so the
// size of an upload is bounded by available memory. Files that cannot be
// opened are skipped unless the form was created with WithStrictFiles.
//
// Multipart boundaries are drawn from BoundaryAlphabet, which contains
// characters that RFC 2045 does not allow in a bare parameter value. The
// Content-Type header quotes the boundary, boundary="...", whenever it holds
// one of them, which is almost always the case for generated boundaries.
//
// Sending is delegated to a Submitter, usually the client from
// packages/http. A Form is not safe for concurrent use; use Clone to hand
// copies to other goroutines.
package form
