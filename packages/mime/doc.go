// Package mime maps file extensions to media types for form uploads.
//
// The built-in table is constructed once, the first time it is needed, and is
// read-only afterwards so it can be shared by every form in the process.
// Lookups are case-sensitive against lowercase keys: "JPG" does not match
// "jpg". Callers that want case-insensitive matching lowercase the extension
// before calling Lookup.
package mime
