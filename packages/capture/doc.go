// Package capture extracts values from form submission responses.
//
// It supports capturing values from:
//   - Response body (gjson paths, or the whole body)
//   - Response headers
//   - Response status code and duration
//
// Captured values are fed back into the variable resolver, so a value such as
// a CSRF token returned by one submission can be used by the next one with
// the {{name}} syntax.
package capture
