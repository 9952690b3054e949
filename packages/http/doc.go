// Package http sends encoded forms over HTTP.
//
// It wraps the standard library's http package with additional features:
//   - Configurable timeouts
//   - Redirect handling
//   - Default headers, proxy and TLS verification settings
//   - Response handling and body reading
//
// Client implements form.Submitter, so a form can be sent with
// form.Submit(ctx, f, client).
package http
