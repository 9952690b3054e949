// Package cmd implements the formpost CLI commands using Cobra.
//
// Available commands:
//   - send: Encode a form and POST it, urlencoded or multipart
//   - mime: Show the media type used for attachment extensions
//   - history: List submissions recorded in a history database
//   - version: Show formpost version information
//
// The send command supports form definitions in YAML, variable
// interpolation, response captures and assertions, repeated submissions
// and watch mode for development workflows.
package cmd
