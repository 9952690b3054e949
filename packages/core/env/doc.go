// Package env handles environment variables and variable resolution for
// formpost.
//
// It provides functionality for:
//   - Loading .env files
//   - Variable interpolation using {{variable}} syntax in URLs, headers,
//     field values and file paths
//   - Built-in function evaluation (uuid, timestamp, random, etc.)
//   - Values captured from a previous response
package env
