// Package assertions checks form submission responses.
//
// Supported assertions:
//   - Status code checks (--expect-status 201)
//   - JSON body values (--expect data.ok=true)
//   - JSON Schema validation (--schema ./schema.json)
package assertions
