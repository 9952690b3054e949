// Package builtin provides built-in functions for use in form values,
// headers and URLs.
//
// Available functions:
//   - uuid(): Generate a random UUID v4
//   - now(), date(layout): Current time in RFC 3339 or a custom layout
//   - timestamp(), timestampMs(): Current Unix timestamp
//   - random(min, max): Random integer in range
//   - randomString(length), randomAlphanumeric(length), randomEmail()
//   - base64(value), base64Decode(value), md5(value), sha256(value)
//   - urlEncode(value), urlDecode(value)
//   - env(name, fallback): Get environment variable value
//   - basename(path), mimeType(path), fileSize(path), fileSha256(path)
//
// Functions are invoked using the {{functionName(args)}} syntax.
package builtin
