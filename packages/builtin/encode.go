package builtin

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
)

var encoders = map[string]Func{
	"base64": func(args []string) any {
		return base64.StdEncoding.EncodeToString([]byte(arg(args, 0)))
	},
	"base64Decode": func(args []string) any {
		decoded, err := base64.StdEncoding.DecodeString(arg(args, 0))
		if err != nil {
			return ""
		}
		return string(decoded)
	},
	"md5": func(args []string) any {
		sum := md5.Sum([]byte(arg(args, 0)))
		return hex.EncodeToString(sum[:])
	},
	"sha256": func(args []string) any {
		sum := sha256.Sum256([]byte(arg(args, 0)))
		return hex.EncodeToString(sum[:])
	},
	"urlEncode": func(args []string) any {
		return url.QueryEscape(arg(args, 0))
	},
	"urlDecode": func(args []string) any {
		decoded, err := url.QueryUnescape(arg(args, 0))
		if err != nil {
			return arg(args, 0)
		}
		return decoded
	},
}
