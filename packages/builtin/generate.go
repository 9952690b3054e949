package builtin

import (
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"
)

const (
	lowercase    = "abcdefghijklmnopqrstuvwxyz"
	alphanumeric = lowercase + "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var generators = map[string]Func{
	"uuid": func(_ []string) any {
		return uuid.New().String()
	},
	"now": func(_ []string) any {
		return time.Now().UTC().Format(time.RFC3339)
	},
	"date": func(args []string) any {
		layout := arg(args, 0)
		if layout == "" {
			layout = time.DateOnly
		}
		return time.Now().UTC().Format(layout)
	},
	"timestamp": func(_ []string) any {
		return time.Now().Unix()
	},
	"timestampMs": func(_ []string) any {
		return time.Now().UnixMilli()
	},
	"random": func(args []string) any {
		lo, hi := intArg(args, 0, 0), intArg(args, 1, 100)
		if hi < lo {
			lo, hi = hi, lo
		}
		return lo + rand.IntN(hi-lo+1)
	},
	"randomString": func(args []string) any {
		return randomString(intArg(args, 0, 16), alphanumeric)
	},
	"randomAlphanumeric": func(args []string) any {
		return randomString(intArg(args, 0, 8), alphanumeric)
	},
	"randomEmail": func(_ []string) any {
		return randomString(8, lowercase) + "@" + randomString(6, lowercase) + ".com"
	},
	"env": func(args []string) any {
		if v := os.Getenv(arg(args, 0)); v != "" {
			return v
		}
		return arg(args, 1)
	},
}

func randomString(length int, charset string) string {
	if length < 0 {
		length = 0
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.IntN(len(charset))]
	}
	return string(b)
}
