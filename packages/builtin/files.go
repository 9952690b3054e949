package builtin

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/formpost/packages/mime"
)

// fileFuncs describe local files, typically attachments, so their metadata
// can be sent alongside them as ordinary fields.
var fileFuncs = map[string]Func{
	"basename": func(args []string) any {
		return filepath.Base(arg(args, 0))
	},
	"mimeType": func(args []string) any {
		base := filepath.Base(arg(args, 0))
		ext := ""
		if i := strings.LastIndexByte(base, '.'); i >= 0 {
			ext = base[i+1:]
		}
		return mime.TypeByExtension(ext)
	},
	"fileSize": func(args []string) any {
		info, err := os.Stat(arg(args, 0))
		if err != nil {
			return ""
		}
		return info.Size()
	},
	"fileSha256": func(args []string) any {
		f, err := os.Open(arg(args, 0))
		if err != nil {
			return ""
		}
		defer f.Close()

		h := sha256.New()
		if _, err := io.Copy(h, f); err != nil {
			return ""
		}
		return hex.EncodeToString(h.Sum(nil))
	},
}
