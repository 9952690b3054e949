package builtin

import (
	"regexp"
	"strconv"
	"strings"
)

// Func is a built-in function. Arguments arrive unquoted and trimmed.
type Func func(args []string) any

type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns a registry holding every built-in function.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}
	for _, group := range []map[string]Func{generators, encoders, fileFuncs} {
		for name, fn := range group {
			r.funcs[name] = fn
		}
	}
	return r
}

// Register adds or replaces a function.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

var funcCallPattern = regexp.MustCompile(`^(\w+)\((.*)\)$`)

func (r *Registry) resolve(expr string) (Func, []string, bool) {
	m := funcCallPattern.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return nil, nil, false
	}
	fn, ok := r.funcs[m[1]]
	if !ok {
		return nil, nil, false
	}
	return fn, parseArgs(m[2]), true
}

// Has reports whether expr calls a registered function.
func (r *Registry) Has(expr string) bool {
	_, _, ok := r.resolve(expr)
	return ok
}

// Call evaluates an expression such as sha256('abc'). The boolean is false
// when expr is not a call to a registered function.
func (r *Registry) Call(expr string) (any, bool) {
	fn, args, ok := r.resolve(expr)
	if !ok {
		return nil, false
	}
	return fn(args), true
}

// parseArgs splits a comma separated argument list. Single or double quotes
// protect commas and are removed.
func parseArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var (
		args    []string
		current strings.Builder
		quote   byte
	)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote == 0 && (ch == '"' || ch == '\''):
			quote = ch
		case quote != 0 && ch == quote:
			quote = 0
		case quote == 0 && ch == ',':
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	return append(args, strings.TrimSpace(current.String()))
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func intArg(args []string, i, def int) int {
	if v, err := strconv.Atoi(arg(args, i)); err == nil {
		return v
	}
	return def
}
