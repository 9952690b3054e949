package env

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/formpost/packages/builtin"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver handles variable resolution with thread-safe access to variables and captures.
// It supports environment variables ({{$HOME}}), built-in functions ({{uuid()}}),
// values captured from a previous response, and user-defined variables.
type Resolver struct {
	mu        sync.RWMutex
	variables map[string]any
	captures  map[string]any
	funcs     *builtin.Registry
	warnFunc  WarnFunc
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]any),
		captures:  make(map[string]any),
		funcs:     builtin.NewRegistry(),
	}
}

// SetWarnFunc sets a function to be called when warnings occur (e.g., unresolved variables)
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	r.mu.RLock()
	fn := r.warnFunc
	r.mu.RUnlock()
	if fn != nil {
		fn(format, args...)
	}
}

func (r *Resolver) SetVariables(vars map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables[name] = value
}

// SetCaptures stores values extracted from a response. Captures shadow
// variables of the same name.
func (r *Resolver) SetCaptures(values map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range values {
		r.captures[k] = v
	}
}

func (r *Resolver) GetCapture(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.captures[name]
	return v, ok
}

func (r *Resolver) lookup(expr string) (string, bool) {
	if strings.HasPrefix(expr, "$") {
		if val := os.Getenv(expr[1:]); val != "" {
			return val, true
		}
		return "", false
	}

	if strings.Contains(expr, "(") {
		if result, ok := r.funcs.Call(expr); ok {
			return fmt.Sprintf("%v", result), true
		}
		return "", false
	}

	if val, ok := r.GetVariable(expr); ok {
		return fmt.Sprintf("%v", val), true
	}
	return "", false
}

func (r *Resolver) Resolve(input string) string {
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])
		if val, ok := r.lookup(expr); ok {
			return val
		}

		switch {
		case strings.HasPrefix(expr, "$"):
			r.warn("unresolved environment variable: %s", expr)
		case strings.Contains(expr, "("):
			r.warn("unresolved function call: %s", expr)
		default:
			r.warn("unresolved variable: %s", expr)
		}
		return match
	})
}

func (r *Resolver) ResolveAll(values map[string]string) map[string]string {
	result := make(map[string]string)
	for k, v := range values {
		result[k] = r.Resolve(v)
	}
	return result
}

// UnresolvedVariables returns the expressions in input that would be left
// untouched by Resolve. Function calls are not evaluated.
func (r *Resolver) UnresolvedVariables(input string) []string {
	var missing []string
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		if strings.Contains(expr, "(") {
			if r.funcs.Has(expr) {
				continue
			}
			missing = append(missing, expr)
			continue
		}
		if _, ok := r.lookup(expr); !ok {
			missing = append(missing, expr)
		}
	}
	return missing
}

// HasUnresolvedVariables reports whether any expression in input is unknown.
func (r *Resolver) HasUnresolvedVariables(input string) bool {
	return len(r.UnresolvedVariables(input)) > 0
}

func (r *Resolver) HasVariable(name string) bool {
	_, ok := r.GetVariable(name)
	return ok
}

func (r *Resolver) GetVariable(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := r.captures[name]; ok {
		return v, true
	}
	if v, ok := r.variables[name]; ok {
		return v, true
	}
	return nil, false
}

func (r *Resolver) Clone() *Resolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := NewResolver()
	for k, v := range r.variables {
		clone.variables[k] = v
	}
	for k, v := range r.captures {
		clone.captures[k] = v
	}
	clone.warnFunc = r.warnFunc
	return clone
}
