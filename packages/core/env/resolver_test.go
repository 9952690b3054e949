package env

import (
	"strings"
	"testing"
)

func TestResolverHasUnresolvedVariables(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		variables map[string]any
		captures  map[string]any
		expected  bool
	}{
		{
			name:     "no variables",
			input:    "hello world",
			expected: false,
		},
		{
			name:      "resolved variable",
			input:     "{{foo}}",
			variables: map[string]any{"foo": "bar"},
			expected:  false,
		},
		{
			name:     "unresolved variable",
			input:    "{{foo}}",
			expected: true,
		},
		{
			name:      "mixed resolved and unresolved",
			input:     "{{foo}} and {{bar}}",
			variables: map[string]any{"foo": "hello"},
			expected:  true,
		},
		{
			name:     "resolved via capture",
			input:    "{{csrf}}",
			captures: map[string]any{"csrf": "abc"},
			expected: false,
		},
		{
			name:     "known function",
			input:    "{{uuid()}}",
			expected: false,
		},
		{
			name:     "unknown function",
			input:    "{{nope()}}",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver()
			r.SetVariables(tt.variables)
			r.SetCaptures(tt.captures)

			got := r.HasUnresolvedVariables(tt.input)
			if got != tt.expected {
				t.Errorf("HasUnresolvedVariables(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolverUnresolvedVariables(t *testing.T) {
	r := NewResolver()
	r.SetVariable("bar", "middle")

	got := r.UnresolvedVariables("{{foo}} and {{ bar }} and {{baz}}")
	want := []string{"foo", "baz"}
	if len(got) != len(want) {
		t.Fatalf("UnresolvedVariables() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UnresolvedVariables()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolverResolve(t *testing.T) {
	t.Setenv("FORMPOST_RESOLVER_TEST", "from-env")

	tests := []struct {
		name      string
		input     string
		variables map[string]any
		captures  map[string]any
		expected  string
	}{
		{
			name:     "no variables",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:      "simple variable",
			input:     "hello {{name}}",
			variables: map[string]any{"name": "world"},
			expected:  "hello world",
		},
		{
			name:      "multiple variables",
			input:     "{{greeting}} {{name}}!",
			variables: map[string]any{"greeting": "Hello", "name": "World"},
			expected:  "Hello World!",
		},
		{
			name:      "non-string variable",
			input:     "count={{count}}",
			variables: map[string]any{"count": 3},
			expected:  "count=3",
		},
		{
			name:      "capture shadows variable",
			input:     "token {{token}}",
			variables: map[string]any{"token": "old"},
			captures:  map[string]any{"token": "new"},
			expected:  "token new",
		},
		{
			name:     "environment variable",
			input:    "{{$FORMPOST_RESOLVER_TEST}}",
			expected: "from-env",
		},
		{
			name:     "function call",
			input:    "{{base64('hi')}}",
			expected: "aGk=",
		},
		{
			name:     "file function",
			input:    "{{mimeType(./photos/beach.jpg)}}",
			expected: "image/jpeg",
		},
		{
			name:     "unresolved stays as-is",
			input:    "hello {{unknown}}",
			expected: "hello {{unknown}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver()
			r.SetVariables(tt.variables)
			r.SetCaptures(tt.captures)

			got := r.Resolve(tt.input)
			if got != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolverWarnings(t *testing.T) {
	var warnings []string
	r := NewResolver()
	r.SetWarnFunc(func(format string, args ...any) {
		warnings = append(warnings, format)
	})

	r.Resolve("{{missing}} {{$FORMPOST_SURELY_UNSET}} {{nope()}}")

	if len(warnings) != 3 {
		t.Fatalf("got %d warnings, want 3: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[1], "environment") {
		t.Errorf("second warning = %q, want environment warning", warnings[1])
	}
}

func TestResolverClone(t *testing.T) {
	r := NewResolver()
	r.SetVariable("a", "1")

	c := r.Clone()
	c.SetVariable("a", "2")

	if got := r.Resolve("{{a}}"); got != "1" {
		t.Errorf("original Resolve = %q, want 1", got)
	}
	if got := c.Resolve("{{a}}"); got != "2" {
		t.Errorf("clone Resolve = %q, want 2", got)
	}
}

func TestLoadVariables(t *testing.T) {
	t.Setenv(VariablePrefix+"host", "env.example.com")
	t.Setenv(VariablePrefix+"user", "env-user")

	dir := t.TempDir()
	envFile := dir + "/.env"
	writeFile(t, envFile, "user=file-user\n")

	vars, err := LoadVariables(envFile, map[string]string{"extra": "x"})
	if err != nil {
		t.Fatalf("LoadVariables() error = %v", err)
	}

	want := map[string]any{"host": "env.example.com", "user": "file-user", "extra": "x"}
	for k, v := range want {
		if vars[k] != v {
			t.Errorf("vars[%q] = %v, want %v", k, vars[k], v)
		}
	}

	if _, err := LoadVariables(dir+"/missing.env", nil); err == nil {
		t.Error("LoadVariables() expected error for missing env file")
	}
}
