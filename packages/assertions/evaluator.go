package assertions

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/abdul-hamid-achik/formpost/packages/http"
)

type Result struct {
	Passed   bool
	Message  string
	Expected any
	Actual   any
	Subject  string
}

type Evaluator struct {
	response *http.Response
	bodyJSON gjson.Result
	baseDir  string // Base directory for resolving schema file paths
}

// EvaluatorOption is a functional option for configuring an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithBaseDir resolves relative schema paths against dir.
func WithBaseDir(dir string) EvaluatorOption {
	return func(e *Evaluator) {
		e.baseDir = dir
	}
}

func NewEvaluator(resp *http.Response, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		response: resp,
		bodyJSON: gjson.ParseBytes(resp.Body),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Status checks that the response status is one of expected.
func (e *Evaluator) Status(expected ...int) *Result {
	r := &Result{Subject: "status", Expected: expected, Actual: e.response.StatusCode}
	for _, code := range expected {
		if e.response.StatusCode == code {
			r.Passed = true
			return r
		}
	}
	r.Message = fmt.Sprintf("expected status %s, got %d", joinInts(expected), e.response.StatusCode)
	return r
}

// Equals checks that the JSON value at path renders as expected.
func (e *Evaluator) Equals(path, expected string) *Result {
	r := &Result{Subject: path, Expected: expected}
	if !gjson.ValidBytes(e.response.Body) {
		r.Message = "response body is not JSON"
		return r
	}
	result := e.bodyJSON.Get(path)
	if !result.Exists() {
		r.Message = fmt.Sprintf("%s does not exist", path)
		return r
	}
	r.Actual = result.String()
	r.Passed = result.String() == expected
	if !r.Passed {
		r.Message = fmt.Sprintf("expected %s to be %q, got %q", path, expected, result.String())
	}
	return r
}

// Schema validates the response body against the JSON schema at schemaPath.
func (e *Evaluator) Schema(schemaPath string) *Result {
	r := &Result{Subject: "schema", Expected: schemaPath}

	if !filepath.IsAbs(schemaPath) && e.baseDir != "" {
		schemaPath = filepath.Join(e.baseDir, schemaPath)
	}

	// Read schema file
	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		r.Message = fmt.Sprintf("failed to read schema file: %v", err)
		return r
	}

	// Create schema and document loaders
	schemaLoader := gojsonschema.NewBytesLoader(schemaData)
	documentLoader := gojsonschema.NewBytesLoader(e.response.Body)

	// Validate
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		r.Message = fmt.Sprintf("schema validation error: %v", err)
		return r
	}

	if result.Valid() {
		r.Passed = true
		return r
	}

	// Collect validation errors
	var errors []string
	for _, desc := range result.Errors() {
		errors = append(errors, desc.String())
	}
	r.Actual = errors
	r.Message = fmt.Sprintf("schema validation failed: %s", strings.Join(errors, "; "))
	return r
}

// ParseExpectation splits a "path=value" body expectation.
func ParseExpectation(expr string) (path, value string, err error) {
	path, value, ok := strings.Cut(expr, "=")
	path = strings.TrimSpace(path)
	if !ok || path == "" {
		return "", "", fmt.Errorf("invalid expectation %q: expected path=value", expr)
	}
	return path, strings.TrimSpace(value), nil
}

// AllPassed reports whether every result passed.
func AllPassed(results []*Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " or ")
}
