package capture

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/abdul-hamid-achik/formpost/packages/http"
)

type Source int

const (
	SourceBody Source = iota
	SourceHeader
	SourceStatus
	SourceDuration
)

// Capture names a value to extract from a response.
type Capture struct {
	Name   string
	Source Source
	Path   string
}

// Parse reads a capture from its command line form:
//
//	name=data.token     gjson path into the JSON body
//	name=body           the whole body
//	name=header:X-Id    a response header
//	name=status         the status code
//	name=duration       the request duration in milliseconds
func Parse(arg string) (*Capture, error) {
	name, expr, ok := strings.Cut(arg, "=")
	name, expr = strings.TrimSpace(name), strings.TrimSpace(expr)
	if !ok || name == "" || expr == "" {
		return nil, fmt.Errorf("invalid capture %q: expected name=path", arg)
	}

	c := &Capture{Name: name}
	switch {
	case expr == "body":
		c.Source = SourceBody
	case expr == "status":
		c.Source = SourceStatus
	case expr == "duration":
		c.Source = SourceDuration
	case strings.HasPrefix(expr, "header:"):
		c.Source = SourceHeader
		c.Path = strings.TrimPrefix(expr, "header:")
		if c.Path == "" {
			return nil, fmt.Errorf("invalid capture %q: missing header name", arg)
		}
	default:
		c.Source = SourceBody
		c.Path = expr
	}
	return c, nil
}

type Extractor struct {
	response *http.Response
	bodyJSON gjson.Result
	isJSON   bool
}

func NewExtractor(resp *http.Response) *Extractor {
	e := &Extractor{
		response: resp,
	}
	if resp.IsJSON() || gjson.ValidBytes(resp.Body) {
		e.bodyJSON = gjson.ParseBytes(resp.Body)
		e.isJSON = true
	}
	return e
}

func (e *Extractor) Extract(capture *Capture) (any, bool) {
	switch capture.Source {
	case SourceBody:
		return e.extractFromBody(capture.Path)
	case SourceHeader:
		return e.extractFromHeader(capture.Path)
	case SourceStatus:
		return e.response.StatusCode, true
	case SourceDuration:
		return e.response.DurationMs(), true
	default:
		return nil, false
	}
}

func (e *Extractor) extractFromBody(path string) (any, bool) {
	if path == "" {
		return e.response.BodyString(), true
	}
	if !e.isJSON {
		return nil, false
	}

	result := e.bodyJSON.Get(path)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

func (e *Extractor) extractFromHeader(name string) (any, bool) {
	value := e.response.Header(name)
	if value == "" {
		return nil, false
	}
	return value, true
}

// ExtractAll runs every capture against resp. Captures that find nothing are
// returned by name in missing.
func ExtractAll(resp *http.Response, captures []*Capture) (values map[string]any, missing []string) {
	extractor := NewExtractor(resp)
	values = make(map[string]any)

	for _, c := range captures {
		if value, ok := extractor.Extract(c); ok {
			values[c.Name] = value
		} else {
			missing = append(missing, c.Name)
		}
	}

	return values, missing
}
