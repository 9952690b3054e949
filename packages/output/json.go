package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/formpost/packages/repeat"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary     JSONSummary        `json:"summary"`
	Submissions []JSONSubmission   `json:"submissions"`
	Repeat      *JSONRepeatSummary `json:"repeat,omitempty"`
	Errors      []string           `json:"errors,omitempty"`
	Duration    float64            `json:"duration"`
	Time        string             `json:"time"`
}

// JSONSummary counts submissions by outcome
type JSONSummary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// JSONSubmission represents a single submission result
type JSONSubmission struct {
	URL        string          `json:"url"`
	Passed     bool            `json:"passed"`
	DryRun     bool            `json:"dryRun,omitempty"`
	Error      string          `json:"error,omitempty"`
	Request    *JSONRequest    `json:"request,omitempty"`
	Response   *JSONResponse   `json:"response,omitempty"`
	Assertions []JSONAssertion `json:"assertions,omitempty"`
	Captures   map[string]any  `json:"captures,omitempty"`
	Missing    []string        `json:"missingCaptures,omitempty"`
}

// JSONRequest represents the encoded form
type JSONRequest struct {
	Headers   []JSONHeader  `json:"headers"`
	Multipart bool          `json:"multipart"`
	Boundary  string        `json:"boundary,omitempty"`
	Parts     int           `json:"parts,omitempty"`
	Bytes     int           `json:"bytes"`
	Body      string        `json:"body,omitempty"`
	Skipped   []JSONSkipped `json:"skipped,omitempty"`
}

// JSONHeader is one request header, kept in send order
type JSONHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// JSONSkipped is an attachment left out of the body
type JSONSkipped struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Error string `json:"error"`
}

// JSONResponse represents response details
type JSONResponse struct {
	URL        string            `json:"url,omitempty"`
	StatusCode int               `json:"statusCode"`
	Status     string            `json:"status"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body,omitempty"`
	Duration   float64           `json:"duration"`
}

// JSONAssertion represents an assertion result
type JSONAssertion struct {
	Subject  string `json:"subject"`
	Expected any    `json:"expected"`
	Actual   any    `json:"actual"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message,omitempty"`
}

// JSONRepeatSummary is the latency summary of a repeated run, in milliseconds
type JSONRepeatSummary struct {
	Total     int64   `json:"total"`
	Success   int64   `json:"success"`
	Errors    int64   `json:"errors"`
	ErrorRate float64 `json:"errorRate"`
	RPS       float64 `json:"rps"`
	Min       float64 `json:"min"`
	P50       float64 `json:"p50"`
	P95       float64 `json:"p95"`
	P99       float64 `json:"p99"`
	Max       float64 `json:"max"`
	Mean      float64 `json:"mean"`
}

// JSONFormatter formats submission results as JSON
type JSONFormatter struct {
	writer      io.Writer
	includeBody bool
	results     []JSONSubmission
	repeat      *JSONRepeatSummary
	errors      []string
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]JSONSubmission, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

// JSONWithBodies includes request and response bodies in the output.
func JSONWithBodies(include bool) JSONOption {
	return func(f *JSONFormatter) {
		f.includeBody = include
	}
}

func (f *JSONFormatter) FormatResult(r *Result) {
	sub := JSONSubmission{
		Passed: r.Passed(),
		DryRun: r.DryRun,
	}

	if r.Err != nil {
		sub.Error = r.Err.Error()
	}

	if p := r.Payload; p != nil {
		sub.URL = p.URL.String()
		req := &JSONRequest{
			Headers:   make([]JSONHeader, 0, p.Header.Len()),
			Multipart: p.Multipart,
			Boundary:  p.Boundary,
			Parts:     p.Parts,
			Bytes:     len(p.Body),
		}
		for _, h := range p.Header.Fields() {
			req.Headers = append(req.Headers, JSONHeader{Name: h.Name, Value: h.Value})
		}
		for _, s := range p.Skipped {
			req.Skipped = append(req.Skipped, JSONSkipped{Name: s.Name, Path: s.Path, Error: s.Err.Error()})
		}
		if f.includeBody || r.DryRun {
			req.Body = string(p.Body)
		}
		sub.Request = req
	}

	if resp := r.Response; resp != nil {
		sub.Response = &JSONResponse{
			URL:        resp.URL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Headers:    resp.Headers,
			Duration:   float64(resp.Duration.Milliseconds()),
		}
		if f.includeBody {
			sub.Response.Body = resp.BodyString()
		}
	}

	for _, a := range r.Assertions {
		sub.Assertions = append(sub.Assertions, JSONAssertion{
			Subject:  a.Subject,
			Expected: a.Expected,
			Actual:   a.Actual,
			Passed:   a.Passed,
			Message:  a.Message,
		})
	}

	if len(r.Captures) > 0 {
		sub.Captures = r.Captures
	}
	sub.Missing = r.Missing

	f.results = append(f.results, sub)
}

func (f *JSONFormatter) FormatRepeat(s *repeat.Summary) {
	f.repeat = &JSONRepeatSummary{
		Total:     s.Total,
		Success:   s.SuccessCount,
		Errors:    s.ErrorCount,
		ErrorRate: s.ErrorRate,
		RPS:       s.RPS,
		Min:       ms(s.Min),
		P50:       ms(s.P50),
		P95:       ms(s.P95),
		P99:       ms(s.P99),
		Max:       ms(s.Max),
		Mean:      ms(s.Mean),
	}
}

func (f *JSONFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var passed, failed int
	for _, s := range f.results {
		if s.Passed {
			passed++
		} else {
			failed++
		}
	}

	output := JSONOutput{
		Summary: JSONSummary{
			Total:  len(f.results),
			Passed: passed,
			Failed: failed,
		},
		Submissions: f.results,
		Repeat:      f.repeat,
		Errors:      f.errors,
		Duration:    float64(totalDuration.Milliseconds()),
		Time:        time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// Reset drops accumulated results so the formatter can be reused.
func (f *JSONFormatter) Reset() {
	f.results = make([]JSONSubmission, 0)
	f.repeat = nil
	f.errors = nil
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
