package output

import (
	"time"

	"github.com/abdul-hamid-achik/formpost/packages/assertions"
	"github.com/abdul-hamid-achik/formpost/packages/form"
	"github.com/abdul-hamid-achik/formpost/packages/http"
	"github.com/abdul-hamid-achik/formpost/packages/repeat"
)

// Result is the outcome of a single form submission.
type Result struct {
	// Payload is the encoded form. Nil when encoding failed.
	Payload *form.Payload
	// Response is nil for dry runs and failed requests.
	Response   *http.Response
	Captures   map[string]any
	Missing    []string
	Assertions []*assertions.Result
	Err        error
	DryRun     bool
	Duration   time.Duration
}

// Passed reports whether the submission went through and every assertion held.
func (r *Result) Passed() bool {
	return r.Err == nil && assertions.AllPassed(r.Assertions)
}

// Formatter renders submission results.
type Formatter interface {
	FormatResult(result *Result)
	FormatRepeat(summary *repeat.Summary)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable is implemented by formatters that buffer results until the end of a run.
type Flushable interface {
	Flush(totalDuration time.Duration) error
}
