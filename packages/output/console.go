package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/formpost/packages/repeat"
)

// formatValue formats a value for display, truncating or summarizing large values
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case []string:
		return fmt.Sprintf("[%d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	}
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(r *Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	if r.Payload == nil {
		if r.Err != nil {
			fmt.Fprintf(f.writer, "  %s %s\n", red("x"), red(r.Err.Error()))
		}
		return
	}

	p := r.Payload
	fmt.Fprintf(f.writer, "\n%s\n", bold("POST "+p.URL.String()))
	if p.Multipart {
		fmt.Fprintf(f.writer, "  multipart/form-data, %d parts, %d bytes\n", p.Parts, len(p.Body))
		if f.verbose {
			fmt.Fprintf(f.writer, "  boundary: %s\n", p.Boundary)
		}
	} else {
		fmt.Fprintf(f.writer, "  urlencoded, %d bytes\n", len(p.Body))
	}

	for _, s := range p.Skipped {
		fmt.Fprintf(f.writer, "  %s skipped %s: %s %s\n", yellow("-"), s.Name, s.Path, yellow(fmt.Sprintf("(%v)", s.Err)))
	}

	if f.verbose || r.DryRun {
		for _, h := range p.Header.Fields() {
			fmt.Fprintf(f.writer, "  %s: %s\n", h.Name, h.Value)
		}
	}

	if r.DryRun {
		fmt.Fprintf(f.writer, "\n%s\n", p.Body)
		return
	}

	if r.Err != nil {
		fmt.Fprintf(f.writer, "  %s %s\n", red("x"), red(r.Err.Error()))
		return
	}

	if resp := r.Response; resp != nil {
		symbol := green("✓")
		if !resp.IsSuccess() {
			symbol = red("✗")
		}
		fmt.Fprintf(f.writer, "  %s %s %s\n", symbol, resp.Status, cyan(fmt.Sprintf("(%dms)", resp.DurationMs())))
		if f.verbose && len(resp.Body) > 0 {
			fmt.Fprintf(f.writer, "    %s\n", formatValue(resp.BodyString(), 500))
		}
	}

	for _, a := range r.Assertions {
		if a.Passed {
			if f.verbose {
				fmt.Fprintf(f.writer, "  %s %s\n", green("✓"), a.Subject)
			}
			continue
		}
		fmt.Fprintf(f.writer, "    %s %s\n", red("→"), a.Subject)
		fmt.Fprintf(f.writer, "      Expected: %s\n", formatValue(a.Expected, 100))
		fmt.Fprintf(f.writer, "      Actual:   %s\n", formatValue(a.Actual, 100))
		if a.Message != "" {
			fmt.Fprintf(f.writer, "      %s\n", a.Message)
		}
	}

	if len(r.Captures) > 0 {
		fmt.Fprintf(f.writer, "  Captures:\n")
		names := make([]string, 0, len(r.Captures))
		for name := range r.Captures {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(f.writer, "    %s = %s\n", name, formatValue(r.Captures[name], 100))
		}
	}
	for _, name := range r.Missing {
		fmt.Fprintf(f.writer, "  %s capture %s not found\n", yellow("-"), name)
	}
}

func (f *ConsoleFormatter) FormatRepeat(s *repeat.Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Summary"))
	fmt.Fprintf(f.writer, "  Submissions: %d", s.Total)
	if s.SuccessCount > 0 {
		fmt.Fprintf(f.writer, ", %s", green(fmt.Sprintf("%d ok", s.SuccessCount)))
	}
	if s.ErrorCount > 0 {
		fmt.Fprintf(f.writer, ", %s", red(fmt.Sprintf("%d failed", s.ErrorCount)))
	}
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "  Duration:    %s (%.1f/s)\n", s.Duration.Round(time.Millisecond), s.RPS)
	fmt.Fprintf(f.writer, "  Latency:     min %s  p50 %s  p95 %s  p99 %s  max %s\n",
		s.Min, s.P50, s.P95, s.P99, s.Max)
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("formpost"), version)
}
