package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/formpost/packages/core/config"
	"github.com/abdul-hamid-achik/formpost/packages/output"
	"github.com/abdul-hamid-achik/formpost/packages/repeat"
)

var sendCmd = &cobra.Command{
	Use:   "send [url]",
	Short: "Encode a form and POST it",
	Long: `Encode form fields and file attachments and POST them to a URL.

Without attachments the body is application/x-www-form-urlencoded; with at
least one attachment (or --multipart) it is multipart/form-data. Values and
paths may reference variables: {{token}}, {{$HOME}}, {{uuid()}}.

Examples:
  formpost send https://example.com/login -F user=alice -F pass=secret
  formpost send https://example.com/upload -F title=Holiday -f photo=./beach.jpg
  formpost send --form upload.yaml --env-file .env --capture id=data.id
  formpost send https://example.com/upload -f doc=report.pdf --dry-run
  formpost send https://example.com/upload -f doc=report.pdf --watch
  formpost send https://example.com/login -F user=alice --repeat 100 --rate 10`,
	Args: cobra.MaximumNArgs(1),
	RunE: sendCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	fieldFlags        []string
	fileFlags         []string
	headerFlags       []string
	varFlags          []string
	multipartFlag     bool
	defaultUAFlag     bool
	refererFlag       string
	formFlag          string
	envFileFlag       string
	strictFlag        bool
	escapeFlag        bool
	timeoutFlag       string
	insecureFlag      bool
	proxyFlag         string
	outputFlag        string
	captureFlags      []string
	schemaFlag        string
	expectStatusFlags []int
	expectFlags       []string
	dryRunFlag        bool
	watchFlag         bool
	repeatFlag        int
	rateFlag          float64
	concurrencyFlag   int
	historyFlag       string
)

func init() {
	// Form flags
	sendCmd.Flags().StringArrayVarP(&fieldFlags, "field", "F", nil, "Form field as name=value (repeatable)")
	sendCmd.Flags().StringArrayVarP(&fileFlags, "file", "f", nil, "File attachment as name=path (repeatable)")
	sendCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, `Request header as "Name: value" (repeatable)`)
	sendCmd.Flags().BoolVar(&multipartFlag, "multipart", false, "Send multipart/form-data even without attachments")
	sendCmd.Flags().BoolVar(&defaultUAFlag, "default-user-agent", getEnvBool("FORMPOST_DEFAULT_USER_AGENT", false), "Send a browser-like User-Agent header (env: FORMPOST_DEFAULT_USER_AGENT)")
	sendCmd.Flags().StringVar(&refererFlag, "referer", "", "Referer header (default: destination host)")
	sendCmd.Flags().StringVar(&formFlag, "form", getEnvString("FORMPOST_FORM", ""), "YAML form definition file (env: FORMPOST_FORM)")
	sendCmd.Flags().BoolVar(&strictFlag, "strict", getEnvBool("FORMPOST_STRICT", false), "Fail when an attachment cannot be read instead of skipping it (env: FORMPOST_STRICT)")
	sendCmd.Flags().BoolVar(&escapeFlag, "escape", getEnvBool("FORMPOST_ESCAPE", false), "Percent-encode urlencoded names and values (env: FORMPOST_ESCAPE)")

	// Variable flags
	sendCmd.Flags().StringVar(&envFileFlag, "env-file", getEnvString("FORMPOST_ENV_FILE", ""), "Path to .env file for variable interpolation (env: FORMPOST_ENV_FILE)")
	sendCmd.Flags().StringArrayVar(&varFlags, "var", nil, "Variable as name=value (repeatable)")

	// Network flags
	sendCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("FORMPOST_TIMEOUT", ""), "Request timeout (e.g., 30s, 1m) (env: FORMPOST_TIMEOUT)")
	sendCmd.Flags().StringVar(&proxyFlag, "proxy", getEnvString("FORMPOST_PROXY", ""), "Proxy URL for HTTP requests (env: FORMPOST_PROXY)")
	sendCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("FORMPOST_INSECURE", false), "Disable SSL certificate validation (env: FORMPOST_INSECURE)")

	// Response flags
	sendCmd.Flags().StringArrayVar(&captureFlags, "capture", nil, "Capture a response value as name=path (gjson path, body, status, duration, header:Name)")
	sendCmd.Flags().StringVar(&schemaFlag, "schema", "", "JSON Schema file the response body must satisfy")
	sendCmd.Flags().IntSliceVar(&expectStatusFlags, "expect-status", nil, "Accepted response status codes")
	sendCmd.Flags().StringArrayVar(&expectFlags, "expect", nil, "Expected JSON body value as path=value (repeatable)")

	// Output flags
	sendCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("FORMPOST_OUTPUT", ""), "Output format: console, json (env: FORMPOST_OUTPUT)")
	sendCmd.Flags().StringVar(&historyFlag, "history", getEnvString("FORMPOST_HISTORY", ""), "Record submissions in this SQLite database (env: FORMPOST_HISTORY)")

	// Execution flags
	sendCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Print the encoded request without sending it")
	sendCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Resubmit when the form definition or an attachment changes")
	sendCmd.Flags().IntVar(&repeatFlag, "repeat", getEnvInt("FORMPOST_REPEAT", 1), "Number of submissions (env: FORMPOST_REPEAT)")
	sendCmd.Flags().Float64Var(&rateFlag, "rate", getEnvFloat("FORMPOST_RATE", 0), "Maximum submissions per second with --repeat, 0 for unlimited (env: FORMPOST_RATE)")
	sendCmd.Flags().IntVar(&concurrencyFlag, "concurrency", getEnvInt("FORMPOST_CONCURRENCY", 1), "Submissions in flight with --repeat (env: FORMPOST_CONCURRENCY)")
}

func sendCommand(cmd *cobra.Command, args []string) error {
	opts := sendOptions{
		Definition:   formFlag,
		Fields:       fieldFlags,
		Files:        fileFlags,
		Headers:      headerFlags,
		Vars:         varFlags,
		Referer:      refererFlag,
		Multipart:    multipartFlag,
		EnvFile:      envFileFlag,
		Captures:     captureFlags,
		Schema:       schemaFlag,
		ExpectStatus: expectStatusFlags,
		Expect:       expectFlags,
		DryRun:       dryRunFlag,
		Repeat:       repeatFlag,
		Rate:         rateFlag,
		Concurrency:  concurrencyFlag,
	}
	if len(args) > 0 {
		opts.URL = args[0]
	}
	if err := opts.validate(); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg, err = applySendFlags(cmd, cfg)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), verboseFlag, cfg.GetNoColor())

	s, err := newSender(opts, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	formatter := newFormatter(cmd.OutOrStdout(), cfg)
	formatter.FormatHeader(version)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	code := runAndReport(ctx, s, formatter)
	if !watchFlag {
		return exitWith(code, codeError(code))
	}

	return watchAndResend(ctx, cmd.OutOrStdout(), s, formatter)
}

// applySendFlags layers the send flags that were set over cfg.
func applySendFlags(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	overrides := &config.Config{
		Proxy:   proxyFlag,
		Output:  outputFlag,
		History: historyFlag,
	}
	if timeoutFlag != "" {
		timeout, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return nil, usageErrorf("invalid timeout value %q: %v (use format like 30s, 1m, 500ms)", timeoutFlag, err)
		}
		overrides.Timeout = int(timeout.Milliseconds())
	}
	if insecureFlag {
		overrides.ValidateSSL = config.BoolPtr(false)
	}
	if cmd.Flags().Changed("default-user-agent") || defaultUAFlag {
		overrides.DefaultUserAgent = config.BoolPtr(defaultUAFlag)
	}
	if cmd.Flags().Changed("strict") || strictFlag {
		overrides.StrictFiles = config.BoolPtr(strictFlag)
	}
	if cmd.Flags().Changed("escape") || escapeFlag {
		overrides.Escape = config.BoolPtr(escapeFlag)
	}

	merged := cfg.Merge(overrides)
	switch strings.ToLower(merged.Output) {
	case "", "console", "json":
	default:
		return nil, usageErrorf("unknown output format %q (use console or json)", merged.Output)
	}
	return merged, nil
}

func newFormatter(w io.Writer, cfg *config.Config) output.Formatter {
	if strings.ToLower(cfg.Output) == "json" {
		return output.NewJSONFormatter(
			output.JSONWithWriter(w),
			output.JSONWithBodies(cfg.GetVerbose()),
		)
	}
	return output.NewConsoleFormatter(
		output.WithWriter(w),
		output.WithVerbose(cfg.GetVerbose()),
		output.WithNoColor(cfg.GetNoColor()),
	)
}

// runAndReport performs one run (a single submission or a repeated batch),
// hands the results to formatter and returns the exit code.
func runAndReport(ctx context.Context, s *sender, formatter output.Formatter) int {
	start := time.Now()

	var code int
	if s.opts.Repeat <= 1 {
		result := s.submit(ctx)
		formatter.FormatResult(result)
		code = resultExitCode(result)
	} else {
		code = runRepeated(ctx, s, formatter)
	}

	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(time.Since(start)); err != nil {
			s.logger.Error().Err(err).Msg("error writing output")
		}
	}
	return code
}

func runRepeated(ctx context.Context, s *sender, formatter output.Formatter) int {
	var (
		mu    sync.Mutex
		worst int
	)

	summary, err := repeat.Run(ctx, repeat.Config{
		Count:       s.opts.Repeat,
		Rate:        s.opts.Rate,
		Concurrency: s.opts.Concurrency,
	}, func(ctx context.Context, i int) error {
		result := s.submit(ctx)
		if result.Passed() {
			return nil
		}

		mu.Lock()
		defer mu.Unlock()
		formatter.FormatResult(result)
		if code := resultExitCode(result); code > worst {
			worst = code
		}
		if result.Err != nil {
			return result.Err
		}
		return errReported
	})
	if summary != nil {
		formatter.FormatRepeat(summary)
	}
	if err != nil && !repeat.IsCanceled(err) {
		formatter.FormatError(err)
		return ExitFailure
	}
	return worst
}

// resultExitCode maps a submission result to a process exit code.
func resultExitCode(r *output.Result) int {
	if r.Passed() {
		return ExitSuccess
	}
	if r.Err != nil {
		return exitCode(r.Err)
	}
	return ExitFailure
}

func codeError(code int) error {
	if code == ExitSuccess {
		return nil
	}
	return errReported
}

// errNoInput reports a send without a destination.
var errNoInput = errors.New("a destination URL or --form definition is required")
