package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abdul-hamid-achik/formpost/packages/assertions"
	"github.com/abdul-hamid-achik/formpost/packages/capture"
	"github.com/abdul-hamid-achik/formpost/packages/core/config"
	"github.com/abdul-hamid-achik/formpost/packages/core/env"
	"github.com/abdul-hamid-achik/formpost/packages/form"
	"github.com/abdul-hamid-achik/formpost/packages/history"
	"github.com/abdul-hamid-achik/formpost/packages/http"
	"github.com/abdul-hamid-achik/formpost/packages/output"
)

// sendOptions holds everything the send command needs besides the config file.
type sendOptions struct {
	URL        string
	Definition string

	Fields  []string // name=value
	Files   []string // name=path
	Headers []string // "Name: value"
	Vars    []string // name=value
	Referer string

	Multipart bool
	EnvFile   string

	Captures     []string
	Schema       string
	ExpectStatus []int
	Expect       []string

	DryRun      bool
	Repeat      int
	Rate        float64
	Concurrency int
}

func (o *sendOptions) validate() error {
	if o.URL == "" && o.Definition == "" {
		return exitWith(ExitUsageError, errNoInput)
	}
	if o.Repeat < 1 {
		return usageErrorf("--repeat must be at least 1, got %d", o.Repeat)
	}
	if o.Rate < 0 {
		return usageErrorf("--rate cannot be negative")
	}
	if o.Concurrency < 1 {
		return usageErrorf("--concurrency must be at least 1, got %d", o.Concurrency)
	}
	for _, list := range [][]string{o.Fields, o.Files, o.Vars} {
		for _, kv := range list {
			if _, _, err := splitPair(kv); err != nil {
				return exitWith(ExitUsageError, err)
			}
		}
	}
	for _, h := range o.Headers {
		if _, _, err := splitHeader(h); err != nil {
			return exitWith(ExitUsageError, err)
		}
	}
	for _, e := range o.Expect {
		if _, _, err := assertions.ParseExpectation(e); err != nil {
			return exitWith(ExitUsageError, err)
		}
	}
	return nil
}

// sender builds and submits the form described by sendOptions.
type sender struct {
	opts     sendOptions
	cfg      *config.Config
	logger   zerolog.Logger
	resolver *env.Resolver
	client   *http.Client
	captures []*capture.Capture
	history  *history.Store
}

func newSender(opts sendOptions, cfg *config.Config, logger zerolog.Logger) (*sender, error) {
	s := &sender{
		opts:     opts,
		cfg:      cfg,
		logger:   logger,
		resolver: env.NewResolver(),
	}

	s.resolver.SetWarnFunc(func(format string, args ...any) {
		logger.Warn().Msgf(format, args...)
	})
	if err := s.loadVariables(); err != nil {
		return nil, err
	}

	for _, expr := range opts.Captures {
		c, err := capture.Parse(expr)
		if err != nil {
			return nil, exitWith(ExitUsageError, err)
		}
		s.captures = append(s.captures, c)
	}

	clientOpts := []http.ClientOption{
		http.WithFollowRedirects(cfg.GetFollowRedirects()),
		http.WithValidateSSL(cfg.GetValidateSSL()),
		http.WithDefaultHeaders(cfg.Headers),
		http.WithLogger(logger),
	}
	if timeout := cfg.TimeoutDuration(); timeout > 0 {
		clientOpts = append(clientOpts, http.WithTimeout(timeout))
	}
	if cfg.MaxRedirects > 0 {
		clientOpts = append(clientOpts, http.WithMaxRedirects(cfg.MaxRedirects))
	}
	if cfg.Proxy != "" {
		clientOpts = append(clientOpts, http.WithProxy(cfg.Proxy))
	}
	s.client = http.NewClient(clientOpts...)

	if cfg.History != "" && !opts.DryRun {
		store, err := history.Open(cfg.History)
		if err != nil {
			return nil, exitWith(ExitConfigError, err)
		}
		s.history = store
	}

	return s, nil
}

// loadVariables (re)reads the .env file and --var overrides into the resolver.
func (s *sender) loadVariables() error {
	overrides := make(map[string]string, len(s.opts.Vars))
	for _, kv := range s.opts.Vars {
		name, value, err := splitPair(kv)
		if err != nil {
			return exitWith(ExitUsageError, err)
		}
		overrides[name] = value
	}

	vars, err := env.LoadVariables(s.opts.EnvFile, overrides)
	if err != nil {
		return exitWith(ExitConfigError, fmt.Errorf("loading env file: %w", err))
	}
	s.resolver.SetVariables(vars)
	return nil
}

func (s *sender) Close() error {
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}

// buildForm assembles a fresh form: the definition file first, then the
// command line, so flags add to or override what the definition sets.
func (s *sender) buildForm() (*form.Form, error) {
	formOpts := []form.Option{form.WithRegistry(registryFor(s.cfg))}
	if s.cfg.GetStrictFiles() {
		formOpts = append(formOpts, form.WithStrictFiles())
	}
	if s.cfg.GetEscape() {
		formOpts = append(formOpts, form.WithEscaping())
	}

	var f *form.Form
	if s.opts.Definition != "" {
		def, err := form.LoadDefinition(s.opts.Definition)
		if err != nil {
			return nil, exitWith(ExitConfigError, err)
		}
		if s.opts.URL != "" {
			def.URL = s.opts.URL
		}
		f = def.Build(s.resolver.Resolve, formOpts...)
	} else {
		f = form.New(s.resolver.Resolve(s.opts.URL), formOpts...)
	}

	if s.cfg.GetDefaultUserAgent() {
		f.SetDefaultUserAgent()
	}
	if s.opts.Referer != "" {
		f.SetReferer(s.resolver.Resolve(s.opts.Referer))
	}
	for _, h := range s.opts.Headers {
		name, value, _ := splitHeader(h)
		f.SetHeader(name, s.resolver.Resolve(value))
	}
	for _, kv := range s.opts.Fields {
		name, value, _ := splitPair(kv)
		f.AddField(name, s.resolver.Resolve(value))
	}
	for _, kv := range s.opts.Files {
		name, path, _ := splitPair(kv)
		f.AddFile(name, s.resolver.Resolve(path))
	}
	if s.opts.Multipart {
		f.ForceMultipart()
	}
	return f, nil
}

// submit encodes the form and, unless this is a dry run, sends it and
// evaluates the response.
func (s *sender) submit(ctx context.Context) *output.Result {
	result := &output.Result{DryRun: s.opts.DryRun}

	f, err := s.buildForm()
	if err != nil {
		result.Err = err
		return result
	}

	p, err := f.Encode()
	if err != nil {
		if errors.Is(err, form.ErrInvalidDestination) {
			err = exitWith(ExitUsageError, err)
		}
		result.Err = err
		return result
	}
	result.Payload = p

	for _, skipped := range p.Skipped {
		s.logger.Warn().
			Str("field", skipped.Name).
			Str("path", skipped.Path).
			Err(skipped.Err).
			Msg("attachment skipped")
	}

	if s.opts.DryRun {
		return result
	}

	start := time.Now()
	resp, err := s.client.Submit(ctx, p.Request(), p.Body)
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = exitWith(ExitNetworkError, err)
		s.record(ctx, result)
		return result
	}
	result.Response = resp

	if len(s.captures) > 0 {
		result.Captures, result.Missing = capture.ExtractAll(resp, s.captures)
		s.resolver.SetCaptures(result.Captures)
		for _, name := range result.Missing {
			s.logger.Info().Str("capture", name).Msg("capture not found in response")
		}
	}
	result.Assertions = s.evaluate(resp)

	s.record(ctx, result)
	return result
}

func (s *sender) evaluate(resp *http.Response) []*assertions.Result {
	e := assertions.NewEvaluator(resp)

	var results []*assertions.Result
	if len(s.opts.ExpectStatus) > 0 {
		results = append(results, e.Status(s.opts.ExpectStatus...))
	}
	for _, expr := range s.opts.Expect {
		path, value, _ := assertions.ParseExpectation(expr)
		results = append(results, e.Equals(path, value))
	}
	if s.opts.Schema != "" {
		results = append(results, e.Schema(s.opts.Schema))
	}
	return results
}

func (s *sender) record(ctx context.Context, r *output.Result) {
	if s.history == nil || r.Payload == nil {
		return
	}

	entry := history.Entry{
		URL:       r.Payload.URL.String(),
		Multipart: r.Payload.Multipart,
		Bytes:     len(r.Payload.Body),
		Parts:     r.Payload.Parts,
		Skipped:   len(r.Payload.Skipped),
		Duration:  r.Duration,
	}
	if r.Response != nil {
		entry.Status = r.Response.StatusCode
	}
	if r.Err != nil {
		entry.Error = r.Err.Error()
	}

	if _, err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record submission")
	}
}

// watchTargets returns the files whose changes should trigger a resubmission.
func (s *sender) watchTargets() []string {
	var targets []string
	if s.opts.Definition != "" {
		targets = append(targets, s.opts.Definition)
	}
	if s.opts.EnvFile != "" {
		targets = append(targets, s.opts.EnvFile)
	}
	if f, err := s.buildForm(); err == nil {
		for _, file := range f.Files() {
			targets = append(targets, file.Value)
		}
	}

	for i, t := range targets {
		if abs, err := filepath.Abs(t); err == nil {
			targets[i] = abs
		}
	}
	return targets
}

// splitPair splits a name=value argument. The name may not be empty.
func splitPair(kv string) (name, value string, err error) {
	name, value, ok := strings.Cut(kv, "=")
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid argument %q: expected name=value", kv)
	}
	return name, value, nil
}

// splitHeader splits a "Name: value" header argument.
func splitHeader(h string) (name, value string, err error) {
	name, value, ok := strings.Cut(h, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid header %q: expected \"Name: value\"", h)
	}
	return name, strings.TrimSpace(value), nil
}
