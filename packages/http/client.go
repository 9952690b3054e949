package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/abdul-hamid-achik/formpost/packages/form"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 10

	// Connection pool sizing. Repeated submissions reuse connections.
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second
)

// Client submits encoded forms over HTTP. It satisfies form.Submitter.
type Client struct {
	httpClient *http.Client
	logger     zerolog.Logger

	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	insecure       bool
	proxy          string
	headers        map[string]string
}

type ClientOption func(*Client)

var _ form.Submitter[*Response] = (*Client)(nil)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		logger:         zerolog.Nop(),
		timeout:        DefaultTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		headers:        make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = &http.Client{
		Transport:     c.transport(),
		Timeout:       c.timeout,
		CheckRedirect: c.checkRedirect,
	}
	return c
}

func (c *Client) transport() *http.Transport {
	t := &http.Transport{
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}
	if c.insecure {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	if c.proxy != "" {
		proxyURL, err := neturl.Parse(c.proxy)
		if err != nil {
			c.logger.Warn().Err(err).Str("proxy", c.proxy).Msg("ignoring invalid proxy URL")
		} else {
			t.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return t
}

func (c *Client) checkRedirect(_ *http.Request, via []*http.Request) error {
	if !c.followRedirect || len(via) >= c.maxRedirects {
		return http.ErrUseLastResponse
	}
	return nil
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) { c.followRedirect = follow }
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) { c.maxRedirects = max }
}

// WithDefaultHeaders adds headers sent with every submission. Headers set on
// the form take precedence.
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithValidateSSL controls TLS certificate verification.
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) { c.insecure = !validate }
}

func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) { c.proxy = proxyURL }
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// Submit POSTs body to req.URL with req's headers and reads the whole
// response. Default headers are applied first, so request headers win.
func (c *Client) Submit(ctx context.Context, req *form.Request, body []byte) (*Response, error) {
	if req == nil || req.URL == nil {
		return nil, form.ErrInvalidDestination
	}
	target := req.URL.String()
	if err := ValidateURL(target); err != nil {
		return nil, err
	}

	httpReq, err := c.newRequest(ctx, target, req.Header, body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("url", target).
		Str("content_type", httpReq.Header.Get("Content-Type")).
		Int("bytes", len(body)).
		Msg("submitting form")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug().
		Int("status", httpResp.StatusCode).
		Dur("duration", duration).
		Int("bytes", len(respBody)).
		Msg("form submitted")

	return newResponse(httpResp, respBody, duration), nil
}

func (c *Client) newRequest(ctx context.Context, target string, header form.Header, body []byte) (*http.Request, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	for _, h := range header.Fields() {
		switch http.CanonicalHeaderKey(h.Name) {
		case "Content-Length":
			// Taken from ContentLength below.
		case "Host":
			httpReq.Host = h.Value
		default:
			httpReq.Header.Set(h.Name, h.Value)
		}
	}
	httpReq.ContentLength = int64(len(body))

	// Unlabelled bodies are sent the way browsers send plain forms.
	if httpReq.Header.Get("Content-Type") == "" && len(body) > 0 {
		httpReq.Header.Set("Content-Type", form.ContentTypeURLEncoded)
	}
	return httpReq, nil
}

func newResponse(resp *http.Response, body []byte, d time.Duration) *Response {
	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return &Response{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    headers,
		Body:       body,
		Duration:   d,
	}
}

// ValidateURL checks that rawURL is an absolute http or https URL.
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("unsupported URL scheme %q (only http and https are allowed)", u.Scheme)
	case u.Host == "":
		return fmt.Errorf("URL %q has no host", rawURL)
	}
	return nil
}
