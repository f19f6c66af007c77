package httpx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrForeignHost is returned when a path resolves outside the base URL's
// scheme and host. Default headers often carry credentials.
var ErrForeignHost = errors.New("httpx: url points outside the base url host")

const maxRedirects = 10

// Client sends requests with a preset base URL and default headers.
// Nothing in it changes after New returns.
type Client struct {
	httpClient *http.Client

	rawBaseURL string
	baseURL    *url.URL

	timeout        time.Duration
	defaultHeaders http.Header
	userAgent      string

	maxErrBody int64

	before []BeforeHook
	after  []AfterHook
}

// New constructs a Client from DefaultConfig() plus the provided options.
func New(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	for _, o := range opts {
		if o != nil {
			o.apply(&cfg)
		}
	}
	return NewWithConfig(cfg)
}

func NewWithConfig(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	bu, err := parseBaseURL(raw)
	if err != nil {
		return nil, err
	}

	rt := cfg.Transport
	if rt == nil {
		rt = DefaultTransport()
	}
	if len(cfg.Middleware) > 0 {
		rt = chain(rt, cfg.Middleware)
	}

	maxErrBody := cfg.MaxErrorBodyBytes
	if maxErrBody == 0 {
		maxErrBody = DefaultMaxErrorBodyBytes
	}

	c := &Client{
		httpClient:     &http.Client{Transport: rt},
		rawBaseURL:     raw,
		baseURL:        bu,
		timeout:        cfg.Timeout,
		defaultHeaders: cloneHeader(cfg.DefaultHeaders),
		userAgent:      cfg.UserAgent,
		maxErrBody:     maxErrBody,
		before:         append([]BeforeHook(nil), cfg.Before...),
		after:          append([]AfterHook(nil), cfg.After...),
	}
	c.httpClient.CheckRedirect = c.checkRedirect
	return c, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &url.Error{Op: "parse", URL: raw, Err: errors.New("base url must be absolute")}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &url.Error{Op: "parse", URL: raw, Err: errors.New("base url scheme must be http or https")}
	}
	// Treat the base path as a prefix so "/ping" lands under it.
	if u.Path != "" && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

func cloneHeader(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, vv := range h {
		for _, v := range vv {
			out.Add(k, v)
		}
	}
	return out
}

// BaseURL returns the base URL as configured, or "" when none was set.
func (c *Client) BaseURL() string { return c.rawBaseURL }

// DefaultHeaders returns a copy of the headers attached to every request.
func (c *Client) DefaultHeaders() http.Header { return cloneHeader(c.defaultHeaders) }

// ResolveURL returns the absolute URL a request for path would be sent to.
func (c *Client) ResolveURL(path string) (string, error) {
	u, err := c.resolveURL(path, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (c *Client) resolveURL(path string, q url.Values) (*url.URL, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("empty url/path")
	}
	u, err := url.Parse(p)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		if c.baseURL == nil {
			return nil, errors.New("relative path requires BaseURL")
		}
		// Leading "/" is relative to the base path, not the host root.
		if strings.HasPrefix(u.Path, "/") {
			u2 := *u
			u2.Path = strings.TrimPrefix(u2.Path, "/")
			u2.RawPath = ""
			u = &u2
		}
		u = c.baseURL.ResolveReference(u)
	}
	if c.baseURL != nil && !sameOrigin(c.baseURL, u) {
		return nil, fmt.Errorf("%w: %s", ErrForeignHost, u.Redacted())
	}
	if q != nil {
		qq := u.Query()
		for k, vv := range q {
			for _, v := range vv {
				qq.Add(k, v)
			}
		}
		u.RawQuery = qq.Encode()
	}
	return u, nil
}

func sameOrigin(a, b *url.URL) bool {
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}

// checkRedirect strips the default headers when a redirect leaves the origin.
// net/http only does this for Authorization and Cookie.
func (c *Client) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	origin := via[0].URL
	if c.baseURL != nil {
		origin = c.baseURL
	}
	if !sameOrigin(origin, req.URL) {
		for k := range c.defaultHeaders {
			req.Header.Del(k)
		}
	}
	return nil
}

func withEarlierDeadline(ctx context.Context, deadline time.Time) (context.Context, context.CancelFunc) {
	if deadline.IsZero() {
		return ctx, func() {}
	}
	if existing, ok := ctx.Deadline(); ok && !existing.After(deadline) {
		return ctx, func() {}
	}
	return context.WithDeadline(ctx, deadline)
}

func earliestDeadline(timeouts ...time.Duration) time.Time {
	now := time.Now()
	var earliest time.Time
	for _, d := range timeouts {
		if d <= 0 {
			continue
		}
		dd := now.Add(d)
		if earliest.IsZero() || dd.Before(earliest) {
			earliest = dd
		}
	}
	return earliest
}

// Do executes the request. It mirrors net/http semantics:
// - transport errors are returned as error
// - non-2xx responses are returned as resp with nil error
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.do(req, false)
}

// DoStatus executes the request and converts non-2xx responses into *Error.
// It reads up to MaxErrorBodyBytes from the response body and then closes it.
func (c *Client) DoStatus(req *http.Request) (*http.Response, error) {
	return c.do(req, true)
}

func (c *Client) do(req *http.Request, statusAsError bool) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	ctx := req.Context()
	var cancel context.CancelFunc = func() {}
	if dl := earliestDeadline(c.timeout, requestTimeout(ctx)); !dl.IsZero() {
		ctx, cancel = withEarlierDeadline(ctx, dl)
	}
	req = req.Clone(ctx)

	for _, h := range c.before {
		if h == nil {
			continue
		}
		if err := h(req); err != nil {
			cancel()
			return nil, err
		}
	}

	t0 := time.Now()
	resp, err := c.httpClient.Do(req)
	dur := time.Since(t0)

	for _, h := range c.after {
		if h != nil {
			h(req, resp, err, dur)
		}
	}

	if err != nil {
		cancel()
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if !statusAsError {
			return nil, err
		}
		return nil, &Error{
			Method: req.Method,
			URL:    req.URL.String(),
			Cause:  err,
		}
	}

	if statusAsError && resp.StatusCode >= 400 {
		defer cancel()
		return responseToError(req, resp, c.maxErrBody)
	}
	// The deadline must outlive Do while the caller reads the body.
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func responseToError(req *http.Request, resp *http.Response, maxErrBody int64) (*http.Response, error) {
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	var raw []byte
	if resp.Body != nil && maxErrBody > 0 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		raw = b
	}

	// Expose the captured bytes to the caller but avoid holding open sockets.
	resp.Body = io.NopCloser(bytes.NewReader(raw))

	ra, _ := parseRetryAfter(resp, time.Now())
	msg, code := apiErrorDetails(raw)

	return resp, &Error{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		APIMessage: msg,
		APICode:    code,
		RetryAfter: ra,
		RawBody:    raw,
		Cause:      errors.New(http.StatusText(resp.StatusCode)),
	}
}
