// Package coingecko builds the HTTP client used to talk to the CoinGecko
// public REST API. It only fixes the base URL and the default headers;
// response decoding is left to callers.
package coingecko

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lgc202/coingecko-kit/httpx"
	"github.com/lgc202/coingecko-kit/internal/logging"
	"github.com/lgc202/coingecko-kit/version"
)

const (
	// BaseURL is the REST root every relative path is resolved against.
	BaseURL = "https://api.coingecko.com/api/v3"

	HeaderAccept  = "accept"
	HeaderAPIKey  = "x-cg-demo-api-key"
	MediaTypeJSON = "application/json"
)

// Config carries what NewClient needs. APIKey is required.
type Config struct {
	APIKey string

	// Timeout bounds each request. Zero leaves deadlines to the caller's context.
	Timeout time.Duration

	// UserAgent defaults to version.Get().UserAgent().
	UserAgent string

	// Transport replaces the default RoundTripper, mainly for tests and proxies.
	Transport http.RoundTripper

	Logger *zap.Logger
}

// Client is a pre-configured handle for the CoinGecko API. It holds no mutable
// state and can be shared by any number of goroutines.
type Client struct {
	http   *httpx.Client
	logger *zap.Logger
}

// NewClient validates cfg and returns a ready client. It does no network I/O.
func NewClient(cfg Config) (*Client, error) {
	return newClient(BaseURL, cfg)
}

func newClient(baseURL string, cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.Mark(errors.WithHint(ErrMissingAPIKey, "set COINGECKO_API_KEY or Config.APIKey"), ErrInvalidConfig)
	}
	if cfg.Timeout < 0 {
		return nil, errors.Mark(errors.Newf("coingecko: negative timeout %s", cfg.Timeout), ErrInvalidConfig)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = version.Get().UserAgent()
	}

	hc, err := httpx.New(
		httpx.WithBaseURL(baseURL),
		httpx.WithDefaultHeader(HeaderAccept, MediaTypeJSON),
		httpx.WithDefaultHeader(HeaderAPIKey, key),
		httpx.WithUserAgent(ua),
		httpx.WithTimeout(cfg.Timeout),
		httpx.WithTransport(cfg.Transport),
		httpx.WithAfterHook(logging.RequestLogger(logger)),
	)
	if err != nil {
		return nil, configError(err, "coingecko: base url %q", baseURL)
	}

	logger.Debug("coingecko client configured",
		zap.String("base_url", baseURL),
		zap.Duration("timeout", cfg.Timeout),
		zap.String("user_agent", ua),
	)
	return &Client{http: hc, logger: logger}, nil
}

func (c *Client) BaseURL() string { return c.http.BaseURL() }

// DefaultHeaders returns a copy of the headers sent with every request.
func (c *Client) DefaultHeaders() http.Header { return c.http.DefaultHeaders() }

// ResolveURL returns the absolute URL a request for path goes to.
func (c *Client) ResolveURL(path string) (string, error) { return c.http.ResolveURL(path) }

// HTTP exposes the underlying handle for callers that build requests themselves.
func (c *Client) HTTP() *httpx.Client { return c.http }

func (c *Client) NewRequest(ctx context.Context, method, path string, opts ...httpx.RequestOption) (*http.Request, error) {
	return c.http.NewRequest(ctx, method, path, opts...)
}

// Do sends req and turns non-2xx responses into *httpx.Error.
func (c *Client) Do(req *http.Request) (*http.Response, error) { return c.http.DoStatus(req) }

func (c *Client) Get(ctx context.Context, path string, opts ...httpx.RequestOption) (*http.Response, error) {
	return c.http.Get(ctx, path, opts...)
}

func (c *Client) Post(ctx context.Context, path string, opts ...httpx.RequestOption) (*http.Response, error) {
	return c.http.Post(ctx, path, opts...)
}

func (c *Client) Put(ctx context.Context, path string, opts ...httpx.RequestOption) (*http.Response, error) {
	return c.http.Put(ctx, path, opts...)
}

func (c *Client) Patch(ctx context.Context, path string, opts ...httpx.RequestOption) (*http.Response, error) {
	return c.http.Patch(ctx, path, opts...)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...httpx.RequestOption) (*http.Response, error) {
	return c.http.Delete(ctx, path, opts...)
}

// GetJSON issues a GET for path and decodes the body into dst.
func (c *Client) GetJSON(ctx context.Context, path string, dst any, opts ...httpx.RequestOption) error {
	return c.http.GetJSON(ctx, path, dst, opts...)
}

// Ping calls /ping and returns the server's greeting.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var out struct {
		GeckoSays string `json:"gecko_says"`
	}
	if err := c.GetJSON(ctx, "/ping", &out); err != nil {
		return "", errors.Wrap(err, "coingecko: ping")
	}
	return out.GeckoSays, nil
}
