package ghclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v57/github"
	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"
)

// ErrMissingToken is returned when the REST transport is built without a token.
var ErrMissingToken = errors.New("GitHub token not provided. Set the GITHUB_TOKEN environment variable")

// RESTTransport fetches endpoints directly from the GitHub REST API,
// following Link pagination and emitting each page as its own JSON document.
//
// Requests flow through the following stack:
//  1. rate limit tracking (refuses requests once the primary limit is exhausted)
//  2. oauth2 (token auth)
//  3. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  4. httpcache (ETag-based conditional requests, in memory for this run only)
type RESTTransport struct {
	client *gh.Client
	state  *RateLimitState
	// token is intentionally unexported. NEVER add String(), MarshalJSON(),
	// or any method that could expose this value in logs or serialized output.
	token string
}

type restConfig struct {
	baseURL string
	base    http.RoundTripper
}

// RESTOption is a functional option for configuring a RESTTransport.
type RESTOption func(*restConfig)

// WithBaseURL points the transport at a GitHub Enterprise or test server.
func WithBaseURL(u string) RESTOption {
	return func(c *restConfig) {
		c.baseURL = u
	}
}

// WithRoundTripper sets the innermost HTTP transport.
func WithRoundTripper(rt http.RoundTripper) RESTOption {
	return func(c *restConfig) {
		c.base = rt
	}
}

// NewRESTTransport creates a REST transport authenticated with token.
func NewRESTTransport(ctx context.Context, token string, opts ...RESTOption) (*RESTTransport, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	cfg := &restConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	cache := httpcache.NewMemoryCacheTransport()
	if cfg.base != nil {
		cache.Transport = cfg.base
	}
	secondary := github_ratelimit.NewClient(cache)

	// oauth2 uses the client stored in ctx as its base transport.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, secondary)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	state := newRateLimitState()
	tc.Transport = &rateLimitTransport{
		base:  tc.Transport,
		state: state,
	}

	client := gh.NewClient(tc)
	if cfg.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing base URL: %w", err)
		}
		client.BaseURL = u
	}

	return &RESTTransport{
		client: client,
		state:  state,
		token:  token,
	}, nil
}

// Get fetches every page of endpoint. Pages are separated by newlines.
func (t *RESTTransport) Get(ctx context.Context, endpoint string) ([]byte, error) {
	next := strings.TrimPrefix(endpoint, "/")

	var out bytes.Buffer
	for {
		req, err := t.client.NewRequest(http.MethodGet, next, nil)
		if err != nil {
			return nil, fmt.Errorf("building request for %s: %w", endpoint, err)
		}

		var page bytes.Buffer
		resp, err := t.client.Do(ctx, req, &page)
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", endpoint, err)
		}

		out.Write(page.Bytes())
		out.WriteByte('\n')

		if resp.NextPage == 0 {
			break
		}
		next, err = withPage(next, resp.NextPage)
		if err != nil {
			return nil, err
		}
	}

	return out.Bytes(), nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (t *RESTTransport) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := t.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}

// RateLimitState returns the primary rate limit observed by this transport.
func (t *RESTTransport) RateLimitState() *RateLimitState {
	return t.state
}

// withPage sets the page query parameter on a relative endpoint.
func withPage(endpoint string, page int) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing endpoint %s: %w", endpoint, err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
