package ghclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTTransportPaginates(t *testing.T) {
	var srv *httptest.Server
	var auth string
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/orgs/acme/repos" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/orgs/acme/repos?page=2&per_page=100&type=all>; rel="next"`, srv.URL))
			_, _ = io.WriteString(w, `[{"name":"widgets"},{"name":"gears"}]`)
		case "2":
			_, _ = io.WriteString(w, `[{"name":"sprockets"}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tr, err := NewRESTTransport(context.Background(), "test-token", WithBaseURL(srv.URL))
	require.NoError(t, err)

	src := NewSource(NewClient(tr))
	repos, err := src.ListRepositories(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, []string{"widgets", "gears", "sprockets"}, repos)
	assert.Equal(t, "Bearer test-token", auth)
}

func TestRESTTransportHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Not Found"}`)
	}))
	defer srv.Close()

	tr, err := NewRESTTransport(context.Background(), "test-token", WithBaseURL(srv.URL))
	require.NoError(t, err)

	out, err := tr.Get(context.Background(), "/repos/acme/missing/pulls?state=open")
	assert.Error(t, err)
	assert.Nil(t, out)
}

func TestNewRESTTransportRequiresToken(t *testing.T) {
	_, err := NewRESTTransport(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestWithPage(t *testing.T) {
	got, err := withPage("orgs/acme/repos?per_page=100&type=all", 3)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "orgs/acme/repos?"))
	assert.Contains(t, got, "page=3")
	assert.Contains(t, got, "per_page=100")
	assert.Contains(t, got, "type=all")
}

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestRateLimitTransport(t *testing.T) {
	reset := time.Now().Add(time.Hour)
	calls := 0
	base := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		h := http.Header{}
		h.Set("X-RateLimit-Limit", "5000")
		h.Set("X-RateLimit-Reset", fmt.Sprint(reset.Unix()))
		status := http.StatusOK
		if calls == 1 {
			h.Set("X-RateLimit-Remaining", "42")
		} else {
			h.Set("X-RateLimit-Remaining", "0")
			status = http.StatusForbidden
		}
		return &http.Response{StatusCode: status, Header: h, Body: io.NopCloser(strings.NewReader("{}")), Request: r}, nil
	})

	state := newRateLimitState()
	rt := &rateLimitTransport{base: base, state: state}
	req := httptest.NewRequest(http.MethodGet, "https://api.github.com/rate_limit", nil)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	remaining, limit, _, limited := state.Status()
	assert.Equal(t, 42, remaining)
	assert.Equal(t, 5000, limit)
	assert.False(t, limited)

	_, err = rt.RoundTrip(req)
	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.True(t, state.IsLimited())

	_, err = rt.RoundTrip(req)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 2, calls, "limited transport must not reach the network")
}

func TestParseRateLimitHeadersMissing(t *testing.T) {
	remaining, limit, resetAt := parseRateLimitHeaders(&http.Response{Header: http.Header{}})
	assert.Equal(t, -1, remaining)
	assert.Equal(t, -1, limit)
	assert.True(t, resetAt.IsZero())
}
