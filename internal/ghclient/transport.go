package ghclient

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	gh "github.com/cli/go-gh/v2"
)

// Transport returns the raw text of every page of a GitHub API endpoint.
type Transport interface {
	Get(ctx context.Context, endpoint string) ([]byte, error)
}

// ExecFunc runs the gh CLI with the given arguments.
type ExecFunc func(ctx context.Context, args ...string) (stdout, stderr bytes.Buffer, err error)

// CLITransport fetches endpoints through `gh api --paginate`, reusing the
// credentials of the locally authenticated gh CLI. gh writes each page as a
// separate JSON document.
type CLITransport struct {
	exec ExecFunc
}

// CLIOption is a functional option for configuring a CLITransport.
type CLIOption func(*CLITransport)

// WithExec replaces the function used to invoke gh.
func WithExec(fn ExecFunc) CLIOption {
	return func(t *CLITransport) {
		t.exec = fn
	}
}

// NewCLITransport creates a transport backed by the gh CLI.
func NewCLITransport(opts ...CLIOption) *CLITransport {
	t := &CLITransport{exec: gh.ExecContext}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Get runs `gh api <endpoint> --paginate` and returns its stdout.
func (t *CLITransport) Get(ctx context.Context, endpoint string) ([]byte, error) {
	stdout, stderr, err := t.exec(ctx, "api", endpoint, "--paginate")
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("gh api %s: %w: %s", endpoint, err, msg)
		}
		return nil, fmt.Errorf("gh api %s: %w", endpoint, err)
	}
	return stdout.Bytes(), nil
}
