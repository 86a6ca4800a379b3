// Package ghclient fetches organization activity from GitHub and converts it
// into validated model records. Raw JSON never leaves this package.
package ghclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spiffcs/pulse/internal/constants"
	"github.com/spiffcs/pulse/internal/log"
)

// Client fetches paginated endpoints through a Transport, bounding every
// call with a timeout. A non-nil error means the data is unavailable; an
// empty slice with a nil error means the endpoint confirmed there is nothing.
type Client struct {
	transport Transport
	timeout   time.Duration
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a Client that fetches through t.
func NewClient(t Transport, opts ...ClientOption) *Client {
	c := &Client{
		transport: t,
		timeout:   constants.DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns every record of every page of endpoint, in source order.
func (c *Client) Fetch(ctx context.Context, endpoint string) ([]json.RawMessage, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log.Debug("fetching", "endpoint", endpoint)
	start := time.Now()

	raw, err := c.transport.Get(callCtx, endpoint)
	if err != nil {
		if ctxErr := callCtx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		log.Warn("fetch failed", "endpoint", endpoint, "error", err)
		return nil, err
	}

	records, err := DecodeDocuments(raw)
	if err != nil {
		log.Warn("unreadable response", "endpoint", endpoint, "error", err)
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}

	log.Trace("fetched", "endpoint", endpoint, "bytes", len(raw), "records", len(records), "elapsed", time.Since(start))
	return records, nil
}
