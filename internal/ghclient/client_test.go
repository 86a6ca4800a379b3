package ghclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport serves canned responses keyed by endpoint.
type fakeTransport struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeTransport) Get(_ context.Context, endpoint string) ([]byte, error) {
	f.calls = append(f.calls, endpoint)
	if err, ok := f.errs[endpoint]; ok {
		return nil, err
	}
	body, ok := f.responses[endpoint]
	if !ok {
		return nil, errors.New("unexpected endpoint " + endpoint)
	}
	return []byte(body), nil
}

// blockingTransport waits for the call context to end.
type blockingTransport struct{}

func (blockingTransport) Get(ctx context.Context, _ string) ([]byte, error) {
	<-ctx.Done()
	return nil, errors.New("killed")
}

func TestClientFetch(t *testing.T) {
	ft := &fakeTransport{responses: map[string]string{
		"/ok":    "[{\"n\":1}]\n[{\"n\":2}]",
		"/empty": "[]",
		"/blank": "",
	}, errs: map[string]error{
		"/fail": errors.New("exit status 1"),
	}}
	c := NewClient(ft)
	ctx := context.Background()

	t.Run("pages merged", func(t *testing.T) {
		records, err := c.Fetch(ctx, "/ok")
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("confirmed empty", func(t *testing.T) {
		records, err := c.Fetch(ctx, "/empty")
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("blank output is a failure", func(t *testing.T) {
		records, err := c.Fetch(ctx, "/blank")
		assert.ErrorIs(t, err, ErrEmptyResponse)
		assert.Nil(t, records)
	})

	t.Run("transport failure", func(t *testing.T) {
		records, err := c.Fetch(ctx, "/fail")
		assert.Error(t, err)
		assert.Nil(t, records)
	})
}

func TestClientFetchTimeout(t *testing.T) {
	c := NewClient(blockingTransport{}, WithTimeout(20*time.Millisecond))

	start := time.Now()
	records, err := c.Fetch(context.Background(), "/slow")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, records)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	c := NewClient(&fakeTransport{}, WithTimeout(0))
	assert.Equal(t, 30*time.Second, c.timeout)
}
