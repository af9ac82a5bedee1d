package export_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/fwojciec/llmready"
	"github.com/fwojciec/llmready/export"
	"github.com/fwojciec/llmready/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceFetcher returns the given outcomes in order and counts calls.
func sequenceFetcher(calls *int, outcomes ...func() (*llmready.Response, error)) *mock.Fetcher {
	return &mock.Fetcher{FetchFn: func(ctx context.Context, url string) (*llmready.Response, error) {
		i := min(*calls, len(outcomes)-1)
		*calls++
		return outcomes[i]()
	}}
}

func status(code int) func() (*llmready.Response, error) {
	return func() (*llmready.Response, error) {
		return &llmready.Response{StatusCode: code}, nil
	}
}

func failure(err error) func() (*llmready.Response, error) {
	return func() (*llmready.Response, error) {
		return nil, err
	}
}

var noDelay = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("returns the first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		resp, err := export.FetchWithRetry(context.Background(), sequenceFetcher(&calls, status(http.StatusOK)), "https://example.com", noDelay)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transport errors", func(t *testing.T) {
		t.Parallel()

		calls := 0
		f := sequenceFetcher(&calls, failure(errors.New("reset")), failure(errors.New("reset")), status(http.StatusOK))
		resp, err := export.FetchWithRetry(context.Background(), f, "https://example.com", noDelay)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 3, calls)
	})

	t.Run("retries server errors and rate limiting", func(t *testing.T) {
		t.Parallel()

		calls := 0
		f := sequenceFetcher(&calls, status(http.StatusServiceUnavailable), status(http.StatusTooManyRequests), status(http.StatusOK))
		resp, err := export.FetchWithRetry(context.Background(), f, "https://example.com", noDelay)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		calls := 0
		resp, err := export.FetchWithRetry(context.Background(), sequenceFetcher(&calls, status(http.StatusNotFound)), "https://example.com", noDelay)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, 1, calls)
	})

	t.Run("does not retry invalid requests", func(t *testing.T) {
		t.Parallel()

		calls := 0
		f := sequenceFetcher(&calls, failure(llmready.Errorf(llmready.EINVALID, "bad url")))
		_, err := export.FetchWithRetry(context.Background(), f, "::", noDelay)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns the last outcome after all attempts", func(t *testing.T) {
		t.Parallel()

		calls := 0
		f := sequenceFetcher(&calls, status(http.StatusBadGateway))
		resp, err := export.FetchWithRetry(context.Background(), f, "https://example.com", noDelay)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, len(noDelay)+1, calls)
	})

	t.Run("stops waiting when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		f := &mock.Fetcher{FetchFn: func(context.Context, string) (*llmready.Response, error) {
			calls++
			cancel()
			return nil, errors.New("reset")
		}}

		_, err := export.FetchWithRetry(ctx, f, "https://example.com", []time.Duration{time.Hour})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("default delays back off exponentially", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, export.DefaultRetryDelays())
	})
}
