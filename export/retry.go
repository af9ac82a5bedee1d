package export

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/llmready"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry fetches url, retrying transport failures and retryable
// statuses once per delay. After the last attempt the final response or
// error is returned as is.
func FetchWithRetry(ctx context.Context, fetcher llmready.Fetcher, url string, delays []time.Duration) (*llmready.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := fetcher.Fetch(ctx, url)
		if attempt >= len(delays) || !retryable(ctx, resp, err) {
			return resp, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
}

// retryable reports whether another attempt may succeed.
func retryable(ctx context.Context, resp *llmready.Response, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if err != nil {
		return !errors.Is(err, context.Canceled) && llmready.ErrorCode(err) != llmready.EINVALID
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
}
