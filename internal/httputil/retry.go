// Package httputil holds the HTTP plumbing shared by the download and
// reference-extraction clients.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// UserAgent identifies outbound requests to arXiv mirrors and publisher sites.
var UserAgent = "hepflow/1.0"

// RetryBaseDelay is the base duration for exponential backoff. Tests override
// it to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 4

// DoWithRetry executes req and retries rate-limited (429) and transient (5xx)
// responses with exponential backoff: base, 2x, 4x, ... Requests carrying a
// rewindable body (GetBody set) are replayed with a fresh body each attempt.
// Bodies of discarded responses are drained and closed. A cancelled context
// during a backoff wait returns ctx.Err(). When retries run out the last
// response is returned as-is so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewind request body: %w", err)
			}
			attemptReq.Body = body
		}
		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		switch ClassifyStatus(resp.StatusCode) {
		case ErrorRate, ErrorTransient:
		default:
			return resp, nil
		}

		if attempt >= maxRetries {
			return resp, nil
		}

		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
