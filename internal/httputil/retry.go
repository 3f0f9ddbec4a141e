// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for downloading response files.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the first backoff on HTTP 429 or 503. Tests shrink it.
var RetryBaseDelay = 2 * time.Second

// maxBackoff caps any single wait, including a server supplied Retry-After.
const maxBackoff = 2 * time.Minute

const defaultMaxRetries = 4

// retryable reports whether status is worth retrying after a wait.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// Backoff returns the wait before retry attempt (zero-based). A positive
// Retry-After value in seconds takes precedence over exponential doubling.
func Backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
		return min(time.Duration(secs)*time.Second, maxBackoff)
	}
	return min(RetryBaseDelay<<attempt, maxBackoff)
}

// DoWithRetry executes req and retries on 429 and 503 responses.
//
// When maxRetries is 0 the default (4) is used. Each retried response body is
// drained and closed before waiting, and a line describing the wait is written
// to w. A cancelled context during a wait returns ctx.Err(). After the last
// retry the final response is returned unchanged for the caller to inspect.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, w io.Writer) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := Backoff(attempt, resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		fmt.Fprintf(w, "HTTP %d, retrying in %v (attempt %d/%d)\n", resp.StatusCode, wait, attempt+1, maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}
