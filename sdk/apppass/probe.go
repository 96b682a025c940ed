package apppass

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/chrome-stats/app-pass-sdk/internal/buildinfo"
)

const (
	// maxAttempts bounds the status probe. The attempt budget is the
	// only bounding mechanism; no per-request timeout is imposed beyond
	// the transport's own defaults.
	maxAttempts = 3

	// defaultRetryBackoff is the fixed wait between failed attempts.
	// No exponential growth, no jitter.
	defaultRetryBackoff = time.Second
)

// identityHeader carries the calling extension instance's identity.
const identityHeader = "X-Extension-Id"

// connectivityMessage accompanies the err result after all attempts fail.
const connectivityMessage = "Unable to reach the App Pass service"

// probe runs the bounded-retry status check. Transport failures and
// retryable response codes are logged and retried after a fixed
// backoff; a terminal response exits immediately with the parsed body.
// All failure categories are absorbed into the returned Result.
func (c *Client) probe(ctx context.Context) *Result {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := c.attempt(ctx)
		if err == nil {
			log.WithFields(log.Fields{"attempt": attempt, "status": string(result.Status)}).
				Debug("app pass status resolved")
			return result
		}

		log.WithFields(log.Fields{"attempt": attempt, "error": err}).
			Warn("app pass status attempt failed")

		if attempt < maxAttempts {
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
				return &Result{Status: StatusErr, Message: connectivityMessage}
			}
		}
	}
	return &Result{Status: StatusErr, Message: connectivityMessage}
}

// attempt issues one GET against the status endpoint. A terminal
// response is parsed into a Result; everything else comes back as an
// error for the retry loop.
func (c *Client) attempt(ctx context.Context) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+statusPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(identityHeader, c.host.SelfID())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "app-pass-sdk/"+buildinfo.Version)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	body, errRead := io.ReadAll(resp.Body)
	if errClose := resp.Body.Close(); errClose != nil {
		log.Errorf("app pass status: close body error: %v", errClose)
	}

	if !terminalStatus(resp.StatusCode) {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	if errRead != nil {
		return nil, fmt.Errorf("read response: %w", errRead)
	}
	return parseResult(body), nil
}

// terminalStatus reports whether an HTTP status code ends the retry
// loop. Success bodies and 4xx rejections both carry a parseable status
// payload from this endpoint; 5xx and everything else is retried.
func terminalStatus(code int) bool {
	return (code >= 200 && code < 300) || (code >= 400 && code < 500)
}
