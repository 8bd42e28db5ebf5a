package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrRejected marks a response the backend will never accept on replay, so
// the caller must not retry the forward.
var ErrRejected = errors.New("upstream: request rejected")

// Client posts finished checkout payloads to the LMS backend. Calls retry
// transient failures with exponential backoff and flow through a shared
// circuit breaker.
type Client struct {
	BaseURL      string
	TenantHeader string
	HTTP         *http.Client
	Breaker      *Breaker
	MaxAttempts  int
	BaseBackoff  time.Duration
	Jitter       float64
	Logger       zerolog.Logger
}

// Post sends body to path on the backend, tagging the request with the tenant
// slug. A 2xx returns nil. A 4xx returns ErrRejected without retrying; other
// failures are retried up to MaxAttempts and the last error is returned.
func (c *Client) Post(ctx context.Context, path, tenantSlug string, body []byte) error {
	if c == nil || c.HTTP == nil || c.BaseURL == "" {
		return errors.New("upstream client not configured")
	}
	maxAttempts := c.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	baseBackoff := c.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 200 * time.Millisecond
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if c.Breaker != nil && !c.Breaker.Allow() {
			lastErr = ErrOpenCircuit
			break
		}
		err := c.doOnce(ctx, url, tenantSlug, body)
		if err == nil {
			c.report(true)
			return nil
		}
		if errors.Is(err, ErrRejected) {
			// The backend understood the request and said no; replaying the
			// same payload cannot change that.
			c.report(true)
			return err
		}
		c.report(false)
		lastErr = err
		c.Logger.Warn().Err(err).Int("attempt", attempt).Str("path", path).Msg("upstream_post_failed")
		if attempt == maxAttempts {
			break
		}
		timer := time.NewTimer(Backoff(baseBackoff, attempt, c.Jitter))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, url, tenantSlug string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.TenantHeader != "" && tenantSlug != "" {
		req.Header.Set(c.TenantHeader, tenantSlug)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()
	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: %s", ErrRejected, resp.Status)
	default:
		return fmt.Errorf("upstream: %s", resp.Status)
	}
}

func (c *Client) report(success bool) {
	if c.Breaker != nil {
		c.Breaker.Report(success)
	}
}
