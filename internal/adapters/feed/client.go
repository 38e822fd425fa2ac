// Package feed fetches JSON property catalogues from remote exports.
package feed

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"lion_estate/internal/adapters/observability"
)

// maxDocument bounds a single catalogue download.
const maxDocument = 32 << 20

const maxAttempts = 4

var (
	ErrNotFound     = errors.New("feed: not found")
	ErrUnauthorized = errors.New("feed: unauthorized")
	ErrForbidden    = errors.New("feed: forbidden")
)

type Client struct {
	hc    *http.Client
	token string
	rl    *rate.Limiter
}

// New returns a client sending token as a bearer credential when non-empty.
func New(token string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		hc:    &http.Client{Timeout: 30 * time.Second},
		token: token,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// GetJSON decodes the document at rawURL into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("feed: invalid url %q", rawURL)
	}
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		retry, wait, err := c.attempt(ctx, u, out)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
		if wait == 0 {
			wait = backoff(i)
		}
		if i == maxAttempts-1 || !sleepCtx(ctx, wait) {
			break
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return lastErr
}

// attempt performs one request and reports whether a failure is retryable.
func (c *Client) attempt(ctx context.Context, u *url.URL, out any) (retry bool, wait time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, 0, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "lion-estate-seed/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("feed", u.Host, 0, time.Since(start))
		if ctx.Err() != nil {
			return false, 0, ctx.Err()
		}
		return true, 0, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("feed", u.Host, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocument)).Decode(out); err != nil {
			return false, 0, fmt.Errorf("feed: decode %s: %w", u, err)
		}
		return false, 0, nil
	case http.StatusNotFound:
		return false, 0, ErrNotFound
	case http.StatusUnauthorized:
		return false, 0, ErrUnauthorized
	case http.StatusForbidden:
		return false, 0, ErrForbidden
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return true, retryAfter(resp), fmt.Errorf("feed: remote %d", resp.StatusCode)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return false, 0, fmt.Errorf("feed: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
