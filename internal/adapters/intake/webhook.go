// internal/adapters/intake/webhook.go
package intake

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"dari/internal/adapters/observability"
	"dari/internal/domain"
)

// Webhook posts submissions as JSON to an intake endpoint (a form backend, an
// Airtable or Sheets hook).
type Webhook struct {
	url string
	hc  *http.Client
	key string
	rl  *rate.Limiter
}

func NewWebhook(url, key string, rps int) (*Webhook, error) {
	if url == "" {
		return nil, fmt.Errorf("intake URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Webhook{
		url: url,
		hc:  &http.Client{Timeout: 10 * time.Second},
		key: key,
		rl:  rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// Submit retries on 429 and transient 5xx, honoring Retry-After when provided.
// Other 4xx map to ErrIntakeRejected; exhausted retries and network failures map
// to ErrIntakeUnavailable.
func (c *Webhook) Submit(ctx context.Context, s domain.Submission) error {
	body, err := json.Marshal(s)
	if err != nil {
		return err
	}

	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIntakeUnavailable, err)
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		if c.key != "" {
			req.Header.Set("X-API-Key", c.key)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", s.ID)
		req.Header.Set("User-Agent", "dari/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("intake", string(s.Kind), 0, time.Since(start))
			if ctx.Err() != nil {
				return fmt.Errorf("%w: %v", domain.ErrIntakeUnavailable, ctx.Err())
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return fmt.Errorf("%w: %v", domain.ErrIntakeUnavailable, lastErr)
		}
		observability.ObserveExternal("intake", string(s.Kind), resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusInternalServerError ||
			resp.StatusCode == http.StatusBadGateway || resp.StatusCode == http.StatusServiceUnavailable ||
			resp.StatusCode == http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			return fmt.Errorf("%w: %v", domain.ErrIntakeUnavailable, lastErr)

		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%w: status %d: %s", domain.ErrIntakeRejected, resp.StatusCode, strings.TrimSpace(string(b)))

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%w: bad status %d: %s", domain.ErrIntakeUnavailable, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return fmt.Errorf("%w: %v", domain.ErrIntakeUnavailable, lastErr)
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

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
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

// backoff returns 200ms doubled per attempt plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
