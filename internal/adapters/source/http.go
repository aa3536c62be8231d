// internal/adapters/source/http.go
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultHTTPRetries = 3
	maxPayloadBytes    = 32 << 20
)

// HTTPConfig configures an HTTPSource.
type HTTPConfig struct {
	Timeout    time.Duration
	RatePerSec float64
	MaxRetries int
	// BaseBackoff doubles on every retry.
	BaseBackoff time.Duration
	UserAgent   string
}

// HTTPSource fetches catalogs over HTTP(S), sharing one rate limiter across
// all domains and retrying on 429 and 5xx responses.
type HTTPSource struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     HTTPConfig
	logger  *slog.Logger
}

// NewHTTPSource creates an HTTP source. A zero RatePerSec disables limiting.
func NewHTTPSource(cfg HTTPConfig, logger *slog.Logger) *HTTPSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultHTTPRetries
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 250 * time.Millisecond
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "storefront-catalog/1.0"
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSec > 0 {
		burst := int(cfg.RatePerSec)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}

	return &HTTPSource{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "http_source")),
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, unavailable(ref, err)
	}

	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * s.cfg.BaseBackoff
			s.logger.DebugContext(ctx, "retrying catalog request",
				slog.String("source_ref", ref),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", backoff))
			select {
			case <-ctx.Done():
				return nil, unavailable(ref, ctx.Err())
			case <-time.After(backoff):
			}
		}

		body, retry, err := s.get(ctx, ref)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}

	s.logger.WarnContext(ctx, "catalog request failed",
		slog.String("source_ref", ref),
		slog.String("error", lastErr.Error()))
	return nil, unavailable(ref, lastErr)
}

// get performs one request and reports whether a failure is worth retrying.
func (s *HTTPSource) get(ctx context.Context, ref string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, false, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes+1))
	if err != nil {
		return nil, true, fmt.Errorf("reading body: %w", err)
	}
	if len(body) > maxPayloadBytes {
		return nil, false, errors.New("payload too large")
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet(body))
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet(body))
	}
	return body, false, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
