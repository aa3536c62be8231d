// internal/workers/refresh_processor.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	redis_a "github.com/ammerola/storefront-catalog/internal/adapters/redis_adapter"
	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
)

// Locker is the part of the cache used to serialise refreshes across workers.
type Locker interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// Reloader forces a fresh load of a domain catalog.
type Reloader interface {
	Reload(ctx context.Context, domainName string) (*ports.ReloadResult, error)
}

// RefreshProcessor handles catalog refresh tasks
type RefreshProcessor struct {
	catalogs Reloader
	locks    Locker
	lockTTL  time.Duration
	logger   *slog.Logger
}

// NewRefreshProcessor creates a refresh processor. locks may be nil, in which
// case refreshes are not serialised.
func NewRefreshProcessor(catalogs Reloader, locks Locker, logger *slog.Logger) *RefreshProcessor {
	return &RefreshProcessor{
		catalogs: catalogs,
		locks:    locks,
		lockTTL:  2 * time.Minute,
		logger:   logger.With(slog.String("processor", "refresh")),
	}
}

func refreshLockKey(domainName string) string {
	return redis_a.BuildKey(redis_a.PrefixLock, TypeCatalogRefresh, domainName)
}

// ProcessRefresh reloads one domain from its source, refreshing the raw
// payload cache on the way.
func (p *RefreshProcessor) ProcessRefresh(ctx context.Context, t *asynq.Task) error {
	var payload RefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Domain == "" {
		return fmt.Errorf("refresh payload has no domain: %w", asynq.SkipRetry)
	}

	if p.locks != nil {
		key := refreshLockKey(payload.Domain)
		acquired, err := p.locks.SetNX(ctx, key, time.Now().UTC(), p.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire refresh lock: %w", err)
		}
		if !acquired {
			p.logger.InfoContext(ctx, "refresh already running elsewhere",
				slog.String("domain", payload.Domain))
			return nil
		}
		defer func() {
			if err := p.locks.Delete(context.WithoutCancel(ctx), key); err != nil {
				p.logger.WarnContext(ctx, "failed to release refresh lock",
					slog.String("domain", payload.Domain),
					slog.String("error", err.Error()))
			}
		}()
	}

	start := time.Now()
	res, err := p.catalogs.Reload(ctx, payload.Domain)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownDomain) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to refresh %s: %w", payload.Domain, err)
	}

	level := slog.LevelInfo
	if res.Degraded {
		level = slog.LevelWarn
	}
	p.logger.Log(ctx, level, "catalog refreshed",
		slog.String("domain", res.Domain),
		slog.Int("items", res.ItemCount),
		slog.Int("rejected", res.Rejected),
		slog.Bool("degraded", res.Degraded),
		slog.Uint64("version", res.Version),
		slog.Duration("duration_ms", time.Since(start)))

	if w := t.ResultWriter(); w != nil {
		if out, err := json.Marshal(res); err == nil {
			_, _ = w.Write(out)
		}
	}
	return nil
}
