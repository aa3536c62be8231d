// internal/core/services/session.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/storefront-catalog/internal/core/domain"
	"github.com/ammerola/storefront-catalog/internal/core/ports"
)

const sessionKeyPrefix = "session:"

// DefaultSessionTTL is how long an idle browsing session is kept.
const DefaultSessionTTL = 30 * time.Minute

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionView is what a session endpoint returns.
type SessionView struct {
	ID    string       `json:"id"`
	State SessionState `json:"state"`
	ViewSnapshot
}

// SessionService runs engines on behalf of stateless transports, keeping each
// session's QuerySpec and page in the cache between requests.
type SessionService struct {
	store  *CatalogStore
	cache  ports.CacheRepository
	shelf  ports.ShelfListener
	ttl    time.Duration
	logger *slog.Logger
}

// NewSessionService creates a session service. A non-positive ttl uses DefaultSessionTTL.
func NewSessionService(store *CatalogStore, cache ports.CacheRepository, shelf ports.ShelfListener, ttl time.Duration, logger *slog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		store:  store,
		cache:  cache,
		shelf:  shelf,
		ttl:    ttl,
		logger: logger.With(slog.String("service", "session")),
	}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

// Create starts a session on domainName and loads its first page.
func (s *SessionService) Create(ctx context.Context, domainName string, mode domain.ViewMode) (*SessionView, error) {
	if mode == "" {
		mode = domain.ViewGrid
	}
	rec := NewViewRecorder()
	engine, err := s.newEngine(domainName, rec, WithViewMode(mode))
	if err != nil {
		return nil, err
	}
	defer engine.Close()

	if err := engine.Load(ctx); err != nil {
		s.logger.WarnContext(ctx, "session created with failed load",
			slog.String("domain", domainName),
			slog.String("error", err.Error()))
	}

	id := uuid.NewString()
	st := engine.State()
	if err := s.cache.SetWithTTL(ctx, sessionKey(id), st, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	s.logger.InfoContext(ctx, "session created",
		slog.String("session_id", id),
		slog.String("domain", domainName))
	return &SessionView{ID: id, State: st, ViewSnapshot: rec.Snapshot()}, nil
}

// Get returns the current view of a session and extends its lifetime.
func (s *SessionService) Get(ctx context.Context, id string) (*SessionView, error) {
	view, err := s.run(ctx, id, false, nil)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Expire(ctx, sessionKey(id), s.ttl); err != nil {
		s.logger.WarnContext(ctx, "failed to extend session", slog.String("error", err.Error()))
	}
	return view, nil
}

// ApplyQuery replaces the session's QuerySpec.
func (s *SessionService) ApplyQuery(ctx context.Context, id string, spec domain.QuerySpec) (*SessionView, error) {
	return s.run(ctx, id, true, func(ctx context.Context, e *Engine) error {
		return e.SetQuery(ctx, spec)
	})
}

// ClearFilters resets the session's QuerySpec.
func (s *SessionService) ClearFilters(ctx context.Context, id string) (*SessionView, error) {
	return s.run(ctx, id, true, func(ctx context.Context, e *Engine) error {
		return e.ClearFilters(ctx)
	})
}

// RequestPage navigates; out-of-range requests leave the session unchanged.
func (s *SessionService) RequestPage(ctx context.Context, id string, req domain.PageRequest) (*SessionView, bool, error) {
	moved := false
	view, err := s.run(ctx, id, true, func(ctx context.Context, e *Engine) error {
		moved = e.RequestPage(ctx, req)
		return nil
	})
	return view, moved, err
}

// SetViewMode switches the session between grid and list.
func (s *SessionService) SetViewMode(ctx context.Context, id string, mode domain.ViewMode) (*SessionView, error) {
	return s.run(ctx, id, true, func(ctx context.Context, e *Engine) error {
		return e.SetViewMode(ctx, mode)
	})
}

// Retry reloads the session's catalog from its source.
func (s *SessionService) Retry(ctx context.Context, id string) (*SessionView, error) {
	return s.run(ctx, id, true, func(ctx context.Context, e *Engine) error {
		return e.Retry(ctx)
	})
}

// Delete ends a session.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *SessionService) newEngine(domainName string, rec *ViewRecorder, opts ...EngineOption) (*Engine, error) {
	if s.shelf != nil {
		opts = append(opts, WithShelfListener(s.shelf))
	}
	// sessions are request/response; search is applied immediately
	opts = append(opts, WithSearchQuiet(0))
	return NewEngine(s.store, domainName, rec, s.logger, opts...)
}

func (s *SessionService) loadState(ctx context.Context, id string) (SessionState, error) {
	var st SessionState
	if err := s.cache.Get(ctx, sessionKey(id), &st); err != nil {
		if errors.Is(err, ports.ErrCacheMiss) {
			return st, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return st, fmt.Errorf("failed to read session: %w", err)
	}
	return st, nil
}

// run rebuilds the engine from the saved state, loads it, applies op and,
// when save is set, writes the new state back.
func (s *SessionService) run(ctx context.Context, id string, save bool, op func(context.Context, *Engine) error) (*SessionView, error) {
	st, err := s.loadState(ctx, id)
	if err != nil {
		return nil, err
	}

	rec := NewViewRecorder()
	engine, err := s.newEngine(st.Domain, rec)
	if err != nil {
		return nil, err
	}
	defer engine.Close()

	if err := engine.Restore(st); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	if err := engine.Load(ctx); err != nil {
		s.logger.DebugContext(ctx, "session catalog unavailable",
			slog.String("session_id", id),
			slog.String("error", err.Error()))
	}

	if op != nil {
		if err := op(ctx, engine); err != nil {
			return nil, err
		}
	}

	st = engine.State()
	if save {
		if err := s.cache.SetWithTTL(ctx, sessionKey(id), st, s.ttl); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
	}
	return &SessionView{ID: id, State: st, ViewSnapshot: rec.Snapshot()}, nil
}
