package showcase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/query"
)

// duplicateLoginDelay is the pause between clearing a stale session and
// retrying the login
const duplicateLoginDelay = 300 * time.Millisecond

// Auth wraps the identity provider with session housekeeping.
type Auth struct {
	identity domain.IdentityProvider
	cache    *query.Cache
	logger   *slog.Logger

	retryDelay time.Duration
}

// NewAuth creates a new Auth
func NewAuth(identity domain.IdentityProvider, cache *query.Cache, logger *slog.Logger) *Auth {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auth{
		identity:   identity,
		cache:      cache,
		logger:     logger,
		retryDelay: duplicateLoginDelay,
	}
}

// Identity returns the active identity, or None
func (a *Auth) Identity() domain.Option[domain.Identity] {
	return a.identity.Identity()
}

// IsAuthenticated reports whether an identity is active
func (a *Auth) IsAuthenticated() bool {
	return a.identity.Identity().IsSome()
}

// IsInitializing reports whether the persisted session is still being restored
func (a *Auth) IsInitializing() bool {
	return a.identity.IsInitializing()
}

// IsLoggingIn reports whether a login is in flight
func (a *Auth) IsLoggingIn() bool {
	return a.identity.IsLoggingIn()
}

// Principal returns the active principal, or None
func (a *Auth) Principal() domain.Option[domain.Principal] {
	id, ok := a.identity.Identity().Get()
	if !ok {
		return domain.None[domain.Principal]()
	}
	return domain.Some(id.Principal)
}

// Login runs the identity provider login. If the provider reports an
// active session, the session is cleared and the login retried once.
func (a *Auth) Login(ctx context.Context, observer domain.LoginObserver) error {
	err := a.identity.Login(ctx, observer)
	if !errors.Is(err, domain.ErrAlreadyAuthenticated) {
		return err
	}

	a.logger.Warn("login reported an active session, clearing and retrying")
	if err := a.identity.Clear(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(a.retryDelay):
	}

	return a.identity.Login(ctx, observer)
}

// Logout ends the session and drops every cached query result
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.identity.Clear(ctx); err != nil {
		a.logger.Error("failed to clear identity", "error", err)
		return err
	}
	if a.cache != nil {
		a.cache.Clear()
	}
	a.logger.Info("logged out")
	return nil
}
