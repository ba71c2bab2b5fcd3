package identity

import (
	"context"
	"sync"

	"github.com/mmcdole/picks/internal/domain"
)

// Local is an identity provider that signs in a fixed principal without a
// remote service. Used in demo mode and tests.
type Local struct {
	principal domain.Principal

	mu       sync.RWMutex
	identity domain.Option[domain.Identity]
}

// NewLocal creates a signed-out provider for principal
func NewLocal(principal domain.Principal) *Local {
	return &Local{principal: principal, identity: domain.None[domain.Identity]()}
}

// NewLocalSignedIn creates a provider already signed in as principal
func NewLocalSignedIn(principal domain.Principal) *Local {
	l := NewLocal(principal)
	l.identity = domain.Some(domain.Identity{Principal: principal, Delegation: "local"})
	return l
}

func (l *Local) Login(ctx context.Context, observer domain.LoginObserver) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.identity.IsSome() {
		return domain.ErrAlreadyAuthenticated
	}
	l.identity = domain.Some(domain.Identity{Principal: l.principal, Delegation: "local"})
	return nil
}

func (l *Local) Clear(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.identity = domain.None[domain.Identity]()
	return nil
}

func (l *Local) Identity() domain.Option[domain.Identity] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.identity
}

func (l *Local) IsInitializing() bool { return false }
func (l *Local) IsLoggingIn() bool    { return false }
