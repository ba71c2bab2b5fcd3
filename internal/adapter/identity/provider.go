package identity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/picks/internal/domain"
)

const defaultPollTimeout = 5 * time.Minute

// Provider implements domain.IdentityProvider with the link-code flow.
// It stays initializing until Restore has read the persisted session.
type Provider struct {
	client      *Client
	store       domain.SessionStore
	pollTimeout time.Duration
	logger      *slog.Logger
	now         func() time.Time

	mu           sync.RWMutex
	identity     domain.Option[domain.Identity]
	initializing bool
	loggingIn    bool
}

// NewProvider creates a provider. Call Restore before relying on Identity.
func NewProvider(client *Client, store domain.SessionStore, pollTimeout time.Duration, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}
	return &Provider{
		client:       client,
		store:        store,
		pollTimeout:  pollTimeout,
		logger:       logger,
		now:          time.Now,
		identity:     domain.None[domain.Identity](),
		initializing: true,
	}
}

// Restore loads the persisted session. Expired sessions are discarded.
// Initialization ends even when loading fails.
func (p *Provider) Restore(ctx context.Context) error {
	defer func() {
		p.mu.Lock()
		p.initializing = false
		p.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	session, err := p.store.LoadSession()
	if err != nil {
		p.logger.Error("failed to restore session", "error", err)
		return fmt.Errorf("restore session: %w", err)
	}

	id, ok := session.Get()
	if !ok {
		return nil
	}
	if id.Expired(p.now()) {
		p.logger.Info("discarding expired session", "principal", id.Principal)
		return p.store.ClearSession()
	}

	p.mu.Lock()
	p.identity = session
	p.mu.Unlock()
	p.logger.Info("session restored", "principal", id.Principal)
	return nil
}

// Login runs the link-code flow and persists the resulting session
func (p *Provider) Login(ctx context.Context, observer domain.LoginObserver) error {
	if observer == nil {
		observer = domain.NoOpLoginObserver{}
	}

	p.mu.Lock()
	if p.identity.IsSome() {
		p.mu.Unlock()
		return domain.ErrAlreadyAuthenticated
	}
	if p.loggingIn {
		p.mu.Unlock()
		return fmt.Errorf("login already in progress")
	}
	p.loggingIn = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.loggingIn = false
		p.mu.Unlock()
	}()

	code, err := p.client.RequestLink(ctx)
	if err != nil {
		return fmt.Errorf("request link code: %w", err)
	}
	observer.OnLinkCode(code)

	id, err := p.client.WaitForLink(ctx, code.ID, p.pollTimeout)
	if err != nil {
		return fmt.Errorf("wait for approval: %w", err)
	}

	if err := p.store.SaveSession(id); err != nil {
		p.logger.Warn("failed to persist session", "error", err)
	}

	p.mu.Lock()
	p.identity = domain.Some(id)
	p.mu.Unlock()

	p.logger.Info("logged in", "principal", id.Principal)
	return nil
}

// Clear ends the session and removes it from disk
func (p *Provider) Clear(_ context.Context) error {
	p.mu.Lock()
	p.identity = domain.None[domain.Identity]()
	p.mu.Unlock()

	if err := p.store.ClearSession(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	p.logger.Info("session cleared")
	return nil
}

// Identity returns the active identity. An identity whose delegation has
// expired reads as None.
func (p *Provider) Identity() domain.Option[domain.Identity] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if id, ok := p.identity.Get(); ok && id.Expired(p.now()) {
		return domain.None[domain.Identity]()
	}
	return p.identity
}

func (p *Provider) IsInitializing() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.initializing
}

func (p *Provider) IsLoggingIn() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loggingIn
}
