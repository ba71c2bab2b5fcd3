package actor

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/picks/internal/domain"
)

// Provider hands out an HTTP actor bound to the current identity.
// The client is rebuilt whenever the delegation changes.
type Provider struct {
	baseURL  string
	timeout  time.Duration
	identity domain.IdentityProvider
	logger   *slog.Logger

	mu         sync.Mutex
	client     *Client
	delegation string
}

// NewProvider creates a provider for the backend at baseURL
func NewProvider(baseURL string, timeout time.Duration, identity domain.IdentityProvider, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{baseURL: baseURL, timeout: timeout, identity: identity, logger: logger}
}

// Actor returns the current actor. It is not ready while the identity is
// still being restored or when no backend is configured. Without an
// identity the actor calls anonymously.
func (p *Provider) Actor() (domain.Actor, bool) {
	if p.baseURL == "" || p.identity.IsInitializing() {
		return nil, false
	}

	delegation := ""
	if id, ok := p.identity.Identity().Get(); ok {
		delegation = id.Delegation
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil || p.delegation != delegation {
		p.logger.Debug("building actor client", "anonymous", delegation == "")
		p.client = NewClient(p.baseURL, delegation, p.timeout, p.logger)
		p.delegation = delegation
	}
	return p.client, true
}

// MemorySource binds a Memory backend to the current identity
type MemorySource struct {
	mem      *Memory
	identity domain.IdentityProvider
}

// NewMemorySource creates a source over mem
func NewMemorySource(mem *Memory, identity domain.IdentityProvider) *MemorySource {
	return &MemorySource{mem: mem, identity: identity}
}

func (s *MemorySource) Actor() (domain.Actor, bool) {
	if s.identity.IsInitializing() {
		return nil, false
	}
	var caller domain.Principal
	if id, ok := s.identity.Identity().Get(); ok {
		caller = id.Principal
	}
	return s.mem.As(caller), true
}
