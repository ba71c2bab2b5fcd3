// Package showcase is the data synchronization layer: every remote actor
// operation wrapped as a cached query or a mutation that invalidates the
// queries it affects.
package showcase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/query"
)

// ActorSource yields the current actor handle, if one is ready
type ActorSource interface {
	Actor() (domain.Actor, bool)
}

// Service orchestrates actor calls and the query cache.
type Service struct {
	actors   ActorSource
	identity domain.IdentityProvider
	cache    *query.Cache
	logger   *slog.Logger

	// Product mutations address items by position, so they run one at a
	// time and each sees the list left by the previous one.
	productMu sync.Mutex
}

// NewService creates a new showcase service.
func NewService(actors ActorSource, identity domain.IdentityProvider, cache *query.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = query.NewCache(logger)
	}
	return &Service{actors: actors, identity: identity, cache: cache, logger: logger}
}

// Cache returns the underlying query cache
func (s *Service) Cache() *query.Cache {
	return s.cache
}

// CallerPrincipal returns the principal of the active identity, or None
func (s *Service) CallerPrincipal() domain.Option[domain.Principal] {
	id, ok := s.identity.Identity().Get()
	if !ok || id.Principal.IsAnonymous() {
		return domain.None[domain.Principal]()
	}
	return domain.Some(id.Principal)
}

func (s *Service) actor() (domain.Actor, bool) {
	if s.actors == nil {
		return nil, false
	}
	return s.actors.Actor()
}

// === Queries (cache-only, never block on network) ===

// CallerProfileState returns the cached state of the caller's profile
func (s *Service) CallerProfileState() query.State {
	st, _ := s.cache.Peek(KeyCallerProfile)
	return st
}

// UserProfileState returns the cached state of a user's profile
func (s *Service) UserProfileState(p domain.Principal) query.State {
	st, _ := s.cache.Peek(UserProfileKey(p))
	return st
}

// ProductsState returns the cached state of a user's product list
func (s *Service) ProductsState(p domain.Principal) query.State {
	st, _ := s.cache.Peek(ProductsKey(p))
	return st
}

// CachedProducts returns the cached product list for p, empty when absent
func (s *Service) CachedProducts(p domain.Principal) []domain.ProductListing {
	if products, ok := s.ProductsState(p).Data.([]domain.ProductListing); ok {
		return products
	}
	return []domain.ProductListing{}
}

// CachedProfile returns the cached profile for the state, None when absent
// or not loaded
func CachedProfile(st query.State) domain.Option[domain.UserProfile] {
	if p, ok := st.Data.(domain.Option[domain.UserProfile]); ok {
		return p
	}
	return domain.None[domain.UserProfile]()
}

// === Fetches ===

// FetchCallerProfile returns the caller's profile, or None when the caller
// has never saved one. Disabled until an identity and an actor both exist.
func (s *Service) FetchCallerProfile(ctx context.Context) (domain.Option[domain.UserProfile], error) {
	actor, ok := s.actor()
	if !ok || s.CallerPrincipal().IsNone() {
		return domain.None[domain.UserProfile](), query.ErrDisabled
	}

	profile, err := query.Fetch(ctx, s.cache, KeyCallerProfile, actor.GetCallerUserProfile)
	if err != nil {
		s.logger.Error("failed to fetch caller profile", "error", err)
		return domain.None[domain.UserProfile](), err
	}
	s.logger.Debug("fetched caller profile", "present", profile.IsSome())
	return profile, nil
}

// FetchUserProfile returns another user's profile, or None.
// Disabled until owner is set and an actor exists.
func (s *Service) FetchUserProfile(ctx context.Context, owner domain.Principal) (domain.Option[domain.UserProfile], error) {
	actor, ok := s.actor()
	if !ok || owner.IsAnonymous() {
		return domain.None[domain.UserProfile](), query.ErrDisabled
	}

	profile, err := query.Fetch(ctx, s.cache, UserProfileKey(owner), func(ctx context.Context) (domain.Option[domain.UserProfile], error) {
		return actor.GetUserProfile(ctx, owner)
	})
	if err != nil {
		s.logger.Error("failed to fetch user profile", "error", err, "principal", owner)
		return domain.None[domain.UserProfile](), err
	}
	return profile, nil
}

// FetchProducts returns the owner's product list in order. An absent owner
// yields an empty list without a remote call.
func (s *Service) FetchProducts(ctx context.Context, owner domain.Principal) ([]domain.ProductListing, error) {
	if owner.IsAnonymous() {
		return []domain.ProductListing{}, nil
	}
	actor, ok := s.actor()
	if !ok {
		return []domain.ProductListing{}, query.ErrDisabled
	}

	products, err := query.Fetch(ctx, s.cache, ProductsKey(owner), func(ctx context.Context) ([]domain.ProductListing, error) {
		list, err := actor.GetProducts(ctx, owner)
		if list == nil {
			list = []domain.ProductListing{}
		}
		return list, err
	})
	if err != nil {
		s.logger.Error("failed to fetch products", "error", err, "principal", owner)
		return []domain.ProductListing{}, err
	}
	s.logger.Debug("fetched products", "count", len(products), "principal", owner)
	return products, nil
}

// === Mutations (each invalidates affected queries after success) ===

// SaveProfile creates or replaces the caller's profile
func (s *Service) SaveProfile(ctx context.Context, profile domain.UserProfile) error {
	actor, ok := s.actor()
	if !ok {
		return domain.ErrClientNotReady
	}

	if err := actor.SaveCallerUserProfile(ctx, profile); err != nil {
		s.logger.Error("failed to save profile", "error", err)
		return err
	}

	s.cache.Invalidate(KeyCallerProfile)
	if p, ok := s.CallerPrincipal().Get(); ok {
		s.cache.Invalidate(UserProfileKey(p))
	}
	s.logger.Info("saved profile", "displayName", profile.DisplayName)
	return nil
}

// AddProduct appends a listing to the caller's list
func (s *Service) AddProduct(ctx context.Context, product domain.ProductListing) error {
	return s.mutateProducts(ctx, "add", -1, func(ctx context.Context, actor domain.Actor) error {
		return actor.AddProduct(ctx, product)
	})
}

// UpdateProduct replaces the caller's listing at index
func (s *Service) UpdateProduct(ctx context.Context, index int, product domain.ProductListing) error {
	if index < 0 {
		return domain.ErrIndexOutOfRange
	}
	return s.mutateProducts(ctx, "update", index, func(ctx context.Context, actor domain.Actor) error {
		return actor.UpdateProduct(ctx, uint64(index), product)
	})
}

// RemoveProduct deletes the caller's listing at index
func (s *Service) RemoveProduct(ctx context.Context, index int) error {
	if index < 0 {
		return domain.ErrIndexOutOfRange
	}
	return s.mutateProducts(ctx, "remove", index, func(ctx context.Context, actor domain.Actor) error {
		return actor.RemoveProduct(ctx, uint64(index))
	})
}

func (s *Service) mutateProducts(ctx context.Context, op string, index int, call func(context.Context, domain.Actor) error) error {
	actor, ok := s.actor()
	if !ok {
		return domain.ErrClientNotReady
	}

	s.productMu.Lock()
	defer s.productMu.Unlock()

	if err := call(ctx, actor); err != nil {
		s.logger.Error("product mutation failed", "op", op, "index", index, "error", err)
		return err
	}

	if p, ok := s.CallerPrincipal().Get(); ok {
		s.cache.Invalidate(ProductsKey(p))
	}
	s.logger.Info("product mutation applied", "op", op, "index", index)
	return nil
}

// === Roles ===

// CallerRole returns the caller's role on the backend
func (s *Service) CallerRole(ctx context.Context) (domain.UserRole, error) {
	actor, ok := s.actor()
	if !ok {
		return "", domain.ErrClientNotReady
	}
	return query.Fetch(ctx, s.cache, callerRoleKey(), actor.GetCallerUserRole)
}

// IsCallerAdmin reports whether the caller holds the admin role
func (s *Service) IsCallerAdmin(ctx context.Context) (bool, error) {
	actor, ok := s.actor()
	if !ok {
		return false, domain.ErrClientNotReady
	}
	return query.Fetch(ctx, s.cache, callerAdminKey(), actor.IsCallerAdmin)
}

// AssignRole assigns role to user. Requires the caller to be an admin on
// the backend.
func (s *Service) AssignRole(ctx context.Context, user domain.Principal, role domain.UserRole) error {
	actor, ok := s.actor()
	if !ok {
		return domain.ErrClientNotReady
	}
	if err := actor.AssignCallerUserRole(ctx, user, role); err != nil {
		s.logger.Error("failed to assign role", "error", err, "principal", user, "role", role)
		return err
	}
	s.cache.Invalidate(PrefixRole)
	s.logger.Info("assigned role", "principal", user, "role", role)
	return nil
}
