package domain

import (
	"context"
)

// ProfileRepository provides network access to user profiles
type ProfileRepository interface {
	// GetCallerUserProfile returns the caller's own profile, or None
	GetCallerUserProfile(ctx context.Context) (Option[UserProfile], error)

	// SaveCallerUserProfile creates or replaces the caller's profile
	SaveCallerUserProfile(ctx context.Context, profile UserProfile) error

	// GetUserProfile returns another user's profile, or None
	GetUserProfile(ctx context.Context, user Principal) (Option[UserProfile], error)
}

// ProductRepository provides network access to product listings
type ProductRepository interface {
	// GetProducts returns the owner's listings in order
	GetProducts(ctx context.Context, user Principal) ([]ProductListing, error)

	// AddProduct appends a listing to the caller's list
	AddProduct(ctx context.Context, product ProductListing) error

	// UpdateProduct replaces the caller's listing at index
	UpdateProduct(ctx context.Context, index uint64, product ProductListing) error

	// RemoveProduct deletes the caller's listing at index, shifting the tail
	RemoveProduct(ctx context.Context, index uint64) error
}

// RoleRepository provides role management on the backend
type RoleRepository interface {
	GetCallerUserRole(ctx context.Context) (UserRole, error)
	IsCallerAdmin(ctx context.Context) (bool, error)
	AssignCallerUserRole(ctx context.Context, user Principal, role UserRole) error
}

// Actor combines every remote operation the backend exposes.
// Implemented by the HTTP actor client and the in-memory actor.
type Actor interface {
	ProfileRepository
	ProductRepository
	RoleRepository
}

// LoginObserver receives progress during an interactive login
type LoginObserver interface {
	// OnLinkCode is called once the identity provider issued a code to approve
	OnLinkCode(code LinkCode)
}

// NoOpLoginObserver discards login progress (for non-interactive callers)
type NoOpLoginObserver struct{}

func (NoOpLoginObserver) OnLinkCode(LinkCode) {}

// IdentityProvider issues and clears the caller identity
type IdentityProvider interface {
	// Login runs the interactive login. Returns ErrAlreadyAuthenticated when
	// a session is already active.
	Login(ctx context.Context, observer LoginObserver) error

	// Clear ends the current session
	Clear(ctx context.Context) error

	// Identity returns the active identity, or None
	Identity() Option[Identity]

	// IsInitializing is true until the persisted session has been restored
	IsInitializing() bool

	// IsLoggingIn is true while a login is in flight
	IsLoggingIn() bool
}
