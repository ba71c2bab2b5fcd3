package showcase

import (
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/query"
)

// Session is the input to flag derivation: what the identity provider and
// the query cache report right now.
type Session struct {
	Identity       domain.Option[domain.Identity]
	IsInitializing bool

	// Viewed is the owner whose showcase is displayed; None means the caller's own
	Viewed domain.Option[domain.Principal]

	CallerProfile query.State
	Products      query.State
}

// Flags are the presentation switches derived from a Session
type Flags struct {
	IsAuthenticated  bool
	IsOwner          bool
	ProfileLoading   bool
	ProductsLoading  bool
	ShowProfileSetup bool
}

// DeriveFlags computes presentation flags. It is a pure function of the
// session and is recomputed on every update rather than cached.
func DeriveFlags(s Session) Flags {
	id, authenticated := s.Identity.Get()
	resolved := authenticated && !id.Principal.IsAnonymous()

	isOwner := resolved
	if viewed, ok := s.Viewed.Get(); ok && viewed != id.Principal {
		isOwner = false
	}

	profilePending := s.CallerProfile.IsLoading() || (authenticated && !s.CallerProfile.Fetched && s.CallerProfile.Status != query.StatusError)

	f := Flags{
		IsAuthenticated: authenticated,
		IsOwner:         isOwner,
		ProfileLoading:  s.IsInitializing || (authenticated && profilePending),
	}

	// Visitors always see the grid; the caller's own grid only loads once signed in
	if s.Viewed.IsSome() || authenticated {
		f.ProductsLoading = s.Products.IsLoading() || (!s.Products.Fetched && s.Products.Status != query.StatusError)
	}

	// A stale None stays on screen while the post-save refetch runs, so the
	// setup modal does not flicker closed and open again.
	f.ShowProfileSetup = authenticated &&
		s.CallerProfile.Fetched &&
		s.CallerProfile.HasData &&
		CachedProfile(s.CallerProfile).IsNone()

	return f
}
