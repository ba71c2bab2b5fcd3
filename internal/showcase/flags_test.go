package showcase

import (
	"testing"

	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/query"
	"github.com/stretchr/testify/assert"
)

func signedIn(p domain.Principal) domain.Option[domain.Identity] {
	return domain.Some(domain.Identity{Principal: p, Delegation: "tok"})
}

func loaded(v any) query.State {
	return query.State{Status: query.StatusSuccess, Data: v, HasData: true, Fetched: true}
}

func TestDeriveFlags(t *testing.T) {
	none := domain.None[domain.UserProfile]()
	jd := domain.Some(domain.UserProfile{DisplayName: "Jane Doe"})
	noProducts := loaded([]domain.ProductListing{})

	tests := []struct {
		name    string
		session Session
		want    Flags
	}{
		{
			name:    "initializing",
			session: Session{IsInitializing: true},
			want:    Flags{ProfileLoading: true},
		},
		{
			name:    "anonymous visitor of nobody",
			session: Session{Identity: domain.None[domain.Identity]()},
			want:    Flags{},
		},
		{
			name: "authenticated, profile pending",
			session: Session{
				Identity:      signedIn(jane),
				CallerProfile: query.State{Status: query.StatusLoading},
				Products:      noProducts,
			},
			want: Flags{IsAuthenticated: true, IsOwner: true, ProfileLoading: true},
		},
		{
			name: "authenticated, profile never fetched",
			session: Session{
				Identity: signedIn(jane),
				Products: noProducts,
			},
			want: Flags{IsAuthenticated: true, IsOwner: true, ProfileLoading: true},
		},
		{
			name: "first login shows setup",
			session: Session{
				Identity:      signedIn(jane),
				CallerProfile: loaded(none),
				Products:      noProducts,
			},
			want: Flags{IsAuthenticated: true, IsOwner: true, ShowProfileSetup: true},
		},
		{
			name: "setup stays up during refetch",
			session: Session{
				Identity: signedIn(jane),
				CallerProfile: query.State{
					Status: query.StatusLoading, Data: none, HasData: true, Fetched: true, Stale: true,
				},
				Products: noProducts,
			},
			want: Flags{IsAuthenticated: true, IsOwner: true, ShowProfileSetup: true},
		},
		{
			name: "profile present",
			session: Session{
				Identity:      signedIn(jane),
				CallerProfile: loaded(jd),
				Products:      noProducts,
			},
			want: Flags{IsAuthenticated: true, IsOwner: true},
		},
		{
			name: "profile fetch failed",
			session: Session{
				Identity:      signedIn(jane),
				CallerProfile: query.State{Status: query.StatusError, Fetched: true},
				Products:      noProducts,
			},
			want: Flags{IsAuthenticated: true, IsOwner: true},
		},
		{
			name: "visiting someone else",
			session: Session{
				Identity:      signedIn(jane),
				Viewed:        domain.Some(domain.Principal("other")),
				CallerProfile: loaded(jd),
				Products:      query.State{Status: query.StatusLoading},
			},
			want: Flags{IsAuthenticated: true, ProductsLoading: true},
		},
		{
			name: "viewing own showcase by principal",
			session: Session{
				Identity:      signedIn(jane),
				Viewed:        domain.Some(jane),
				CallerProfile: loaded(jd),
				Products:      noProducts,
			},
			want: Flags{IsAuthenticated: true, IsOwner: true},
		},
		{
			name: "anonymous visitor",
			session: Session{
				Viewed:   domain.Some(domain.Principal("other")),
				Products: query.State{Status: query.StatusLoading},
			},
			want: Flags{ProductsLoading: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveFlags(tt.session))
		})
	}
}

func TestDeriveFlags_SetupRequiresAuthentication(t *testing.T) {
	f := DeriveFlags(Session{
		CallerProfile: loaded(domain.None[domain.UserProfile]()),
	})
	assert.False(t, f.ShowProfileSetup)
}
