package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfile_Initials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Jane Smith", "JS"},
		{"jane", "J"},
		{"Mary Ann Evans", "MA"},
		{"  ", "?"},
		{"", "?"},
		{"élodie durand", "ÉD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserProfile{DisplayName: tt.name}.Initials())
		})
	}
}

func TestUserProfile_Handle(t *testing.T) {
	assert.Equal(t, "jane", UserProfile{SocialHandle: "@jane"}.Handle())
	assert.Equal(t, "jane", UserProfile{SocialHandle: "jane"}.Handle())
	assert.Equal(t, "", UserProfile{}.Handle())
}

func TestParseUserRole(t *testing.T) {
	r, err := ParseUserRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseUserRole("owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestIdentity_Expired(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	assert.False(t, Identity{}.Expired(now))
	assert.True(t, Identity{ExpiresAt: now}.Expired(now))
	assert.False(t, Identity{ExpiresAt: now.Add(time.Hour)}.Expired(now))
}

func TestPrincipal_Short(t *testing.T) {
	assert.Equal(t, "2vxsx-fae", Principal("2vxsx-fae").Short())
	assert.Equal(t, "rrkah…aaq", Principal("rrkah-fqaaa-aaaaa-aaaaq").Short())
	assert.True(t, Principal("").IsAnonymous())
}
