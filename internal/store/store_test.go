package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/picks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_MemoryOnly(t *testing.T) {
	s, err := NewSessionStore("")
	require.NoError(t, err)
	defer s.Close()

	got, err := s.LoadSession()
	require.NoError(t, err)
	assert.True(t, got.IsNone())

	id := domain.Identity{Principal: "aaaaa-bbbbb", Delegation: "tok"}
	require.NoError(t, s.SaveSession(id))

	got, err = s.LoadSession()
	require.NoError(t, err)
	loaded, ok := got.Get()
	require.True(t, ok)
	assert.Equal(t, id.Principal, loaded.Principal)

	require.NoError(t, s.ClearSession())
	got, err = s.LoadSession()
	require.NoError(t, err)
	assert.True(t, got.IsNone())
}

func TestSessionStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	s, err := NewSessionStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveSession(domain.Identity{
		Principal:  "2vxsx-fae",
		Delegation: "delegation-token",
		ExpiresAt:  expires,
	}))
	require.NoError(t, s.Close())

	s, err = NewSessionStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.LoadSession()
	require.NoError(t, err)
	id, ok := got.Get()
	require.True(t, ok)
	assert.Equal(t, domain.Principal("2vxsx-fae"), id.Principal)
	assert.Equal(t, "delegation-token", id.Delegation)
	assert.True(t, expires.Equal(id.ExpiresAt))
}

func TestSessionStore_ClearIsDurable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := NewSessionStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveSession(domain.Identity{Principal: "p1"}))
	require.NoError(t, s.ClearSession())
	require.NoError(t, s.Close())

	s, err = NewSessionStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.LoadSession()
	require.NoError(t, err)
	assert.True(t, got.IsNone())
}
