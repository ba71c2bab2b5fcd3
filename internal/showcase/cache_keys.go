package showcase

import (
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/query"
)

// Cache keys for showcase queries
const (
	// KeyCallerProfile is the cache key for the caller's own profile
	KeyCallerProfile query.Key = "currentUserProfile"

	// PrefixUserProfile is the prefix for other users' profiles (userProfile:{principal})
	PrefixUserProfile query.Key = "userProfile"

	// PrefixProducts is the prefix for product lists (products:{principal})
	PrefixProducts query.Key = "products"

	// PrefixRole is the prefix for role lookups (role:caller, role:admin)
	PrefixRole query.Key = "role"
)

// UserProfileKey returns the cache key for a user's profile
func UserProfileKey(p domain.Principal) query.Key {
	return query.NewKey(string(PrefixUserProfile), p.String())
}

// ProductsKey returns the cache key for a user's product list
func ProductsKey(p domain.Principal) query.Key {
	return query.NewKey(string(PrefixProducts), p.String())
}

func callerRoleKey() query.Key {
	return query.NewKey(string(PrefixRole), "caller")
}

func callerAdminKey() query.Key {
	return query.NewKey(string(PrefixRole), "admin")
}
