package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Principal is the textual identifier of an identity, as issued by the
// identity provider. The zero value is the anonymous principal.
type Principal string

// String returns the textual form of the principal
func (p Principal) String() string {
	return string(p)
}

// IsAnonymous returns true for the empty principal
func (p Principal) IsAnonymous() bool {
	return strings.TrimSpace(string(p)) == ""
}

// Short returns an abbreviated principal for display ("abcde-…-xyz")
func (p Principal) Short() string {
	s := string(p)
	if len(s) <= 16 {
		return s
	}
	return s[:5] + "…" + s[len(s)-3:]
}

// UserProfile is the public profile of one identity.
// At most one profile exists per principal; it is created on first save.
type UserProfile struct {
	DisplayName     string `json:"displayName" validate:"required"`
	Bio             string `json:"bio"`
	SocialHandle    string `json:"socialHandle"`
	ProfilePhotoURL string `json:"profilePhotoUrl" validate:"omitempty,http_url"`
}

// Initials returns up to two upper-case initials of the display name,
// or "?" when the name is blank
func (p UserProfile) Initials() string {
	var b strings.Builder
	for _, word := range strings.Fields(p.DisplayName) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		if utf8.RuneCountInString(b.String()) == 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// Handle returns the social handle without any leading '@'
func (p UserProfile) Handle() string {
	return strings.TrimLeft(strings.TrimSpace(p.SocialHandle), "@")
}

// ProductListing is one recommended product in an owner's showcase.
// Listings are identified by their position in the owner's list; removing
// index i shifts every later listing down by one.
type ProductListing struct {
	Title        string         `json:"title" validate:"required"`
	Description  string         `json:"description"`
	ThumbnailURL string         `json:"thumbnailUrl" validate:"omitempty,http_url"`
	AmazonURL    string         `json:"amazonUrl" validate:"required,http_url"`
	Price        Option[string] `json:"price"`
}

// HasThumbnail reports whether a thumbnail URL is set
func (l ProductListing) HasThumbnail() bool {
	return strings.TrimSpace(l.ThumbnailURL) != ""
}

// UserRole is the access-control role of a caller on the backend
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
	RoleGuest UserRole = "guest"
)

// ParseUserRole converts a string into a UserRole
func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	case RoleGuest:
		return RoleGuest, nil
	default:
		return "", ErrInvalidRole
	}
}

// Identity is an authenticated session issued by the identity provider
type Identity struct {
	Principal  Principal `json:"principal"`
	Delegation string    `json:"delegation"` // bearer credential for actor calls
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Expired returns true if the delegation has a deadline that has passed
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// LinkCode is the short code a user enters at the identity provider to
// approve a login started from this client
type LinkCode struct {
	ID   string
	Code string
	URL  string
}
