package showcase

import (
	"strings"

	"github.com/mmcdole/picks/internal/domain"
)

var defaultValidator = NewValidator()

// ProfileDraft is the editable copy of a profile held by a form
type ProfileDraft struct {
	DisplayName     string
	Bio             string
	SocialHandle    string
	ProfilePhotoURL string
}

// NewProfileDraft seeds a draft from an existing profile, or blank when None
func NewProfileDraft(p domain.Option[domain.UserProfile]) ProfileDraft {
	profile, ok := p.Get()
	if !ok {
		return ProfileDraft{}
	}
	return ProfileDraft{
		DisplayName:     profile.DisplayName,
		Bio:             profile.Bio,
		SocialHandle:    profile.SocialHandle,
		ProfilePhotoURL: profile.ProfilePhotoURL,
	}
}

// CanSubmit reports whether every required field is filled in
func (d ProfileDraft) CanSubmit() bool {
	return strings.TrimSpace(d.DisplayName) != ""
}

// Profile converts the draft to a validated profile
func (d ProfileDraft) Profile() (domain.UserProfile, error) {
	p := domain.UserProfile{
		DisplayName:     strings.TrimSpace(d.DisplayName),
		Bio:             d.Bio,
		SocialHandle:    strings.TrimSpace(d.SocialHandle),
		ProfilePhotoURL: strings.TrimSpace(d.ProfilePhotoURL),
	}
	if err := defaultValidator.Validate(p); err != nil {
		return domain.UserProfile{}, err
	}
	return p, nil
}

// ProductDraft is the editable copy of a product listing held by a form
type ProductDraft struct {
	Title        string
	Description  string
	ThumbnailURL string
	AmazonURL    string
	Price        string
}

// NewProductDraft seeds a draft from a listing
func NewProductDraft(l domain.ProductListing) ProductDraft {
	return ProductDraft{
		Title:        l.Title,
		Description:  l.Description,
		ThumbnailURL: l.ThumbnailURL,
		AmazonURL:    l.AmazonURL,
		Price:        l.Price.OrElse(""),
	}
}

// CanSubmit reports whether every required field is filled in
func (d ProductDraft) CanSubmit() bool {
	return strings.TrimSpace(d.Title) != "" && strings.TrimSpace(d.AmazonURL) != ""
}

// Listing converts the draft to a validated listing. A blank price becomes None.
func (d ProductDraft) Listing() (domain.ProductListing, error) {
	l := domain.ProductListing{
		Title:        strings.TrimSpace(d.Title),
		Description:  d.Description,
		ThumbnailURL: strings.TrimSpace(d.ThumbnailURL),
		AmazonURL:    strings.TrimSpace(d.AmazonURL),
		Price:        domain.None[string](),
	}
	if price := strings.TrimSpace(d.Price); price != "" {
		l.Price = domain.Some(price)
	}
	if err := defaultValidator.Validate(l); err != nil {
		return domain.ProductListing{}, err
	}
	return l, nil
}
