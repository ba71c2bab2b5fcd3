package showcase

import (
	"errors"
	"testing"

	"github.com/mmcdole/picks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileDraft_BlankNameNeverSubmits(t *testing.T) {
	for _, name := range []string{"", "   ", "\t"} {
		d := ProfileDraft{DisplayName: name, Bio: "something"}
		assert.False(t, d.CanSubmit(), "name %q", name)

		_, err := d.Profile()
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.True(t, verr.Has("displayName"))
	}
}

func TestProfileDraft_Profile(t *testing.T) {
	d := NewProfileDraft(domain.None[domain.UserProfile]())
	assert.Equal(t, ProfileDraft{}, d)

	d.DisplayName = "  Jane Doe "
	d.Bio = "Tech reviewer"
	d.SocialHandle = "@janedoe"
	require.True(t, d.CanSubmit())

	p, err := d.Profile()
	require.NoError(t, err)
	assert.Equal(t, domain.UserProfile{DisplayName: "Jane Doe", Bio: "Tech reviewer", SocialHandle: "@janedoe"}, p)

	// Seeded from an existing profile
	again := NewProfileDraft(domain.Some(p))
	assert.Equal(t, "Jane Doe", again.DisplayName)
}

func TestProfileDraft_BadPhotoURL(t *testing.T) {
	_, err := ProfileDraft{DisplayName: "Jane", ProfilePhotoURL: "not a url"}.Profile()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("profilePhotoUrl"))
}

func TestProductDraft_RequiredFields(t *testing.T) {
	assert.False(t, ProductDraft{Title: "Sony"}.CanSubmit())
	assert.False(t, ProductDraft{AmazonURL: "https://amazon.com/dp/X"}.CanSubmit())
	assert.False(t, ProductDraft{Title: " ", AmazonURL: "https://amazon.com/dp/X"}.CanSubmit())
	assert.True(t, ProductDraft{Title: "Sony", AmazonURL: "https://amazon.com/dp/X"}.CanSubmit())

	_, err := ProductDraft{Title: "Sony", AmazonURL: "amazon"}.Listing()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("amazonUrl"))
}

func TestProductDraft_PriceNormalization(t *testing.T) {
	d := ProductDraft{Title: "Sony WH-1000XM5", AmazonURL: "https://amazon.com/dp/B09XS7JWHH", Price: " $399 "}
	l, err := d.Listing()
	require.NoError(t, err)
	assert.Equal(t, domain.Some("$399"), l.Price)

	d.Price = "   "
	l, err = d.Listing()
	require.NoError(t, err)
	assert.True(t, l.Price.IsNone())

	// Round trip through the edit form keeps the price
	seeded := NewProductDraft(sony())
	assert.Equal(t, "$399", seeded.Price)
}
