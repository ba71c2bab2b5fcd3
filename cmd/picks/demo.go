package main

import (
	"github.com/mmcdole/picks/internal/adapter/actor"
	"github.com/mmcdole/picks/internal/domain"
)

// Principals used by --demo. Logging in as demoUser starts with an empty
// showcase; demoOwner already has one to browse with --owner.
const (
	demoUser  domain.Principal = "demo-user"
	demoOwner domain.Principal = "demo-owner"
	demoAdmin domain.Principal = demoUser
)

func seedDemo(mem *actor.Memory) {
	mem.Seed(demoOwner, domain.UserProfile{
		DisplayName:  "Jane Doe",
		Bio:          "Tech reviewer and home-office tinkerer. Everything here is something I use every day.",
		SocialHandle: "@janedoe",
	}, []domain.ProductListing{
		{
			Title:        "Sony WH-1000XM5 Wireless Headphones",
			Description:  "The best noise cancelling I have tried. Great for long flights.",
			ThumbnailURL: "https://m.media-amazon.com/images/I/61vJtKbAssL.jpg",
			AmazonURL:    "https://www.amazon.com/dp/B09XS7JWHH",
			Price:        domain.Some("$399.99"),
		},
		{
			Title:       "Logitech MX Master 3S",
			Description: "Quiet clicks and the scroll wheel alone is worth it.",
			AmazonURL:   "https://www.amazon.com/dp/B09HM94VDS",
			Price:       domain.Some("$99.99"),
		},
		{
			Title:       "Anker USB-C Charging Station",
			Description: "One brick for laptop, phone and watch.",
			AmazonURL:   "https://www.amazon.com/dp/B0BQRBCW41",
			Price:       domain.None[string](),
		},
	})
}
