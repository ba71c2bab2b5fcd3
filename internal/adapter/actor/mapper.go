package actor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mmcdole/picks/internal/domain"
)

// MapProducts converts backend records to domain listings
func MapProducts(dtos []productListingDTO) ([]domain.ProductListing, error) {
	out := make([]domain.ProductListing, 0, len(dtos))
	for i, d := range dtos {
		l, err := mapProduct(d)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		out = append(out, l)
	}
	return out, nil
}

func mapProduct(d productListingDTO) (domain.ProductListing, error) {
	l := domain.ProductListing{
		Title:        d.Title,
		Description:  d.Description,
		ThumbnailURL: d.ThumbnailURL,
		AmazonURL:    d.AmazonURL,
		Price:        domain.None[string](),
	}

	raw := bytes.TrimSpace(d.Price)
	if len(raw) == 0 {
		return l, nil
	}

	// Older backends send the price as a bare string
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return l, err
		}
		if s != "" {
			l.Price = domain.Some(s)
		}
		return l, nil
	}

	if err := json.Unmarshal(raw, &l.Price); err != nil {
		return l, err
	}
	return l, nil
}
