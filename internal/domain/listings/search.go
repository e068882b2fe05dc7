package listings

import (
	"strings"
)

const (
	DefaultSearchLimit = 12
	MaxSearchLimit     = 50
)

// SearchParams describe the structured catalog filters applied by storage,
// before any free-text refinement.
type SearchParams struct {
	City         string
	Neighborhood string
	Category     Category
	PriceMin     float64
	PriceMax     float64
	BedroomsMin  int
	AreaMin      float64
	Limit        int
	Offset       int
	// All disables paging. Used by the admin listing.
	All bool
}

// Normalized returns a sanitized copy of params.
func (p SearchParams) Normalized() SearchParams {
	normalized := p
	normalized.City = strings.TrimSpace(normalized.City)
	normalized.Neighborhood = strings.TrimSpace(normalized.Neighborhood)
	if !normalized.Category.Valid() {
		normalized.Category = ""
	}
	if normalized.PriceMin < 0 {
		normalized.PriceMin = 0
	}
	if normalized.PriceMax < 0 {
		normalized.PriceMax = 0
	}
	if normalized.BedroomsMin < 0 {
		normalized.BedroomsMin = 0
	}
	if normalized.AreaMin < 0 {
		normalized.AreaMin = 0
	}
	if normalized.Offset < 0 {
		normalized.Offset = 0
	}
	if normalized.All {
		normalized.Limit = 0
		normalized.Offset = 0
		return normalized
	}
	if normalized.Limit <= 0 {
		normalized.Limit = DefaultSearchLimit
	}
	if normalized.Limit > MaxSearchLimit {
		normalized.Limit = MaxSearchLimit
	}
	return normalized
}

// Matches applies the structured filters to a single listing. Stores that
// cannot push the filters down use it directly.
func (p SearchParams) Matches(listing *Listing) bool {
	if listing == nil {
		return false
	}
	if p.City != "" && listing.Location.City != p.City {
		return false
	}
	if p.Neighborhood != "" && listing.Location.Neighborhood != p.Neighborhood {
		return false
	}
	if p.Category != "" && listing.Category != p.Category {
		return false
	}
	price := listing.ActivePrice()
	if p.PriceMin > 0 && price < p.PriceMin {
		return false
	}
	if p.PriceMax > 0 && price > p.PriceMax {
		return false
	}
	if p.BedroomsMin > 0 && listing.Bedrooms < p.BedroomsMin {
		return false
	}
	if p.AreaMin > 0 && listing.AreaM2 < p.AreaMin {
		return false
	}
	return true
}

// SearchResult wraps search hits with meta.
type SearchResult struct {
	Items []*Listing
	Total int
}
