package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domainlistings "imoveis/internal/domain/listings"
)

// ListingRepository keeps listings in a map. Stored values are copies, so
// callers never share mutable state with the store.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlistings.ListingID]*domainlistings.Listing),
	}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("memory: listing %s: %w", id, domainlistings.ErrNotFound)
	}
	return cloneListing(listing), nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	if listing == nil {
		return fmt.Errorf("memory: nil listing")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[listing.ID] = cloneListing(listing)
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("memory: listing %s: %w", id, domainlistings.ErrNotFound)
	}
	delete(r.items, id)
	return nil
}

func (r *ListingRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

// Search filters with SearchParams.Matches and orders by creation time,
// newest first, breaking ties by id.
func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) (domainlistings.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return domainlistings.SearchResult{}, err
	}
	params = params.Normalized()

	r.mu.RLock()
	matched := make([]*domainlistings.Listing, 0, len(r.items))
	for _, listing := range r.items {
		if params.Matches(listing) {
			matched = append(matched, cloneListing(listing))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	if params.All {
		return domainlistings.SearchResult{Items: matched, Total: total}, nil
	}
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	return domainlistings.SearchResult{Items: matched[start:end], Total: total}, nil
}

func cloneListing(l *domainlistings.Listing) *domainlistings.Listing {
	clone := &domainlistings.Listing{
		ID:           l.ID,
		Title:        l.Title,
		Description:  l.Description,
		SalePrice:    l.SalePrice,
		RentPrice:    l.RentPrice,
		CondoFee:     l.CondoFee,
		PropertyTax:  l.PropertyTax,
		Location:     l.Location,
		AreaM2:       l.AreaM2,
		Bedrooms:     l.Bedrooms,
		Suites:       l.Suites,
		ParkingSpots: l.ParkingSpots,
		Photos:       append([]string(nil), l.Photos...),
		Furnished:    l.Furnished,
		PetFriendly:  l.PetFriendly,
		Category:     l.Category,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	return clone
}

var _ domainlistings.Repository = (*ListingRepository)(nil)
