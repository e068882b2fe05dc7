package listings

import (
	"context"
	"errors"

	"imoveis/internal/app/dto"
	"imoveis/internal/app/queries"
	domainlistings "imoveis/internal/domain/listings"
)

const searchCatalogKey = "listings.catalog"

var ErrRepositoryMissing = errors.New("listings: repository not configured")

// SearchCatalogQuery carries the structured catalog filters. Page starts at 1.
type SearchCatalogQuery struct {
	City         string
	Neighborhood string
	Category     domainlistings.Category
	PriceMin     float64
	PriceMax     float64
	BedroomsMin  int
	AreaMin      float64
	Page         int
	Limit        int
}

func (q SearchCatalogQuery) Key() string { return searchCatalogKey }

func (q SearchCatalogQuery) params() domainlistings.SearchParams {
	limit := q.Limit
	page := q.Page
	if page < 1 {
		page = 1
	}
	params := domainlistings.SearchParams{
		City:         q.City,
		Neighborhood: q.Neighborhood,
		Category:     q.Category,
		PriceMin:     q.PriceMin,
		PriceMax:     q.PriceMax,
		BedroomsMin:  q.BedroomsMin,
		AreaMin:      q.AreaMin,
		Limit:        limit,
	}.Normalized()
	params.Offset = (page - 1) * params.Limit
	return params
}

// SearchCatalogHandler serves the public catalog, newest listings first.
type SearchCatalogHandler struct {
	Listings domainlistings.Repository
}

func (h *SearchCatalogHandler) Handle(ctx context.Context, q SearchCatalogQuery) (dto.CatalogPage, error) {
	if h.Listings == nil {
		return dto.CatalogPage{}, ErrRepositoryMissing
	}
	params := q.params()
	result, err := h.Listings.Search(ctx, params)
	if err != nil {
		return dto.CatalogPage{}, err
	}
	return dto.MapCatalogPage(result, params), nil
}

var _ queries.Handler[SearchCatalogQuery, dto.CatalogPage] = (*SearchCatalogHandler)(nil)
