package dto

import (
	"time"

	domainlistings "imoveis/internal/domain/listings"
)

// Listing is the public representation of a listing. Field names follow the
// Portuguese wire format consumed by the web pages.
type Listing struct {
	ID           string    `json:"_id"`
	Title        string    `json:"titulo"`
	Description  string    `json:"descricao"`
	SalePrice    float64   `json:"preco"`
	RentPrice    float64   `json:"valorAluguel"`
	CondoFee     float64   `json:"condominio"`
	PropertyTax  float64   `json:"iptu"`
	Location     Location  `json:"localizacao"`
	AreaM2       float64   `json:"areaM2"`
	Bedrooms     int       `json:"quartos"`
	Suites       int       `json:"suites"`
	ParkingSpots int       `json:"vagas"`
	Photos       []string  `json:"fotos"`
	Furnished    bool      `json:"mobilado"`
	PetFriendly  bool      `json:"aceitaPet"`
	Category     string    `json:"categoria"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Location struct {
	City         string `json:"cidade"`
	Neighborhood string `json:"bairro"`
}

func MapListing(l *domainlistings.Listing) Listing {
	photos := append([]string{}, l.Photos...)
	return Listing{
		ID:           string(l.ID),
		Title:        l.Title,
		Description:  l.Description,
		SalePrice:    l.SalePrice,
		RentPrice:    l.RentPrice,
		CondoFee:     l.CondoFee,
		PropertyTax:  l.PropertyTax,
		Location:     Location{City: l.Location.City, Neighborhood: l.Location.Neighborhood},
		AreaM2:       l.AreaM2,
		Bedrooms:     l.Bedrooms,
		Suites:       l.Suites,
		ParkingSpots: l.ParkingSpots,
		Photos:       photos,
		Furnished:    l.Furnished,
		PetFriendly:  l.PetFriendly,
		Category:     string(l.Category),
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// CatalogPage is a page of the public catalog.
type CatalogPage struct {
	Data       []Listing  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func MapCatalogPage(result domainlistings.SearchResult, params domainlistings.SearchParams) CatalogPage {
	normalized := params.Normalized()
	items := make([]Listing, 0, len(result.Items))
	for _, l := range result.Items {
		items = append(items, MapListing(l))
	}
	page := 1
	totalPages := 0
	if normalized.Limit > 0 {
		page = normalized.Offset/normalized.Limit + 1
		totalPages = (result.Total + normalized.Limit - 1) / normalized.Limit
	}
	return CatalogPage{
		Data: items,
		Pagination: Pagination{
			Page:       page,
			Limit:      normalized.Limit,
			Total:      result.Total,
			TotalPages: totalPages,
		},
	}
}
