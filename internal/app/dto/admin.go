package dto

import (
	"time"

	domainlistings "imoveis/internal/domain/listings"
)

// AdminListingSummary is a row of the admin listing table.
type AdminListingSummary struct {
	ID        string    `json:"_id"`
	Title     string    `json:"titulo"`
	Category  string    `json:"categoria"`
	Location  Location  `json:"localizacao"`
	SalePrice float64   `json:"preco"`
	RentPrice float64   `json:"valorAluguel"`
	CreatedAt time.Time `json:"createdAt"`
}

func MapAdminSummary(l *domainlistings.Listing) AdminListingSummary {
	return AdminListingSummary{
		ID:        string(l.ID),
		Title:     l.Title,
		Category:  string(l.Category),
		Location:  Location{City: l.Location.City, Neighborhood: l.Location.Neighborhood},
		SalePrice: l.SalePrice,
		RentPrice: l.RentPrice,
		CreatedAt: l.CreatedAt,
	}
}

type CreatedListing struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type DeletedListing struct {
	Message string `json:"message"`
}
