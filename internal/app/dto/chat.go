package dto

import (
	domainlistings "imoveis/internal/domain/listings"
)

// ChatAnswer is the reply of the filter assistant.
type ChatAnswer struct {
	Answer   string        `json:"answer"`
	Count    int           `json:"count"`
	Listings []ChatListing `json:"imoveis"`
}

// ChatListing is the compact listing shape shown next to a chat answer.
type ChatListing struct {
	ID           string   `json:"id"`
	Title        string   `json:"titulo"`
	SalePrice    float64  `json:"preco"`
	RentPrice    float64  `json:"valorAluguel"`
	CondoFee     float64  `json:"condominio"`
	PropertyTax  float64  `json:"iptu"`
	Place        string   `json:"local"`
	AreaM2       float64  `json:"areaM2"`
	Bedrooms     int      `json:"quartos"`
	Suites       int      `json:"suites"`
	ParkingSpots int      `json:"vagas"`
	Photos       []string `json:"fotos"`
	Furnished    bool     `json:"mobilado"`
	PetFriendly  bool     `json:"aceitaPet"`
	Category     string   `json:"categoria"`
}

func MapChatListing(l *domainlistings.Listing) ChatListing {
	return ChatListing{
		ID:           string(l.ID),
		Title:        l.Title,
		SalePrice:    l.SalePrice,
		RentPrice:    l.RentPrice,
		CondoFee:     l.CondoFee,
		PropertyTax:  l.PropertyTax,
		Place:        l.Location.Neighborhood + " - " + l.Location.City,
		AreaM2:       l.AreaM2,
		Bedrooms:     l.Bedrooms,
		Suites:       l.Suites,
		ParkingSpots: l.ParkingSpots,
		Photos:       append([]string{}, l.Photos...),
		Furnished:    l.Furnished,
		PetFriendly:  l.PetFriendly,
		Category:     string(l.Category),
	}
}
