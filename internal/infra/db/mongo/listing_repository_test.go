package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	domainlistings "imoveis/internal/domain/listings"
)

func TestSearchFilter(t *testing.T) {
	filter := searchFilter(domainlistings.SearchParams{
		City:        "Sao Paulo",
		Category:    domainlistings.CategoryRent,
		PriceMax:    3000,
		BedroomsMin: 2,
	})
	if filter["localizacao.cidade"] != "Sao Paulo" || filter["categoria"] != "Aluguel" {
		t.Errorf("filter = %v", filter)
	}
	if _, ok := filter["localizacao.bairro"]; ok {
		t.Error("empty neighborhood must not be filtered")
	}
	price, ok := filter["precoAtivo"].(bson.M)
	if !ok || price["$lte"] != 3000.0 {
		t.Errorf("precoAtivo = %v", filter["precoAtivo"])
	}
	if _, ok := price["$gte"]; ok {
		t.Error("zero min price must not be filtered")
	}
	if q, ok := filter["quartos"].(bson.M); !ok || q["$gte"] != 2 {
		t.Errorf("quartos = %v", filter["quartos"])
	}
	if len(searchFilter(domainlistings.SearchParams{})) != 0 {
		t.Error("empty params should match everything")
	}
}

func TestListingDocumentRoundTrip(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	listing := &domainlistings.Listing{
		ID:        "abc",
		Title:     "Apartamento",
		SalePrice: 100000,
		RentPrice: 2500,
		Location:  domainlistings.Location{City: "Campinas", Neighborhood: "Cambui"},
		AreaM2:    70,
		Bedrooms:  2,
		Category:  domainlistings.CategoryRent,
		CreatedAt: created,
		UpdatedAt: created,
	}
	doc := newListingDocument(listing)
	if doc.ActivePrice != 2500 {
		t.Errorf("ActivePrice = %v, want rent price", doc.ActivePrice)
	}
	if doc.Photos == nil {
		t.Error("photos should be stored as an empty array")
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded listingDocument
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	back := decoded.toAggregate()
	if back.ID != "abc" || back.Location.Neighborhood != "Cambui" || back.Category != domainlistings.CategoryRent {
		t.Errorf("aggregate = %+v", back)
	}
	if !back.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v", back.CreatedAt)
	}
}
