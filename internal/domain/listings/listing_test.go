package listings

import (
	"errors"
	"testing"
	"time"
)

func validParams() CreateListingParams {
	return CreateListingParams{
		ID:           "abc",
		Title:        "  Apartamento Garden no Itaim ",
		Description:  "Garden com area externa privativa.",
		RentPrice:    18000,
		SalePrice:    18000,
		CondoFee:     2200,
		PropertyTax:  650,
		Location:     Location{City: "Sao Paulo", Neighborhood: "Itaim Bibi"},
		AreaM2:       180,
		Bedrooms:     2,
		Suites:       2,
		ParkingSpots: 2,
		Photos:       []string{" /uploads/a.jpg "},
		PetFriendly:  true,
		Category:     CategoryRent,
		Now:          time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewListing(t *testing.T) {
	listing, err := NewListing(validParams())
	if err != nil {
		t.Fatalf("NewListing: %v", err)
	}
	if listing.Title != "Apartamento Garden no Itaim" {
		t.Errorf("Title = %q", listing.Title)
	}
	if listing.Photos[0] != "/uploads/a.jpg" {
		t.Errorf("Photos = %v", listing.Photos)
	}
	events := listing.PendingEvents()
	if len(events) != 1 || events[0].EventName() != EventListingCreated {
		t.Fatalf("expected one %s event, got %v", EventListingCreated, events)
	}
	if events[0].AggregateID() != "abc" {
		t.Errorf("AggregateID = %q", events[0].AggregateID())
	}
}

func TestNewListingValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateListingParams)
		want   error
	}{
		{name: "title", mutate: func(p *CreateListingParams) { p.Title = " " }, want: ErrTitleRequired},
		{name: "description", mutate: func(p *CreateListingParams) { p.Description = "" }, want: ErrDescriptionRequired},
		{name: "location", mutate: func(p *CreateListingParams) { p.Location.Neighborhood = "" }, want: ErrLocationRequired},
		{name: "category", mutate: func(p *CreateListingParams) { p.Category = "Permuta" }, want: ErrInvalidCategory},
		{name: "area", mutate: func(p *CreateListingParams) { p.AreaM2 = 0 }, want: ErrArea},
		{name: "counts", mutate: func(p *CreateListingParams) { p.Suites = -1 }, want: ErrNegativeCount},
		{name: "prices", mutate: func(p *CreateListingParams) { p.CondoFee = -1 }, want: ErrNegativePrice},
		{name: "rent price", mutate: func(p *CreateListingParams) { p.RentPrice = 0 }, want: ErrRentPriceRequired},
		{
			name: "sale price",
			mutate: func(p *CreateListingParams) {
				p.Category = CategorySale
				p.SalePrice = 0
			},
			want: ErrSalePriceRequired,
		},
		{name: "photo", mutate: func(p *CreateListingParams) { p.Photos = []string{""} }, want: ErrPhotoURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			_, err := NewListing(params)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if !IsValidationError(err) {
				t.Errorf("IsValidationError(%v) = false", err)
			}
		})
	}
}

func TestActivePrice(t *testing.T) {
	tests := []struct {
		name    string
		listing Listing
		want    float64
	}{
		{name: "sale", listing: Listing{Category: CategorySale, SalePrice: 100, RentPrice: 5}, want: 100},
		{name: "rent", listing: Listing{Category: CategoryRent, SalePrice: 100, RentPrice: 5}, want: 5},
		{name: "rent without rent price", listing: Listing{Category: CategoryRent, SalePrice: 100}, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.listing.ActivePrice(); got != tt.want {
				t.Errorf("ActivePrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := ParseCategory(" venda "); !ok || c != CategorySale {
		t.Errorf("ParseCategory(venda) = %q, %v", c, ok)
	}
	if c, ok := ParseCategory("ALUGUEL"); !ok || c != CategoryRent {
		t.Errorf("ParseCategory(ALUGUEL) = %q, %v", c, ok)
	}
	if _, ok := ParseCategory("permuta"); ok {
		t.Error("ParseCategory(permuta) should fail")
	}
}

func TestSearchParamsNormalized(t *testing.T) {
	got := SearchParams{City: " Sao Paulo ", Category: "x", Limit: 500, Offset: -3, PriceMin: -1}.Normalized()
	if got.City != "Sao Paulo" || got.Category != "" || got.Limit != MaxSearchLimit || got.Offset != 0 || got.PriceMin != 0 {
		t.Errorf("Normalized() = %+v", got)
	}
	if got := (SearchParams{}).Normalized(); got.Limit != DefaultSearchLimit {
		t.Errorf("default limit = %d", got.Limit)
	}
	if got := (SearchParams{All: true, Limit: 3, Offset: 9}).Normalized(); got.Limit != 0 || got.Offset != 0 {
		t.Errorf("All should disable paging, got %+v", got)
	}
}

func TestSearchParamsMatches(t *testing.T) {
	listing := &Listing{
		Category:  CategoryRent,
		SalePrice: 18000,
		RentPrice: 18000,
		Location:  Location{City: "Sao Paulo", Neighborhood: "Itaim Bibi"},
		AreaM2:    180,
		Bedrooms:  2,
	}
	tests := []struct {
		name   string
		params SearchParams
		want   bool
	}{
		{name: "empty", params: SearchParams{}, want: true},
		{name: "city", params: SearchParams{City: "Sao Paulo"}, want: true},
		{name: "other neighborhood", params: SearchParams{Neighborhood: "Centro"}, want: false},
		{name: "category", params: SearchParams{Category: CategorySale}, want: false},
		{name: "price inclusive", params: SearchParams{PriceMin: 18000, PriceMax: 18000}, want: true},
		{name: "price too high", params: SearchParams{PriceMin: 20000}, want: false},
		{name: "bedrooms", params: SearchParams{BedroomsMin: 3}, want: false},
		{name: "area", params: SearchParams{AreaMin: 180}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Matches(listing); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
