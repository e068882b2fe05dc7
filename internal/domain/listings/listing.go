package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"imoveis/internal/domain/shared/events"
)

var (
	ErrNotFound            = errors.New("listings: listing not found")
	ErrTitleRequired       = errors.New("listings: title is required")
	ErrDescriptionRequired = errors.New("listings: description is required")
	ErrLocationRequired    = errors.New("listings: city and neighborhood are required")
	ErrInvalidCategory     = errors.New("listings: category must be Venda or Aluguel")
	ErrArea                = errors.New("listings: area must be positive")
	ErrNegativeCount       = errors.New("listings: bedrooms, suites and parking spots must be non-negative")
	ErrNegativePrice       = errors.New("listings: prices and fees must be non-negative")
	ErrSalePriceRequired   = errors.New("listings: sale listings need a sale price greater than zero")
	ErrRentPriceRequired   = errors.New("listings: rent listings need a rent price greater than zero")
	ErrPhotoURL            = errors.New("listings: photo reference must not be empty")
)

type ListingID string

// Category is the mutually exclusive Sale/Rent classification. Values are the
// wire names used by the catalog API and stored documents.
type Category string

const (
	CategorySale Category = "Venda"
	CategoryRent Category = "Aluguel"
)

func (c Category) Valid() bool {
	return c == CategorySale || c == CategoryRent
}

// ParseCategory accepts the wire names case-insensitively.
func ParseCategory(raw string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "venda":
		return CategorySale, true
	case "aluguel":
		return CategoryRent, true
	default:
		return "", false
	}
}

type Location struct {
	City         string
	Neighborhood string
}

func (l Location) Valid() bool {
	return strings.TrimSpace(l.City) != "" && strings.TrimSpace(l.Neighborhood) != ""
}

type Listing struct {
	ID           ListingID
	Title        string
	Description  string
	SalePrice    float64
	RentPrice    float64
	CondoFee     float64
	PropertyTax  float64
	Location     Location
	AreaM2       float64
	Bedrooms     int
	Suites       int
	ParkingSpots int
	Photos       []string
	Furnished    bool
	PetFriendly  bool
	Category     Category
	CreatedAt    time.Time
	UpdatedAt    time.Time
	events.EventRecorder
}

// ActivePrice is the price that matters for the listing's category: the rent
// for rentals that carry one, the sale price otherwise.
func (l *Listing) ActivePrice() float64 {
	if l.Category == CategoryRent && l.RentPrice > 0 {
		return l.RentPrice
	}
	return l.SalePrice
}

// MarkDeleted records the removal so subscribers can react to it.
func (l *Listing) MarkDeleted(now time.Time) {
	l.Record(ListingDeletedEvent{ListingID: l.ID, At: now.UTC()})
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id ListingID) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
	Count(ctx context.Context) (int, error)
}

type CreateListingParams struct {
	ID           ListingID
	Title        string
	Description  string
	SalePrice    float64
	RentPrice    float64
	CondoFee     float64
	PropertyTax  float64
	Location     Location
	AreaM2       float64
	Bedrooms     int
	Suites       int
	ParkingSpots int
	Photos       []string
	Furnished    bool
	PetFriendly  bool
	Category     Category
	Now          time.Time
}

func NewListing(params CreateListingParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("listings: id is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(params.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if !params.Location.Valid() {
		return nil, ErrLocationRequired
	}
	if !params.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if params.AreaM2 <= 0 {
		return nil, ErrArea
	}
	if params.Bedrooms < 0 || params.Suites < 0 || params.ParkingSpots < 0 {
		return nil, ErrNegativeCount
	}
	if params.SalePrice < 0 || params.RentPrice < 0 || params.CondoFee < 0 || params.PropertyTax < 0 {
		return nil, ErrNegativePrice
	}
	if params.Category == CategorySale && params.SalePrice <= 0 {
		return nil, ErrSalePriceRequired
	}
	if params.Category == CategoryRent && params.RentPrice <= 0 {
		return nil, ErrRentPriceRequired
	}
	photos := make([]string, 0, len(params.Photos))
	for _, photo := range params.Photos {
		photo = strings.TrimSpace(photo)
		if photo == "" {
			return nil, ErrPhotoURL
		}
		photos = append(photos, photo)
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}

	listing := &Listing{
		ID:          params.ID,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		SalePrice:   params.SalePrice,
		RentPrice:   params.RentPrice,
		CondoFee:    params.CondoFee,
		PropertyTax: params.PropertyTax,
		Location: Location{
			City:         strings.TrimSpace(params.Location.City),
			Neighborhood: strings.TrimSpace(params.Location.Neighborhood),
		},
		AreaM2:       params.AreaM2,
		Bedrooms:     params.Bedrooms,
		Suites:       params.Suites,
		ParkingSpots: params.ParkingSpots,
		Photos:       photos,
		Furnished:    params.Furnished,
		PetFriendly:  params.PetFriendly,
		Category:     params.Category,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}

	listing.Record(ListingCreatedEvent{
		ListingID:    listing.ID,
		Category:     listing.Category,
		City:         listing.Location.City,
		Neighborhood: listing.Location.Neighborhood,
		At:           listing.CreatedAt,
	})
	return listing, nil
}

// IsValidationError reports whether err comes from listing invariants rather
// than from storage.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrTitleRequired),
		errors.Is(err, ErrDescriptionRequired),
		errors.Is(err, ErrLocationRequired),
		errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrArea),
		errors.Is(err, ErrNegativeCount),
		errors.Is(err, ErrNegativePrice),
		errors.Is(err, ErrSalePriceRequired),
		errors.Is(err, ErrRentPriceRequired),
		errors.Is(err, ErrPhotoURL):
		return true
	}
	return false
}
