package listings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"imoveis/internal/app/commands"
	"imoveis/internal/app/dto"
	"imoveis/internal/app/outbox"
	"imoveis/internal/app/queries"
	domainauth "imoveis/internal/domain/auth"
	domainlistings "imoveis/internal/domain/listings"
)

const (
	listAdminListingsKey = "admin.listings.list"
	createListingKey     = "admin.listings.create"
	deleteListingKey     = "admin.listings.delete"

	msgListingCreated = "Imovel cadastrado com sucesso."
	msgListingDeleted = "Imovel excluido."
)

var ErrListingNotFound = errors.New("listings: listing not found")

// ListAdminListingsQuery returns every listing, newest first.
type ListAdminListingsQuery struct{}

func (ListAdminListingsQuery) Key() string                   { return listAdminListingsKey }
func (ListAdminListingsQuery) RequiredRole() domainauth.Role { return domainauth.RoleAdmin }

type ListAdminListingsHandler struct {
	Listings domainlistings.Repository
}

func (h *ListAdminListingsHandler) Handle(ctx context.Context, _ ListAdminListingsQuery) ([]dto.AdminListingSummary, error) {
	if h.Listings == nil {
		return nil, ErrRepositoryMissing
	}
	result, err := h.Listings.Search(ctx, domainlistings.SearchParams{All: true})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdminListingSummary, 0, len(result.Items))
	for _, l := range result.Items {
		out = append(out, dto.MapAdminSummary(l))
	}
	return out, nil
}

// CreateListingCommand mirrors the admin form. Field names in the field tag
// are the form keys reported back on validation errors.
type CreateListingCommand struct {
	Title        string                  `field:"titulo" validate:"min=3,max=120"`
	Description  string                  `field:"descricao" validate:"min=10,max=2000"`
	SalePrice    float64                 `field:"preco" validate:"gte=0"`
	RentPrice    float64                 `field:"valorAluguel" validate:"gte=0"`
	CondoFee     float64                 `field:"condominio" validate:"gte=0"`
	PropertyTax  float64                 `field:"iptu" validate:"gte=0"`
	City         string                  `field:"cidade" validate:"min=2,max=80"`
	Neighborhood string                  `field:"bairro" validate:"min=2,max=80"`
	AreaM2       float64                 `field:"areaM2" validate:"gt=0"`
	Bedrooms     int                     `field:"quartos" validate:"gte=0"`
	Suites       int                     `field:"suites" validate:"gte=0"`
	ParkingSpots int                     `field:"vagas" validate:"gte=0"`
	Photos       []string                `field:"fotos" validate:"max=64,dive,required"`
	Furnished    bool                    `field:"mobilado"`
	PetFriendly  bool                    `field:"aceitaPet"`
	Category     domainlistings.Category `field:"categoria" validate:"oneof=Venda Aluguel"`
}

func (CreateListingCommand) Key() string                   { return createListingKey }
func (CreateListingCommand) RequiredRole() domainauth.Role { return domainauth.RoleAdmin }

type CreateListingHandler struct {
	Listings domainlistings.Repository
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	NewID    func() string
	Now      func() time.Time
	Logger   *slog.Logger
}

func (h *CreateListingHandler) Handle(ctx context.Context, cmd CreateListingCommand) (dto.CreatedListing, error) {
	if h.Listings == nil {
		return dto.CreatedListing{}, ErrRepositoryMissing
	}
	newID := h.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	listing, err := domainlistings.NewListing(domainlistings.CreateListingParams{
		ID:           domainlistings.ListingID(newID()),
		Title:        cmd.Title,
		Description:  cmd.Description,
		SalePrice:    cmd.SalePrice,
		RentPrice:    cmd.RentPrice,
		CondoFee:     cmd.CondoFee,
		PropertyTax:  cmd.PropertyTax,
		Location:     domainlistings.Location{City: cmd.City, Neighborhood: cmd.Neighborhood},
		AreaM2:       cmd.AreaM2,
		Bedrooms:     cmd.Bedrooms,
		Suites:       cmd.Suites,
		ParkingSpots: cmd.ParkingSpots,
		Photos:       cleanStrings(cmd.Photos),
		Furnished:    cmd.Furnished,
		PetFriendly:  cmd.PetFriendly,
		Category:     cmd.Category,
		Now:          h.now(),
	})
	if err != nil {
		return dto.CreatedListing{}, err
	}
	if err := h.Listings.Save(ctx, listing); err != nil {
		return dto.CreatedListing{}, fmt.Errorf("listings: save %s: %w", listing.ID, err)
	}
	if err := outbox.Drain(ctx, h.Outbox, h.Encoder, listing); err != nil {
		return dto.CreatedListing{}, err
	}
	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "listing created", "listing_id", listing.ID, "category", listing.Category, "photos", len(listing.Photos))
	}
	return dto.CreatedListing{Message: msgListingCreated, ID: string(listing.ID)}, nil
}

func (h *CreateListingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type DeleteListingCommand struct {
	ListingID string `field:"id" validate:"required"`
}

func (DeleteListingCommand) Key() string                   { return deleteListingKey }
func (DeleteListingCommand) RequiredRole() domainauth.Role { return domainauth.RoleAdmin }

type DeleteListingHandler struct {
	Listings domainlistings.Repository
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Now      func() time.Time
	Logger   *slog.Logger
}

func (h *DeleteListingHandler) Handle(ctx context.Context, cmd DeleteListingCommand) (dto.DeletedListing, error) {
	if h.Listings == nil {
		return dto.DeletedListing{}, ErrRepositoryMissing
	}
	id := domainlistings.ListingID(strings.TrimSpace(cmd.ListingID))
	listing, err := h.Listings.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainlistings.ErrNotFound) {
			return dto.DeletedListing{}, ErrListingNotFound
		}
		return dto.DeletedListing{}, err
	}
	if err := h.Listings.Delete(ctx, id); err != nil {
		if errors.Is(err, domainlistings.ErrNotFound) {
			return dto.DeletedListing{}, ErrListingNotFound
		}
		return dto.DeletedListing{}, err
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	listing.MarkDeleted(now)
	if err := outbox.Drain(ctx, h.Outbox, h.Encoder, listing); err != nil {
		return dto.DeletedListing{}, err
	}
	if h.Logger != nil {
		h.Logger.InfoContext(ctx, "listing deleted", "listing_id", id)
	}
	return dto.DeletedListing{Message: msgListingDeleted}, nil
}

func cleanStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

var (
	_ queries.Handler[ListAdminListingsQuery, []dto.AdminListingSummary] = (*ListAdminListingsHandler)(nil)
	_ commands.Handler[CreateListingCommand, dto.CreatedListing]         = (*CreateListingHandler)(nil)
	_ commands.Handler[DeleteListingCommand, dto.DeletedListing]         = (*DeleteListingHandler)(nil)
)
