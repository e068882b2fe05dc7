package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "imoveis/internal/domain/listings"
)

const listingsCollection = "imoveis"

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	col := db.Collection(listingsCollection)
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "localizacao.cidade", Value: 1}, {Key: "localizacao.bairro", Value: 1}}},
		{Keys: bson.D{{Key: "categoria", Value: 1}, {Key: "precoAtivo", Value: 1}}},
	}
	_, _ = col.Indexes().CreateMany(context.Background(), indexes)
	return &ListingRepository{col: col}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("mongo: listing %s: %w", id, domainlistings.ErrNotFound)
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	if listing == nil {
		return errors.New("mongo: nil listing")
	}
	doc := newListingDocument(listing)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("mongo: listing %s: %w", id, domainlistings.ErrNotFound)
	}
	return nil
}

func (r *ListingRepository) Count(ctx context.Context) (int, error) {
	n, err := r.col.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Search pushes the structured filters down to Mongo and pages the result,
// newest first.
func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) (domainlistings.SearchResult, error) {
	params = params.Normalized()
	filter := searchFilter(params)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainlistings.SearchResult{}, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	if !params.All {
		opts.SetSkip(int64(params.Offset)).SetLimit(int64(params.Limit))
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return domainlistings.SearchResult{}, err
	}
	defer cur.Close(ctx)

	var docs []listingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return domainlistings.SearchResult{}, err
	}
	items := make([]*domainlistings.Listing, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toAggregate())
	}
	return domainlistings.SearchResult{Items: items, Total: int(total)}, nil
}

func searchFilter(p domainlistings.SearchParams) bson.M {
	filter := bson.M{}
	if p.City != "" {
		filter["localizacao.cidade"] = p.City
	}
	if p.Neighborhood != "" {
		filter["localizacao.bairro"] = p.Neighborhood
	}
	if p.Category != "" {
		filter["categoria"] = string(p.Category)
	}
	price := bson.M{}
	if p.PriceMin > 0 {
		price["$gte"] = p.PriceMin
	}
	if p.PriceMax > 0 {
		price["$lte"] = p.PriceMax
	}
	if len(price) > 0 {
		filter["precoAtivo"] = price
	}
	if p.BedroomsMin > 0 {
		filter["quartos"] = bson.M{"$gte": p.BedroomsMin}
	}
	if p.AreaMin > 0 {
		filter["areaM2"] = bson.M{"$gte": p.AreaMin}
	}
	return filter
}

type locationDocument struct {
	City         string `bson:"cidade"`
	Neighborhood string `bson:"bairro"`
}

// listingDocument keeps the field names of the public API. precoAtivo is
// denormalized from the category so price ranges can use an index.
type listingDocument struct {
	ID           string           `bson:"_id"`
	Title        string           `bson:"titulo"`
	Description  string           `bson:"descricao"`
	SalePrice    float64          `bson:"preco"`
	RentPrice    float64          `bson:"valorAluguel"`
	ActivePrice  float64          `bson:"precoAtivo"`
	CondoFee     float64          `bson:"condominio"`
	PropertyTax  float64          `bson:"iptu"`
	Location     locationDocument `bson:"localizacao"`
	AreaM2       float64          `bson:"areaM2"`
	Bedrooms     int              `bson:"quartos"`
	Suites       int              `bson:"suites"`
	ParkingSpots int              `bson:"vagas"`
	Photos       []string         `bson:"fotos"`
	Furnished    bool             `bson:"mobilado"`
	PetFriendly  bool             `bson:"aceitaPet"`
	Category     string           `bson:"categoria"`
	CreatedAt    time.Time        `bson:"createdAt"`
	UpdatedAt    time.Time        `bson:"updatedAt"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	photos := l.Photos
	if photos == nil {
		photos = []string{}
	}
	return listingDocument{
		ID:           string(l.ID),
		Title:        l.Title,
		Description:  l.Description,
		SalePrice:    l.SalePrice,
		RentPrice:    l.RentPrice,
		ActivePrice:  l.ActivePrice(),
		CondoFee:     l.CondoFee,
		PropertyTax:  l.PropertyTax,
		Location:     locationDocument{City: l.Location.City, Neighborhood: l.Location.Neighborhood},
		AreaM2:       l.AreaM2,
		Bedrooms:     l.Bedrooms,
		Suites:       l.Suites,
		ParkingSpots: l.ParkingSpots,
		Photos:       photos,
		Furnished:    l.Furnished,
		PetFriendly:  l.PetFriendly,
		Category:     string(l.Category),
		CreatedAt:    l.CreatedAt.UTC(),
		UpdatedAt:    l.UpdatedAt.UTC(),
	}
}

func (d listingDocument) toAggregate() *domainlistings.Listing {
	return &domainlistings.Listing{
		ID:           domainlistings.ListingID(d.ID),
		Title:        d.Title,
		Description:  d.Description,
		SalePrice:    d.SalePrice,
		RentPrice:    d.RentPrice,
		CondoFee:     d.CondoFee,
		PropertyTax:  d.PropertyTax,
		Location:     domainlistings.Location{City: d.Location.City, Neighborhood: d.Location.Neighborhood},
		AreaM2:       d.AreaM2,
		Bedrooms:     d.Bedrooms,
		Suites:       d.Suites,
		ParkingSpots: d.ParkingSpots,
		Photos:       append([]string(nil), d.Photos...),
		Furnished:    d.Furnished,
		PetFriendly:  d.PetFriendly,
		Category:     domainlistings.Category(d.Category),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

var _ domainlistings.Repository = (*ListingRepository)(nil)
