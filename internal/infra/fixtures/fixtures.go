// Package fixtures loads demo listings and seeds empty catalogs with them.
// Fixture files are validated against an embedded JSON Schema before use.
package fixtures

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	domainlistings "imoveis/internal/domain/listings"
)

const schemaURL = "listing.schema.json"

//go:embed data/*.json
var files embed.FS

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := files.ReadFile("data/" + schemaURL)
		if err != nil {
			schemaErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft7
		if err := compiler.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
			schemaErr = fmt.Errorf("fixtures: add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

type locationFixture struct {
	City         string `json:"cidade"`
	Neighborhood string `json:"bairro"`
}

type listingFixture struct {
	ID           string          `json:"id"`
	Title        string          `json:"titulo"`
	Description  string          `json:"descricao"`
	SalePrice    float64         `json:"preco"`
	RentPrice    float64         `json:"valorAluguel"`
	CondoFee     float64         `json:"condominio"`
	PropertyTax  float64         `json:"iptu"`
	Location     locationFixture `json:"localizacao"`
	AreaM2       float64         `json:"areaM2"`
	Bedrooms     int             `json:"quartos"`
	Suites       int             `json:"suites"`
	ParkingSpots int             `json:"vagas"`
	Photos       []string        `json:"fotos"`
	Furnished    bool            `json:"mobilado"`
	PetFriendly  bool            `json:"aceitaPet"`
	Category     string          `json:"categoria"`
}

// Decode validates raw against the fixture schema and converts it into
// listing creation params. IDs and timestamps are left for the caller.
func Decode(raw []byte) ([]domainlistings.CreateListingParams, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("fixtures: parse: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}

	var items []listingFixture
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("fixtures: decode: %w", err)
	}
	out := make([]domainlistings.CreateListingParams, 0, len(items))
	for _, it := range items {
		out = append(out, domainlistings.CreateListingParams{
			ID:           domainlistings.ListingID(it.ID),
			Title:        it.Title,
			Description:  it.Description,
			SalePrice:    it.SalePrice,
			RentPrice:    it.RentPrice,
			CondoFee:     it.CondoFee,
			PropertyTax:  it.PropertyTax,
			Location:     domainlistings.Location{City: it.Location.City, Neighborhood: it.Location.Neighborhood},
			AreaM2:       it.AreaM2,
			Bedrooms:     it.Bedrooms,
			Suites:       it.Suites,
			ParkingSpots: it.ParkingSpots,
			Photos:       it.Photos,
			Furnished:    it.Furnished,
			PetFriendly:  it.PetFriendly,
			Category:     domainlistings.Category(it.Category),
		})
	}
	return out, nil
}

// Default returns the embedded demo listings.
func Default() ([]domainlistings.CreateListingParams, error) {
	raw, err := files.ReadFile("data/listings.json")
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

// Load reads fixtures from path, or the embedded set when path is empty.
func Load(path string) ([]domainlistings.CreateListingParams, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: open %s: %w", path, err)
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", path, err)
	}
	return Decode(raw)
}

// Seeder inserts fixtures into an empty repository.
type Seeder struct {
	Listings    domainlistings.Repository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// SeedIfEmpty saves items when the repository holds no listings and reports
// how many were inserted. Items are spaced one millisecond apart so the
// newest-first order matches the file order reversed.
func (s Seeder) SeedIfEmpty(ctx context.Context, items []domainlistings.CreateListingParams) (int, error) {
	count, err := s.Listings.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("fixtures: count listings: %w", err)
	}
	if count > 0 || len(items) == 0 {
		return 0, nil
	}
	idGen := s.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	base := now()
	for i, params := range items {
		if params.ID == "" {
			params.ID = domainlistings.ListingID(idGen())
		}
		params.Now = base.Add(time.Duration(i) * time.Millisecond)
		listing, err := domainlistings.NewListing(params)
		if err != nil {
			return i, fmt.Errorf("fixtures: listing %d: %w", i, err)
		}
		listing.ClearEvents()
		if err := s.Listings.Save(ctx, listing); err != nil {
			return i, fmt.Errorf("fixtures: save listing %d: %w", i, err)
		}
	}
	if s.Logger != nil {
		s.Logger.InfoContext(ctx, "catalog seeded", "listings", len(items))
	}
	return len(items), nil
}
