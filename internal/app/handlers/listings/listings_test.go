package listings

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"imoveis/internal/app/dto"
	"imoveis/internal/app/middleware"
	appoutbox "imoveis/internal/app/outbox"
	"imoveis/internal/app/queries"
	domainlistings "imoveis/internal/domain/listings"
	"imoveis/internal/infra/storage/memory"
)

func seed(t *testing.T, repo *memory.ListingRepository) {
	t.Helper()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	items := []domainlistings.CreateListingParams{
		{ID: "cobertura", Title: "Cobertura Panoramica no Centro", Description: "Cobertura com vista 360 e area gourmet.", SalePrice: 1_450_000, Location: domainlistings.Location{City: "Sao Paulo", Neighborhood: "Centro"}, AreaM2: 210, Bedrooms: 3, Category: domainlistings.CategorySale, Now: base},
		{ID: "casa", Title: "Casa Contemporanea no Jardim Europa", Description: "Projeto assinado e piscina com deck.", SalePrice: 3_200_000, Location: domainlistings.Location{City: "Sao Paulo", Neighborhood: "Jardim Europa"}, AreaM2: 420, Bedrooms: 4, Category: domainlistings.CategorySale, Now: base.Add(time.Minute)},
		{ID: "garden", Title: "Apartamento Garden no Itaim", Description: "Garden com paisagismo e automacao.", SalePrice: 18_000, RentPrice: 18_000, Location: domainlistings.Location{City: "Sao Paulo", Neighborhood: "Itaim Bibi"}, AreaM2: 180, Bedrooms: 2, Category: domainlistings.CategoryRent, Now: base.Add(2 * time.Minute)},
	}
	for _, p := range items {
		l, err := domainlistings.NewListing(p)
		if err != nil {
			t.Fatalf("NewListing(%s): %v", p.ID, err)
		}
		if err := repo.Save(context.Background(), l); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
}

func TestSearchCatalogHandler(t *testing.T) {
	repo := memory.NewListingRepository()
	seed(t, repo)
	h := &SearchCatalogHandler{Listings: repo}

	page, err := h.Handle(context.Background(), SearchCatalogQuery{Category: domainlistings.CategorySale, Limit: 1, Page: 2})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if page.Pagination.Total != 2 || page.Pagination.TotalPages != 2 || page.Pagination.Page != 2 {
		t.Errorf("pagination = %+v", page.Pagination)
	}
	if len(page.Data) != 1 || page.Data[0].ID != "cobertura" {
		t.Errorf("data = %+v", page.Data)
	}
}

func TestChatFilterHandler(t *testing.T) {
	repo := memory.NewListingRepository()
	seed(t, repo)
	h := &ChatFilterHandler{Listings: repo}
	ctx := context.Background()

	tests := []struct {
		name      string
		query     ChatFilterQuery
		wantIDs   []string
		wantEmpty bool
	}{
		{name: "rent in itaim", query: ChatFilterQuery{Message: "quero alugar no itaim"}, wantIDs: []string{"garden"}},
		{name: "shorthand price", query: ChatFilterQuery{Message: "algo de 3"}, wantIDs: []string{"casa"}},
		{name: "strict type", query: ChatFilterQuery{Message: "uma cobertura", StrictType: true}, wantIDs: []string{"cobertura"}},
		{name: "loose type", query: ChatFilterQuery{Message: "uma cobertura"}, wantIDs: []string{"garden", "casa", "cobertura"}},
		{
			name:    "structured filters first",
			query:   ChatFilterQuery{Message: "em sao paulo", Filters: &ChatFilters{BedroomsMin: 3}},
			wantIDs: []string{"casa", "cobertura"},
		},
		{name: "nothing", query: ChatFilterQuery{Message: "comprar ate 100 mil"}, wantEmpty: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Handle(ctx, tt.query)
			if err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if tt.wantEmpty {
				if got.Count != 0 || !strings.Contains(got.Answer, "nao encontrei") {
					t.Errorf("got %+v", got)
				}
				return
			}
			if got.Count != len(tt.wantIDs) || len(got.Listings) != len(tt.wantIDs) {
				t.Fatalf("count = %d, listings = %+v", got.Count, got.Listings)
			}
			for i, id := range tt.wantIDs {
				if got.Listings[i].ID != id {
					t.Errorf("listing %d = %s, want %s", i, got.Listings[i].ID, id)
				}
			}
			if !strings.HasSuffix(got.Answer, "esta abaixo ("+itoa(len(tt.wantIDs))+").") {
				t.Errorf("answer = %q", got.Answer)
			}
		})
	}
}

func TestChatFilterCacheKey(t *testing.T) {
	a := ChatFilterQuery{Message: "casa"}
	b := ChatFilterQuery{Message: "casa", StrictType: true}
	c := ChatFilterQuery{Message: "casa", Filters: &ChatFilters{City: "Sao Paulo"}}
	if a.CacheKey() == b.CacheKey() || a.CacheKey() == c.CacheKey() {
		t.Errorf("cache keys collide: %s / %s / %s", a.CacheKey(), b.CacheKey(), c.CacheKey())
	}
	if !strings.Contains(a.CacheKey(), `"v":"v4"`) {
		t.Errorf("cache key lacks version: %s", a.CacheKey())
	}
}

func TestCreateAndDeletePurgeChatCache(t *testing.T) {
	repo := memory.NewListingRepository()
	seed(t, repo)
	cache := memory.NewResultCache(nil)
	invalidator := &CacheInvalidator{Cache: cache}
	box := memory.NewOutbox(invalidator.HandleRecord)

	bus := queries.NewInMemoryBus()
	queries.RegisterHandler[ChatFilterQuery, dto.ChatAnswer](bus, chatFilterKey, &ChatFilterHandler{Listings: repo})
	cached := middleware.ChainQueries(bus, middleware.Cache(cache, 5*time.Minute, nil, nil))
	ctx := context.Background()

	ask := func() dto.ChatAnswer {
		t.Helper()
		got, err := queries.Ask[ChatFilterQuery, dto.ChatAnswer](ctx, cached, ChatFilterQuery{Message: "quero comprar em campinas"})
		if err != nil {
			t.Fatalf("Ask: %v", err)
		}
		return got
	}

	if got := ask(); got.Count != 2 {
		t.Fatalf("before create: count = %d", got.Count)
	}
	if cache.Len() != 1 {
		t.Fatalf("answer not cached, len = %d", cache.Len())
	}

	create := &CreateListingHandler{
		Listings: repo,
		Outbox:   box,
		Encoder:  appoutbox.JSONEventEncoder{Source: "test"},
		NewID:    func() string { return "campinas" },
		Now:      func() time.Time { return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) },
	}
	created, err := create.Handle(ctx, CreateListingCommand{
		Title:        "Casa no Cambui",
		Description:  "Casa ampla perto do parque.",
		SalePrice:    900_000,
		City:         "Campinas",
		Neighborhood: "Cambui",
		AreaM2:       200,
		Bedrooms:     3,
		Photos:       []string{" ", "/uploads/1_casa.jpg"},
		Category:     domainlistings.CategorySale,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "campinas" || created.Message != msgListingCreated {
		t.Errorf("created = %+v", created)
	}
	if box.Pending() != 1 {
		t.Fatalf("expected the created event in the outbox, pending = %d", box.Pending())
	}
	if err := box.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if cache.Len() != 0 {
		t.Fatalf("cache not purged after create")
	}
	if got := ask(); got.Count != 1 || got.Listings[0].ID != "campinas" {
		t.Fatalf("after create: %+v", got)
	}
	stored, _ := repo.ByID(ctx, "campinas")
	if len(stored.Photos) != 1 {
		t.Errorf("blank photo kept: %v", stored.Photos)
	}

	del := &DeleteListingHandler{Listings: repo, Outbox: box}
	if _, err := del.Handle(ctx, DeleteListingCommand{ListingID: "campinas"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_ = box.Flush(ctx)
	if got := ask(); got.Count != 2 {
		t.Fatalf("after delete: count = %d", got.Count)
	}
	if _, err := del.Handle(ctx, DeleteListingCommand{ListingID: "campinas"}); !errors.Is(err, ErrListingNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestCreateListingRejectsMissingRentPrice(t *testing.T) {
	h := &CreateListingHandler{Listings: memory.NewListingRepository()}
	_, err := h.Handle(context.Background(), CreateListingCommand{
		Title:        "Studio",
		Description:  "Studio compacto e mobiliado.",
		City:         "Sao Paulo",
		Neighborhood: "Pinheiros",
		AreaM2:       30,
		Category:     domainlistings.CategoryRent,
	})
	if !errors.Is(err, domainlistings.ErrRentPriceRequired) {
		t.Errorf("err = %v", err)
	}
}

func TestListAdminListings(t *testing.T) {
	repo := memory.NewListingRepository()
	seed(t, repo)
	for i := 0; i < 20; i++ {
		l, _ := domainlistings.NewListing(domainlistings.CreateListingParams{
			ID: domainlistings.ListingID("extra-" + itoa(i)), Title: "Extra", Description: "Listing for paging.",
			SalePrice: 1, Location: domainlistings.Location{City: "X", Neighborhood: "Y"}, AreaM2: 1,
			Category: domainlistings.CategorySale,
		})
		_ = repo.Save(context.Background(), l)
	}
	h := &ListAdminListingsHandler{Listings: repo}
	got, err := h.Handle(context.Background(), ListAdminListingsQuery{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(got) != 23 {
		t.Errorf("admin list should not page, got %d", len(got))
	}
}

func TestCacheInvalidatorIgnoresOtherEvents(t *testing.T) {
	cache := memory.NewResultCache(nil)
	_ = cache.Set(context.Background(), "k", []byte("v"), time.Minute)
	inv := &CacheInvalidator{Cache: cache}
	if err := inv.HandleEvent(context.Background(), "user.created"); err != nil {
		t.Fatal(err)
	}
	if cache.Len() != 1 {
		t.Error("unrelated event purged the cache")
	}
	if err := inv.HandleEvent(context.Background(), "listing.deleted.v1"); err != nil {
		t.Fatal(err)
	}
	if cache.Len() != 0 {
		t.Error("versioned listing event did not purge the cache")
	}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
