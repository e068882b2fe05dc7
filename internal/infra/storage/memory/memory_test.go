package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	appoutbox "imoveis/internal/app/outbox"
	domainlistings "imoveis/internal/domain/listings"
)

func seedRepository(t *testing.T) *ListingRepository {
	t.Helper()
	repo := NewListingRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []*domainlistings.Listing{
		{ID: "a", Title: "A", Category: domainlistings.CategorySale, SalePrice: 1_000_000, Location: domainlistings.Location{City: "Sao Paulo", Neighborhood: "Centro"}, Bedrooms: 2, AreaM2: 80, CreatedAt: base},
		{ID: "b", Title: "B", Category: domainlistings.CategoryRent, SalePrice: 9_000, RentPrice: 9_000, Location: domainlistings.Location{City: "Sao Paulo", Neighborhood: "Itaim Bibi"}, Bedrooms: 3, AreaM2: 120, CreatedAt: base.Add(time.Hour)},
		{ID: "c", Title: "C", Category: domainlistings.CategorySale, SalePrice: 3_000_000, Location: domainlistings.Location{City: "Campinas", Neighborhood: "Cambui"}, Bedrooms: 4, AreaM2: 300, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, l := range fixtures {
		if err := repo.Save(context.Background(), l); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	return repo
}

func TestListingRepositorySearch(t *testing.T) {
	repo := seedRepository(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		params    domainlistings.SearchParams
		wantIDs   []domainlistings.ListingID
		wantTotal int
	}{
		{name: "newest first", params: domainlistings.SearchParams{}, wantIDs: []domainlistings.ListingID{"c", "b", "a"}, wantTotal: 3},
		{name: "city", params: domainlistings.SearchParams{City: "Sao Paulo"}, wantIDs: []domainlistings.ListingID{"b", "a"}, wantTotal: 2},
		{name: "category", params: domainlistings.SearchParams{Category: domainlistings.CategoryRent}, wantIDs: []domainlistings.ListingID{"b"}, wantTotal: 1},
		{name: "price range on active price", params: domainlistings.SearchParams{PriceMin: 5_000, PriceMax: 1_000_000}, wantIDs: []domainlistings.ListingID{"b", "a"}, wantTotal: 2},
		{name: "bedrooms and area", params: domainlistings.SearchParams{BedroomsMin: 3, AreaMin: 200}, wantIDs: []domainlistings.ListingID{"c"}, wantTotal: 1},
		{name: "paging", params: domainlistings.SearchParams{Limit: 1, Offset: 1}, wantIDs: []domainlistings.ListingID{"b"}, wantTotal: 3},
		{name: "offset past end", params: domainlistings.SearchParams{Limit: 2, Offset: 10}, wantIDs: nil, wantTotal: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := repo.Search(ctx, tt.params)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if res.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", res.Total, tt.wantTotal)
			}
			if len(res.Items) != len(tt.wantIDs) {
				t.Fatalf("got %d items, want %v", len(res.Items), tt.wantIDs)
			}
			for i, id := range tt.wantIDs {
				if res.Items[i].ID != id {
					t.Errorf("item %d = %s, want %s", i, res.Items[i].ID, id)
				}
			}
		})
	}
}

func TestListingRepositoryDeleteAndCopies(t *testing.T) {
	repo := seedRepository(t)
	ctx := context.Background()

	got, err := repo.ByID(ctx, "a")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	got.Title = "changed"
	again, _ := repo.ByID(ctx, "a")
	if again.Title != "A" {
		t.Errorf("store shared state with caller: %q", again.Title)
	}

	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.ByID(ctx, "a"); !errors.Is(err, domainlistings.ErrNotFound) {
		t.Errorf("ByID after delete err = %v", err)
	}
	if err := repo.Delete(ctx, "a"); !errors.Is(err, domainlistings.ErrNotFound) {
		t.Errorf("second Delete err = %v", err)
	}
	if n, _ := repo.Count(ctx); n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestListingRepositorySearchHonorsContext(t *testing.T) {
	repo := seedRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := repo.Search(ctx, domainlistings.SearchParams{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestResultCacheExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewResultCache(func() time.Time { return now })
	ctx := context.Background()

	if err := cache.Set(ctx, "k", []byte("v"), 5*time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, ok, _ := cache.Get(ctx, "k"); !ok || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, ok)
	}

	now = now.Add(5*time.Minute - time.Second)
	if _, ok, _ := cache.Get(ctx, "k"); !ok {
		t.Fatal("entry expired too early")
	}

	now = now.Add(time.Second)
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Fatal("entry should expire at the TTL boundary")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry not removed, len = %d", cache.Len())
	}
}

func TestResultCacheSweepAndPurge(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewResultCache(func() time.Time { return now })
	ctx := context.Background()

	_ = cache.Set(ctx, "short", []byte("1"), time.Minute)
	_ = cache.Set(ctx, "long", []byte("2"), time.Hour)
	now = now.Add(2 * time.Minute)
	if dropped := cache.Sweep(); dropped != 1 {
		t.Errorf("Sweep dropped %d, want 1", dropped)
	}
	if err := cache.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Len after purge = %d", cache.Len())
	}
	if gen, _ := cache.Generation(ctx); gen != 1 {
		t.Errorf("Generation after purge = %d, want 1", gen)
	}
}

func TestOutboxFlushDeliversToSubscribers(t *testing.T) {
	var got []string
	box := NewOutbox(func(ctx context.Context, rec appoutbox.EventRecord) error {
		got = append(got, rec.Name)
		return nil
	})
	failing := errors.New("boom")
	box.Subscribe(func(ctx context.Context, rec appoutbox.EventRecord) error { return failing })

	ctx := context.Background()
	_ = box.Add(ctx, appoutbox.EventRecord{Name: "listing.created"})
	_ = box.Add(ctx, appoutbox.EventRecord{Name: "listing.deleted"})
	if box.Pending() != 2 {
		t.Fatalf("Pending = %d", box.Pending())
	}

	err := box.Flush(ctx)
	if !errors.Is(err, failing) {
		t.Errorf("Flush err = %v, want joined subscriber error", err)
	}
	if len(got) != 2 || got[0] != "listing.created" || got[1] != "listing.deleted" {
		t.Errorf("delivered = %v", got)
	}
	if box.Pending() != 0 {
		t.Errorf("records left after flush: %d", box.Pending())
	}
}
