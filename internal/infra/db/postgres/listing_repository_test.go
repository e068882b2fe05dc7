package postgres

import (
	"testing"

	domainlistings "imoveis/internal/domain/listings"
)

func TestSearchWhere(t *testing.T) {
	tests := []struct {
		name     string
		params   domainlistings.SearchParams
		want     string
		wantArgs int
	}{
		{name: "no filters", params: domainlistings.SearchParams{}, want: ""},
		{
			name:     "city and rent ceiling",
			params:   domainlistings.SearchParams{City: "Sao Paulo", Category: domainlistings.CategoryRent, PriceMax: 3000},
			want:     " WHERE cidade = $1 AND categoria = $2 AND preco_ativo <= $3",
			wantArgs: 3,
		},
		{
			name:     "range and counts",
			params:   domainlistings.SearchParams{PriceMin: 100, PriceMax: 200, BedroomsMin: 2, AreaMin: 50},
			want:     " WHERE preco_ativo >= $1 AND preco_ativo <= $2 AND quartos >= $3 AND area_m2 >= $4",
			wantArgs: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, args := searchWhere(tt.params)
			if got != tt.want {
				t.Errorf("where = %q, want %q", got, tt.want)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args = %v", args)
			}
		})
	}
}

func TestNewListingRepositoryRequiresPool(t *testing.T) {
	if _, err := NewListingRepository(nil); err == nil {
		t.Error("expected error for nil pool")
	}
}
