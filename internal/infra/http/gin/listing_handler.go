package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"imoveis/internal/app/dto"
	listingapp "imoveis/internal/app/handlers/listings"
	"imoveis/internal/app/queries"
	domainlistings "imoveis/internal/domain/listings"
)

// ListingHandler wires the public catalog query to HTTP.
type ListingHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

// Catalog responds with a filtered page of listings, newest first.
func (h ListingHandler) Catalog(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgUnavailable})
		return
	}
	category, _ := domainlistings.ParseCategory(c.Query("categoria"))
	query := listingapp.SearchCatalogQuery{
		City:         strings.TrimSpace(c.Query("cidade")),
		Neighborhood: strings.TrimSpace(c.Query("bairro")),
		Category:     category,
		PriceMin:     parseFloat(c.Query("precoMin")),
		PriceMax:     parseFloat(c.Query("precoMax")),
		BedroomsMin:  parseInt(c.Query("quartosMin")),
		AreaMin:      parseFloat(c.Query("areaMin")),
		Page:         parseIntWithDefault(c.Query("page"), 1),
		Limit:        parseInt(c.Query("limit")),
	}
	result, err := queries.Ask[listingapp.SearchCatalogQuery, dto.CatalogPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}

func parseIntWithDefault(raw string, fallback int) int {
	value := parseInt(raw)
	if value == 0 {
		return fallback
	}
	return value
}

func parseFloat(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
