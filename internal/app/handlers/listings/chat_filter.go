package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"imoveis/internal/app/dto"
	"imoveis/internal/app/queries"
	"imoveis/internal/domain/intent"
	domainlistings "imoveis/internal/domain/listings"
)

const (
	chatFilterKey = "listings.chat"
	// chatCacheVersion changes whenever the answer shape or the parsing rules
	// change, so stale cache entries stop matching.
	chatCacheVersion = "v4"
	// chatCandidateLimit caps how many listings the assistant refines.
	chatCandidateLimit = 10

	chatAnswerFound = "Filtro realizado automaticamente com base no solicitado. A lista de imoveis compativeis esta abaixo (%d)."
	chatAnswerEmpty = "Filtro realizado automaticamente com base no solicitado, mas nao encontrei imoveis compativeis agora. Ajuste os criterios e tente novamente."
)

// ChatFilters are the structured filters the page already has selected.
type ChatFilters struct {
	City         string                  `json:"cidade,omitempty" field:"cidade"`
	Neighborhood string                  `json:"bairro,omitempty" field:"bairro"`
	Category     domainlistings.Category `json:"categoria,omitempty" field:"categoria" validate:"omitempty,oneof=Venda Aluguel"`
	PriceMin     float64                 `json:"precoMin,omitempty" field:"precoMin"`
	PriceMax     float64                 `json:"precoMax,omitempty" field:"precoMax"`
	BedroomsMin  int                     `json:"quartosMin,omitempty" field:"quartosMin"`
	AreaMin      float64                 `json:"areaMin,omitempty" field:"areaMin"`
}

// ChatFilterQuery asks the assistant to narrow the catalog using a free-text
// message.
type ChatFilterQuery struct {
	Message    string       `field:"message" validate:"required,max=1000"`
	StrictType bool         `field:"strictTipo"`
	Filters    *ChatFilters `field:"filters"`
}

func (q ChatFilterQuery) Key() string { return chatFilterKey }

// CacheKey identifies identical chat requests.
func (q ChatFilterQuery) CacheKey() string {
	raw, err := json.Marshal(struct {
		V       string       `json:"v"`
		Message string       `json:"message"`
		Strict  bool         `json:"strictTipo,omitempty"`
		Filters *ChatFilters `json:"filters,omitempty"`
	}{chatCacheVersion, q.Message, q.StrictType, q.Filters})
	if err != nil {
		return ""
	}
	return string(raw)
}

func (q ChatFilterQuery) ResultPrototype() any { return &dto.ChatAnswer{} }

func (q ChatFilterQuery) params() domainlistings.SearchParams {
	params := domainlistings.SearchParams{Limit: chatCandidateLimit}
	if f := q.Filters; f != nil {
		params.City = f.City
		params.Neighborhood = f.Neighborhood
		params.Category = f.Category
		params.PriceMin = f.PriceMin
		params.PriceMax = f.PriceMax
		params.BedroomsMin = f.BedroomsMin
		params.AreaMin = f.AreaMin
	}
	return params.Normalized()
}

type ChatFilterHandler struct {
	Listings domainlistings.Repository
	Logger   *slog.Logger
}

func (h *ChatFilterHandler) Handle(ctx context.Context, q ChatFilterQuery) (dto.ChatAnswer, error) {
	if h.Listings == nil {
		return dto.ChatAnswer{}, ErrRepositoryMissing
	}
	result, err := h.Listings.Search(ctx, q.params())
	if err != nil {
		return dto.ChatAnswer{}, err
	}

	parsed := intent.Parse(q.Message, result.Items)
	matched := parsed.Apply(result.Items, q.StrictType)
	if h.Logger != nil {
		h.Logger.DebugContext(ctx, "chat intent parsed",
			"category", parsed.Category,
			"property_type", parsed.PropertyType,
			"price", parsed.Price,
			"location", parsed.Location,
			"candidates", len(result.Items),
			"matched", len(matched),
		)
	}

	items := make([]dto.ChatListing, 0, len(matched))
	for _, l := range matched {
		items = append(items, dto.MapChatListing(l))
	}
	answer := chatAnswerEmpty
	if len(items) > 0 {
		answer = fmt.Sprintf(chatAnswerFound, len(items))
	}
	return dto.ChatAnswer{Answer: answer, Count: len(items), Listings: items}, nil
}

var _ queries.Handler[ChatFilterQuery, dto.ChatAnswer] = (*ChatFilterHandler)(nil)
