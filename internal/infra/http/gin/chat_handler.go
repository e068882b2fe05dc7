package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"imoveis/internal/app/dto"
	listingapp "imoveis/internal/app/handlers/listings"
	"imoveis/internal/app/queries"
)

type chatRequest struct {
	Message    string                  `json:"message"`
	StrictTipo bool                    `json:"strictTipo"`
	Filters    *listingapp.ChatFilters `json:"filters"`
}

// ChatHandler serves the filter assistant.
type ChatHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h ChatHandler) Ask(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgUnavailable})
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindError(err))
		return
	}
	query := listingapp.ChatFilterQuery{
		Message:    req.Message,
		StrictType: req.StrictTipo,
		Filters:    req.Filters,
	}
	answer, err := queries.Ask[listingapp.ChatFilterQuery, dto.ChatAnswer](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}
