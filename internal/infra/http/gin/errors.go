package ginserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	listingapp "imoveis/internal/app/handlers/listings"
	domainauth "imoveis/internal/domain/auth"
)

const (
	msgListingNotFound = "Imovel nao encontrado."
	msgInternal        = "Erro interno. Tente novamente em instantes."
	msgUnavailable     = "Servico indisponivel."
)

// respondError maps application errors onto status codes and the JSON bodies
// the frontends expect.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var fieldErrs *FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, fieldErrs)
		return
	case errors.Is(err, listingapp.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgListingNotFound})
		return
	case errors.Is(err, domainauth.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgAuthRequired})
		return
	case errors.Is(err, domainauth.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Acesso negado."})
		return
	}
	if mapped, ok := domainFieldErrors(err); ok {
		c.JSON(http.StatusBadRequest, mapped)
		return
	}
	status := http.StatusInternalServerError
	message := msgInternal
	if errors.Is(err, listingapp.ErrRepositoryMissing) {
		status = http.StatusServiceUnavailable
		message = msgUnavailable
	}
	if logger != nil {
		logger.ErrorContext(c.Request.Context(), "request failed", "status", status, "path", c.FullPath(), "error", err)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": message})
}

// bindError turns a JSON decoding failure into a 400 body.
func bindError(err error) *FieldErrors {
	out := newFieldErrors(msgInvalidData)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := typeErr.Field[strings.LastIndexByte(typeErr.Field, '.')+1:]
		out.add(field, labelFor(field)+" esta em formato invalido.")
		return out
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		out.Message = "Requisicao muito grande."
		return out
	}
	if errors.Is(err, io.EOF) {
		out.add("message", labelFor("message")+" e obrigatorio.")
		return out
	}
	out.Message = msgBadRequest
	return out
}
