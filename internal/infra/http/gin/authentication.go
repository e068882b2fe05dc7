package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"imoveis/internal/app/services/auth"
	domainauth "imoveis/internal/domain/auth"
)

const (
	adminRealm         = `Basic realm="Admin"`
	msgAuthRequired    = "Autenticacao necessaria."
	msgBadCredentials  = "Credenciais invalidas."
	msgAuthUnavailable = "Acesso administrativo nao configurado."
)

// AdminAuth guards the admin surface with HTTP basic auth and stores the
// resolved principal in the request context for the bus authorizer.
type AdminAuth struct {
	Service *auth.Service
	Logger  *slog.Logger
}

func (m AdminAuth) Handle(c *gin.Context) {
	if m.Service == nil || !m.Service.Configured() {
		c.String(http.StatusServiceUnavailable, msgAuthUnavailable)
		c.Abort()
		return
	}
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		c.Header("WWW-Authenticate", adminRealm)
		c.String(http.StatusUnauthorized, msgAuthRequired)
		c.Abort()
		return
	}
	principal, err := m.Service.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) && m.Logger != nil {
			m.Logger.ErrorContext(c.Request.Context(), "admin authentication error", "error", err)
		}
		c.Header("WWW-Authenticate", adminRealm)
		c.String(http.StatusUnauthorized, msgBadCredentials)
		c.Abort()
		return
	}
	c.Request = c.Request.WithContext(domainauth.ContextWithPrincipal(c.Request.Context(), principal))
	c.Next()
}
