package ginserver

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	gin "github.com/gin-gonic/gin"
)

const msgRouteNotFound = "Rota nao encontrada."

// staticSite serves the catalog frontend from dir on unmatched GET routes.
// Files under /admin/ require the admin guard.
type staticSite struct {
	dir   string
	guard gin.HandlerFunc
}

func (s staticSite) serve(c *gin.Context) {
	method := c.Request.Method
	clean := path.Clean("/" + c.Request.URL.Path)
	if s.dir == "" || (method != http.MethodGet && method != http.MethodHead) || strings.HasPrefix(clean, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": msgRouteNotFound})
		return
	}
	if clean == "/admin" || strings.HasPrefix(clean, "/admin/") {
		if s.guard != nil {
			s.guard(c)
			if c.IsAborted() {
				return
			}
		}
	}
	full := filepath.Join(s.dir, filepath.FromSlash(clean))
	info, err := os.Stat(full)
	if err == nil && info.IsDir() {
		full = filepath.Join(full, "index.html")
		info, err = os.Stat(full)
	}
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": msgRouteNotFound})
		return
	}
	c.File(full)
}

func dirExists(dir string) bool {
	if dir == "" {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
