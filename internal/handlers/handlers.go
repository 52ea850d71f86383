package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck/taskdeck/internal/auth"
	"gorm.io/gorm"
)

// Handler carries the shared dependencies every endpoint needs:
// the database handle, the token manager and the cookie domain.
// Constructed once in the router, no package-level state.
type Handler struct {
	DB     *gorm.DB
	Tokens *auth.TokenManager
	Domain string
}

func New(db *gorm.DB, tokens *auth.TokenManager, domain string) *Handler {
	return &Handler{DB: db, Tokens: tokens, Domain: domain}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *Handler) setAuthCookie(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   h.Domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
