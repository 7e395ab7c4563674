package handlers

import (
	"net/http"
	"time"

	"github.com/bizlink/bizlink-admin/internal/apperr"
	"github.com/bizlink/bizlink-admin/internal/config"
	"github.com/bizlink/bizlink-admin/internal/members"
	"github.com/bizlink/bizlink-admin/internal/sessions"
	"github.com/bizlink/bizlink-admin/internal/tokens"
	"github.com/bizlink/bizlink-admin/pkg/logger"
	"github.com/bizlink/bizlink-admin/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg     *config.Config
	members *members.Service
}

func NewAuthHandler(cfg *config.Config, m *members.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, members: m}
}

// Register routes under /auth; rg must be authenticated.
func (h *AuthHandler) Register(rg gin.IRouter) {
	a := rg.Group("/auth")
	a.GET("/me", h.Me)
	a.POST("/logout", h.Logout)
}

// Me returns the member record behind the presented token.
func (h *AuthHandler) Me(c *gin.Context) {
	m, err := h.members.Get(c.Request.Context(), middleware.MemberID(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": m, "role": middleware.Role(c)})
}

// Logout blacklists the current access token for the rest of its lifetime
// and clears the auth cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	raw := middleware.RawToken(c)
	if raw == "" {
		apperr.Respond(c, apperr.New(apperr.KindUnauthorized, "authentication required"))
		return
	}
	ttl := time.Duration(0)
	if claims, ok := c.Get(middleware.KeyClaims); ok {
		if m, ok := claims.(map[string]interface{}); ok {
			ttl = tokens.ExpiresIn(jwt.MapClaims(m))
		}
	}
	if ttl <= 0 {
		// no usable exp claim: keep it blocked for a full token lifetime
		ttl = h.cfg.JWT.AccessTokenTTL
	}
	if err := sessions.BlacklistAccessToken(c.Request.Context(), raw, ttl); err != nil {
		logger.Errorf("blacklist access token: %v", err)
		apperr.Respond(c, apperr.Internal(err))
		return
	}
	if name := h.cfg.JWT.CookieName; name != "" {
		c.SetCookie(name, "", -1, "/", "", h.cfg.Server.Environment == "production", true)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
