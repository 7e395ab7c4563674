package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bizlink/bizlink-admin/internal/sessions"
	"github.com/bizlink/bizlink-admin/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	KeyClaims   = "claims"
	KeyMemberID = "memberId"
	KeyRole     = "role"
	KeyToken    = "accessToken"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// DecodeClaims copies a claims map into v through its JSON form, the
// contract *oidc.IDToken offers.
func DecodeClaims(claims map[string]interface{}, v interface{}) error {
	b, err := json.Marshal(claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// ChainVerifier tries each verifier in order and returns the first success.
type ChainVerifier []Verifier

func (cv ChainVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	var errs []error
	for _, v := range cv {
		if v == nil {
			continue
		}
		tok, err := v.Verify(ctx, raw)
		if err == nil {
			return tok, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, errors.New("no token verifier configured")
	}
	return nil, errors.Join(errs...)
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using the provided verifier
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return authenticate(ver, "")
}

// CookieAuthMiddleware accepts the token from the Authorization header or,
// when absent, from the named cookie.
func CookieAuthMiddleware(ver Verifier, cookie string) gin.HandlerFunc {
	return authenticate(ver, cookie)
}

func abort(c *gin.Context, status int, msg string) {
	code := "UNAUTHORIZED"
	switch status {
	case http.StatusForbidden:
		code = "FORBIDDEN"
	case http.StatusInternalServerError:
		code = "SERVER_ERROR"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": code})
}

func bearer(c *gin.Context, cookie string) (string, string) {
	auth := c.GetHeader("Authorization")
	if auth != "" {
		// Expect 'Bearer <token>'
		scheme, token, ok := strings.Cut(auth, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", "invalid Authorization header"
		}
		return token, ""
	}
	if cookie != "" {
		if v, err := c.Cookie(cookie); err == nil && v != "" {
			return v, ""
		}
	}
	return "", "missing Authorization header"
}

func authenticate(ver Verifier, cookie string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, problem := bearer(c, cookie)
		if problem != "" {
			abort(c, http.StatusUnauthorized, problem)
			return
		}

		revoked, err := sessions.IsAccessTokenBlacklisted(c.Request.Context(), token)
		if err != nil {
			logger.Errorf("blacklist lookup: %v", err)
			abort(c, http.StatusInternalServerError, "token check failed")
			return
		}
		if revoked {
			abort(c, http.StatusUnauthorized, "token revoked")
			return
		}

		idToken, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Debugf("token rejected: %v", err)
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		// Extract claims
		var claims map[string]interface{}
		if err := idToken.Claims(&claims); err != nil {
			abort(c, http.StatusUnauthorized, "failed to parse claims")
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			abort(c, http.StatusUnauthorized, "token has no subject")
			return
		}

		c.Set(KeyClaims, claims)
		c.Set(KeyMemberID, sub)
		c.Set(KeyRole, roleFromClaims(claims))
		c.Set(KeyToken, token)
		c.Next()
	}
}

// roleFromClaims reads the `role` claim of our own tokens and falls back to
// Keycloak's realm_access.roles for SSO tokens.
func roleFromClaims(claims map[string]interface{}) string {
	if r, ok := claims["role"].(string); ok && r != "" {
		return r
	}
	if ra, ok := claims["realm_access"].(map[string]interface{}); ok {
		if roles, ok := ra["roles"].([]interface{}); ok {
			for _, r := range roles {
				if s, _ := r.(string); s == "admin" {
					return "admin"
				}
			}
		}
	}
	return "member"
}

// RequireRole rejects requests whose authenticated role is not one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := Role(c)
		if got == "" {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		for _, r := range roles {
			if got == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "insufficient role")
	}
}

// MemberID returns the authenticated member id, or "" for anonymous requests.
func MemberID(c *gin.Context) string { return c.GetString(KeyMemberID) }

// Role returns the authenticated role, or "".
func Role(c *gin.Context) string { return c.GetString(KeyRole) }

// RawToken returns the bearer token the request was authenticated with.
func RawToken(c *gin.Context) string { return c.GetString(KeyToken) }
