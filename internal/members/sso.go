package members

import (
	"context"

	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/pkg/middleware"
)

// SSOVerifier verifies tokens with an upstream verifier (the admin OIDC
// realm) and rewrites the subject to the matching member id so downstream
// handlers only ever see member ids.
type SSOVerifier struct {
	upstream middleware.Verifier
	svc      *Service
}

func NewSSOVerifier(upstream middleware.Verifier, svc *Service) *SSOVerifier {
	return &SSOVerifier{upstream: upstream, svc: svc}
}

func (v *SSOVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	tok, err := v.upstream.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		return nil, err
	}
	m, err := v.svc.UpsertFromClaims(ctx, claims, hasRealmRole(claims, models.RoleAdmin))
	if err != nil {
		return nil, err
	}
	claims["sso_sub"] = claims["sub"]
	claims["sub"] = m.ID.Hex()
	claims["role"] = m.Role
	return mapToken(claims), nil
}

func hasRealmRole(claims map[string]interface{}, role string) bool {
	ra, ok := claims["realm_access"].(map[string]interface{})
	if !ok {
		return false
	}
	roles, _ := ra["roles"].([]interface{})
	for _, r := range roles {
		if s, _ := r.(string); s == role {
			return true
		}
	}
	return false
}

type mapToken map[string]interface{}

func (t mapToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = map[string]interface{}(t)
		return nil
	}
	return middleware.DecodeClaims(map[string]interface{}(t), v)
}
