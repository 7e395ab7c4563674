package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizlink/bizlink-admin/internal/config"
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/pkg/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateAccessToken creates a signed JWT access token for the member.
func GenerateAccessToken(cfg *config.Config, m *models.Member, ttl time.Duration) (string, error) {
	if cfg.JWT.Secret == "" {
		return "", errors.New("jwt secret not configured")
	}
	role := m.Role
	if role == "" {
		role = models.RoleMember
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   m.ID.Hex(),
		"name":  m.FullName(),
		"email": m.Email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// ParseAccessToken validates signature, algorithm and expiry and returns the claims.
func ParseAccessToken(secret, raw string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// ExpiresIn returns the remaining lifetime of a token, zero when expired or unknown.
func ExpiresIn(claims jwt.MapClaims) time.Duration {
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	if d := time.Until(exp.Time); d > 0 {
		return d
	}
	return 0
}

// HMACVerifier verifies tokens issued by GenerateAccessToken. It satisfies
// middleware.Verifier.
type HMACVerifier struct {
	secret string
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: secret}
}

func (v *HMACVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims, err := ParseAccessToken(v.secret, raw)
	if err != nil {
		return nil, err
	}
	return verified(claims), nil
}

type verified jwt.MapClaims

func (t verified) Claims(v interface{}) error {
	return middleware.DecodeClaims(map[string]interface{}(t), v)
}
